package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, userID uuid.UUID) (*models.Attendance, error)
	CheckOut(ctx context.Context, userID uuid.UUID) (*models.Attendance, error)
	List(ctx context.Context, date *datatypes.Date, q string) ([]models.Attendance, error)
	Counters(ctx context.Context, date datatypes.Date) (dto.AttendanceCounters, error)
	Today() datatypes.Date
}

type attendanceService struct {
	tx         repository.Transactor
	attendance repository.AttendanceRepository
	users      repository.UserRepository
	pub        realtime.Publisher
	now        func() time.Time
}

func NewAttendanceService(tx repository.Transactor, attendance repository.AttendanceRepository, users repository.UserRepository, pub realtime.Publisher) AttendanceService {
	return &attendanceService{tx: tx, attendance: attendance, users: users, pub: pub, now: time.Now}
}

func AttendanceSearchFields(a models.Attendance) []string {
	if a.User == nil {
		return nil
	}
	return []string{a.User.FullName, a.User.Email}
}

func (s *attendanceService) Today() datatypes.Date {
	return dto.DateOf(s.now())
}

func (s *attendanceService) CheckIn(ctx context.Context, userID uuid.UUID) (*models.Attendance, error) {
	return s.mark(ctx, userID, "check_in")
}

func (s *attendanceService) CheckOut(ctx context.Context, userID uuid.UUID) (*models.Attendance, error) {
	return s.mark(ctx, userID, "check_out")
}

// mark writes one timestamp column of today's row. Repeated calls update the
// same row, so the row count per (user, date) stays at one.
func (s *attendanceService) mark(ctx context.Context, userID uuid.UUID, column string) (*models.Attendance, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, ErrStudentNotFound
	}

	at := s.now()
	now, day := at.UTC(), dto.DateOf(at)
	var before, after *models.Attendance

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		old, err := s.attendance.FindByUserAndDate(ctx, tx, userID, day)
		switch {
		case err == nil:
			before = old
		case !repository.IsNotFound(err):
			return err
		}

		row := &models.Attendance{UserID: userID, Date: day}
		if column == "check_in" {
			row.CheckIn = &now
		} else {
			row.CheckOut = &now
		}
		if err := s.attendance.Upsert(ctx, tx, row, column); err != nil {
			return err
		}
		after, err = s.attendance.FindByUserAndDate(ctx, tx, userID, day)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("mark %s: %w", column, err)
	}
	if after.User == nil {
		after.User = user
	}

	if before == nil {
		realtime.Emit(s.pub, realtime.TableAttendance, realtime.Insert, dto.ToAttendanceResponse(after), nil)
	} else {
		if before.User == nil {
			before.User = user
		}
		realtime.Emit(s.pub, realtime.TableAttendance, realtime.Update, dto.ToAttendanceResponse(after), dto.ToAttendanceResponse(before))
	}
	return after, nil
}

func (s *attendanceService) List(ctx context.Context, date *datatypes.Date, q string) ([]models.Attendance, error) {
	rows, err := s.attendance.List(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return domain.Filter(rows, q, AttendanceSearchFields), nil
}

func (s *attendanceService) Counters(ctx context.Context, date datatypes.Date) (dto.AttendanceCounters, error) {
	in, out, err := s.attendance.CountForDate(ctx, date)
	if err != nil {
		return dto.AttendanceCounters{}, fmt.Errorf("count attendance: %w", err)
	}
	return dto.AttendanceCounters{
		CheckedInToday:   int(in),
		CheckedOutToday:  int(out),
		CurrentlyOutside: domain.CurrentlyOutside(int(in), int(out)),
	}, nil
}
