package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MyRoom is a student's active assignment with the other occupants.
type MyRoom struct {
	Booking   *models.Booking
	Room      *models.Room
	Roommates []models.User
}

type StudentService interface {
	List(ctx context.Context, q string) ([]models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateStudentRequest) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MyRoom(ctx context.Context, userID uuid.UUID) (*MyRoom, error)
}

type studentService struct {
	tx         repository.Transactor
	users      repository.UserRepository
	bookings   repository.BookingRepository
	pub        realtime.Publisher
	bcryptCost int
}

func NewStudentService(tx repository.Transactor, users repository.UserRepository, bookings repository.BookingRepository, pub realtime.Publisher, bcryptCost int) StudentService {
	return &studentService{tx: tx, users: users, bookings: bookings, pub: pub, bcryptCost: bcryptCost}
}

func StudentSearchFields(u models.User) []string {
	return []string{u.FullName, u.Email, u.Phone}
}

func (s *studentService) List(ctx context.Context, q string) ([]models.User, error) {
	users, err := s.users.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return domain.Filter(users, q, StudentSearchFields), nil
}

func (s *studentService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, ErrStudentNotFound
	}
	return user, nil
}

func (s *studentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.User, error) {
	hash, err := repository.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         models.RoleStudent,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, nil, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create student: %w", err)
	}
	realtime.Emit(s.pub, realtime.TableUsers, realtime.Insert, dto.ToUserResponse(user), nil)
	return user, nil
}

func (s *studentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateStudentRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	old := dto.ToUserResponse(user)
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if err := s.users.Update(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update student: %w", err)
	}
	realtime.Emit(s.pub, realtime.TableUsers, realtime.Update, dto.ToUserResponse(user), old)
	return user, nil
}

func (s *studentService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		_, err := s.bookings.FindActiveByUser(ctx, tx, id, uuid.Nil)
		if err == nil {
			return ErrStudentHasBookings
		}
		if !repository.IsNotFound(err) {
			return err
		}
		return s.users.Delete(ctx, tx, id)
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrStudentNotFound
		}
		return err
	}
	realtime.Emit(s.pub, realtime.TableUsers, realtime.Delete, nil, dto.ToUserResponse(user))
	return nil
}

func (s *studentService) MyRoom(ctx context.Context, userID uuid.UUID) (*MyRoom, error) {
	booking, err := s.bookings.FindActiveByUser(ctx, nil, userID, uuid.Nil)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveRoom
		}
		return nil, err
	}
	roomID := booking.RoomID
	sharing, err := s.bookings.List(ctx, repository.BookingFilter{
		RoomID:   &roomID,
		Statuses: models.ActiveBookingStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("list roommates: %w", err)
	}
	mates := make([]models.User, 0, len(sharing))
	for _, b := range sharing {
		if b.UserID == userID || b.User == nil {
			continue
		}
		mates = append(mates, *b.User)
	}
	return &MyRoom{Booking: booking, Room: booking.Room, Roommates: mates}, nil
}
