package repository

import (
	"context"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository interface {
	FindByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date datatypes.Date) (*models.Attendance, error)
	// Upsert inserts row, or on a (user_id, date) conflict overwrites only
	// column on the existing row. column is "check_in" or "check_out".
	Upsert(ctx context.Context, tx *gorm.DB, row *models.Attendance, column string) error
	List(ctx context.Context, date *datatypes.Date) ([]models.Attendance, error)
	CountForDate(ctx context.Context, date datatypes.Date) (checkedIn, checkedOut int64, err error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) FindByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date datatypes.Date) (*models.Attendance, error) {
	var row models.Attendance
	err := conn(r.db, tx).WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND date = ?", userID, date).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *attendanceRepository) Upsert(ctx context.Context, tx *gorm.DB, row *models.Attendance, column string) error {
	return conn(r.db, tx).WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
		}).
		Create(row).Error
}

func (r *attendanceRepository) List(ctx context.Context, date *datatypes.Date) ([]models.Attendance, error) {
	var rows []models.Attendance
	q := r.db.WithContext(ctx).Preload("User")
	if date != nil {
		q = q.Where("date = ?", *date)
	}
	err := q.Order("date DESC, created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *attendanceRepository) CountForDate(ctx context.Context, date datatypes.Date) (int64, int64, error) {
	var counts struct {
		CheckedIn  int64
		CheckedOut int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Select("COUNT(check_in) AS checked_in, COUNT(check_out) AS checked_out").
		Where("date = ?", date).
		Scan(&counts).Error
	return counts.CheckedIn, counts.CheckedOut, err
}
