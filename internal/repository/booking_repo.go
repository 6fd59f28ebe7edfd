package repository

import (
	"context"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingFilter struct {
	UserID   *uuid.UUID
	RoomID   *uuid.UUID
	Statuses []models.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	Update(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	// CountActiveByRoom counts pending and approved bookings on a room,
	// skipping exclude when it is not uuid.Nil.
	CountActiveByRoom(ctx context.Context, tx *gorm.DB, roomID, exclude uuid.UUID) (int64, error)
	FindActiveByUser(ctx context.Context, tx *gorm.DB, userID, exclude uuid.UUID) (*models.Booking, error)
	// FindExpired returns approved bookings whose end date is before day.
	FindExpired(ctx context.Context, tx *gorm.DB, day datatypes.Date) ([]models.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := conn(r.db, tx).WithContext(ctx).
		Preload("User").
		Preload("Room").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Preload("User").Preload("Room")
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.RoomID != nil {
		q = q.Where("room_id = ?", *filter.RoomID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	err := q.Order("created_at DESC, id ASC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) Update(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(booking).
		Select("room_id", "start_date", "end_date", "payment_status", "status", "updated_at").
		Omit(clause.Associations).
		Updates(booking).Error
}

func (r *bookingRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(r.db, tx).WithContext(ctx).Delete(&models.Booking{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) CountActiveByRoom(ctx context.Context, tx *gorm.DB, roomID, exclude uuid.UUID) (int64, error) {
	var count int64
	q := conn(r.db, tx).WithContext(ctx).
		Model(&models.Booking{}).
		Where("room_id = ? AND status IN ?", roomID, models.ActiveBookingStatuses)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *bookingRepository) FindActiveByUser(ctx context.Context, tx *gorm.DB, userID, exclude uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	q := conn(r.db, tx).WithContext(ctx).
		Preload("Room").
		Where("user_id = ? AND status IN ?", userID, models.ActiveBookingStatuses)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Order("start_date DESC").First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindExpired(ctx context.Context, tx *gorm.DB, day datatypes.Date) ([]models.Booking, error) {
	var bookings []models.Booking
	err := conn(r.db, tx).WithContext(ctx).
		Where("status = ? AND end_date < ?", models.BookingApproved, day).
		Order("room_id ASC, id ASC").
		Find(&bookings).Error
	return bookings, err
}
