package repository

import (
	"context"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
	Update(ctx context.Context, tx *gorm.DB, room *models.Room) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	SetAvailability(ctx context.Context, tx *gorm.DB, id uuid.UUID, available bool) error
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByIDForUpdate row-locks the room for the rest of tx. Booking writes on
// the same room serialise here.
func (r *roomRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) List(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).Order("room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) Update(ctx context.Context, tx *gorm.DB, room *models.Room) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(room).
		Select("room_number", "floor", "capacity", "price_per_month", "amenities", "is_available", "updated_at").
		Updates(room).Error
}

func (r *roomRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(r.db, tx).WithContext(ctx).Delete(&models.Room{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) SetAvailability(ctx context.Context, tx *gorm.DB, id uuid.UUID, available bool) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", id).
		Update("is_available", available).Error
}
