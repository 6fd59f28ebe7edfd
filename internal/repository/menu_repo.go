package repository

import (
	"context"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuRepository interface {
	Create(ctx context.Context, menu *models.MessMenu) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MessMenu, error)
	// List returns every row; pass a day to restrict it.
	List(ctx context.Context, day string) ([]models.MessMenu, error)
	Update(ctx context.Context, menu *models.MessMenu) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, menu *models.MessMenu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

func (r *menuRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.MessMenu, error) {
	var menu models.MessMenu
	if err := r.db.WithContext(ctx).First(&menu, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) List(ctx context.Context, day string) ([]models.MessMenu, error) {
	var menus []models.MessMenu
	q := r.db.WithContext(ctx)
	if day != "" {
		q = q.Where("day_of_week = ?", day)
	}
	err := q.Order("day_of_week ASC, meal_type ASC").Find(&menus).Error
	return menus, err
}

func (r *menuRepository) Update(ctx context.Context, menu *models.MessMenu) error {
	return r.db.WithContext(ctx).
		Model(menu).
		Select("day_of_week", "meal_type", "items", "updated_at").
		Updates(menu).Error
}

func (r *menuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.MessMenu{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
