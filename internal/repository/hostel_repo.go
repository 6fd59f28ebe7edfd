package repository

import (
	"context"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type HostelFilter struct {
	Approved *bool
	City     string
}

type HostelRepository interface {
	Create(ctx context.Context, hostel *models.Hostel) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Hostel, error)
	List(ctx context.Context, filter HostelFilter) ([]models.Hostel, error)
	CountPending(ctx context.Context) (int64, error)
	Update(ctx context.Context, hostel *models.Hostel) error
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) error
	// AppendPhotos adds urls to the hostel's photos in one statement.
	AppendPhotos(ctx context.Context, id uuid.UUID, urls []string) error
	RemovePhoto(ctx context.Context, id uuid.UUID, url string) error
}

type hostelRepository struct {
	db *gorm.DB
}

func NewHostelRepository(db *gorm.DB) HostelRepository {
	return &hostelRepository{db: db}
}

func (r *hostelRepository) Create(ctx context.Context, hostel *models.Hostel) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(hostel).Error
}

func (r *hostelRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	var hostel models.Hostel
	if err := r.db.WithContext(ctx).First(&hostel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &hostel, nil
}

func (r *hostelRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Hostel, error) {
	var hostel models.Hostel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&hostel).Error; err != nil {
		return nil, err
	}
	return &hostel, nil
}

func (r *hostelRepository) List(ctx context.Context, filter HostelFilter) ([]models.Hostel, error) {
	var hostels []models.Hostel
	q := r.db.WithContext(ctx)
	if filter.Approved != nil {
		q = q.Where("is_approved = ?", *filter.Approved)
	}
	if filter.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", filter.City)
	}
	err := q.Order("created_at DESC, id ASC").Find(&hostels).Error
	return hostels, err
}

func (r *hostelRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Hostel{}).Where("is_approved = ?", false).Count(&count).Error
	return count, err
}

func (r *hostelRepository) Update(ctx context.Context, hostel *models.Hostel) error {
	return r.db.WithContext(ctx).
		Model(hostel).
		Select("name", "address", "city", "size", "location_tier", "commission_rate", "updated_at").
		Updates(hostel).Error
}

// SetApproval sets is_approved and is_verified together.
func (r *hostelRepository) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Hostel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_approved": approved, "is_verified": approved})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *hostelRepository) AppendPhotos(ctx context.Context, id uuid.UUID, urls []string) error {
	return r.db.WithContext(ctx).
		Model(&models.Hostel{}).
		Where("id = ?", id).
		Update("photos", gorm.Expr("array_cat(COALESCE(photos, '{}'), ?::text[])", pq.StringArray(urls))).Error
}

func (r *hostelRepository) RemovePhoto(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.Hostel{}).
		Where("id = ?", id).
		Update("photos", gorm.Expr("array_remove(photos, ?)", url)).Error
}
