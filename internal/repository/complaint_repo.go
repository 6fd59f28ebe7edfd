package repository

import (
	"context"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	// List returns all complaints, or only userID's when it is not nil.
	List(ctx context.Context, userID *uuid.UUID) ([]models.Complaint, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus) error
}

type complaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(complaint).Error
}

func (r *complaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.WithContext(ctx).Preload("User").First(&complaint, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) List(ctx context.Context, userID *uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	q := r.db.WithContext(ctx).Preload("User")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	err := q.Order("created_at DESC, id ASC").Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
