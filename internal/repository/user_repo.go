package repository

import (
	"context"
	"strings"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	// SetRoleIfEmpty assigns role only while the stored role is still empty.
	// It reports whether a row was changed.
	SetRoleIfEmpty(ctx context.Context, id uuid.UUID, role models.Role) (bool, error)
	// VerifyPassword reports whether email exists and password matches its hash.
	VerifyPassword(ctx context.Context, email, password string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return conn(r.db, tx).WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("full_name ASC, id ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return r.db.WithContext(ctx).
		Model(user).
		Select("email", "full_name", "phone", "updated_at").
		Updates(user).Error
}

func (r *userRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(r.db, tx).WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) SetRoleIfEmpty(ctx context.Context, id uuid.UUID, role models.Role) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", id, models.RoleNone).
		Update("role", role)
	return res.RowsAffected == 1, res.Error
}

func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return checkPassword(user.PasswordHash, password), nil
}
