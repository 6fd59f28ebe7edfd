package database

import (
	"log"
	"strings"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AdminSeed describes the account created on first start when no admin
// exists. An empty Password skips seeding.
type AdminSeed struct {
	Email      string
	Password   string
	FullName   string
	BcryptCost int
}

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	return db
}

// Migrate creates or updates every table, parents before children.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Room{},
		&models.Booking{},
		&models.Attendance{},
		&models.MessMenu{},
		&models.Hostel{},
		&models.Complaint{},
	); err != nil {
		return err
	}

	// Partial unique index: a student holds at most one pending or approved booking
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_active_user
		ON bookings (user_id)
		WHERE status IN ('pending', 'approved')
	`).Error
}

// SeedAdmin creates the configured admin unless one already exists.
func SeedAdmin(db *gorm.DB, seed AdminSeed) {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		log.Printf("[Seed] count admins: %v", err)
		return
	}
	if count > 0 {
		return
	}
	if seed.Password == "" {
		log.Println("[Seed] no admin exists and ADMIN_PASSWORD is empty, skipping")
		return
	}

	hash, err := repository.HashPassword(seed.Password, seed.BcryptCost)
	if err != nil {
		log.Printf("[Seed] hash admin password: %v", err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	admin := models.User{
		Email:        email,
		FullName:     seed.FullName,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("[Seed] create admin %s: %v", email, err)
		return
	}
	log.Printf("[Seed] default admin %s seeded", email)
}
