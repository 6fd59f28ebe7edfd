package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnacks    MealType = "snacks"
	MealDinner    MealType = "dinner"
)

type MessMenu struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DayOfWeek string         `gorm:"type:varchar(10);not null;uniqueIndex:idx_menu_day_meal" json:"day_of_week"`
	MealType  MealType       `gorm:"type:varchar(10);not null;uniqueIndex:idx_menu_day_meal" json:"meal_type"`
	Items     pq.StringArray `gorm:"type:text[];not null" json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (MessMenu) TableName() string { return "mess_menu" }

func (m *MessMenu) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
