package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Room struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RoomNumber    string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"room_number"`
	Floor         int            `gorm:"not null" json:"floor"`
	Capacity      int            `gorm:"not null;check:capacity > 0" json:"capacity"`
	PricePerMonth float64        `gorm:"not null;default:0" json:"price_per_month"`
	Amenities     pq.StringArray `gorm:"type:text[]" json:"amenities"`
	IsAvailable   bool           `gorm:"not null;default:true" json:"is_available"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
