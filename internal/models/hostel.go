package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type HostelSize string

const (
	HostelSmall  HostelSize = "small"
	HostelMedium HostelSize = "medium"
	HostelLarge  HostelSize = "large"
)

type LocationTier string

const (
	Tier1 LocationTier = "tier1"
	Tier2 LocationTier = "tier2"
	Tier3 LocationTier = "tier3"
)

type Hostel struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"owner_id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Address        string         `gorm:"type:text;not null" json:"address"`
	City           string         `gorm:"type:varchar(120);not null;index" json:"city"`
	Size           HostelSize     `gorm:"type:varchar(10);not null" json:"size"`
	LocationTier   LocationTier   `gorm:"type:varchar(10);not null" json:"location_tier"`
	CommissionRate float64        `gorm:"not null" json:"commission_rate"`
	IsVerified     bool           `gorm:"not null;default:false" json:"is_verified"`
	IsApproved     bool           `gorm:"not null;default:false;index" json:"is_approved"`
	Photos         pq.StringArray `gorm:"type:text[]" json:"photos"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
}

func (h *Hostel) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
