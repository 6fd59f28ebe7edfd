package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ActiveBookingStatuses occupy a bed.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingApproved}

func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingApproved
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentComplete PaymentStatus = "complete"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentComplete, PaymentRefunded:
		return true
	}
	return false
}

type Booking struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	RoomID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"room_id"`
	StartDate     datatypes.Date `gorm:"not null" json:"start_date"`
	EndDate       datatypes.Date `gorm:"not null" json:"end_date"`
	PaymentStatus PaymentStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	Status        BookingStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Room *Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
