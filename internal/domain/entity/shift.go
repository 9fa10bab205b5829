package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tillworks/checkout-api/internal/domain/enum"
)

// Shift represents a cashier's working period. A cashier sale can only be
// recorded against an open shift.
type Shift struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	BusinessID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"business_id"`
	Status       enum.ShiftStatus `gorm:"default:0;index" json:"status"`
	OpeningFloat int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	OpenedAt     time.Time        `gorm:"not null" json:"opened_at"`
	ClosedAt     *time.Time       `json:"closed_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Shift) MarshalJSON() ([]byte, error) {
	type Alias Shift
	return json.Marshal(&struct {
		Alias
		OpeningFloat float64 `json:"opening_float"`
	}{
		Alias:        Alias(s),
		OpeningFloat: float64(s.OpeningFloat) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new shift
func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Shift model
func (Shift) TableName() string {
	return "shifts"
}

// IsOpen reports whether the shift can accept sales.
func (s *Shift) IsOpen() bool {
	return s.Status == enum.ShiftStatusOpen
}
