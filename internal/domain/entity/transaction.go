package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tillworks/checkout-api/internal/domain/enum"
)

// Transaction is the durable record of a completed sale. Created exactly
// once per cart session; never mutated except by an explicit void.
type Transaction struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNo  string     `gorm:"size:100;unique;not null" json:"receipt_no"`
	// The unique index on SessionID is the database backstop for the
	// at-most-one-completion-per-cart invariant.
	SessionID  uuid.UUID              `gorm:"type:uuid;uniqueIndex;not null" json:"session_id"`
	UserID     uuid.UUID              `gorm:"type:uuid;not null;index" json:"user_id"`
	ShiftID    *uuid.UUID             `gorm:"type:uuid;index" json:"shift_id,omitempty"`
	BusinessID uuid.UUID              `gorm:"type:uuid;not null;index" json:"business_id"`
	Method     enum.PaymentMethod     `gorm:"size:20;not null" json:"payment_method"`
	CashAmount int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CardAmount int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tendered   int64                  `gorm:"default:0" json:"-"` // Cash handed over, cents
	Change     int64                  `gorm:"default:0" json:"-"` // Cents
	Status     enum.TransactionStatus `gorm:"default:0;index" json:"status"`
	VoidReason *string                `gorm:"type:text" json:"void_reason,omitempty"`
	VoidedAt   *time.Time             `json:"voided_at,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
	DeletedAt  gorm.DeletedAt         `gorm:"index" json:"-"`

	// Relationships
	Session CartSession `gorm:"foreignKey:SessionID" json:"-"`
	User    User        `gorm:"foreignKey:UserID" json:"-"`
	Shift   *Shift      `gorm:"foreignKey:ShiftID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		CashAmount float64 `json:"cash_amount"`
		CardAmount float64 `json:"card_amount"`
		Tendered   float64 `json:"tendered"`
		Change     float64 `json:"change"`
	}{
		Alias:      Alias(t),
		CashAmount: float64(t.CashAmount) / 100,
		CardAmount: float64(t.CardAmount) / 100,
		Tendered:   float64(t.Tendered) / 100,
		Change:     float64(t.Change) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// Total returns the amount settled on the transaction, in cents.
func (t *Transaction) Total() int64 {
	return t.CashAmount + t.CardAmount
}
