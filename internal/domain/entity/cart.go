package entity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tillworks/checkout-api/internal/domain/enum"
)

// CartSession is the mutable basket for one customer's in-progress sale.
// It is exclusively owned by the cashier who created it and transitions
// Active -> Completed exactly once, by the completion pipeline.
type CartSession struct {
	ID         uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	ShiftID    *uuid.UUID         `gorm:"type:uuid;index" json:"shift_id,omitempty"` // nil for admin-mode sales
	BusinessID uuid.UUID          `gorm:"type:uuid;not null;index" json:"business_id"`
	Status     enum.SessionStatus `gorm:"default:0;index" json:"status"`
	SubTotal   int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tax        int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	DeletedAt  gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	User  User       `gorm:"foreignKey:UserID" json:"-"`
	Items []CartItem `gorm:"foreignKey:SessionID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s CartSession) MarshalJSON() ([]byte, error) {
	type Alias CartSession
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(s),
		SubTotal: float64(s.SubTotal) / 100,
		Tax:      float64(s.Tax) / 100,
		Total:    float64(s.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new cart session
func (s *CartSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CartSession model
func (CartSession) TableName() string {
	return "cart_sessions"
}

// IsActive reports whether the session can still be mutated.
func (s *CartSession) IsActive() bool {
	return s.Status == enum.SessionStatusActive
}

// LineTarget is a tagged variant pointing a cart line at exactly one of a
// product or a category. Constructing it through the helpers makes a line
// with both, or neither, unrepresentable.
type LineTarget struct {
	productID  *uuid.UUID
	categoryID *uuid.UUID
}

// ErrInvalidLineTarget is returned when a stored row violates the
// exactly-one rule (legacy or hand-edited data).
var ErrInvalidLineTarget = errors.New("cart line must reference exactly one of product or category")

// ProductTarget points a line at a catalogue product.
func ProductTarget(id uuid.UUID) LineTarget {
	return LineTarget{productID: &id}
}

// CategoryTarget points a line at a category quick sale.
func CategoryTarget(id uuid.UUID) LineTarget {
	return LineTarget{categoryID: &id}
}

// Product returns the product id and true when the target is a product.
func (t LineTarget) Product() (uuid.UUID, bool) {
	if t.productID != nil {
		return *t.productID, true
	}
	return uuid.Nil, false
}

// Category returns the category id and true when the target is a category.
func (t LineTarget) Category() (uuid.UUID, bool) {
	if t.categoryID != nil {
		return *t.categoryID, true
	}
	return uuid.Nil, false
}

// CartItem is one priced entry in a cart session
type CartItem struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SessionID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	Kind       enum.ItemKind  `gorm:"default:0" json:"kind"`
	ProductID  *uuid.UUID     `gorm:"type:uuid;index" json:"product_id,omitempty"`
	CategoryID *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Quantity   int            `gorm:"default:0" json:"quantity"`
	Weight     float64        `gorm:"default:0" json:"weight,omitempty"`
	WeightUnit string         `gorm:"size:10" json:"weight_unit,omitempty"`
	UnitPrice  int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	// TaxRate is captured at add time and never recalculated if catalogue
	// rates change afterwards.
	TaxRate        float64        `gorm:"default:0" json:"tax_rate"`
	SubTotal       int64          `gorm:"default:0" json:"-"`
	Tax            int64          `gorm:"default:0" json:"-"`
	Total          int64          `gorm:"default:0" json:"-"`
	CustomPrice    *int64         `json:"-"` // Cents; set for generic items and category quick sales
	AgeRestriction int            `gorm:"default:0" json:"age_restriction"`
	AgeVerified    bool           `gorm:"default:false" json:"age_verified"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Session  CartSession `gorm:"foreignKey:SessionID" json:"-"`
	Product  *Product    `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Category *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i CartItem) MarshalJSON() ([]byte, error) {
	type Alias CartItem
	out := &struct {
		Alias
		UnitPrice   float64  `json:"unit_price"`
		SubTotal    float64  `json:"sub_total"`
		Tax         float64  `json:"tax"`
		Total       float64  `json:"total"`
		CustomPrice *float64 `json:"custom_price,omitempty"`
	}{
		Alias:     Alias(i),
		UnitPrice: float64(i.UnitPrice) / 100,
		SubTotal:  float64(i.SubTotal) / 100,
		Tax:       float64(i.Tax) / 100,
		Total:     float64(i.Total) / 100,
	}
	if i.CustomPrice != nil {
		v := float64(*i.CustomPrice) / 100
		out.CustomPrice = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new cart item
func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}

// Target reconstructs the line target from the stored columns.
func (i *CartItem) Target() (LineTarget, error) {
	switch {
	case i.ProductID != nil && i.CategoryID == nil:
		return ProductTarget(*i.ProductID), nil
	case i.CategoryID != nil && i.ProductID == nil:
		return CategoryTarget(*i.CategoryID), nil
	default:
		return LineTarget{}, ErrInvalidLineTarget
	}
}

// SetTarget writes the target back to the stored columns.
func (i *CartItem) SetTarget(t LineTarget) error {
	if id, ok := t.Product(); ok {
		i.ProductID = &id
		i.CategoryID = nil
		return nil
	}
	if id, ok := t.Category(); ok {
		i.CategoryID = &id
		i.ProductID = nil
		return nil
	}
	return ErrInvalidLineTarget
}

// SameTarget reports whether the item points at the given target with the
// same kind; used by the merge rule in the cart manager.
func (i *CartItem) SameTarget(kind enum.ItemKind, t LineTarget) bool {
	if i.Kind != kind {
		return false
	}
	own, err := i.Target()
	if err != nil {
		return false
	}
	if pid, ok := t.Product(); ok {
		opid, o := own.Product()
		return o && opid == pid
	}
	if cid, ok := t.Category(); ok {
		ocid, o := own.Category()
		return o && ocid == cid
	}
	return false
}
