package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the catalogue read model the cart needs: price, tax rate and
// restrictions at add time. Catalogue management itself happens elsewhere.
type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID  `gorm:"type:uuid;not null;index" json:"business_id"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	Barcode    *string    `gorm:"size:100;index" json:"barcode,omitempty"`
	Price      int64      `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	// TaxRate is a fraction, e.g. 0.08 for 8%.
	TaxRate      float64 `gorm:"default:0" json:"tax_rate"`
	SoldByWeight bool    `gorm:"default:false" json:"sold_by_weight"`
	WeightUnit   string  `gorm:"size:10;default:'kg'" json:"weight_unit"`
	// AgeRestriction is the minimum buyer age, 0 when unrestricted.
	AgeRestriction int            `gorm:"default:0" json:"age_restriction"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(p),
		Price: float64(p.Price) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Category represents a product grouping. Categories with a quick-sale
// price can be sold directly as flat-priced lines.
type Category struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index" json:"business_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	// QuickSalePrice enables selling the category as a generic line
	// without picking a product. Cents; nil disables quick sale.
	QuickSalePrice *int64         `json:"-"`
	TaxRate        float64        `gorm:"default:0" json:"tax_rate"`
	AgeRestriction int            `gorm:"default:0" json:"age_restriction"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c Category) MarshalJSON() ([]byte, error) {
	type Alias Category
	out := &struct {
		Alias
		QuickSalePrice *float64 `json:"quick_sale_price,omitempty"`
	}{Alias: Alias(c)}
	if c.QuickSalePrice != nil {
		v := float64(*c.QuickSalePrice) / 100
		out.QuickSalePrice = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
