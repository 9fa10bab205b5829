package request

import "github.com/google/uuid"

// AddItemRequest adds a line to the cart. Exactly one of product_id or
// category_id must be set; prices are decimal currency amounts.
type AddItemRequest struct {
	ProductID   *uuid.UUID `json:"product_id"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Quantity    int        `json:"quantity" binding:"omitempty,min=1"`
	Weight      float64    `json:"weight" binding:"omitempty,gt=0"`
	CustomPrice *float64   `json:"custom_price" binding:"omitempty,gt=0"`
	AgeVerified bool       `json:"age_verified"`
}
