package pricing

import (
	"math"

	"github.com/tillworks/checkout-api/pkg/apperror"
)

// Amounts holds the priced totals for a single cart line, in cents.
// Total is always Subtotal + Tax exactly, after currency rounding.
type Amounts struct {
	Subtotal int64 `json:"sub_total"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// UnitItem prices a line sold by count: unitPrice cents times quantity,
// with tax computed from the line subtotal. Rounding happens here, at the
// point of computation, so repeated additions cannot drift.
func UnitItem(unitPrice int64, quantity int, taxRate float64) (Amounts, error) {
	if unitPrice <= 0 {
		return Amounts{}, apperror.NewFieldError("unit_price", "must be greater than zero")
	}
	if quantity <= 0 {
		return Amounts{}, apperror.NewFieldError("quantity", "must be greater than zero")
	}
	if taxRate < 0 {
		return Amounts{}, apperror.NewFieldError("tax_rate", "must not be negative")
	}

	subtotal := unitPrice * int64(quantity)
	return withTax(subtotal, taxRate), nil
}

// WeightItem prices a line sold by weight: pricePerUnit cents per unit of
// measure times the weighed amount.
func WeightItem(pricePerUnit int64, weight float64, taxRate float64) (Amounts, error) {
	if pricePerUnit <= 0 {
		return Amounts{}, apperror.NewFieldError("unit_price", "must be greater than zero")
	}
	if weight <= 0 {
		return Amounts{}, apperror.NewFieldError("weight", "must be greater than zero")
	}
	if taxRate < 0 {
		return Amounts{}, apperror.NewFieldError("tax_rate", "must not be negative")
	}

	subtotal := roundCents(float64(pricePerUnit) * weight)
	return withTax(subtotal, taxRate), nil
}

// Custom prices a flat-amount line (generic items, category quick sale).
func Custom(customPrice int64, taxRate float64) (Amounts, error) {
	if customPrice <= 0 {
		return Amounts{}, apperror.NewFieldError("custom_price", "must be greater than zero")
	}
	if taxRate < 0 {
		return Amounts{}, apperror.NewFieldError("tax_rate", "must not be negative")
	}

	return withTax(customPrice, taxRate), nil
}

func withTax(subtotal int64, taxRate float64) Amounts {
	tax := roundCents(float64(subtotal) * taxRate)
	return Amounts{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
