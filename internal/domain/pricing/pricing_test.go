package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillworks/checkout-api/pkg/apperror"
)

func TestUnitItem(t *testing.T) {
	// 2.50 x 3 at 8% -> 7.50 + 0.60 = 8.10
	got, err := UnitItem(250, 3, 0.08)
	require.NoError(t, err)
	assert.Equal(t, int64(750), got.Subtotal)
	assert.Equal(t, int64(60), got.Tax)
	assert.Equal(t, int64(810), got.Total)
}

func TestUnitItemZeroTax(t *testing.T) {
	got, err := UnitItem(199, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(398), got.Subtotal)
	assert.Equal(t, int64(0), got.Tax)
	assert.Equal(t, int64(398), got.Total)
}

func TestWeightItem(t *testing.T) {
	// 4.00/kg x 0.345kg -> 1.38, 8% tax -> 0.11, total 1.49
	got, err := WeightItem(400, 0.345, 0.08)
	require.NoError(t, err)
	assert.Equal(t, int64(138), got.Subtotal)
	assert.Equal(t, int64(11), got.Tax)
	assert.Equal(t, int64(149), got.Total)
}

func TestCustom(t *testing.T) {
	got, err := Custom(1000, 0.16)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Subtotal)
	assert.Equal(t, int64(160), got.Tax)
	assert.Equal(t, int64(1160), got.Total)
}

func TestTotalIsSubtotalPlusTax(t *testing.T) {
	cases := []struct {
		price   int64
		qty     int
		taxRate float64
	}{
		{1, 1, 0.08},
		{99, 7, 0.16},
		{333, 3, 0.075},
		{12345, 11, 0.2},
	}
	for _, tc := range cases {
		got, err := UnitItem(tc.price, tc.qty, tc.taxRate)
		require.NoError(t, err)
		assert.Equal(t, got.Subtotal+got.Tax, got.Total)
		assert.Equal(t, tc.price*int64(tc.qty), got.Subtotal)
	}
}

func TestValidationNamesOffendingField(t *testing.T) {
	cases := []struct {
		name  string
		run   func() error
		field string
	}{
		{"zero unit price", func() error { _, err := UnitItem(0, 1, 0.08); return err }, "unit_price"},
		{"negative quantity", func() error { _, err := UnitItem(100, -1, 0.08); return err }, "quantity"},
		{"negative tax rate", func() error { _, err := UnitItem(100, 1, -0.01); return err }, "tax_rate"},
		{"zero weight", func() error { _, err := WeightItem(400, 0, 0.08); return err }, "weight"},
		{"zero price per unit", func() error { _, err := WeightItem(0, 1.5, 0.08); return err }, "unit_price"},
		{"zero custom price", func() error { _, err := Custom(0, 0.08); return err }, "custom_price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.Error(t, err)
			appErr := apperror.GetAppError(err)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			require.Len(t, appErr.Errors, 1)
			assert.Equal(t, tc.field, appErr.Errors[0].Field)
		})
	}
}
