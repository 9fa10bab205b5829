package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/pkg/apperror"
)

// completeCashSale drives a full sale through the pipeline and returns the
// result, so receipt tests run against a real recorded transaction.
func completeCashSale(t *testing.T, env *testEnv) *CompleteResult {
	t.Helper()
	session := env.newSession(t)
	env.addBeans(t, session.ID, 3)

	result, err := env.checkout.Complete(context.Background(), &CompleteInput{
		UserID:    env.cashier.ID,
		SessionID: session.ID,
		Method:    enum.PaymentMethodCash,
		Tendered:  1000,
	})
	require.NoError(t, err)
	return result
}

func TestComposeWeighedLine(t *testing.T) {
	env := newTestEnv(t)

	items := []entity.CartItem{
		{
			Kind:       enum.ItemKindWeight,
			Name:       "Apples",
			Weight:     0.345,
			WeightUnit: "kg",
			UnitPrice:  400,
			SubTotal:   138,
			Total:      138,
		},
	}
	txn := &entity.Transaction{
		ReceiptNo:  "RCP-TEST-1",
		Method:     enum.PaymentMethodCash,
		CashAmount: 138,
	}

	receipt := env.receipts.Compose(env.business, env.cashier, items, txn)
	require.Len(t, receipt.Lines, 1)
	line := receipt.Lines[0]
	assert.Equal(t, 0.345, line.Weight)
	assert.Equal(t, "kg", line.WeightUnit)
	assert.Equal(t, 0, line.Quantity)
	assert.InDelta(t, 1.38, line.Total, 0.001)
	assert.InDelta(t, 1.38, receipt.Total, 0.001)
}

func TestPrintReceipt(t *testing.T) {
	env := newTestEnv(t)
	result := completeCashSale(t, env)

	receipt, err := env.receipts.Print(context.Background(), env.cashier.ID, result.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Transaction.ReceiptNo, receipt.ReceiptNo)
	require.Len(t, env.printer.printed, 1)
	assert.Contains(t, string(env.printer.printed[0]), "Corner Market")
	assert.Contains(t, string(env.printer.printed[0]), receipt.ReceiptNo)
}

func TestPrintReceiptPrinterFailure(t *testing.T) {
	env := newTestEnv(t)
	result := completeCashSale(t, env)

	env.printer.mu.Lock()
	env.printer.err = os.ErrClosed
	env.printer.mu.Unlock()

	receipt, err := env.receipts.Print(context.Background(), env.cashier.ID, result.Transaction.ID)
	require.Error(t, err)
	// The receipt projection is still returned so the UI can offer a retry
	// or another disposition.
	require.NotNil(t, receipt)
	assert.Equal(t, result.Transaction.ReceiptNo, receipt.ReceiptNo)
}

func TestPrintReceiptOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := completeCashSale(t, env)

	other := &entity.User{
		BusinessID: env.business.ID,
		FirstName:  "Alex",
		LastName:   "Chen",
		Email:      "alex@example.com",
		Role:       enum.RoleCashier,
	}
	require.NoError(t, env.users.Create(ctx, other))

	_, err := env.receipts.Print(ctx, other.ID, result.Transaction.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	// Admins can reprint any cashier's receipt.
	_, err = env.receipts.Print(ctx, env.admin.ID, result.Transaction.ID)
	require.NoError(t, err)
}

func TestExportReceipt(t *testing.T) {
	env := newTestEnv(t)
	result := completeCashSale(t, env)

	receipt, path, err := env.receipts.Export(context.Background(), env.cashier.ID, result.Transaction.ID)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(contents)
	assert.Contains(t, text, receipt.ReceiptNo)
	assert.Contains(t, text, "Corner Market")
	assert.Contains(t, text, "3x Baked Beans")
	assert.Contains(t, text, "TOTAL:")
}

func TestEmailReceiptNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	result := completeCashSale(t, env)

	_, err := env.receipts.Email(context.Background(), env.cashier.ID, result.Transaction.ID, "customer@example.com")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestEmailReceiptRequiresAddress(t *testing.T) {
	env := newTestEnv(t)
	result := completeCashSale(t, env)

	_, err := env.receipts.Email(context.Background(), env.cashier.ID, result.Transaction.ID, "")
	require.Error(t, err)
}

func TestFinishOpensFreshSession(t *testing.T) {
	env := newTestEnv(t)
	result := completeCashSale(t, env)

	next, err := env.receipts.Finish(context.Background(), env.cashier.ID, env.business.ID)
	require.NoError(t, err)
	assert.True(t, next.IsActive())
	assert.NotEqual(t, result.Transaction.SessionID, next.ID)
	assert.Empty(t, next.Items)
}

func TestRenderReceiptText(t *testing.T) {
	r := &entity.Receipt{
		Header:        entity.ReceiptHeader{StoreName: "Corner Market"},
		ReceiptNo:     "RCP-20260831-120000-ABCD",
		Date:          "2026-08-31 12:00",
		Cashier:       "Jamie Okafor",
		PaymentMethod: "cash",
		Lines: []entity.ReceiptLine{
			{Name: "Baked Beans", Quantity: 3, UnitPrice: 2.50, Total: 7.50},
			{Name: "Apples", Weight: 0.345, WeightUnit: "kg", UnitPrice: 4.00, Total: 1.38},
		},
		SubTotal: 8.88,
		Tax:      0.60,
		Total:    9.48,
		Tendered: 10.00,
		Change:   0.52,
	}

	text := RenderReceiptText(r)
	assert.Contains(t, text, "Corner Market")
	assert.Contains(t, text, "3x Baked Beans")
	assert.Contains(t, text, "0.345kg Apples")
	assert.Contains(t, text, "9.48")
	assert.Contains(t, text, "Change:")
	assert.Contains(t, text, "Thank you for shopping with us!")
}

func TestRenderReceiptHTML(t *testing.T) {
	r := &entity.Receipt{
		Header:        entity.ReceiptHeader{StoreName: "Corner Market"},
		ReceiptNo:     "RCP-20260831-120000-ABCD",
		PaymentMethod: "card",
		Lines: []entity.ReceiptLine{
			{Name: "Baked Beans", Quantity: 1, UnitPrice: 2.50, Total: 2.50},
		},
		SubTotal: 2.50,
		Total:    2.70,
		Tax:      0.20,
	}

	html, err := RenderReceiptHTML(r)
	require.NoError(t, err)
	assert.Contains(t, html, "Corner Market")
	assert.Contains(t, html, "RCP-20260831-120000-ABCD")
	// No cash handed over, so no tendered/change rows.
	assert.NotContains(t, html, "Tendered")
}
