package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/pkg/apperror"
	"github.com/tillworks/checkout-api/pkg/pagination"
)

func newShiftEnv(t *testing.T) (*testEnv, *ShiftService, *entity.User) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewShiftService(env.shifts, env.txns)

	// A cashier with no shift open yet.
	fresh := &entity.User{
		BusinessID: env.business.ID,
		FirstName:  "Robin",
		LastName:   "Patel",
		Email:      "robin@example.com",
		Role:       enum.RoleCashier,
	}
	require.NoError(t, env.users.Create(context.Background(), fresh))
	return env, svc, fresh
}

func TestOpenShift(t *testing.T) {
	env, svc, cashier := newShiftEnv(t)

	shift, err := svc.Open(context.Background(), cashier.ID, env.business.ID, 5000)
	require.NoError(t, err)
	assert.True(t, shift.IsOpen())
	assert.Equal(t, int64(5000), shift.OpeningFloat)
	assert.False(t, shift.OpenedAt.IsZero())
}

func TestOpenShiftRejectsSecondOpen(t *testing.T) {
	env, svc, cashier := newShiftEnv(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, cashier.ID, env.business.ID, 5000)
	require.NoError(t, err)

	_, err = svc.Open(ctx, cashier.ID, env.business.ID, 5000)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindState))
}

func TestOpenShiftRejectsNegativeFloat(t *testing.T) {
	env, svc, cashier := newShiftEnv(t)

	_, err := svc.Open(context.Background(), cashier.ID, env.business.ID, -1)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCloseShiftWithoutOpen(t *testing.T) {
	_, svc, cashier := newShiftEnv(t)

	_, err := svc.Close(context.Background(), cashier.ID)
	assert.ErrorIs(t, err, apperror.ErrNoActiveShift)
}

func TestCloseShiftSummarizesTakings(t *testing.T) {
	env := newTestEnv(t)
	svc := NewShiftService(env.shifts, env.txns)
	ctx := context.Background()

	// Two sales on the fixture shift: one cash, one card.
	session := env.newSession(t)
	env.addBeans(t, session.ID, 3)
	_, err := env.checkout.Complete(ctx, &CompleteInput{
		UserID:    env.cashier.ID,
		SessionID: session.ID,
		Method:    enum.PaymentMethodCash,
		Tendered:  1000,
	})
	require.NoError(t, err)

	session2, err := env.carts.GetOrCreateSession(ctx, env.cashier.ID, env.business.ID)
	require.NoError(t, err)
	got := env.addBeans(t, session2.ID, 1)
	_, err = env.payments.SelectMethod(session2.ID, enum.PaymentMethodCard, got.Total)
	require.NoError(t, err)
	_, err = env.payments.Capture(ctx, session2.ID)
	require.NoError(t, err)
	_, err = env.checkout.Complete(ctx, &CompleteInput{
		UserID:    env.cashier.ID,
		SessionID: session2.ID,
		Method:    enum.PaymentMethodCard,
	})
	require.NoError(t, err)

	result, err := svc.Close(ctx, env.cashier.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ShiftStatusClosed, result.Shift.Status)
	require.NotNil(t, result.Shift.ClosedAt)

	summary := result.Summary
	require.NotNil(t, summary)
	assert.Equal(t, int64(2), summary.TransactionCount)
	assert.Equal(t, int64(810), summary.CashTotal)
	assert.Equal(t, int64(270), summary.CardTotal)
	assert.Equal(t, int64(1080), summary.GrossTotal)
}

func TestShiftReportOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := NewShiftService(env.shifts, env.txns)
	ctx := context.Background()

	// Another cashier cannot read the fixture shift's report.
	other := &entity.User{
		BusinessID: env.business.ID,
		FirstName:  "Alex",
		LastName:   "Chen",
		Email:      "alex.chen@example.com",
		Role:       enum.RoleCashier,
	}
	require.NoError(t, env.users.Create(ctx, other))

	_, err := svc.Report(ctx, other.ID, env.shift.ID, false)
	require.Error(t, err)

	// But an admin can.
	summary, err := svc.Report(ctx, env.admin.ID, env.shift.ID, true)
	require.NoError(t, err)
	assert.Equal(t, env.shift.ID, summary.ShiftID)
}

func TestListShifts(t *testing.T) {
	env := newTestEnv(t)
	svc := NewShiftService(env.shifts, env.txns)

	result, err := svc.List(context.Background(), env.cashier.ID, &pagination.PaginationParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Pagination.Total)
}
