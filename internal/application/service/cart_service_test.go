package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/pkg/apperror"
	"github.com/tillworks/checkout-api/pkg/email"
	"github.com/tillworks/checkout-api/pkg/export"
)

type testEnv struct {
	sessions   *fakeSessionRepo
	items      *fakeItemRepo
	txns       *fakeTxnRepo
	shifts     *fakeShiftRepo
	users      *fakeUserRepo
	businesses *fakeBusinessRepo
	products   *fakeProductRepo
	categories *fakeCategoryRepo
	terminal   *fakeTerminal
	printer    *fakePrinter

	payments *PaymentService
	carts    *CartService
	receipts *ReceiptService
	checkout *CheckoutService

	business *entity.Business
	cashier  *entity.User
	admin    *entity.User
	shift    *entity.Shift
	beans    *entity.Product
	apples   *entity.Product
	bakery   *entity.Category
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	env := &testEnv{
		items:      newFakeItemRepo(),
		txns:       newFakeTxnRepo(),
		shifts:     newFakeShiftRepo(),
		users:      newFakeUserRepo(),
		businesses: newFakeBusinessRepo(),
		products:   newFakeProductRepo(),
		categories: newFakeCategoryRepo(),
		terminal:   &fakeTerminal{connected: true},
		printer:    &fakePrinter{connected: true},
	}
	env.sessions = newFakeSessionRepo(env.items)

	env.business = &entity.Business{Name: "Corner Market"}
	require.NoError(t, env.businesses.Create(ctx, env.business))

	env.cashier = &entity.User{
		BusinessID: env.business.ID,
		FirstName:  "Jamie",
		LastName:   "Okafor",
		Email:      "jamie@example.com",
		Role:       enum.RoleCashier,
	}
	require.NoError(t, env.users.Create(ctx, env.cashier))

	env.admin = &entity.User{
		BusinessID: env.business.ID,
		FirstName:  "Sam",
		LastName:   "Ruiz",
		Email:      "sam@example.com",
		Role:       enum.RoleAdmin,
	}
	require.NoError(t, env.users.Create(ctx, env.admin))

	env.shift = &entity.Shift{
		UserID:     env.cashier.ID,
		BusinessID: env.business.ID,
		Status:     enum.ShiftStatusOpen,
	}
	require.NoError(t, env.shifts.Create(ctx, env.shift))

	env.beans = &entity.Product{
		BusinessID: env.business.ID,
		Name:       "Baked Beans",
		Price:      250,
		TaxRate:    0.08,
	}
	env.products.add(env.beans)

	env.apples = &entity.Product{
		BusinessID:   env.business.ID,
		Name:         "Apples",
		Price:        400,
		TaxRate:      0,
		SoldByWeight: true,
		WeightUnit:   "kg",
	}
	env.products.add(env.apples)

	quickSale := int64(150)
	env.bakery = &entity.Category{
		BusinessID:     env.business.ID,
		Name:           "Bakery",
		QuickSalePrice: &quickSale,
		TaxRate:        0,
	}
	env.categories.add(env.bakery)

	env.payments = NewPaymentService(env.terminal, "USD")
	env.carts = NewCartService(env.sessions, env.items, env.products, env.categories, env.shifts, env.users)
	env.receipts = NewReceiptService(env.txns, env.sessions, env.users, env.businesses, env.carts,
		env.printer, export.NewExporter(t.TempDir()), email.NewEmailService(email.EmailConfig{}), 32)
	env.checkout = NewCheckoutService(env.sessions, env.txns, env.shifts, env.users, env.businesses,
		env.payments, env.receipts, env.printer, "RCP")

	return env
}

func (env *testEnv) newSession(t *testing.T) *entity.CartSession {
	t.Helper()
	session, err := env.carts.GetOrCreateSession(context.Background(), env.cashier.ID, env.business.ID)
	require.NoError(t, err)
	return session
}

func (env *testEnv) addBeans(t *testing.T, sessionID uuid.UUID, qty int) *entity.CartSession {
	t.Helper()
	session, err := env.carts.AddItem(context.Background(), &AddItemInput{
		UserID:    env.cashier.ID,
		SessionID: sessionID,
		ProductID: &env.beans.ID,
		Quantity:  qty,
	})
	require.NoError(t, err)
	return session
}

func TestGetOrCreateSessionRequiresShift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lone := &entity.User{
		BusinessID: env.business.ID,
		FirstName:  "No",
		LastName:   "Shift",
		Email:      "noshift@example.com",
		Role:       enum.RoleCashier,
	}
	require.NoError(t, env.users.Create(ctx, lone))

	_, err := env.carts.GetOrCreateSession(ctx, lone.ID, env.business.ID)
	assert.ErrorIs(t, err, apperror.ErrShiftRequired)
}

func TestGetOrCreateSessionAdminWithoutShift(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.carts.GetOrCreateSession(context.Background(), env.admin.ID, env.business.ID)
	require.NoError(t, err)
	assert.Nil(t, session.ShiftID)
	assert.True(t, session.IsActive())
}

func TestGetOrCreateSessionRecoversActiveBasket(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.newSession(t)
	env.addBeans(t, first.ID, 2)

	second, err := env.carts.GetOrCreateSession(ctx, env.cashier.ID, env.business.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Items, 1)
	assert.Equal(t, 2, second.Items[0].Quantity)
}

func TestSessionBindsToOpenShift(t *testing.T) {
	env := newTestEnv(t)

	session := env.newSession(t)
	require.NotNil(t, session.ShiftID)
	assert.Equal(t, env.shift.ID, *session.ShiftID)
}

func TestAddItemMergesUnitLinesAtOriginalPrice(t *testing.T) {
	env := newTestEnv(t)

	session := env.newSession(t)
	env.addBeans(t, session.ID, 2)

	// A catalogue price change after the first add must not affect the
	// merged line: it reprices from the unit price captured at add time.
	env.products.setPrice(env.beans.ID, 999)

	got := env.addBeans(t, session.ID, 1)
	require.Len(t, got.Items, 1)
	line := got.Items[0]
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, int64(250), line.UnitPrice)
	// 2.50 x 3 = 7.50, 8% tax 0.60
	assert.Equal(t, int64(750), line.SubTotal)
	assert.Equal(t, int64(60), line.Tax)
	assert.Equal(t, int64(810), line.Total)
	assert.Equal(t, int64(810), got.Total)
}

func TestWeighedLinesMergeSummingWeight(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newSession(t)

	_, err := env.carts.AddItem(ctx, &AddItemInput{
		UserID:    env.cashier.ID,
		SessionID: session.ID,
		ProductID: &env.apples.ID,
		Weight:    0.5,
	})
	require.NoError(t, err)

	// A later catalogue price change must not affect the merged line.
	env.products.setPrice(env.apples.ID, 999)

	got, err := env.carts.AddItem(ctx, &AddItemInput{
		UserID:    env.cashier.ID,
		SessionID: session.ID,
		ProductID: &env.apples.ID,
		Weight:    0.3,
	})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	line := got.Items[0]
	assert.Equal(t, enum.ItemKindWeight, line.Kind)
	assert.InDelta(t, 0.8, line.Weight, 1e-9)
	assert.Equal(t, int64(400), line.UnitPrice)
	// 4.00/kg x 0.8kg, repriced once from the summed weight
	assert.Equal(t, int64(320), line.Total)
	assert.Equal(t, int64(320), got.Total)
}

func TestUnitAndWeighedLinesDoNotCrossMerge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newSession(t)

	_, err := env.carts.AddItem(ctx, &AddItemInput{
		UserID:    env.cashier.ID,
		SessionID: session.ID,
		ProductID: &env.apples.ID,
		Weight:    0.5,
	})
	require.NoError(t, err)

	got := env.addBeans(t, session.ID, 1)
	require.Len(t, got.Items, 2)
}

func TestAddWeighedItemRequiresWeight(t *testing.T) {
	env := newTestEnv(t)

	session := env.newSession(t)
	_, err := env.carts.AddItem(context.Background(), &AddItemInput{
		UserID:    env.cashier.ID,
		SessionID: session.ID,
		ProductID: &env.apples.ID,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, apperror.ErrWeightRequired)
}

func TestAddItemRequiresAgeVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wine := &entity.Product{
		BusinessID:     env.business.ID,
		Name:           "Red Wine",
		Price:          1299,
		TaxRate:        0.08,
		AgeRestriction: 18,
	}
	env.products.add(wine)

	session := env.newSession(t)
	_, err := env.carts.AddItem(ctx, &AddItemInput{
		UserID:    env.cashier.ID,
		SessionID: session.ID,
		ProductID: &wine.ID,
		Quantity:  1,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	got, err := env.carts.AddItem(ctx, &AddItemInput{
		UserID:      env.cashier.ID,
		SessionID:   session.ID,
		ProductID:   &wine.ID,
		Quantity:    1,
		AgeVerified: true,
	})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].AgeVerified)
}

func TestAddItemRejectsBothProductAndCategory(t *testing.T) {
	env := newTestEnv(t)

	session := env.newSession(t)
	_, err := env.carts.AddItem(context.Background(), &AddItemInput{
		UserID:     env.cashier.ID,
		SessionID:  session.ID,
		ProductID:  &env.beans.ID,
		CategoryID: &env.bakery.ID,
		Quantity:   1,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCategoryQuickSale(t *testing.T) {
	env := newTestEnv(t)

	session := env.newSession(t)
	got, err := env.carts.AddItem(context.Background(), &AddItemInput{
		UserID:     env.cashier.ID,
		SessionID:  session.ID,
		CategoryID: &env.bakery.ID,
		Quantity:   2,
	})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	line := got.Items[0]
	assert.Equal(t, "Bakery", line.Name)
	assert.Equal(t, int64(150), line.UnitPrice)
	assert.Equal(t, int64(300), line.Total)
}

func TestCategoryQuickSaleCustomPriceOverride(t *testing.T) {
	env := newTestEnv(t)

	custom := int64(225)
	session := env.newSession(t)
	got, err := env.carts.AddItem(context.Background(), &AddItemInput{
		UserID:      env.cashier.ID,
		SessionID:   session.ID,
		CategoryID:  &env.bakery.ID,
		Quantity:    1,
		CustomPrice: &custom,
	})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(225), got.Items[0].UnitPrice)
}

func TestCategoryWithoutQuickSalePriceNeedsCustomPrice(t *testing.T) {
	env := newTestEnv(t)

	misc := &entity.Category{BusinessID: env.business.ID, Name: "Misc"}
	env.categories.add(misc)

	session := env.newSession(t)
	_, err := env.carts.AddItem(context.Background(), &AddItemInput{
		UserID:     env.cashier.ID,
		SessionID:  session.ID,
		CategoryID: &misc.ID,
		Quantity:   1,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRemoveItemRecomputesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newSession(t)
	env.addBeans(t, session.ID, 2)
	got, err := env.carts.AddItem(ctx, &AddItemInput{
		UserID:     env.cashier.ID,
		SessionID:  session.ID,
		CategoryID: &env.bakery.ID,
		Quantity:   1,
	})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	after, err := env.carts.RemoveItem(ctx, env.cashier.ID, session.ID, got.Items[1].ID)
	require.NoError(t, err)
	require.Len(t, after.Items, 1)
	// Back to just the beans: 2.50 x 2 + 8%
	assert.Equal(t, int64(540), after.Total)
}

func TestRemoveUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	session := env.newSession(t)
	_, err := env.carts.RemoveItem(context.Background(), env.cashier.ID, session.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrItemNotFound)
}

func TestAddItemToCompletedSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newSession(t)
	env.addBeans(t, session.ID, 1)
	require.NoError(t, env.sessions.Complete(ctx, session.ID))

	_, err := env.carts.AddItem(ctx, &AddItemInput{
		UserID:    env.cashier.ID,
		SessionID: session.ID,
		ProductID: &env.beans.ID,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, apperror.ErrSessionCompleted)
}

func TestSessionOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)

	session := env.newSession(t)
	_, err := env.carts.GetSession(context.Background(), env.admin.ID, session.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
