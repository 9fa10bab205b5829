package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/internal/domain/repository"
	"github.com/tillworks/checkout-api/pkg/pagination"
)

// In-memory fakes for the repository contracts. They implement just
// enough behavior for the service tests, including the state guards the
// real repositories enforce.

type fakeSessionRepo struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]*entity.CartSession
	items       *fakeItemRepo
	completeErr error
}

func newFakeSessionRepo(items *fakeItemRepo) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.CartSession), items: items}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.CartSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CartSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.CartSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == enum.SessionStatusActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.CartSession, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return nil, nil
	}
	cp := *s
	r.mu.Unlock()

	items, err := r.items.GetBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	cp.Items = items
	return &cp, nil
}

func (r *fakeSessionRepo) UpdateTotals(ctx context.Context, id uuid.UUID, subTotal, tax, total int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return errors.New("session not found")
	}
	s.SubTotal, s.Tax, s.Total = subTotal, tax, total
	return nil
}

func (r *fakeSessionRepo) Complete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.completeErr != nil {
		return r.completeErr
	}
	s, ok := r.sessions[id]
	if !ok {
		return errors.New("session not found")
	}
	if s.Status != enum.SessionStatusActive {
		return errors.New("session is not active")
	}
	s.Status = enum.SessionStatusCompleted
	return nil
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entity.CartItem
	order []uuid.UUID
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*entity.CartItem)}
}

func (r *fakeItemRepo) Create(ctx context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	r.items[item.ID] = &cp
	r.order = append(r.order, item.ID)
	return nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return errors.New("item not found")
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *fakeItemRepo) GetBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.CartItem
	for _, id := range r.order {
		item, ok := r.items[id]
		if ok && item.SessionID == sessionID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return errors.New("item not found")
	}
	delete(r.items, id)
	return nil
}

type fakeTxnRepo struct {
	mu        sync.Mutex
	txns      map[uuid.UUID]*entity.Transaction
	createErr error
	voidErr   error
	// When set, Create signals createEntered and then blocks until
	// createRelease is closed. Used by the concurrency tests.
	createEntered chan struct{}
	createRelease chan struct{}
}

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{txns: make(map[uuid.UUID]*entity.Transaction)}
}

func (r *fakeTxnRepo) Create(ctx context.Context, txn *entity.Transaction) error {
	if r.createEntered != nil {
		r.createEntered <- struct{}{}
		<-r.createRelease
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.txns {
		if existing.SessionID == txn.SessionID {
			return errors.New("duplicate session_id")
		}
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	txn.CreatedAt = time.Now()
	cp := *txn
	r.txns[txn.ID] = &cp
	return nil
}

func (r *fakeTxnRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	cp := *txn
	return &cp, nil
}

func (r *fakeTxnRepo) GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, txn := range r.txns {
		if txn.ReceiptNo == receiptNo {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTxnRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, txn := range r.txns {
		if txn.SessionID == sessionID {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTxnRepo) Void(ctx context.Context, id uuid.UUID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.voidErr != nil {
		return r.voidErr
	}
	txn, ok := r.txns[id]
	if !ok {
		return errors.New("transaction not found")
	}
	now := time.Now()
	txn.Status = enum.TransactionStatusVoided
	txn.VoidReason = &reason
	txn.VoidedAt = &now
	return nil
}

func (r *fakeTxnRepo) List(ctx context.Context, userID uuid.UUID, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Transaction
	for _, txn := range r.txns {
		if !params.SkipUserFilter && txn.UserID != userID {
			continue
		}
		if params.ShiftID != nil && (txn.ShiftID == nil || *txn.ShiftID != *params.ShiftID) {
			continue
		}
		out = append(out, *txn)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTxnRepo) GetShiftSummary(ctx context.Context, shiftID uuid.UUID) (*repository.ShiftSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &repository.ShiftSummary{ShiftID: shiftID}
	for _, txn := range r.txns {
		if txn.ShiftID == nil || *txn.ShiftID != shiftID {
			continue
		}
		if txn.Status == enum.TransactionStatusVoided {
			summary.VoidedCount++
			continue
		}
		summary.TransactionCount++
		summary.CashTotal += txn.CashAmount
		summary.CardTotal += txn.CardAmount
	}
	summary.GrossTotal = summary.CashTotal + summary.CardTotal
	return summary, nil
}

type fakeShiftRepo struct {
	mu     sync.Mutex
	shifts map[uuid.UUID]*entity.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[uuid.UUID]*entity.Shift)}
}

func (r *fakeShiftRepo) Create(ctx context.Context, shift *entity.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	cp := *shift
	r.shifts[shift.ID] = &cp
	return nil
}

func (r *fakeShiftRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeShiftRepo) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shifts {
		if s.UserID == userID && s.Status == enum.ShiftStatusOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeShiftRepo) Close(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok {
		return errors.New("shift not found")
	}
	now := time.Now()
	s.Status = enum.ShiftStatusClosed
	s.ClosedAt = &now
	return nil
}

func (r *fakeShiftRepo) ListByUser(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Shift, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Shift
	for _, s := range r.shifts {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.New("user not found")
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeBusinessRepo struct {
	mu         sync.Mutex
	businesses map[uuid.UUID]*entity.Business
	getErr     error
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{businesses: make(map[uuid.UUID]*entity.Business)}
}

func (r *fakeBusinessRepo) Create(ctx context.Context, business *entity.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if business.ID == uuid.Nil {
		business.ID = uuid.New()
	}
	cp := *business
	r.businesses[business.ID] = &cp
	return nil
}

func (r *fakeBusinessRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	b, ok := r.businesses[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) add(p *entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
}

func (r *fakeProductRepo) setPrice(id uuid.UUID, price int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[id].Price = price
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*entity.Category)}
}

func (r *fakeCategoryRepo) add(c *entity.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.categories[c.ID] = &cp
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// fakeTerminal stands in for the card-capture device.
type fakeTerminal struct {
	mu        sync.Mutex
	err       error
	connected bool
	cancelled bool
	calls     int
	// When non-nil, ProcessPayment blocks until the channel is closed.
	block chan struct{}
}

func (t *fakeTerminal) ProcessPayment(ctx context.Context, amountMinor int64, currency string) error {
	t.mu.Lock()
	t.calls++
	block := t.block
	err := t.err
	t.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (t *fakeTerminal) Cancel() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
	return nil
}

func (t *fakeTerminal) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

func (t *fakeTerminal) setErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

func (t *fakeTerminal) wasCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// fakePrinter stands in for the thermal receipt printer.
type fakePrinter struct {
	mu        sync.Mutex
	err       error
	connected bool
	printed   [][]byte
}

func (p *fakePrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.printed = append(p.printed, data)
	return nil
}

func (p *fakePrinter) Close() error { return nil }

func (p *fakePrinter) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}
