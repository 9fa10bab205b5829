package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/internal/domain/repository"
	"github.com/tillworks/checkout-api/pkg/apperror"
	"github.com/tillworks/checkout-api/pkg/printer"
	"github.com/tillworks/checkout-api/pkg/utils"
)

// CheckoutService is the transaction-completion pipeline: the single
// sequential procedure that converts an ACTIVE cart session into a durable
// transaction record exactly once, with a compensating void when the cart
// close fails after the record was written.
type CheckoutService struct {
	sessionRepo  repository.CartSessionRepository
	txnRepo      repository.TransactionRepository
	shiftRepo    repository.ShiftRepository
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
	payments     *PaymentService
	receipts     *ReceiptService
	printer      printer.Printer
	receiptPfx   string

	// Single-flight guard: one completion attempt per session at a time.
	// A second attempt is rejected, never queued; queuing could silently
	// double-charge.
	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	sessionRepo repository.CartSessionRepository,
	txnRepo repository.TransactionRepository,
	shiftRepo repository.ShiftRepository,
	userRepo repository.UserRepository,
	businessRepo repository.BusinessRepository,
	payments *PaymentService,
	receipts *ReceiptService,
	prn printer.Printer,
	receiptNumberPrefix string,
) *CheckoutService {
	return &CheckoutService{
		sessionRepo:  sessionRepo,
		txnRepo:      txnRepo,
		shiftRepo:    shiftRepo,
		userRepo:     userRepo,
		businessRepo: businessRepo,
		payments:     payments,
		receipts:     receipts,
		printer:      prn,
		receiptPfx:   receiptNumberPrefix,
		inflight:     make(map[uuid.UUID]struct{}),
	}
}

// CompleteInput carries the cashier's completion request. Tendered is in
// cents and only meaningful for cash; zero falls back to the amount
// recorded on the payment selection.
type CompleteInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Method    enum.PaymentMethod
	Tendered  int64
}

// CompleteResult is returned on a successful completion. Warnings carry
// non-blocking conditions (e.g. printer offline) the UI should surface.
type CompleteResult struct {
	Transaction *entity.Transaction `json:"transaction"`
	Receipt     *entity.Receipt     `json:"receipt"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// Complete runs the pipeline: guard, validate, printer status check,
// shift resolution, receipt number, transaction record, cart close. The
// guard is released on every exit path.
func (s *CheckoutService) Complete(ctx context.Context, input *CompleteInput) (*CompleteResult, error) {
	if !s.acquire(input.SessionID) {
		return nil, apperror.ErrAlreadyProcessing
	}
	defer s.release(input.SessionID)

	// Idempotency boundary: checked before any write.
	existing, err := s.txnRepo.GetBySessionID(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrAlreadyCompleted
	}

	session, err := s.sessionRepo.GetWithItems(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != input.UserID {
		return nil, apperror.NewNotFoundError("Cart session")
	}
	if !session.IsActive() {
		return nil, apperror.ErrSessionCompleted
	}
	if len(session.Items) == 0 {
		return nil, apperror.NewBadRequestError("Cannot complete an empty cart")
	}
	if session.BusinessID == uuid.Nil {
		return nil, apperror.NewFieldError("business_id", "is required")
	}

	tendered := input.Tendered
	if sel := s.payments.Get(input.SessionID); sel != nil && input.Method == enum.PaymentMethodCash && tendered == 0 {
		tendered = sel.Tendered
	}

	// Card and mobile sales need the terminal's explicit confirmation;
	// the pipeline never infers capture success from UI state. The
	// captured amount must still match the cart total: a line added after
	// capture would otherwise record a sale for more than the card was
	// charged.
	if input.Method.RequiresCapture() {
		if !s.payments.IsCaptured(input.SessionID) {
			return nil, apperror.NewBadRequestError("Card payment has not been captured")
		}
		if sel := s.payments.Get(input.SessionID); sel != nil && sel.Total != session.Total {
			return nil, apperror.NewConflictError("The cart changed after capture; cancel the payment and capture the new total")
		}
	}

	amounts, err := ResolveAmounts(input.Method, tendered, session.Total)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if !s.printer.IsConnected() {
		warnings = append(warnings, "Receipt printer is not connected; the receipt can be reprinted later")
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	shiftID := session.ShiftID
	if shiftID == nil {
		shift, err := s.shiftRepo.GetActiveByUser(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		if shift != nil {
			shiftID = &shift.ID
		} else if !user.Role.IsAdmin() {
			return nil, apperror.ErrNoActiveShift
		}
	}

	txn := &entity.Transaction{
		ReceiptNo:  utils.GenerateReceiptNo(s.receiptPfx),
		SessionID:  session.ID,
		UserID:     session.UserID,
		ShiftID:    shiftID,
		BusinessID: session.BusinessID,
		Method:     input.Method,
		CashAmount: amounts.Cash,
		CardAmount: amounts.Card,
		Tendered:   amounts.Tendered,
		Change:     amounts.Change,
		Status:     enum.TransactionStatusCompleted,
	}
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, apperror.NewPersistenceError("Failed to record the transaction: " + err.Error())
	}

	if err := s.sessionRepo.Complete(ctx, session.ID); err != nil {
		// Compensating action: the ledger row exists but the cart did not
		// close, so void the transaction and leave the session ACTIVE.
		reason := fmt.Sprintf("cart session close failed: %v", err)
		if voidErr := s.txnRepo.Void(ctx, txn.ID, reason); voidErr != nil {
			return nil, apperror.NewReconciliationError(fmt.Sprintf(
				"Transaction %s was recorded but the cart failed to close and the compensating void also failed; manual reconciliation required (close error: %v, void error: %v)",
				txn.ReceiptNo, err, voidErr))
		}
		return nil, apperror.NewPersistenceError("The sale was not completed; the recorded transaction has been voided")
	}

	s.payments.Clear(session.ID)

	// The sale is durably recorded from here on; a failed header lookup
	// must not fail the completion, only degrade the receipt.
	business, err := s.businessRepo.GetByID(ctx, session.BusinessID)
	if err != nil {
		warnings = append(warnings, "Store details were unavailable; the receipt header is incomplete and can be reprinted later")
		business = nil
	}

	return &CompleteResult{
		Transaction: txn,
		Receipt:     s.receipts.Compose(business, user, session.Items, txn),
		Warnings:    warnings,
	}, nil
}

func (s *CheckoutService) acquire(sessionID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *CheckoutService) release(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}
