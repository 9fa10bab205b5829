package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/pkg/apperror"
	"github.com/tillworks/checkout-api/pkg/terminal"
)

// PaymentSelection is the transient state of one session's payment flow.
// It lives only in memory and is destroyed on completion or cancellation;
// only the resolved cash/card amounts ever reach the transaction record.
type PaymentSelection struct {
	SessionID uuid.UUID          `json:"session_id"`
	Method    enum.PaymentMethod `json:"method"`
	State     enum.PaymentState  `json:"state"`
	Total     int64              `json:"-"` // Cents
	Tendered  int64              `json:"-"` // Cents, cash only
	LastError string             `json:"last_error,omitempty"`
}

// PaymentService drives the payment-method state machine for each cart
// session: NoMethodSelected -> MethodSelected -> (AwaitingAmount |
// Capturing) -> Captured | Failed | Cancelled. Card and mobile methods go
// through the external card terminal; cash is settled at the drawer.
type PaymentService struct {
	mu         sync.Mutex
	selections map[uuid.UUID]*PaymentSelection
	terminal   terminal.Terminal
	currency   string
}

// NewPaymentService creates a new payment service
func NewPaymentService(term terminal.Terminal, currency string) *PaymentService {
	return &PaymentService{
		selections: make(map[uuid.UUID]*PaymentSelection),
		terminal:   term,
		currency:   currency,
	}
}

// SelectMethod starts (or restarts) the payment flow for a session.
// Selecting cash seeds the tendered amount to the total as a sensible
// default. Voucher and split are selectable for display purposes but will
// be rejected at completion time.
func (s *PaymentService) SelectMethod(sessionID uuid.UUID, method enum.PaymentMethod, total int64) (*PaymentSelection, error) {
	if total <= 0 {
		return nil, apperror.NewFieldError("total", "must be greater than zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.selections[sessionID]; ok && cur.State == enum.PaymentStateCapturing {
		return nil, apperror.NewBadRequestError("A card capture is in progress; cancel it before changing method")
	}

	sel := &PaymentSelection{
		SessionID: sessionID,
		Method:    method,
		State:     enum.PaymentStateMethodSelected,
		Total:     total,
	}
	if method == enum.PaymentMethodCash {
		sel.State = enum.PaymentStateAwaitingAmount
		sel.Tendered = total
	}
	s.selections[sessionID] = sel

	out := *sel
	return &out, nil
}

// SetTendered updates the cash amount handed over by the customer.
func (s *PaymentService) SetTendered(sessionID uuid.UUID, tendered int64) (*PaymentSelection, error) {
	if tendered < 0 {
		return nil, apperror.NewFieldError("tendered", "must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.selections[sessionID]
	if !ok {
		return nil, apperror.NewBadRequestError("No payment method selected")
	}
	if sel.Method != enum.PaymentMethodCash {
		return nil, apperror.NewBadRequestError("Tendered amount only applies to cash payments")
	}
	sel.Tendered = tendered

	out := *sel
	return &out, nil
}

// Capture runs the external card-terminal capture for the session's
// selection. On failure the selection moves to Failed and keeps the
// device's error text; the cashier may retry, which re-enters Capturing.
func (s *PaymentService) Capture(ctx context.Context, sessionID uuid.UUID) (*PaymentSelection, error) {
	s.mu.Lock()
	sel, ok := s.selections[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("No payment method selected")
	}
	if !sel.Method.RequiresCapture() {
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("Selected payment method does not use the card terminal")
	}
	switch sel.State {
	case enum.PaymentStateMethodSelected, enum.PaymentStateFailed:
		// proceed
	case enum.PaymentStateCapturing:
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("A capture is already in progress")
	case enum.PaymentStateCaptured:
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("Payment has already been captured")
	default:
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("Payment is not in a capturable state")
	}
	sel.State = enum.PaymentStateCapturing
	sel.LastError = ""
	amount := sel.Total
	s.mu.Unlock()

	// The terminal call runs outside the lock; Cancel and state reads stay
	// responsive while the device is working.
	captureErr := s.terminal.ProcessPayment(ctx, amount, s.currency)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The selection may have been cancelled while the device was busy.
	sel, ok = s.selections[sessionID]
	if !ok {
		return nil, apperror.NewBadRequestError("Payment was cancelled")
	}
	if captureErr != nil {
		sel.State = enum.PaymentStateFailed
		sel.LastError = captureErr.Error()
		out := *sel
		return &out, apperror.NewCaptureError(captureErr.Error())
	}
	sel.State = enum.PaymentStateCaptured

	out := *sel
	return &out, nil
}

// Cancel aborts the session's payment flow, telling the terminal to drop
// any in-flight capture attempt. The selection is destroyed; the cashier
// starts over from method selection.
func (s *PaymentService) Cancel(sessionID uuid.UUID) error {
	s.mu.Lock()
	sel, ok := s.selections[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	capturing := sel.State == enum.PaymentStateCapturing
	delete(s.selections, sessionID)
	s.mu.Unlock()

	if capturing {
		return s.terminal.Cancel()
	}
	return nil
}

// Get returns a snapshot of the session's current selection, or nil when
// no method has been selected.
func (s *PaymentService) Get(sessionID uuid.UUID) *PaymentSelection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.selections[sessionID]
	if !ok {
		return nil
	}
	out := *sel
	return &out
}

// IsCaptured reports whether the terminal has confirmed capture for the
// session. The completion pipeline calls this for explicit confirmation
// rather than trusting whatever the caller claims.
func (s *PaymentService) IsCaptured(sessionID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.selections[sessionID]
	return ok && sel.State == enum.PaymentStateCaptured
}

// Clear destroys the session's selection after completion.
func (s *PaymentService) Clear(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, sessionID)
}

// TerminalConnected reports whether the card terminal is reachable.
func (s *PaymentService) TerminalConnected() bool {
	return s.terminal.IsConnected()
}

// PaymentAmounts is the deterministic split of a sale total across the
// transaction record's cash/card fields. Cents.
type PaymentAmounts struct {
	Cash     int64
	Card     int64
	Tendered int64
	Change   int64
}

// ResolveAmounts maps a payment method to the amounts recorded on the
// transaction. The mapping is exhaustive over the method variants: an
// amount is never duplicated across both fields, and unsupported methods
// fail here rather than being mis-recorded as cash or card.
func ResolveAmounts(method enum.PaymentMethod, tendered, total int64) (PaymentAmounts, error) {
	switch method {
	case enum.PaymentMethodCash:
		if tendered < total {
			return PaymentAmounts{}, apperror.NewFieldError("tendered", "must be at least the sale total")
		}
		return PaymentAmounts{
			Cash:     total,
			Tendered: tendered,
			Change:   tendered - total,
		}, nil
	case enum.PaymentMethodCard, enum.PaymentMethodMobile:
		return PaymentAmounts{Card: total}, nil
	case enum.PaymentMethodVoucher, enum.PaymentMethodSplit:
		return PaymentAmounts{}, apperror.ErrPaymentMethodNotImplemented
	default:
		return PaymentAmounts{}, apperror.NewFieldError("payment_method", "unknown payment method")
	}
}
