package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/entity"
)

// CartSessionRepository defines the interface for cart session storage
type CartSessionRepository interface {
	Create(ctx context.Context, session *entity.CartSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CartSession, error)
	// GetActiveByUser returns the cashier's single ACTIVE session, or nil.
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.CartSession, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.CartSession, error)
	// UpdateTotals persists the recomputed running totals after a mutation.
	UpdateTotals(ctx context.Context, id uuid.UUID, subTotal, tax, total int64) error
	// Complete transitions Active -> Completed. It must fail, not silently
	// succeed, when the session is already completed; the completion
	// pipeline relies on this guard.
	Complete(ctx context.Context, id uuid.UUID) error
}

// CartItemRepository defines the interface for cart line item storage
type CartItemRepository interface {
	Create(ctx context.Context, item *entity.CartItem) error
	Update(ctx context.Context, item *entity.CartItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error)
	GetBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.CartItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
