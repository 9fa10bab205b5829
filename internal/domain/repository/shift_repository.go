package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/pkg/pagination"
)

// ShiftRepository defines the interface for shift data operations
type ShiftRepository interface {
	Create(ctx context.Context, shift *entity.Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error)
	// GetActiveByUser returns the cashier's open shift, or nil when none
	// is open.
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Shift, error)
	Close(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Shift, int64, error)
}
