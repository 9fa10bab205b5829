package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/pkg/pagination"
)

// TransactionRepository is the ledger contract: it records sales exactly
// once and voids them by compensating update, never by delete.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Transaction, error)
	// GetBySessionID returns the transaction recorded for a cart session,
	// or nil. Used by the completion pipeline's idempotency guard.
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*entity.Transaction, error)
	// Void marks the transaction voided with a reason. Compensating action
	// for a failed cart close; also used by supervised manual voids.
	Void(ctx context.Context, id uuid.UUID, reason string) error
	List(ctx context.Context, userID uuid.UUID, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	// GetShiftSummary aggregates the completed takings of one shift.
	GetShiftSummary(ctx context.Context, shiftID uuid.UUID) (*ShiftSummary, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	ShiftID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	// SkipUserFilter returns all transactions (for admins).
	SkipUserFilter bool
}

// ShiftSummary aggregates one shift's completed sales. Amounts in cents.
type ShiftSummary struct {
	ShiftID          uuid.UUID `json:"shift_id"`
	TransactionCount int64     `json:"transaction_count"`
	VoidedCount      int64     `json:"voided_count"`
	CashTotal        int64     `json:"cash_total"`
	CardTotal        int64     `json:"card_total"`
	GrossTotal       int64     `json:"gross_total"`
}
