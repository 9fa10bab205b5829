package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/internal/domain/repository"
	"github.com/tillworks/checkout-api/pkg/apperror"
	"github.com/tillworks/checkout-api/pkg/pagination"
)

// TransactionService handles ledger queries and supervised manual voids.
type TransactionService struct {
	txnRepo repository.TransactionRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txnRepo repository.TransactionRepository) *TransactionService {
	return &TransactionService{txnRepo: txnRepo}
}

// List returns transactions for the user; admins see all users.
func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, isAdmin bool, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	params.SkipUserFilter = isAdmin

	txns, total, err := s.txnRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(txns,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// Get returns one transaction the user is allowed to see.
func (s *TransactionService) Get(ctx context.Context, userID, transactionID uuid.UUID, isAdmin bool) (*entity.Transaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil || (txn.UserID != userID && !isAdmin) {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// GetByReceiptNo looks a transaction up by its printed receipt number.
func (s *TransactionService) GetByReceiptNo(ctx context.Context, userID uuid.UUID, receiptNo string, isAdmin bool) (*entity.Transaction, error) {
	txn, err := s.txnRepo.GetByReceiptNo(ctx, receiptNo)
	if err != nil {
		return nil, err
	}
	if txn == nil || (txn.UserID != userID && !isAdmin) {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// Void marks a transaction voided with a reason. Admin only; the row is
// kept for the ledger, never deleted.
func (s *TransactionService) Void(ctx context.Context, transactionID uuid.UUID, reason string) (*entity.Transaction, error) {
	if reason == "" {
		return nil, apperror.NewFieldError("reason", "is required")
	}

	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	if txn.Status == enum.TransactionStatusVoided {
		return nil, apperror.NewBadRequestError("Transaction is already voided")
	}

	if err := s.txnRepo.Void(ctx, transactionID, reason); err != nil {
		return nil, err
	}

	return s.txnRepo.GetByID(ctx, transactionID)
}
