package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	domainRepo "github.com/tillworks/checkout-api/internal/domain/repository"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		First(&txn, "receipt_no = ?", receiptNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		First(&txn, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) Void(ctx context.Context, id uuid.UUID, reason string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      enum.TransactionStatusVoided,
			"void_reason": reason,
			"voided_at":   now,
		}).Error
}

func (r *transactionRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var txns []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).Scopes(BusinessScope(ctx))
	if !params.SkipUserFilter && userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	if params.Search != "" {
		query = query.Where("receipt_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.ShiftID != nil {
		query = query.Where("shift_id = ?", *params.ShiftID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&txns).Error

	return txns, total, err
}

func (r *transactionRepository) GetShiftSummary(ctx context.Context, shiftID uuid.UUID) (*domainRepo.ShiftSummary, error) {
	summary := &domainRepo.ShiftSummary{ShiftID: shiftID}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = ?) AS transaction_count,
			COUNT(*) FILTER (WHERE status = ?) AS voided_count,
			COALESCE(SUM(cash_amount) FILTER (WHERE status = ?), 0) AS cash_total,
			COALESCE(SUM(card_amount) FILTER (WHERE status = ?), 0) AS card_total
		FROM transactions
		WHERE shift_id = ? AND deleted_at IS NULL`,
		enum.TransactionStatusCompleted, enum.TransactionStatusVoided,
		enum.TransactionStatusCompleted, enum.TransactionStatusCompleted,
		shiftID,
	).Row().Scan(&summary.TransactionCount, &summary.VoidedCount, &summary.CashTotal, &summary.CardTotal)
	if err != nil {
		return nil, err
	}

	summary.GrossTotal = summary.CashTotal + summary.CardTotal
	return summary, nil
}
