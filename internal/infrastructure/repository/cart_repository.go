package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	domainRepo "github.com/tillworks/checkout-api/internal/domain/repository"
	"github.com/tillworks/checkout-api/pkg/apperror"
)

type cartSessionRepository struct {
	db *gorm.DB
}

// NewCartSessionRepository creates a new cart session repository
func NewCartSessionRepository(db *gorm.DB) domainRepo.CartSessionRepository {
	return &cartSessionRepository{db: db}
}

func (r *cartSessionRepository) Create(ctx context.Context, session *entity.CartSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *cartSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CartSession, error) {
	var session entity.CartSession
	err := r.db.WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cartSessionRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.CartSession, error) {
	var session entity.CartSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enum.SessionStatusActive).
		Order("created_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cartSessionRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.CartSession, error) {
	var session entity.CartSession
	err := r.db.WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Category").
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cartSessionRepository) UpdateTotals(ctx context.Context, id uuid.UUID, subTotal, tax, total int64) error {
	return r.db.WithContext(ctx).Model(&entity.CartSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sub_total": subTotal,
			"tax":       tax,
			"total":     total,
		}).Error
}

// Complete transitions Active -> Completed with a conditional update, so a
// session that is already completed fails loudly instead of being updated
// twice.
func (r *cartSessionRepository) Complete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&entity.CartSession{}).
		Where("id = ? AND status = ?", id, enum.SessionStatusActive).
		Update("status", enum.SessionStatusCompleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrSessionCompleted
	}
	return nil
}

type cartItemRepository struct {
	db *gorm.DB
}

// NewCartItemRepository creates a new cart item repository
func NewCartItemRepository(db *gorm.DB) domainRepo.CartItemRepository {
	return &cartItemRepository{db: db}
}

func (r *cartItemRepository) Create(ctx context.Context, item *entity.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartItemRepository) Update(ctx context.Context, item *entity.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cartItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error) {
	var item entity.CartItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *cartItemRepository) GetBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.CartItem, error) {
	var items []entity.CartItem
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *cartItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.CartItem{}, "id = ?", id).Error
}
