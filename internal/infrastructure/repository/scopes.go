package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// BusinessIDKey is the context key for the business ID
	BusinessIDKey ctxKey = "business_id"
)

// BusinessScope returns a GORM scope that filters by the business the
// authenticated terminal belongs to. Applied to all business-scoped
// entities.
func BusinessScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		businessID, ok := ctx.Value(BusinessIDKey).(uuid.UUID)
		if !ok {
			// Fail-safe: return no results if business context missing.
			// This prevents accidental cross-store data access.
			return db.Where("1 = 0")
		}
		return db.Where("business_id = ?", businessID)
	}
}

// WithBusiness adds the business ID to context
func WithBusiness(ctx context.Context, businessID uuid.UUID) context.Context {
	return context.WithValue(ctx, BusinessIDKey, businessID)
}

// GetBusinessID extracts the business ID from context
func GetBusinessID(ctx context.Context) (uuid.UUID, bool) {
	businessID, ok := ctx.Value(BusinessIDKey).(uuid.UUID)
	return businessID, ok
}
