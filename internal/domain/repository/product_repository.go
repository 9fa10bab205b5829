package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/entity"
)

// ProductRepository is the catalogue read contract the cart needs.
// Catalogue CRUD lives outside this service.
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// GetByIDs retrieves multiple products in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
}

// CategoryRepository is the category read contract for quick sales.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
}
