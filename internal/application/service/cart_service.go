package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/internal/domain/pricing"
	"github.com/tillworks/checkout-api/internal/domain/repository"
	"github.com/tillworks/checkout-api/pkg/apperror"
)

// CartService owns the mutable basket: session lifecycle, item add/merge/
// remove, and recomputing running totals after every mutation.
type CartService struct {
	sessionRepo  repository.CartSessionRepository
	itemRepo     repository.CartItemRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	shiftRepo    repository.ShiftRepository
	userRepo     repository.UserRepository
}

// NewCartService creates a new cart service
func NewCartService(
	sessionRepo repository.CartSessionRepository,
	itemRepo repository.CartItemRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	shiftRepo repository.ShiftRepository,
	userRepo repository.UserRepository,
) *CartService {
	return &CartService{
		sessionRepo:  sessionRepo,
		itemRepo:     itemRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		shiftRepo:    shiftRepo,
		userRepo:     userRepo,
	}
}

// GetOrCreateSession returns the cashier's ACTIVE session, recovering an
// in-progress basket, or creates a fresh one. Cashiers need an open shift
// before a session can be created; admins may sell without one.
func (s *CartService) GetOrCreateSession(ctx context.Context, userID, businessID uuid.UUID) (*entity.CartSession, error) {
	existing, err := s.sessionRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.sessionRepo.GetWithItems(ctx, existing.ID)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	var shiftID *uuid.UUID
	shift, err := s.shiftRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if shift != nil {
		shiftID = &shift.ID
	} else if !user.Role.IsAdmin() {
		return nil, apperror.ErrShiftRequired
	}

	session := &entity.CartSession{
		UserID:     userID,
		ShiftID:    shiftID,
		BusinessID: businessID,
		Status:     enum.SessionStatusActive,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession loads a session with its items, enforcing cashier ownership.
func (s *CartService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*entity.CartSession, error) {
	session, err := s.sessionRepo.GetWithItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, apperror.NewNotFoundError("Cart session")
	}
	return session, nil
}

// AddItemInput describes one line addition. Exactly one of ProductID or
// CategoryID must be set; CustomPrice (cents) overrides the catalogue
// price for generic items and is required for category quick sales when
// the category has no quick-sale price.
type AddItemInput struct {
	UserID      uuid.UUID
	SessionID   uuid.UUID
	ProductID   *uuid.UUID
	CategoryID  *uuid.UUID
	Quantity    int
	Weight      float64
	CustomPrice *int64
	AgeVerified bool
}

// AddItem adds a line to the session, merging with an existing line when
// the target and kind match. Merged lines reprice from the summed
// quantity or weight using the price captured when the line was first
// added; prices are never averaged. Returns the refreshed item list.
func (s *CartService) AddItem(ctx context.Context, input *AddItemInput) (*entity.CartSession, error) {
	session, err := s.mutableSession(ctx, input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}

	target, err := targetFromIDs(input.ProductID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	line, err := s.buildLine(ctx, session, target, input)
	if err != nil {
		return nil, err
	}

	if line.AgeRestriction > 0 && !line.AgeVerified {
		return nil, apperror.NewFieldError("age_verified", "age verification is required for this item")
	}

	merged := false
	for i := range session.Items {
		existing := &session.Items[i]
		if !existing.SameTarget(line.Kind, target) {
			continue
		}
		// Reprice from the summed quantity or weight at the unit price
		// captured when the line was first added.
		var amounts pricing.Amounts
		if line.Kind == enum.ItemKindWeight {
			existing.Weight += line.Weight
			amounts, err = pricing.WeightItem(existing.UnitPrice, existing.Weight, existing.TaxRate)
		} else {
			existing.Quantity += line.Quantity
			amounts, err = pricing.UnitItem(existing.UnitPrice, existing.Quantity, existing.TaxRate)
		}
		if err != nil {
			return nil, err
		}
		existing.SubTotal = amounts.Subtotal
		existing.Tax = amounts.Tax
		existing.Total = amounts.Total
		if err := s.itemRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		merged = true
		break
	}

	if !merged {
		if err := s.itemRepo.Create(ctx, line); err != nil {
			return nil, err
		}
	}

	return s.refreshTotals(ctx, session.ID)
}

// RemoveItem deletes a line and recomputes the session totals.
func (s *CartService) RemoveItem(ctx context.Context, userID, sessionID, itemID uuid.UUID) (*entity.CartSession, error) {
	session, err := s.mutableSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	var found *entity.CartItem
	for i := range session.Items {
		if session.Items[i].ID == itemID {
			found = &session.Items[i]
			break
		}
	}
	if found == nil {
		return nil, apperror.ErrItemNotFound
	}

	if err := s.itemRepo.Delete(ctx, found.ID); err != nil {
		return nil, err
	}

	return s.refreshTotals(ctx, session.ID)
}

// mutableSession loads the session with items and verifies it belongs to
// the cashier and is still ACTIVE.
func (s *CartService) mutableSession(ctx context.Context, userID, sessionID uuid.UUID) (*entity.CartSession, error) {
	session, err := s.sessionRepo.GetWithItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, apperror.NewNotFoundError("Cart session")
	}
	if !session.IsActive() {
		return nil, apperror.ErrSessionCompleted
	}
	return session, nil
}

// buildLine resolves the catalogue data for the target and prices a new
// cart line. The tax rate is captured here, at add time.
func (s *CartService) buildLine(ctx context.Context, session *entity.CartSession, target entity.LineTarget, input *AddItemInput) (*entity.CartItem, error) {
	line := &entity.CartItem{
		SessionID:   session.ID,
		AgeVerified: input.AgeVerified,
	}
	if err := line.SetTarget(target); err != nil {
		return nil, apperror.NewFieldError("product_id", err.Error())
	}

	if productID, ok := target.Product(); ok {
		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperror.NewNotFoundError("Product")
		}

		line.Name = product.Name
		line.TaxRate = product.TaxRate
		line.AgeRestriction = product.AgeRestriction
		line.UnitPrice = product.Price
		if input.CustomPrice != nil {
			line.UnitPrice = *input.CustomPrice
			line.CustomPrice = input.CustomPrice
		}

		if product.SoldByWeight {
			if input.Weight <= 0 {
				return nil, apperror.ErrWeightRequired
			}
			line.Kind = enum.ItemKindWeight
			line.Weight = input.Weight
			line.WeightUnit = product.WeightUnit
			amounts, err := pricing.WeightItem(line.UnitPrice, line.Weight, line.TaxRate)
			if err != nil {
				return nil, err
			}
			line.SubTotal, line.Tax, line.Total = amounts.Subtotal, amounts.Tax, amounts.Total
			return line, nil
		}

		line.Kind = enum.ItemKindUnit
		line.Quantity = input.Quantity
		if line.Quantity == 0 {
			line.Quantity = 1
		}
		amounts, err := pricing.UnitItem(line.UnitPrice, line.Quantity, line.TaxRate)
		if err != nil {
			return nil, err
		}
		line.SubTotal, line.Tax, line.Total = amounts.Subtotal, amounts.Tax, amounts.Total
		return line, nil
	}

	// Category quick sale: a flat-priced generic line.
	categoryID, _ := target.Category()
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}

	price := input.CustomPrice
	if price == nil {
		price = category.QuickSalePrice
	}
	if price == nil {
		return nil, apperror.NewFieldError("custom_price", "category has no quick-sale price; a custom price is required")
	}

	line.Kind = enum.ItemKindUnit
	line.Name = category.Name
	line.TaxRate = category.TaxRate
	line.AgeRestriction = category.AgeRestriction
	line.UnitPrice = *price
	line.CustomPrice = price
	line.Quantity = input.Quantity
	if line.Quantity == 0 {
		line.Quantity = 1
	}

	amounts, err := pricing.UnitItem(line.UnitPrice, line.Quantity, line.TaxRate)
	if err != nil {
		return nil, err
	}
	line.SubTotal, line.Tax, line.Total = amounts.Subtotal, amounts.Tax, amounts.Total
	return line, nil
}

// refreshTotals recomputes the running totals from the stored lines and
// persists them, returning the refreshed session.
func (s *CartService) refreshTotals(ctx context.Context, sessionID uuid.UUID) (*entity.CartSession, error) {
	items, err := s.itemRepo.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var subTotal, tax, total int64
	for i := range items {
		subTotal += items[i].SubTotal
		tax += items[i].Tax
		total += items[i].Total
	}

	if err := s.sessionRepo.UpdateTotals(ctx, sessionID, subTotal, tax, total); err != nil {
		return nil, err
	}

	return s.sessionRepo.GetWithItems(ctx, sessionID)
}

func targetFromIDs(productID, categoryID *uuid.UUID) (entity.LineTarget, error) {
	switch {
	case productID != nil && categoryID == nil:
		return entity.ProductTarget(*productID), nil
	case categoryID != nil && productID == nil:
		return entity.CategoryTarget(*categoryID), nil
	default:
		return entity.LineTarget{}, apperror.NewFieldError("product_id", "exactly one of product_id or category_id is required")
	}
}
