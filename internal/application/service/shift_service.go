package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/internal/domain/repository"
	"github.com/tillworks/checkout-api/pkg/apperror"
	"github.com/tillworks/checkout-api/pkg/pagination"
)

// ShiftService handles cashier shift lifecycle. A cashier has at most one
// open shift; sales are recorded against it.
type ShiftService struct {
	shiftRepo repository.ShiftRepository
	txnRepo   repository.TransactionRepository
}

// NewShiftService creates a new shift service
func NewShiftService(shiftRepo repository.ShiftRepository, txnRepo repository.TransactionRepository) *ShiftService {
	return &ShiftService{
		shiftRepo: shiftRepo,
		txnRepo:   txnRepo,
	}
}

// Open starts a new shift for the cashier with the given opening float
// (cents). Fails if a shift is already open.
func (s *ShiftService) Open(ctx context.Context, userID, businessID uuid.UUID, openingFloat int64) (*entity.Shift, error) {
	if openingFloat < 0 {
		return nil, apperror.NewFieldError("opening_float", "must not be negative")
	}

	existing, err := s.shiftRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A shift is already open for this user")
	}

	shift := &entity.Shift{
		UserID:       userID,
		BusinessID:   businessID,
		Status:       enum.ShiftStatusOpen,
		OpeningFloat: openingFloat,
		OpenedAt:     time.Now(),
	}
	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// CloseResult pairs the closed shift with its sales summary.
type CloseResult struct {
	Shift   *entity.Shift            `json:"shift"`
	Summary *repository.ShiftSummary `json:"summary"`
}

// Close ends the cashier's open shift and returns its takings summary.
func (s *ShiftService) Close(ctx context.Context, userID uuid.UUID) (*CloseResult, error) {
	shift, err := s.shiftRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.ErrNoActiveShift
	}

	if err := s.shiftRepo.Close(ctx, shift.ID); err != nil {
		return nil, err
	}

	summary, err := s.txnRepo.GetShiftSummary(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	closed, err := s.shiftRepo.GetByID(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	return &CloseResult{Shift: closed, Summary: summary}, nil
}

// GetActive returns the cashier's open shift, or nil when none is open.
func (s *ShiftService) GetActive(ctx context.Context, userID uuid.UUID) (*entity.Shift, error) {
	return s.shiftRepo.GetActiveByUser(ctx, userID)
}

// Report returns the sales summary for a given shift.
func (s *ShiftService) Report(ctx context.Context, userID, shiftID uuid.UUID, isAdmin bool) (*repository.ShiftSummary, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	if shift.UserID != userID && !isAdmin {
		return nil, apperror.NewNotFoundError("Shift")
	}
	return s.txnRepo.GetShiftSummary(ctx, shiftID)
}

// List returns the cashier's shifts, newest first.
func (s *ShiftService) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Shift], error) {
	params.Validate()

	shifts, total, err := s.shiftRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(shifts, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
