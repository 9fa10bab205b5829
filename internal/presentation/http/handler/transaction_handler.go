package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/application/service"
	"github.com/tillworks/checkout-api/internal/domain/repository"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/request"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/response"
	"github.com/tillworks/checkout-api/pkg/pagination"
)

// TransactionHandler handles ledger query HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// List returns recorded transactions
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param shift_id query string false "Filter by shift"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} response.APIResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		Search:     req.Search,
	}
	if req.ShiftID != "" {
		shiftID, err := uuid.Parse(req.ShiftID)
		if err != nil {
			response.BadRequest(c, "Invalid shift ID")
			return
		}
		params.ShiftID = &shiftID
	}
	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date")
			return
		}
		params.StartDate = &t
	}
	if req.EndDate != "" {
		t, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date")
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		params.EndDate = &end
	}

	result, err := h.transactionService.List(c.Request.Context(), *userID, IsAdmin(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions", result)
}

// Get returns one transaction
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	txnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.transactionService.Get(c.Request.Context(), *userID, txnID, IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction", txn)
}

// GetByReceiptNo looks up a transaction by receipt number
// @Summary Get transaction by receipt number
// @Tags transactions
// @Produce json
// @Param receiptNo path string true "Receipt number"
// @Success 200 {object} response.APIResponse
// @Router /transactions/receipt/{receiptNo} [get]
func (h *TransactionHandler) GetByReceiptNo(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	txn, err := h.transactionService.GetByReceiptNo(c.Request.Context(), *userID, c.Param("receiptNo"), IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction", txn)
}

// Void marks a transaction voided (admin only)
// @Summary Void transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body request.VoidTransactionRequest true "Void reason"
// @Success 200 {object} response.APIResponse
// @Router /transactions/{id}/void [post]
func (h *TransactionHandler) Void(c *gin.Context) {
	txnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req request.VoidTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	txn, err := h.transactionService.Void(c.Request.Context(), txnID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction voided", txn)
}
