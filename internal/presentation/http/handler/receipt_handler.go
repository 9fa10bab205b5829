package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/application/service"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/request"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/response"
)

// ReceiptHandler handles the post-completion receipt dispositions
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Print sends the receipt to the thermal printer
// @Summary Print receipt
// @Tags receipts
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Router /receipts/{id}/print [post]
func (h *ReceiptHandler) Print(c *gin.Context) {
	userID, txnID, ok := h.params(c)
	if !ok {
		return
	}

	receipt, err := h.receiptService.Print(c.Request.Context(), userID, txnID)
	if err != nil {
		if receipt != nil {
			// Printing failed but the receipt itself is intact; the
			// cashier can retry or pick another disposition.
			c.JSON(502, response.APIResponse{
				Success: false,
				Message: err.Error(),
				Data:    receipt,
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed", receipt)
}

// Export saves the receipt as a downloadable document
// @Summary Export receipt
// @Tags receipts
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Router /receipts/{id}/export [post]
func (h *ReceiptHandler) Export(c *gin.Context) {
	userID, txnID, ok := h.params(c)
	if !ok {
		return
	}

	receipt, path, err := h.receiptService.Export(c.Request.Context(), userID, txnID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt exported", gin.H{
		"receipt": receipt,
		"path":    path,
	})
}

// Email sends the receipt to a customer email address
// @Summary Email receipt
// @Tags receipts
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body request.EmailReceiptRequest true "Destination address"
// @Success 200 {object} response.APIResponse
// @Router /receipts/{id}/email [post]
func (h *ReceiptHandler) Email(c *gin.Context) {
	userID, txnID, ok := h.params(c)
	if !ok {
		return
	}

	var req request.EmailReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.Email(c.Request.Context(), userID, txnID, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt emailed", receipt)
}

// Finish ends the receipt flow and opens a fresh cart session
// @Summary Finish receipt flow
// @Tags receipts
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /receipts/finish [post]
func (h *ReceiptHandler) Finish(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	session, err := h.receiptService.Finish(c.Request.Context(), *userID, GetBusinessID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ready for next sale", session)
}

func (h *ReceiptHandler) params(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return uuid.Nil, uuid.Nil, false
	}

	txnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return uuid.Nil, uuid.Nil, false
	}

	return *userID, txnID, true
}
