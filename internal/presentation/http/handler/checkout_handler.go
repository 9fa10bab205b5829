package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/application/service"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/request"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/response"
)

// CheckoutHandler handles payment selection and sale completion
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	paymentService  *service.PaymentService
	cartService     *service.CartService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(
	checkoutService *service.CheckoutService,
	paymentService *service.PaymentService,
	cartService *service.CartService,
) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		paymentService:  paymentService,
		cartService:     cartService,
	}
}

// SelectMethod picks a payment method for the session
// @Summary Select payment method
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body request.SelectMethodRequest true "Payment method"
// @Success 200 {object} response.APIResponse
// @Router /checkout/{id}/method [post]
func (h *CheckoutHandler) SelectMethod(c *gin.Context) {
	userID, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	var req request.SelectMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.BadRequest(c, "Unknown payment method")
		return
	}

	session, err := h.cartService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	selection, err := h.paymentService.SelectMethod(sessionID, method, session.Total)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method selected", selection)
}

// SetTendered sets the cash amount handed over
// @Summary Set tendered amount
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body request.TenderedRequest true "Tendered amount"
// @Success 200 {object} response.APIResponse
// @Router /checkout/{id}/tendered [post]
func (h *CheckoutHandler) SetTendered(c *gin.Context) {
	_, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	var req request.TenderedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	selection, err := h.paymentService.SetTendered(sessionID, ToCents(req.Tendered))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tendered amount set", selection)
}

// Capture runs the card-terminal capture for the selected method
// @Summary Capture card payment
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /checkout/{id}/capture [post]
func (h *CheckoutHandler) Capture(c *gin.Context) {
	_, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	selection, err := h.paymentService.Capture(c.Request.Context(), sessionID)
	if err != nil {
		// Return the selection alongside the error so the UI can show the
		// Failed state and offer a retry.
		if selection != nil {
			c.JSON(502, response.APIResponse{
				Success: false,
				Message: selection.LastError,
				Data:    selection,
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment captured", selection)
}

// CancelPayment aborts the payment flow for the session
// @Summary Cancel payment
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.APIResponse
// @Router /checkout/{id}/cancel [post]
func (h *CheckoutHandler) CancelPayment(c *gin.Context) {
	_, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	if err := h.paymentService.Cancel(sessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment cancelled", nil)
}

// PaymentState returns the session's current payment selection
// @Summary Payment state
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.APIResponse
// @Router /checkout/{id}/payment [get]
func (h *CheckoutHandler) PaymentState(c *gin.Context) {
	_, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	response.OK(c, "Payment state", h.paymentService.Get(sessionID))
}

// Complete finalizes the sale for the cart session
// @Summary Complete sale
// @Description Record the transaction and close the cart session
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body request.CompleteRequest true "Completion details"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /checkout/{id}/complete [post]
func (h *CheckoutHandler) Complete(c *gin.Context) {
	userID, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	var req request.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.BadRequest(c, "Unknown payment method")
		return
	}

	result, err := h.checkoutService.Complete(c.Request.Context(), &service.CompleteInput{
		UserID:    userID,
		SessionID: sessionID,
		Method:    method,
		Tendered:  ToCents(req.Tendered),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed", result)
}

func (h *CheckoutHandler) sessionParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return uuid.Nil, uuid.Nil, false
	}

	return *userID, sessionID, true
}
