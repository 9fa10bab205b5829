package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/application/service"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/request"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/response"
)

// CartHandler handles cart session HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetActive returns (or creates) the cashier's active cart session
// @Summary Active cart session
// @Description Recover the in-progress cart or start a new one
// @Tags cart
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 412 {object} response.APIResponse
// @Router /cart [get]
func (h *CartHandler) GetActive(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	session, err := h.cartService.GetOrCreateSession(c.Request.Context(), *userID, GetBusinessID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart session", session)
}

// AddItem adds (or merges) a line into the cart session
// @Summary Add cart item
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body request.AddItemRequest true "Item details"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /cart/{id}/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.AddItemInput{
		UserID:      *userID,
		SessionID:   sessionID,
		ProductID:   req.ProductID,
		CategoryID:  req.CategoryID,
		Quantity:    req.Quantity,
		Weight:      req.Weight,
		AgeVerified: req.AgeVerified,
	}
	if req.CustomPrice != nil {
		cents := ToCents(*req.CustomPrice)
		input.CustomPrice = &cents
	}

	session, err := h.cartService.AddItem(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", session)
}

// RemoveItem removes a line from the cart session
// @Summary Remove cart item
// @Tags cart
// @Produce json
// @Param id path string true "Session ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /cart/{id}/items/{itemId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	session, err := h.cartService.RemoveItem(c.Request.Context(), *userID, sessionID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed", session)
}
