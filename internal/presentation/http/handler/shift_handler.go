package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/application/service"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/request"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/response"
	"github.com/tillworks/checkout-api/pkg/pagination"
)

// ShiftHandler handles shift lifecycle HTTP requests
type ShiftHandler struct {
	shiftService *service.ShiftService
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(shiftService *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// Open starts a new shift for the cashier
// @Summary Open shift
// @Tags shifts
// @Accept json
// @Produce json
// @Param request body request.OpenShiftRequest true "Opening float"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /shifts [post]
func (h *ShiftHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.OpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shift, err := h.shiftService.Open(c.Request.Context(), *userID, GetBusinessID(c), ToCents(req.OpeningFloat))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Shift opened", shift)
}

// Close ends the cashier's open shift
// @Summary Close shift
// @Tags shifts
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 412 {object} response.APIResponse
// @Router /shifts/close [post]
func (h *ShiftHandler) Close(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	result, err := h.shiftService.Close(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift closed", result)
}

// GetActive returns the cashier's open shift, if any
// @Summary Active shift
// @Tags shifts
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /shifts/active [get]
func (h *ShiftHandler) GetActive(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	shift, err := h.shiftService.GetActive(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Active shift", shift)
}

// List returns the cashier's shifts
// @Summary List shifts
// @Tags shifts
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.shiftService.List(c.Request.Context(), *userID, &params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Shifts", result)
}

// Report returns the sales summary for one shift
// @Summary Shift report
// @Tags shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {object} response.APIResponse
// @Router /shifts/{id}/report [get]
func (h *ShiftHandler) Report(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	summary, err := h.shiftService.Report(c.Request.Context(), *userID, shiftID, IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift report", summary)
}
