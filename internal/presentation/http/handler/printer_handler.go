package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tillworks/checkout-api/internal/application/service"
	"github.com/tillworks/checkout-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer diagnostics HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// Status returns printer connection status
// @Summary Printer status
// @Tags printer
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /printer/status [get]
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status", h.printerService.GetStatus())
}

// TestPrint sends a test page to the printer
// @Summary Test print
// @Tags printer
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /printer/test [post]
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint()
	if err != nil {
		c.JSON(502, response.APIResponse{
			Success: false,
			Message: err.Error(),
			Data:    receipt,
		})
		return
	}

	response.OK(c, "Test page printed", receipt)
}
