// internal/handler/printer_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// PrinterHandler exposes the configured printers
type PrinterHandler struct {
	registry *service.PrinterRegistry
	logger   *utils.ServiceLogger
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(registry *service.PrinterRegistry, logger *zap.Logger) *PrinterHandler {
	return &PrinterHandler{
		registry: registry,
		logger:   utils.NewServiceLogger(logger, "printer-handler"),
	}
}

// RegisterRoutes registers printer routes
func (h *PrinterHandler) RegisterRoutes(router *gin.RouterGroup) {
	printers := router.Group("/printers")
	{
		printers.GET("", h.ListPrinters)
		printers.GET("/:printer_id", h.GetPrinter)
	}
}

// ListPrinters lists configured printers
// @Summary List printers
// @Description Configured printers with their model capabilities and connection state
// @Tags Printers
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.PrinterInfo} "Printers retrieved successfully"
// @Router /printers [get]
func (h *PrinterHandler) ListPrinters(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Printers retrieved successfully", h.registry.Infos())
}

// GetPrinter returns one printer
// @Summary Get printer
// @Description Model capabilities, connection state and statistics of one printer
// @Tags Printers
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Success 200 {object} utils.APIResponse{data=model.PrinterInfo} "Printer retrieved successfully"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{printer_id} [get]
func (h *PrinterHandler) GetPrinter(c *gin.Context) {
	printer, err := h.registry.Get(c.Param("printer_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Printer not found", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Printer retrieved successfully", printer.Info())
}
