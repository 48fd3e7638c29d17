package handlers

import (
	"github.com/gin-gonic/gin"

	"inventa/internal/domain/reports"
	"inventa/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// StockLevels handles GET /reports/stock-levels
func (h *ReportsHandler) StockLevels(c *gin.Context) {
	report, err := h.service.StockLevels(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStockLevelReport(report))
}

// OrderStatus handles GET /reports/order-status
func (h *ReportsHandler) OrderStatus(c *gin.Context) {
	report, err := h.service.OrderStatus(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOrderStatusReport(report))
}
