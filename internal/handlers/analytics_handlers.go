package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/services"
)

// AnalyticsHandler exposes sales and inventory reports over HTTP.
type AnalyticsHandler struct {
	service *services.AnalyticsService
	logger  *logrus.Entry
}

func NewAnalyticsHandler(service *services.AnalyticsService, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.WithField("component", "analytics_handler"),
	}
}

// Overview returns the combined analytics payload
// @Summary Analytics overview for a calendar month
// @Tags analytics
// @Produce json
// @Param period query string false "current_month or previous_month" default(current_month)
// @Success 200 {object} models.AnalyticsResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/analytics [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	result, err := h.service.Overview(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Sales returns per-product sales totals
// @Summary Per-product sales report
// @Tags analytics
// @Produce json
// @Success 200 {object} models.SalesReportResponse
// @Router /api/v1/analytics/sales [get]
func (h *AnalyticsHandler) Sales(c *gin.Context) {
	result, err := h.service.SalesReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stock returns current stock levels
// @Summary Stock level report
// @Tags analytics
// @Produce json
// @Success 200 {object} models.StockReportResponse
// @Router /api/v1/analytics/stock [get]
func (h *AnalyticsHandler) Stock(c *gin.Context) {
	result, err := h.service.StockReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Products returns per-product economics
// @Summary Product economics report
// @Tags analytics
// @Produce json
// @Success 200 {object} models.ProductReportResponse
// @Router /api/v1/analytics/products [get]
func (h *AnalyticsHandler) Products(c *gin.Context) {
	result, err := h.service.ProductReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Inventory returns stock valuation totals
// @Summary Inventory valuation report
// @Tags analytics
// @Produce json
// @Success 200 {object} models.InventoryReportResponse
// @Router /api/v1/analytics/inventory [get]
func (h *AnalyticsHandler) Inventory(c *gin.Context) {
	result, err := h.service.InventoryReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
