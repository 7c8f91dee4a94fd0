package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
	"commerce-admin-service/internal/services"
)

// OrderHandler exposes order listing and receipts over HTTP.
type OrderHandler struct {
	repo      repository.OrderRepository
	analytics *services.AnalyticsService
	logger    *logrus.Entry
}

func NewOrderHandler(repo repository.OrderRepository, analytics *services.AnalyticsService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		repo:      repo,
		analytics: analytics,
		logger:    logger.WithField("component", "order_handler"),
	}
}

// List returns orders newest first
// @Summary List orders
// @Tags orders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.OrderListResponse
// @Router /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	orders, pagination, err := h.repo.List(c.Request.Context(), page, limit)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, apierrors.NotFound("orders not found"))
			return
		}
		respondError(c, apierrors.Upstream("failed to list orders", err))
		return
	}

	c.JSON(http.StatusOK, models.OrderListResponse{
		Success:    true,
		Data:       orders,
		Pagination: pagination,
	})
}

// Receipt returns a normalized receipt for an order
// @Summary Get an order receipt
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} object{success=bool,data=models.Receipt}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *gin.Context) {
	receipt, err := h.analytics.BuildReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": receipt})
}
