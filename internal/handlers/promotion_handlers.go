package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/services"
)

// PromotionHandler exposes featured product management over HTTP.
type PromotionHandler struct {
	service *services.PromotionService
	logger  *logrus.Entry
}

func NewPromotionHandler(service *services.PromotionService, logger *logrus.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.WithField("component", "promotion_handler"),
	}
}

// Create features a product for a time window
// @Summary Feature a product
// @Tags promotions
// @Accept json
// @Produce json
// @Param promotion body models.CreateFeaturedProductRequest true "Promotion data"
// @Success 201 {object} object{success=bool,data=models.FeaturedProduct}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/promotions [post]
func (h *PromotionHandler) Create(c *gin.Context) {
	var req models.CreateFeaturedProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.Validation(err.Error()))
		return
	}

	promo, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": promo})
}

// ListActive returns currently running promotions
// @Summary List active promotions
// @Tags promotions
// @Produce json
// @Success 200 {object} models.FeaturedProductListResponse
// @Router /api/v1/promotions/active [get]
func (h *PromotionHandler) ListActive(c *gin.Context) {
	promos, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.FeaturedProductListResponse{Success: true, Data: promos})
}

// List returns all promotions
// @Summary List promotions
// @Tags promotions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} object{success=bool,data=[]models.FeaturedProduct}
// @Router /api/v1/promotions [get]
func (h *PromotionHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	promos, pagination, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       promos,
		"pagination": pagination,
	})
}

// Delete removes a promotion
// @Summary Delete a promotion
// @Tags promotions
// @Produce json
// @Param id path string true "Promotion ID"
// @Success 200 {object} object{success=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/promotions/{id} [delete]
func (h *PromotionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
