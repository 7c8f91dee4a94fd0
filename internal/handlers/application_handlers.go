package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/services"
)

// ApplicationHandler exposes the vendor application lifecycle over HTTP.
type ApplicationHandler struct {
	service *services.VendorService
	logger  *logrus.Entry
}

func NewApplicationHandler(service *services.VendorService, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		logger:  logger.WithField("component", "application_handler"),
	}
}

// Submit creates a vendor application
// @Summary Submit a vendor application
// @Tags vendor-applications
// @Accept json
// @Produce json
// @Param application body models.SubmitApplicationRequest true "Application data"
// @Success 201 {object} models.ApplicationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/vendor-applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req models.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.Validation(err.Error()))
		return
	}

	app, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ApplicationResponse{Success: true, Data: app})
}

// List returns vendor applications
// @Summary List vendor applications
// @Tags vendor-applications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.ApplicationListResponse
// @Router /api/v1/vendor-applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	apps, pagination, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ApplicationListResponse{
		Success:      true,
		Applications: apps,
		Pagination:   pagination,
	})
}

// Review marks an application as reviewed
// @Summary Review a vendor application
// @Tags vendor-applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} models.ApplicationResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/vendor-applications/{id}/review [patch]
func (h *ApplicationHandler) Review(c *gin.Context) {
	app, err := h.service.Review(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ApplicationResponse{Success: true, Data: app})
}

// Promote grants vendor status for an application
// @Summary Promote a vendor application
// @Tags vendor-applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} object{success=bool,data=models.PromotionResult}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/vendor-applications/{id}/promote [patch]
func (h *ApplicationHandler) Promote(c *gin.Context) {
	result, err := h.service.Promote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// parsePagination reads page and limit query params with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
