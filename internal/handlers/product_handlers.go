package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/services"
)

// ProductHandler exposes product catalog management over HTTP.
type ProductHandler struct {
	service *services.ProductService
	logger  *logrus.Entry
}

func NewProductHandler(service *services.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.WithField("component", "product_handler"),
	}
}

// Create creates a product
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product data"
// @Success 201 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.Validation(err.Error()))
		return
	}

	product, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ProductResponse{Success: true, Data: product})
}

// List returns products
// @Summary List products
// @Tags products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.ProductListResponse
// @Router /api/v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	products, pagination, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: pagination,
	})
}

// Get returns a product by id
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ProductResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: product})
}

// Update applies a partial update to a product
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.UpdateProductRequest true "Fields to update"
// @Success 200 {object} models.ProductResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.Validation(err.Error()))
		return
	}

	product, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: product})
}

// Delete removes a product
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
