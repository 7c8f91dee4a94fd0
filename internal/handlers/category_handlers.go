package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/services"
)

// CategoryHandler exposes category management over HTTP.
type CategoryHandler struct {
	service *services.CategoryService
	logger  *logrus.Entry
}

func NewCategoryHandler(service *services.CategoryService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.WithField("component", "category_handler"),
	}
}

// Create creates a category
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param category body models.CreateCategoryRequest true "Category data"
// @Success 201 {object} models.CategoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.Validation(err.Error()))
		return
	}

	category, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CategoryResponse{Success: true, Data: category})
}

// List returns categories ordered by position
// @Summary List categories
// @Tags categories
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.CategoryListResponse
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	categories, pagination, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CategoryListResponse{
		Success:    true,
		Data:       categories,
		Pagination: pagination,
	})
}

// Get returns a category by id
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} models.CategoryResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CategoryResponse{Success: true, Data: category})
}

// Update applies a partial update to a category
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body models.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} models.CategoryResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.Validation(err.Error()))
		return
	}

	category, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CategoryResponse{Success: true, Data: category})
}

// Delete removes a category
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} object{success=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Upload stores a category image
// @Summary Upload a category image
// @Tags categories
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Param category_id formData string false "Category to attach the image to"
// @Success 201 {object} object{success=bool,url=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/categories/upload [post]
func (h *CategoryHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, apierrors.Validation("image file is required"))
		return
	}

	categoryID := c.PostForm("category_id")
	url, category, err := h.service.UploadImage(c.Request.Context(), categoryID, header)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"success": true, "url": url}
	if category != nil {
		resp["data"] = category
	}
	c.JSON(http.StatusCreated, resp)
}
