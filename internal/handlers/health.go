package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the health status of the service
// @Summary Health check
// @Description Returns the health status of the commerce admin service
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string,service=string}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "commerce-admin-service",
		"version":   "1.0.0",
	})
}

// ReadinessCheck returns the readiness status of the service
// @Summary Readiness check
// @Description Returns the readiness status of the commerce admin service
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string,service=string}
// @Router /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	status := "ready"
	code := http.StatusOK

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "commerce-admin-service",
		"version":   "1.0.0",
	})
}
