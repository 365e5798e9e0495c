package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	parserConfigured bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(parserConfigured bool) *HealthHandler {
	return &HealthHandler{parserConfigured: parserConfigured}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"parser_configured": h.parserConfigured,
	})
}
