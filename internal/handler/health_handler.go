// Package handler contains HTTP request handlers. In Gin, a handler is any
// function with signature func(*gin.Context) — no controller classes, just
// functions grouped by file.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexora/brand-mixer/internal/service"
)

// HealthHandler reports per-dependency reachability. A degraded dependency
// does not fail the endpoint: the service keeps answering with fallbacks,
// so health stays 200 with the snapshot telling operators what is down.
type HealthHandler struct {
	fusion *service.FusionService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(fusion *service.FusionService) *HealthHandler {
	return &HealthHandler{fusion: fusion}
}

// Health responds with overall status and the per-dependency snapshot.
// Route: GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	snap := h.fusion.Health(c.Request.Context())

	status := "ok"
	if snap.Degraded() {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"service":  "brand-mixer",
		"services": snap,
	})
}

// Home describes the API surface.
// Route: GET /
func (h *HealthHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Brand Mixer API",
		"status":    "healthy",
		"endpoints": []string{"/generate", "/leaderboard", "/vote", "/stats", "/brands", "/health"},
	})
}
