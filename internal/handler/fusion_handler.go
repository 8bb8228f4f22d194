package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexora/brand-mixer/internal/service"
)

// FusionHandler exposes the combo orchestration over HTTP: generate, vote,
// leaderboard, stats, and the brand picker.
type FusionHandler struct {
	fusion *service.FusionService
	logger *zap.Logger
}

// NewFusionHandler creates a new FusionHandler.
func NewFusionHandler(fusion *service.FusionService, logger *zap.Logger) *FusionHandler {
	return &FusionHandler{
		fusion: fusion,
		logger: logger,
	}
}

// generateRequest is the POST /generate body. Mode is optional and
// defaults to competitive.
type generateRequest struct {
	Product1 string `json:"product1"`
	Product2 string `json:"product2"`
	Mode     string `json:"mode"`
}

// Generate runs the full fusion pipeline for a brand pair.
// Route: POST /generate
//
// The only client-visible failure is validation: degraded providers are
// masked by fallbacks inside the service, and a failed store write still
// returns the generated result (persisted=false, no id).
func (h *FusionHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	view, err := h.fusion.GenerateCombo(c.Request.Context(), req.Product1, req.Product2, req.Mode)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		h.logger.Error("generate failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate combo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"combo":   view,
		"message": "Combo generated successfully",
	})
}

// Leaderboard returns the top combos by votes.
// Route: GET /leaderboard?limit=N
func (h *FusionHandler) Leaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()

	combos, err := h.fusion.Leaderboard(ctx, limit)
	if err != nil {
		h.logger.Error("listing leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve leaderboard"})
		return
	}

	stats, err := h.fusion.Stats(ctx)
	if err != nil {
		h.logger.Error("counting combos", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"combos":      combos,
		"total_count": stats.TotalCombos,
		"message":     "Leaderboard retrieved successfully",
	})
}

// voteRequest is the POST /vote body.
type voteRequest struct {
	ComboID string `json:"combo_id"`
}

// Vote registers one vote for a combo via the store's atomic increment.
// Route: POST /vote
func (h *FusionHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	votes, name, err := h.fusion.Vote(c.Request.Context(), req.ComboID)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case service.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": "Combo not found"})
		default:
			h.logger.Error("vote failed", zap.String("combo_id", req.ComboID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register vote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "voted",
		"votes":      votes,
		"combo_name": name,
		"message":    "Vote registered successfully",
	})
}

// Stats returns store-wide aggregate counters.
// Route: GET /stats
func (h *FusionHandler) Stats(c *gin.Context) {
	stats, err := h.fusion.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("getting stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Brands lists known brands, optionally filtered by category.
// Route: GET /brands?category=tech
func (h *FusionHandler) Brands(c *gin.Context) {
	category := c.DefaultQuery("category", "all")

	brands, categories, err := h.fusion.Brands(category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands":     brands,
		"categories": categories,
	})
}
