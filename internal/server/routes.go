// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexora/brand-mixer/internal/config"
	"github.com/nexora/brand-mixer/internal/handler"
	"github.com/nexora/brand-mixer/internal/middleware"
)

// RegisterRoutes sets up all HTTP routes on the Gin engine. Each handler
// gets exactly the dependencies it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler(deps.Fusion)
	fusionHandler := handler.NewFusionHandler(deps.Fusion, logger)

	r.GET("/", healthHandler.Home)
	r.GET("/health", healthHandler.Health)

	// CORS + per-client rate limiting apply to the whole API surface.
	api := r.Group("")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	api.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		api.POST("/generate", fusionHandler.Generate)
		api.GET("/leaderboard", fusionHandler.Leaderboard)
		api.POST("/vote", fusionHandler.Vote)
		api.GET("/stats", fusionHandler.Stats)
		api.GET("/brands", fusionHandler.Brands)

		// Generated combo art is served straight from disk.
		if deps.ImageDir != "" {
			api.Static("/images", deps.ImageDir)
		}
	}
}
