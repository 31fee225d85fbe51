package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/courtedge/courtedge/internal/api/handlers"
	"github.com/courtedge/courtedge/internal/services"
	"github.com/courtedge/courtedge/pkg/config"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, redisClient *redis.Client, analyzer *services.AnalyzerService, halftime *services.HalftimeService, stats *services.StatsService, cfg *config.Config, logger *logrus.Logger) {
	// Initialize handlers
	propsHandler := handlers.NewPropsHandler(analyzer)
	halftimeHandler := handlers.NewHalftimeHandler(halftime)
	gamesHandler := handlers.NewGamesHandler(stats)
	healthHandler := handlers.NewHealthHandler(redisClient)

	// Health endpoints
	group.GET("/health", healthHandler.GetHealth)
	group.GET("/ready", healthHandler.GetReady)

	// Prop analysis endpoints
	group.POST("/props/analyze", propsHandler.AnalyzeProps)

	// Live game endpoints
	group.GET("/games/live", gamesHandler.ListLiveGames)
	group.GET("/games/:gameId/halftime", halftimeHandler.GetProjection)
	group.GET("/games/:gameId/halftime/cached", halftimeHandler.GetCachedProjection)
}
