package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/courtedge/courtedge/internal/models"
	"github.com/courtedge/courtedge/internal/services"
	"github.com/courtedge/courtedge/pkg/utils"
)

type GamesHandler struct {
	stats *services.StatsService
}

func NewGamesHandler(stats *services.StatsService) *GamesHandler {
	return &GamesHandler{stats: stats}
}

// ListLiveGames returns the IDs of games currently in progress.
func (h *GamesHandler) ListLiveGames(c *gin.Context) {
	ids, err := h.stats.GetLiveGameIDs(c.Request.Context())
	if err != nil {
		if errors.Is(err, models.ErrProviderUnavailable) {
			utils.SendUpstreamError(c, "Stats provider unavailable")
			return
		}
		utils.SendInternalError(c, "Failed to list live games")
		return
	}

	utils.SendSuccessWithMeta(c, gin.H{"game_ids": ids}, &utils.Meta{Count: len(ids)})
}
