package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtedge/courtedge/internal/models"
	"github.com/courtedge/courtedge/internal/services"
	"github.com/courtedge/courtedge/pkg/utils"
)

type HalftimeHandler struct {
	halftime *services.HalftimeService
}

func NewHalftimeHandler(halftime *services.HalftimeService) *HalftimeHandler {
	return &HalftimeHandler{halftime: halftime}
}

// GetProjection returns the halftime projection for a live game. An
// optional "line" query parameter feeds the over/under lean.
func (h *HalftimeHandler) GetProjection(c *gin.Context) {
	gameID, err := strconv.Atoi(c.Param("gameId"))
	if err != nil {
		utils.SendValidationError(c, "Invalid game ID", c.Param("gameId"))
		return
	}

	var liveLine *float64
	if raw := c.Query("line"); raw != "" {
		line, err := strconv.ParseFloat(raw, 64)
		if err != nil || line <= 0 {
			utils.SendValidationError(c, "Invalid line", raw)
			return
		}
		liveLine = &line
	}

	proj, err := h.halftime.ProjectGame(c.Request.Context(), gameID, liveLine)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrGameNotLive):
			utils.SendNotFound(c, "Game is not live or has not reached the second quarter")
		case errors.Is(err, models.ErrProviderUnavailable):
			utils.SendUpstreamError(c, "Stats provider unavailable")
		default:
			utils.SendInternalError(c, "Failed to project game")
		}
		return
	}

	utils.SendSuccess(c, proj)
}

// GetCachedProjection serves the poller's last stored projection without
// touching the provider.
func (h *HalftimeHandler) GetCachedProjection(c *gin.Context) {
	gameID, err := strconv.Atoi(c.Param("gameId"))
	if err != nil {
		utils.SendValidationError(c, "Invalid game ID", c.Param("gameId"))
		return
	}

	proj, err := h.halftime.CachedProjection(c.Request.Context(), gameID)
	if err != nil {
		utils.SendNotFound(c, "No stored projection for this game")
		return
	}

	utils.SendSuccessWithMeta(c, proj, &utils.Meta{CacheHit: true})
}
