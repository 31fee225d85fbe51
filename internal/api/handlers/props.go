package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/courtedge/courtedge/internal/models"
	"github.com/courtedge/courtedge/internal/services"
	"github.com/courtedge/courtedge/pkg/utils"
)

// maxPropsPerSlip bounds one analysis request; anything larger should be
// split by the client.
const maxPropsPerSlip = 25

type PropsHandler struct {
	analyzer *services.AnalyzerService
}

func NewPropsHandler(analyzer *services.AnalyzerService) *PropsHandler {
	return &PropsHandler{analyzer: analyzer}
}

type analyzeRequest struct {
	Props []models.PropRequest `json:"props" binding:"required"`
}

// AnalyzeProps scores a bet slip of props and returns confidences, tiers,
// and parlay suggestions.
func (h *PropsHandler) AnalyzeProps(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if len(req.Props) == 0 {
		utils.SendValidationError(c, "At least one prop is required", "")
		return
	}
	if len(req.Props) > maxPropsPerSlip {
		utils.SendValidationError(c, "Too many props in one slip", "")
		return
	}

	run, err := h.analyzer.AnalyzeProps(c.Request.Context(), req.Props)
	if err != nil {
		if errors.Is(err, models.ErrProviderUnavailable) {
			utils.SendUpstreamError(c, "Stats provider unavailable")
			return
		}
		utils.SendInternalError(c, "Failed to analyze props")
		return
	}

	utils.SendSuccessWithMeta(c, run, &utils.Meta{
		Count:     len(run.Results),
		RequestID: run.RunID,
	})
}
