package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtedge/courtedge/internal/models"
)

func scored(playerID int, name string, score float64) models.PropAnalysisResult {
	return models.PropAnalysisResult{
		PlayerID:        playerID,
		PlayerName:      name,
		StatType:        models.StatPoints,
		Line:            20.5,
		Direction:       models.DirectionOver,
		ConfidenceScore: score,
		Recommendation:  TierFor(score),
	}
}

func TestBuildParlays_RanksByCombinedConfidence(t *testing.T) {
	results := []models.PropAnalysisResult{
		scored(1, "Jokic", 80),
		scored(2, "Doncic", 75),
		scored(3, "Tatum", 60),
		scored(4, "Gobert", 40), // below floor, never a leg
	}

	parlays := BuildParlays(results, DefaultParlayConfig())
	require.NotEmpty(t, parlays)

	top := parlays[0]
	assert.Len(t, top.Legs, 2)
	assert.Equal(t, 1, top.Legs[0].PlayerID)
	assert.Equal(t, 2, top.Legs[1].PlayerID)
	assert.InDelta(t, 60.0, top.CombinedConfidence, 0.001, "0.80 * 0.75 * 100")

	for i := 1; i < len(parlays); i++ {
		assert.GreaterOrEqual(t, parlays[i-1].CombinedConfidence, parlays[i].CombinedConfidence)
	}
	for _, p := range parlays {
		for _, leg := range p.Legs {
			assert.NotEqual(t, 4, leg.PlayerID, "sub-floor props must not appear")
		}
	}
}

func TestBuildParlays_RespectsMaxLegs(t *testing.T) {
	results := []models.PropAnalysisResult{
		scored(1, "Jokic", 80),
		scored(2, "Doncic", 78),
		scored(3, "Tatum", 72),
		scored(5, "Curry", 70),
	}

	parlays := BuildParlays(results, ParlayConfig{MaxLegs: 3, ConfidenceFloor: 58, MaxSuggestions: 50})
	require.NotEmpty(t, parlays)
	for _, p := range parlays {
		assert.LessOrEqual(t, len(p.Legs), 3)
		assert.GreaterOrEqual(t, len(p.Legs), 2)
	}
}

func TestBuildParlays_NoRepeatedPlayerStatPair(t *testing.T) {
	results := []models.PropAnalysisResult{
		scored(1, "Jokic", 80),
		scored(1, "Jokic", 75), // second points prop on the same player
		scored(2, "Doncic", 72),
	}

	parlays := BuildParlays(results, DefaultParlayConfig())
	require.NotEmpty(t, parlays)
	for _, p := range parlays {
		seen := map[string]bool{}
		for _, leg := range p.Legs {
			key := fmt.Sprintf("%d/%s", leg.PlayerID, leg.StatType)
			assert.False(t, seen[key], "leg %s repeated in one parlay", key)
			seen[key] = true
		}
	}
}

func TestBuildParlays_SamePlayerDifferentStatsMayCombine(t *testing.T) {
	assists := scored(1, "Jokic", 74)
	assists.StatType = models.StatAssists
	assists.Line = 9.5
	results := []models.PropAnalysisResult{
		scored(1, "Jokic", 80),
		assists,
	}

	parlays := BuildParlays(results, DefaultParlayConfig())
	require.Len(t, parlays, 1)
	require.Len(t, parlays[0].Legs, 2)
	assert.Equal(t, models.StatPoints, parlays[0].Legs[0].StatType)
	assert.Equal(t, models.StatAssists, parlays[0].Legs[1].StatType)
}

func TestBuildParlays_FewerThanTwoEligibleLegs(t *testing.T) {
	assert.Nil(t, BuildParlays(nil, DefaultParlayConfig()))
	assert.Nil(t, BuildParlays([]models.PropAnalysisResult{scored(1, "Jokic", 90)}, DefaultParlayConfig()))
	assert.Nil(t, BuildParlays([]models.PropAnalysisResult{
		scored(1, "Jokic", 55),
		scored(2, "Doncic", 50),
	}, DefaultParlayConfig()))
}

func TestBuildParlays_CapsSuggestionCount(t *testing.T) {
	var results []models.PropAnalysisResult
	for i := 1; i <= 8; i++ {
		results = append(results, scored(i, "", 60+float64(i)))
	}

	parlays := BuildParlays(results, ParlayConfig{MaxSuggestions: 5})
	assert.Len(t, parlays, 5)
}

func TestBuildParlays_Description(t *testing.T) {
	parlays := BuildParlays([]models.PropAnalysisResult{
		scored(1, "Jokic", 80),
		scored(2, "Doncic", 75),
	}, DefaultParlayConfig())
	require.Len(t, parlays, 1)
	assert.Equal(t, "Jokic over 20.5 points + Doncic over 20.5 points", parlays[0].Description)
}
