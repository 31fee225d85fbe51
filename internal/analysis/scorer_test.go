package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtedge/courtedge/internal/models"
)

// A realistic ten-game scoring log, oldest to newest.
var pointsLog = gameLog(20, 18, 22, 15, 19, 25, 17, 21, 16, 23)

func TestScoreProp_PerfectHitRateIsStrongBet(t *testing.T) {
	req := models.PropRequest{
		PlayerID:   237,
		PlayerName: "LeBron James",
		StatType:   models.StatPoints,
		Line:       15.5,
		Direction:  models.DirectionOver,
	}

	res, err := ScoreProp(req, pointsLog)
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.HitRateLast10, "every game cleared 15.5")
	assert.InDelta(t, 19.6, res.Average, 0.001)
	assert.GreaterOrEqual(t, res.ConfidenceScore, 70.0)
	assert.Equal(t, models.TierStrongBet, res.Recommendation)
	assert.Equal(t, 1.0, res.Factors[models.FactorHitRate])
	assert.Equal(t, 1.0, res.Factors[models.FactorAverageVsLine])
}

func TestScoreProp_LowHitRateIsStrongAvoid(t *testing.T) {
	req := models.PropRequest{
		PlayerID:  237,
		StatType:  models.StatPoints,
		Line:      25,
		Direction: models.DirectionOver,
	}

	res, err := ScoreProp(req, pointsLog)
	require.NoError(t, err)

	assert.InDelta(t, 0.1, res.HitRateLast10, 0.001, "only the 25 ties the line")
	assert.Less(t, res.ConfidenceScore, 30.0)
	assert.Equal(t, models.TierStrongAvoid, res.Recommendation)
}

func TestScoreProp_EmptyLogDefaultsToNeutral(t *testing.T) {
	req := models.PropRequest{
		PlayerID:  9001,
		StatType:  models.StatPoints,
		Line:      15.5,
		Direction: models.DirectionOver,
	}

	res, err := ScoreProp(req, nil)
	require.NoError(t, err)

	assert.Equal(t, 50.0, res.ConfidenceScore)
	assert.Equal(t, models.TierNeutral, res.Recommendation)
	assert.NotEmpty(t, res.Notes)
	for factor, v := range res.Factors {
		assert.Zero(t, v, "factor %s should be zero with no data", factor)
	}
}

func TestScoreProp_UnderMirrorsOver(t *testing.T) {
	over := models.PropRequest{PlayerID: 1, StatType: models.StatAssists, Line: 6.5, Direction: models.DirectionOver}
	under := over
	under.Direction = models.DirectionUnder

	logs := gameLog(9, 10, 8, 11, 9, 10, 8, 9, 11, 10)

	overRes, err := ScoreProp(over, logs)
	require.NoError(t, err)
	underRes, err := ScoreProp(under, logs)
	require.NoError(t, err)

	assert.Greater(t, overRes.ConfidenceScore, 70.0, "player clears 6.5 assists every night")
	assert.Less(t, underRes.ConfidenceScore, 30.0, "same log read as an under should collapse")
}

func TestScoreProp_HigherLineNeverRaisesOverConfidence(t *testing.T) {
	logs := gameLog(20, 18, 22, 15, 19, 25, 17, 21, 16, 23)
	prev := 101.0
	for _, line := range []float64{12.5, 15.5, 18.5, 21.5, 24.5, 27.5} {
		req := models.PropRequest{PlayerID: 5, StatType: models.StatPoints, Line: line, Direction: models.DirectionOver}
		res, err := ScoreProp(req, logs)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.ConfidenceScore, prev, "line %.1f", line)
		prev = res.ConfidenceScore
	}
}

func TestScoreProp_RaisingEveryValueNeverLowersOverConfidence(t *testing.T) {
	// A streaky bench player whose core read sits right at the coin flip.
	// Bumping every game by a point must not drop the over score, even as
	// the predictive core crosses zero.
	streaky := func(lo, hi float64) []models.GameLogEntry {
		logs := make([]models.GameLogEntry, 0, 10)
		for i := 0; i < 5; i++ {
			logs = append(logs,
				models.GameLogEntry{StatValue: lo, MinutesPlayed: 10},
				models.GameLogEntry{StatValue: hi, MinutesPlayed: 10},
			)
		}
		return logs
	}
	req := models.PropRequest{PlayerID: 11, StatType: models.StatPoints, Line: 20, Direction: models.DirectionOver}

	lower, err := ScoreProp(req, streaky(4, 34))
	require.NoError(t, err)
	higher, err := ScoreProp(req, streaky(5, 35))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, higher.ConfidenceScore, lower.ConfidenceScore)
}

func TestScoreProp_BoundsAlwaysHold(t *testing.T) {
	logs := gameLog(0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	res, err := ScoreProp(models.PropRequest{PlayerID: 2, StatType: models.StatThrees, Line: 3.5, Direction: models.DirectionOver}, logs)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, res.ConfidenceScore, 100.0)
}

func TestScoreProp_TwentyGameHitRate(t *testing.T) {
	logs := gameLog(
		20, 18, 22, 15, 19, 25, 17, 21, 16, 23,
		14, 26, 19, 20, 18, 22, 17, 21, 24, 16,
	)
	res, err := ScoreProp(models.PropRequest{PlayerID: 3, StatType: models.StatPoints, Line: 15.5, Direction: models.DirectionOver}, logs)
	require.NoError(t, err)
	require.NotNil(t, res.HitRateLast20)
	assert.InDelta(t, 0.9, *res.HitRateLast20, 0.001, "the 14 and 15 miss over 20 games")
}

func TestScoreProp_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		req  models.PropRequest
	}{
		{"zero line", models.PropRequest{StatType: models.StatPoints, Direction: models.DirectionOver}},
		{"negative line", models.PropRequest{StatType: models.StatPoints, Line: -3, Direction: models.DirectionOver}},
		{"unknown stat", models.PropRequest{StatType: "triple_doubles", Line: 1.5, Direction: models.DirectionOver}},
		{"bad direction", models.PropRequest{StatType: models.StatPoints, Line: 20.5, Direction: "push"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScoreProp(tt.req, pointsLog)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Tier
	}{
		{score: 95, want: models.TierStrongBet},
		{score: 70, want: models.TierStrongBet},
		{score: 69.9, want: models.TierBet},
		{score: 58, want: models.TierBet},
		{score: 55, want: models.TierNeutral},
		{score: 45, want: models.TierNeutral},
		{score: 40, want: models.TierAvoid},
		{score: 30, want: models.TierAvoid},
		{score: 29.9, want: models.TierStrongAvoid},
		{score: 0, want: models.TierStrongAvoid},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.score), "score %.1f", tt.score)
	}
}

func TestLiveTierFor_AddsLeanBand(t *testing.T) {
	assert.Equal(t, models.TierLean, LiveTierFor(52))
	assert.Equal(t, models.TierLean, LiveTierFor(57.9))
	assert.Equal(t, models.TierBet, LiveTierFor(58))
	assert.Equal(t, models.TierNeutral, LiveTierFor(51.9))
	assert.Equal(t, models.TierStrongBet, LiveTierFor(80))
	assert.Equal(t, models.TierAvoid, LiveTierFor(35))
}

func TestScoreProp_Deterministic(t *testing.T) {
	req := models.PropRequest{PlayerID: 7, StatType: models.StatRebounds, Line: 8.5, Direction: models.DirectionOver}
	logs := gameLog(9, 7, 11, 8, 10, 12, 6, 9, 10, 8)

	first, err := ScoreProp(req, logs)
	require.NoError(t, err)
	second, err := ScoreProp(req, logs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
