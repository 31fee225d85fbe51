package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtedge/courtedge/internal/models"
)

// gameLog builds entries oldest to newest with a fixed 34-minute workload.
func gameLog(values ...float64) []models.GameLogEntry {
	logs := make([]models.GameLogEntry, len(values))
	for i, v := range values {
		logs[i] = models.GameLogEntry{StatValue: v, MinutesPlayed: 34}
	}
	return logs
}

func TestSummarize_Basic(t *testing.T) {
	logs := gameLog(28, 31, 25, 30, 27)

	s, err := Summarize(logs, 25.5, models.DirectionOver)
	require.NoError(t, err)

	assert.Equal(t, 5, s.Games)
	assert.InDelta(t, 28.2, s.Mean, 0.001)
	assert.InDelta(t, 28.0, s.Median, 0.001)
	assert.Equal(t, 25.0, s.Floor)
	assert.Equal(t, 31.0, s.Ceiling)
	assert.InDelta(t, 0.8, s.HitRate, 0.001, "4 of 5 games cleared 25.5")
	assert.InDelta(t, 34.0, s.AvgMinutes, 0.001)
}

func TestSummarize_TieCountsAsHitBothDirections(t *testing.T) {
	logs := gameLog(25)

	over, err := Summarize(logs, 25, models.DirectionOver)
	require.NoError(t, err)
	assert.Equal(t, 1.0, over.HitRate)

	under, err := Summarize(logs, 25, models.DirectionUnder)
	require.NoError(t, err)
	assert.Equal(t, 1.0, under.HitRate)
}

func TestSummarize_UnderDirection(t *testing.T) {
	logs := gameLog(4, 6, 3, 8, 5)

	s, err := Summarize(logs, 5.5, models.DirectionUnder)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, s.HitRate, 0.001, "games at 4, 3, 5 stayed under 5.5")
}

func TestSummarize_EmptyLogIsInsufficientData(t *testing.T) {
	_, err := Summarize(nil, 20, models.DirectionOver)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestSummarize_MedianEvenCount(t *testing.T) {
	s, err := Summarize(gameLog(10, 20, 30, 40), 25, models.DirectionOver)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, s.Median, 0.001)
}

func TestTrendSignal(t *testing.T) {
	tests := []struct {
		name   string
		values []float64 // oldest to newest
		check  func(t *testing.T, got float64)
	}{
		{
			name:   "rising production",
			values: []float64{18, 21, 19, 22, 20, 29, 31, 28, 32, 30},
			check: func(t *testing.T, got float64) {
				assert.Positive(t, got)
			},
		},
		{
			name:   "falling production",
			values: []float64{30, 32, 28, 31, 29, 20, 22, 19, 21, 18},
			check: func(t *testing.T, got float64) {
				assert.Negative(t, got)
			},
		},
		{
			name:   "flat production",
			values: []float64{25, 25, 25, 25, 25, 25, 25, 25},
			check: func(t *testing.T, got float64) {
				assert.Zero(t, got)
			},
		},
		{
			name:   "fewer than three samples",
			values: []float64{25, 26},
			check: func(t *testing.T, got float64) {
				assert.Zero(t, got)
			},
		},
		{
			name:   "zero mean",
			values: []float64{0, 0, 0, 0},
			check: func(t *testing.T, got float64) {
				assert.Zero(t, got)
			},
		},
		{
			name:   "steep climb clamps to one",
			values: []float64{0, 0, 0, 12},
			check: func(t *testing.T, got float64) {
				assert.Equal(t, 1.0, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, TrendSignal(tt.values))
		})
	}
}

func TestConsistencySignal(t *testing.T) {
	assert.Equal(t, 1.0, ConsistencySignal(25, 0), "zero spread is perfectly consistent")
	assert.InDelta(t, 0.8, ConsistencySignal(25, 5), 0.001)
	assert.Equal(t, 0.0, ConsistencySignal(10, 15), "spread wider than the mean floors at zero")
	assert.Equal(t, 0.0, ConsistencySignal(0, 3), "zero mean has no consistency read")
}

func TestPlayingTimeSignal(t *testing.T) {
	assert.Equal(t, 1.0, PlayingTimeSignal(36))
	assert.Equal(t, 1.0, PlayingTimeSignal(40), "heavy minutes cap at one")
	assert.InDelta(t, 0.5, PlayingTimeSignal(18), 0.001)
	assert.Equal(t, 0.0, PlayingTimeSignal(0))
}
