// Package analysis implements the pregame prop confidence engine: summary
// statistics over game logs, factor-weighted confidence scoring, tier
// assignment, and parlay construction. Every function is pure; identical
// inputs always yield identical outputs.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/courtedge/courtedge/internal/models"
)

// StatSummary is the distilled view of a player's game log against a
// specific line.
type StatSummary struct {
	Games      int
	Mean       float64
	Median     float64
	StdDev     float64
	Floor      float64
	Ceiling    float64
	HitRate    float64
	AvgMinutes float64
	Trend      float64
}

// Summarize computes summary statistics for a game log against a line and
// direction. Logs must be ordered oldest to newest. Ties against the line
// count as hits for both directions.
func Summarize(logs []models.GameLogEntry, line float64, dir models.Direction) (StatSummary, error) {
	if len(logs) == 0 {
		return StatSummary{}, fmt.Errorf("%w: empty game log", models.ErrInsufficientData)
	}

	values := make([]float64, len(logs))
	var sum, minSum float64
	hits := 0
	for i, g := range logs {
		values[i] = g.StatValue
		sum += g.StatValue
		minSum += g.MinutesPlayed
		if hitsLine(g.StatValue, line, dir) {
			hits++
		}
	}

	mean := sum / float64(len(logs))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(logs))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return StatSummary{
		Games:      len(logs),
		Mean:       mean,
		Median:     median(sorted),
		StdDev:     math.Sqrt(variance),
		Floor:      sorted[0],
		Ceiling:    sorted[len(sorted)-1],
		HitRate:    float64(hits) / float64(len(logs)),
		AvgMinutes: minSum / float64(len(logs)),
		Trend:      TrendSignal(values),
	}, nil
}

// hitsLine reports whether a single game result covers the prop. A push
// (exact tie) counts as a hit either way.
func hitsLine(value, line float64, dir models.Direction) bool {
	if dir == models.DirectionUnder {
		return value <= line
	}
	return value >= line
}

// median expects a sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// TrendSignal fits an ordinary least-squares line of value against game
// index (oldest to newest), normalizes the slope by the series mean, and
// clamps to [-1, 1]. Positive means production is rising. Fewer than 3
// samples or a zero mean yields 0.
func TrendSignal(values []float64) float64 {
	n := len(values)
	if n < 3 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	if mean == 0 {
		return 0
	}

	xMean := float64(n-1) / 2
	var num, den float64
	for i, v := range values {
		dx := float64(i) - xMean
		num += dx * (v - mean)
		den += dx * dx
	}
	slope := num / den
	return clamp(slope/mean, -1, 1)
}

// ConsistencySignal maps dispersion onto [0, 1], where 1 is perfectly
// steady production.
func ConsistencySignal(mean, stdDev float64) float64 {
	return 1 - clamp(stdDev/math.Max(mean, 1), 0, 1)
}

// PlayingTimeSignal maps average minutes onto [0, 1] against a 36-minute
// full workload reference.
func PlayingTimeSignal(avgMinutes float64) float64 {
	const fullWorkload = 36.0
	return clamp(avgMinutes/fullWorkload, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
