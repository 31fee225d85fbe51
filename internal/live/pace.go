// Package live implements the halftime projection engine: pace estimation,
// shooting regression toward season baselines, star player second-half
// projections, and the composed game total projector. Like the pregame
// scorer, everything here is pure computation over a snapshot the caller
// already fetched.
package live

import (
	"fmt"

	"github.com/courtedge/courtedge/internal/models"
)

const (
	regulationMinutes = 48.0

	// Quarter-over-quarter scoring must move more than this fraction
	// before the trend leaves steady.
	paceTrendBand = 0.03

	varianceNormalZ  = 0.5
	varianceExtremeZ = 1.5
)

// PaceAnalysis is the pace read for one snapshot.
type PaceAnalysis struct {
	LivePace     float64              `json:"live_pace"`
	ExpectedPace float64              `json:"expected_pace"`
	DeviationPct float64              `json:"deviation_pct"`
	Trend        models.PaceTrend     `json:"trend"`
	Variance     models.VarianceLevel `json:"variance"`
}

// EstimatePace extrapolates live possessions to a per-48 pace and compares
// it against the matchup's season expectation. Requires a snapshot with
// playing time already elapsed.
func EstimatePace(snap models.LiveGameSnapshot, baseline models.MatchupBaseline) (PaceAnalysis, error) {
	if snap.ElapsedMinutes <= 0 {
		return PaceAnalysis{}, fmt.Errorf("%w: no elapsed time in snapshot", models.ErrInvalidInput)
	}

	avgPoss := (snap.Home.Possessions() + snap.Away.Possessions()) / 2
	livePace := avgPoss * (regulationMinutes / snap.ElapsedMinutes)

	expected := baseline.ExpectedPace()
	var deviation float64
	if expected > 0 {
		deviation = (livePace - expected) / expected * 100
	}

	stdDev := (baseline.Home.PaceStdDev + baseline.Away.PaceStdDev) / 2

	return PaceAnalysis{
		LivePace:     livePace,
		ExpectedPace: expected,
		DeviationPct: deviation,
		Trend:        paceTrend(snap),
		Variance:     varianceLevel(livePace, expected, stdDev),
	}, nil
}

// paceTrend compares second-quarter scoring against the first quarter as a
// possession proxy. Missing quarter splits read as steady.
func paceTrend(snap models.LiveGameSnapshot) models.PaceTrend {
	q1 := quarterPoints(snap, 0)
	q2 := quarterPoints(snap, 1)
	if q1 <= 0 || q2 <= 0 {
		return models.PaceSteady
	}
	change := (float64(q2) - float64(q1)) / float64(q1)
	switch {
	case change > paceTrendBand:
		return models.PaceAccelerating
	case change < -paceTrendBand:
		return models.PaceDecelerating
	default:
		return models.PaceSteady
	}
}

func quarterPoints(snap models.LiveGameSnapshot, idx int) int {
	total := 0
	if idx < len(snap.Home.QuarterPts) {
		total += snap.Home.QuarterPts[idx]
	}
	if idx < len(snap.Away.QuarterPts) {
		total += snap.Away.QuarterPts[idx]
	}
	return total
}

// varianceLevel buckets a live value by how many baseline standard
// deviations it sits from the season expectation. A zero std dev reads as
// normal since there is nothing to compare against.
func varianceLevel(live, season, stdDev float64) models.VarianceLevel {
	if stdDev <= 0 {
		return models.VarianceNormal
	}
	z := (live - season) / stdDev
	switch {
	case z > varianceExtremeZ:
		return models.VarianceExtremeHot
	case z > varianceNormalZ:
		return models.VarianceHot
	case z < -varianceExtremeZ:
		return models.VarianceExtremeCold
	case z < -varianceNormalZ:
		return models.VarianceCold
	default:
		return models.VarianceNormal
	}
}

// GameScriptFor classifies the competitive state from the current margin.
func GameScriptFor(scoreDiff, blowoutThreshold int) models.GameScript {
	switch {
	case scoreDiff >= blowoutThreshold:
		return models.ScriptBlowout
	case scoreDiff >= blowoutThreshold/2:
		return models.ScriptModerate
	default:
		return models.ScriptClose
	}
}
