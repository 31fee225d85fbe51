package live

import (
	"fmt"
	"math"
	"time"

	"github.com/courtedge/courtedge/internal/models"
)

// Factor weights for the second-half total adjustment model.
const (
	weightPace       = 0.30
	weightShooting   = 0.25
	weightStars      = 0.20
	weightGameFlow   = 0.15
	weightRegression = 0.10

	// Third quarters play slower than the first half; fourth quarters
	// depend on how competitive the game still is.
	q3PaceFactor     = 0.91
	q4CloseFactor    = 1.06
	q4ModerateFactor = 0.98
	q4BlowoutFactor  = 0.88

	// adjustmentScale caps the weighted factor model's pull on the base
	// second-half extrapolation at ten percent either way.
	adjustmentScale = 0.10

	// Projection standard error, in points. Disagreement between the
	// live half and season baselines widens the band.
	baseStdError = 6.0
)

// TotalsInput carries everything the projector needs for one game.
type TotalsInput struct {
	Snapshot        models.LiveGameSnapshot
	Matchup         models.MatchupBaseline
	PlayerBaselines map[int]models.PlayerBaseline
	LiveLine        *float64
	Stars           StarConfig
}

// ProjectGameTotals composes the pace, shooting, and star reads into
// quarter projections, a final total, a spread, and an over/under lean
// against the optional live line. The projection is bounded to stay
// strictly above the first-half total and below a doubled first half
// scaled by the pace ratio.
func ProjectGameTotals(in TotalsInput) (models.HalftimeProjection, error) {
	snap := in.Snapshot
	if snap.Period < models.PeriodSecondQuarter {
		return models.HalftimeProjection{}, fmt.Errorf("%w: need at least a half of play, game %d is in period %d",
			models.ErrGameNotLive, snap.GameID, snap.Period)
	}

	pace, err := EstimatePace(snap, in.Matchup)
	if err != nil {
		return models.HalftimeProjection{}, err
	}

	home := AnalyzeShooting(snap.Home, in.Matchup.Home)
	away := AnalyzeShooting(snap.Away, in.Matchup.Away)

	starCfg := in.Stars.normalize()
	script := GameScriptFor(snap.ScoreDifferential(), starCfg.BlowoutThreshold)

	paceRatio := 1.0
	if pace.LivePace > 0 && pace.ExpectedPace > 0 {
		paceRatio = clampF(pace.ExpectedPace/pace.LivePace, 0.8, 1.2)
	}

	stars := SelectStars(snap, in.PlayerBaselines, paceRatio, starCfg)

	signals := map[string]float64{
		"pace":      clampF(pace.DeviationPct/10, -1, 1),
		"shooting":  shootingSignal(home, away),
		"stars":     starsSignal(stars, in.PlayerBaselines),
		"game_flow": gameFlowSignal(script, pace.Trend),
	}
	// The regression factor pulls the shooting read back toward season
	// norms in proportion to how little live sample backs it.
	avgRegression := (home.Regression + away.Regression) / 2
	signals["regression"] = -signals["shooting"] * avgRegression

	adjustment := adjustmentScale * (weightPace*signals["pace"] +
		weightShooting*signals["shooting"] +
		weightStars*signals["stars"] +
		weightGameFlow*signals["game_flow"] +
		weightRegression*signals["regression"])

	contributions := map[string]float64{
		"pace":       weightPace * signals["pace"],
		"shooting":   weightShooting * signals["shooting"],
		"stars":      weightStars * signals["stars"],
		"game_flow":  weightGameFlow * signals["game_flow"],
		"regression": weightRegression * signals["regression"],
	}

	q4Factor := q4FactorFor(script)
	homeQ := projectQuarters(snap.Home, q4Factor, paceRatio, adjustment)
	awayQ := projectQuarters(snap.Away, q4Factor, paceRatio, adjustment)

	fhTotal := float64(snap.TotalScore())
	remaining := homeQ.Q3 + homeQ.Q4 + awayQ.Q3 + awayQ.Q4
	remaining = boundRemaining(remaining, fhTotal, paceRatio)
	projectedFinal := fhTotal + remaining

	spread := projectSpread(snap, stars, home, away, pace.Trend)

	proj := models.HalftimeProjection{
		GameID:             snap.GameID,
		FirstHalfTotal:     snap.TotalScore(),
		LivePace:           pace.LivePace,
		PaceDeviationPct:   pace.DeviationPct,
		PaceTrend:          pace.Trend,
		PaceVariance:       pace.Variance,
		HomeShootingLevel:  home.Variance,
		AwayShootingLevel:  away.Variance,
		GameScript:         script,
		StarProjections:    stars,
		HomeQuarters:       homeQ,
		AwayQuarters:       awayQ,
		ProjectedFinal:     projectedFinal,
		ProjectedSpread:    spread,
		OvertimeProb:       overtimeProbability(spread),
		TotalConfidence:    totalConfidence(pace, home, away),
		FactorContribution: contributions,
		LiveLine:           in.LiveLine,
		GeneratedAt:        time.Now().UTC(),
	}
	proj.HomeQuarters.TeamAbbrev = snap.Home.TeamAbbrev
	proj.AwayQuarters.TeamAbbrev = snap.Away.TeamAbbrev

	proj.TotalsLean = models.LeanNeutral
	if in.LiveLine != nil {
		proj.TotalsEdge = projectedFinal - *in.LiveLine
		proj.TotalsLean = leanFor(proj.TotalsEdge, stdError(pace, home, away))
	}

	proj.Notes = projectionNotes(proj)
	return proj, nil
}

// projectQuarters extrapolates one team's second half from its first-half
// scoring average, per quarter factor, pace ratio, and the weighted model
// adjustment.
func projectQuarters(t models.LiveTeamLine, q4Factor, paceRatio, adjustment float64) models.TeamQuarterProjection {
	perQuarter := float64(t.Points) / 2
	scale := paceRatio * (1 + adjustment)
	return models.TeamQuarterProjection{
		TeamAbbrev: t.TeamAbbrev,
		Q3:         perQuarter * q3PaceFactor * scale,
		Q4:         perQuarter * q4Factor * scale,
	}
}

func q4FactorFor(script models.GameScript) float64 {
	switch script {
	case models.ScriptBlowout:
		return q4BlowoutFactor
	case models.ScriptModerate:
		return q4ModerateFactor
	default:
		return q4CloseFactor
	}
}

// boundRemaining keeps the projected final strictly between the first-half
// total and twice the first-half total scaled by the pace ratio.
func boundRemaining(remaining, fhTotal, paceRatio float64) float64 {
	if fhTotal <= 0 {
		return remaining
	}
	ceiling := fhTotal * (2*paceRatio - 1) * 0.999
	return clampF(remaining, 1, math.Max(ceiling, 1))
}

// shootingSignal reads combined regressed efficiency against season norms.
// Ten combined points of eFG% saturate the signal.
func shootingSignal(home, away TeamShootingProfile) float64 {
	delta := (home.RegressedEFG - home.LiveEFG) + (away.RegressedEFG - away.LiveEFG)
	return clampF(-delta/0.10, -1, 1)
}

// starsSignal averages how far the flagged stars are running above or
// below their season scoring rates.
func starsSignal(stars []models.StarProjection, baselines map[int]models.PlayerBaseline) float64 {
	if len(stars) == 0 {
		return 0
	}
	var sum float64
	counted := 0
	for _, s := range stars {
		b, ok := baselines[s.PlayerID]
		if !ok || b.PointsPerGame <= 0 {
			continue
		}
		expectedFH := b.PointsPerGame / 2
		sum += clampF(float64(s.FirstHalfPoints)/expectedFH-1, -1, 1)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}

// gameFlowSignal: competitive games keep starters on and pace up late;
// blowouts empty the benches.
func gameFlowSignal(script models.GameScript, trend models.PaceTrend) float64 {
	var s float64
	switch script {
	case models.ScriptClose:
		s = 0.4
	case models.ScriptModerate:
		s = 0
	case models.ScriptBlowout:
		s = -0.6
	}
	switch trend {
	case models.PaceAccelerating:
		s += 0.2
	case models.PaceDecelerating:
		s -= 0.2
	}
	return clampF(s, -1, 1)
}

// projectSpread blends the current lead, the stars' projected second-half
// differential, and a momentum nudge from which team is shooting hot,
// scaled by the game's pace trend. Positive favors the home team.
func projectSpread(snap models.LiveGameSnapshot, stars []models.StarProjection, home, away TeamShootingProfile, trend models.PaceTrend) float64 {
	currentLead := float64(snap.Home.Points - snap.Away.Points)

	var starDiff float64
	for _, s := range stars {
		secondHalf := s.ProjectedFinalPts - float64(s.FirstHalfPoints)
		if s.TeamAbbrev == snap.Home.TeamAbbrev {
			starDiff += secondHalf
		} else {
			starDiff -= secondHalf
		}
	}

	// An accelerating game gives the hot team more possessions to press
	// its run; a decelerating one blunts it.
	momentum := 2 * (hotness(home.Variance) - hotness(away.Variance))
	switch trend {
	case models.PaceAccelerating:
		momentum *= 1.25
	case models.PaceDecelerating:
		momentum *= 0.75
	}
	return 0.6*currentLead + 0.3*starDiff + momentum
}

// hotness scores a variance level for the momentum read. Hot shooting is
// expected to cool, but it still signals which team has the half going
// its way.
func hotness(v models.VarianceLevel) float64 {
	switch v {
	case models.VarianceExtremeHot:
		return 1
	case models.VarianceHot:
		return 0.5
	case models.VarianceCold:
		return -0.5
	case models.VarianceExtremeCold:
		return -1
	default:
		return 0
	}
}

// overtimeProbability rises as the projected margin approaches zero,
// peaking at 15 percent for a dead-even projection.
func overtimeProbability(projectedSpread float64) float64 {
	return math.Max(0, 15-2*math.Abs(projectedSpread))
}

// stdError widens the over/under band when the live half disagrees with
// season baselines.
func stdError(pace PaceAnalysis, home, away TeamShootingProfile) float64 {
	e := baseStdError
	e += varianceBump(pace.Variance, 2, 4)
	e += varianceBump(home.Variance, 1, 2)
	e += varianceBump(away.Variance, 1, 2)
	return e
}

func varianceBump(v models.VarianceLevel, hot, extreme float64) float64 {
	switch v {
	case models.VarianceHot, models.VarianceCold:
		return hot
	case models.VarianceExtremeHot, models.VarianceExtremeCold:
		return extreme
	default:
		return 0
	}
}

// leanFor keys the over/under recommendation on the edge relative to the
// projection's error band.
func leanFor(edge, band float64) models.TotalsLean {
	abs := math.Abs(edge)
	switch {
	case abs >= band && edge > 0:
		return models.LeanStrongOver
	case abs >= band && edge < 0:
		return models.LeanStrongUnder
	case abs >= 0.4*band && edge > 0:
		return models.LeanOver
	case abs >= 0.4*band && edge < 0:
		return models.LeanUnder
	default:
		return models.LeanNeutral
	}
}

// totalConfidence attenuates trust in the projection as the live half
// drifts from season expectations.
func totalConfidence(pace PaceAnalysis, home, away TeamShootingProfile) float64 {
	c := 75.0
	c -= varianceBump(pace.Variance, 5, 10)
	c -= varianceBump(home.Variance, 5, 10)
	c -= varianceBump(away.Variance, 5, 10)
	c -= math.Min(math.Abs(pace.DeviationPct)*0.5, 10)
	return clampF(c, 30, 90)
}

func projectionNotes(p models.HalftimeProjection) []string {
	var notes []string
	if p.GameScript == models.ScriptBlowout {
		notes = append(notes, "blowout script; fourth quarter projected at reduced pace")
	}
	if p.PaceTrend == models.PaceAccelerating {
		notes = append(notes, "pace accelerated from first to second quarter")
	}
	if p.OvertimeProb > 10 {
		notes = append(notes, fmt.Sprintf("tight projection; overtime probability %.0f%%", p.OvertimeProb))
	}
	for _, s := range p.StarProjections {
		if s.FoulTrouble {
			notes = append(notes, fmt.Sprintf("%s in foul trouble; minutes projection reduced", s.PlayerName))
		}
	}
	return notes
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
