package analysis

import (
	"math"

	"github.com/courtedge/courtedge/internal/models"
)

// Factor weights. Hit rate, average vs line, and trend are predictive of
// whether the prop hits; consistency and playing time only qualify how much
// to trust the read, so they reinforce whichever direction the predictive
// core points.
const (
	weightHitRate     = 0.40
	weightAvgVsLine   = 0.25
	weightRecentTrend = 0.15
	weightConsistency = 0.10
	weightPlayingTime = 0.10

	hitRateGames     = 10
	longHitRateGames = 20

	// supportGain saturates the support gate once the predictive core
	// clears about a third of its range, so support reinforces a clear
	// read at full weight while fading smoothly through zero.
	supportGain = 3.0
)

// ScoreProp produces the full confidence analysis for one prop against its
// game log. Logs must be ordered oldest to newest; factors are computed over
// the most recent 10 games. An empty log returns a neutral 50 with every
// factor zeroed rather than an error, so a cold-start player never blocks a
// batch.
func ScoreProp(req models.PropRequest, logs []models.GameLogEntry) (models.PropAnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return models.PropAnalysisResult{}, err
	}

	res := models.PropAnalysisResult{
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		StatType:   req.StatType,
		Line:       req.Line,
		Direction:  req.Direction,
		Factors:    map[models.Factor]float64{},
	}

	if len(logs) == 0 {
		res.ConfidenceScore = 50
		res.Recommendation = models.TierNeutral
		res.Notes = "no game log available; defaulting to neutral"
		for _, f := range []models.Factor{
			models.FactorHitRate, models.FactorAverageVsLine,
			models.FactorRecentTrend, models.FactorConsistency,
			models.FactorPlayingTime,
		} {
			res.Factors[f] = 0
		}
		return res, nil
	}

	window := logs
	if len(window) > hitRateGames {
		window = window[len(window)-hitRateGames:]
	}
	summary, err := Summarize(window, req.Line, req.Direction)
	if err != nil {
		return models.PropAnalysisResult{}, err
	}

	res.HitRateLast10 = summary.HitRate
	res.Average = summary.Mean
	res.Median = summary.Median
	res.Floor = summary.Floor
	res.Ceiling = summary.Ceiling

	if len(logs) >= longHitRateGames {
		long, err := Summarize(logs[len(logs)-longHitRateGames:], req.Line, req.Direction)
		if err == nil {
			hr := long.HitRate
			res.HitRateLast20 = &hr
		}
	}

	dirSign := 1.0
	if req.Direction == models.DirectionUnder {
		dirSign = -1.0
	}

	// Hit rate is already directional; recentered so a coin-flip rate
	// contributes nothing.
	fHit := 2*summary.HitRate - 1
	fAvg := clamp((summary.Mean-req.Line)/math.Max(req.Line, 1), -1, 1) * dirSign
	fTrend := summary.Trend * dirSign

	core := weightHitRate*fHit + weightAvgVsLine*fAvg + weightRecentTrend*fTrend

	fCons := 2*ConsistencySignal(summary.Mean, summary.StdDev) - 1
	fTime := 2*PlayingTimeSignal(summary.AvgMinutes) - 1

	// Support scales with the strength and sign of the predictive core: a
	// reliable starter pushes a clear over toward 100 and a clear miss
	// toward 0, and contributes nothing on a coin-flip read. The gate is
	// continuous in the core, so a marginal change in the inputs never
	// jumps the score.
	support := (weightConsistency*fCons + weightPlayingTime*fTime) *
		clamp(supportGain*core, -1, 1)

	res.Factors[models.FactorHitRate] = fHit
	res.Factors[models.FactorAverageVsLine] = fAvg
	res.Factors[models.FactorRecentTrend] = fTrend
	res.Factors[models.FactorConsistency] = fCons
	res.Factors[models.FactorPlayingTime] = fTime

	res.ConfidenceScore = clamp(50+50*(core+support), 0, 100)
	res.Recommendation = TierFor(res.ConfidenceScore)
	return res, nil
}
