package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/courtedge/courtedge/internal/models"
)

// ParlayConfig bounds parlay construction. Zero values fall back to the
// defaults via Normalize.
type ParlayConfig struct {
	MaxLegs         int
	ConfidenceFloor float64
	MaxSuggestions  int
}

// DefaultParlayConfig keeps parlays short and built only from bet-grade legs.
func DefaultParlayConfig() ParlayConfig {
	return ParlayConfig{MaxLegs: 3, ConfidenceFloor: ThresholdBet, MaxSuggestions: 5}
}

func (c ParlayConfig) normalize() ParlayConfig {
	d := DefaultParlayConfig()
	if c.MaxLegs <= 0 {
		c.MaxLegs = d.MaxLegs
	}
	if c.ConfidenceFloor <= 0 {
		c.ConfidenceFloor = d.ConfidenceFloor
	}
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = d.MaxSuggestions
	}
	return c
}

// BuildParlays ranks multi-leg combinations of already-scored props. Only
// props at or above the confidence floor qualify as legs, a player+stat
// pair appears at most once per parlay (the same player may carry two legs
// on different stats), and combinations are ranked by combined confidence
// descending. Fewer than two qualifying legs yields no suggestions, not an
// error.
func BuildParlays(results []models.PropAnalysisResult, cfg ParlayConfig) []models.ParlaySuggestion {
	cfg = cfg.normalize()

	eligible := make([]models.PropAnalysisResult, 0, len(results))
	for _, r := range results {
		if r.ConfidenceScore >= cfg.ConfidenceFloor {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) < 2 {
		return nil
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].ConfidenceScore > eligible[j].ConfidenceScore
	})

	var out []models.ParlaySuggestion
	for size := 2; size <= cfg.MaxLegs && size <= len(eligible); size++ {
		combine(eligible, size, func(legs []models.PropAnalysisResult) {
			if hasRepeatedLeg(legs) {
				return
			}
			out = append(out, models.ParlaySuggestion{
				Legs:               append([]models.PropAnalysisResult(nil), legs...),
				CombinedConfidence: combinedConfidence(legs),
				Description:        describeParlay(legs),
			})
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CombinedConfidence > out[j].CombinedConfidence
	})
	if len(out) > cfg.MaxSuggestions {
		out = out[:cfg.MaxSuggestions]
	}
	return out
}

// combinedConfidence treats legs as independent events.
func combinedConfidence(legs []models.PropAnalysisResult) float64 {
	p := 1.0
	for _, l := range legs {
		p *= l.ConfidenceScore / 100
	}
	return p * 100
}

func hasRepeatedLeg(legs []models.PropAnalysisResult) bool {
	type legKey struct {
		playerID int
		stat     models.StatType
	}
	seen := make(map[legKey]bool, len(legs))
	for _, l := range legs {
		k := legKey{playerID: l.PlayerID, stat: l.StatType}
		if seen[k] {
			return true
		}
		seen[k] = true
	}
	return false
}

func describeParlay(legs []models.PropAnalysisResult) string {
	parts := make([]string, len(legs))
	for i, l := range legs {
		name := l.PlayerName
		if name == "" {
			name = fmt.Sprintf("player %d", l.PlayerID)
		}
		parts[i] = fmt.Sprintf("%s %s %.1f %s", name, l.Direction, l.Line, l.StatType)
	}
	return strings.Join(parts, " + ")
}

// combine invokes fn with every k-combination of results, preserving order.
func combine(results []models.PropAnalysisResult, k int, fn func([]models.PropAnalysisResult)) {
	idx := make([]int, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			legs := make([]models.PropAnalysisResult, k)
			for i, j := range idx {
				legs[i] = results[j]
			}
			fn(legs)
			return
		}
		for i := start; i <= len(results)-(k-depth); i++ {
			idx[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
}
