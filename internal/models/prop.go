package models

import (
	"fmt"
	"time"
)

// Direction indicates which side of the line a prop bet takes.
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// StatType identifies the box-score stat a prop is written against.
type StatType string

const (
	StatPoints   StatType = "points"
	StatRebounds StatType = "rebounds"
	StatAssists  StatType = "assists"
	StatThrees   StatType = "threes"
	StatSteals   StatType = "steals"
	StatBlocks   StatType = "blocks"
)

var validStatTypes = map[StatType]bool{
	StatPoints:   true,
	StatRebounds: true,
	StatAssists:  true,
	StatThrees:   true,
	StatSteals:   true,
	StatBlocks:   true,
}

// GameLogEntry is one past game for one player, read-only to the engine.
type GameLogEntry struct {
	GameDate      time.Time `json:"game_date"`
	Opponent      string    `json:"opponent"`
	StatValue     float64   `json:"stat_value"`
	MinutesPlayed float64   `json:"minutes_played"`
	HomeGame      bool      `json:"home_game"`
}

// PropRequest describes a single prop to analyze.
type PropRequest struct {
	PlayerID   int       `json:"player_id"`
	PlayerName string    `json:"player_name,omitempty"`
	StatType   StatType  `json:"stat_type"`
	Line       float64   `json:"line"`
	Direction  Direction `json:"direction"`
	Opponent   string    `json:"opponent,omitempty"`
}

// Validate rejects malformed requests before any scoring work happens.
func (r PropRequest) Validate() error {
	if r.Line <= 0 {
		return fmt.Errorf("%w: line must be positive, got %.2f", ErrInvalidInput, r.Line)
	}
	if !validStatTypes[r.StatType] {
		return fmt.Errorf("%w: unknown stat type %q", ErrInvalidInput, r.StatType)
	}
	if r.Direction != DirectionOver && r.Direction != DirectionUnder {
		return fmt.Errorf("%w: direction must be over or under, got %q", ErrInvalidInput, r.Direction)
	}
	return nil
}

// Factor names the fixed key set of the confidence breakdown. Signed
// contributions are always in [-1, 1].
type Factor string

const (
	FactorHitRate       Factor = "hit_rate"
	FactorAverageVsLine Factor = "average_vs_line"
	FactorRecentTrend   Factor = "recent_trend"
	FactorConsistency   Factor = "consistency"
	FactorPlayingTime   Factor = "playing_time"
)

// PropAnalysisResult holds the scored outcome for one prop. Identical inputs
// always produce an identical result; nothing here is stateful.
type PropAnalysisResult struct {
	PlayerID        int                `json:"player_id"`
	PlayerName      string             `json:"player_name,omitempty"`
	StatType        StatType           `json:"stat_type"`
	Line            float64            `json:"line"`
	Direction       Direction          `json:"direction"`
	ConfidenceScore float64            `json:"confidence_score"`
	HitRateLast10   float64            `json:"hit_rate_last_10"`
	HitRateLast20   *float64           `json:"hit_rate_last_20,omitempty"`
	Average         float64            `json:"average"`
	Median          float64            `json:"median"`
	Floor           float64            `json:"floor"`
	Ceiling         float64            `json:"ceiling"`
	Factors         map[Factor]float64 `json:"factors"`
	Recommendation  Tier               `json:"recommendation"`
	Notes           string             `json:"notes,omitempty"`
}

// Tier is a categorical betting recommendation.
type Tier string

const (
	TierStrongBet   Tier = "strong_bet"
	TierBet         Tier = "bet"
	TierLean        Tier = "lean"
	TierNeutral     Tier = "neutral"
	TierAvoid       Tier = "avoid"
	TierStrongAvoid Tier = "strong_avoid"
)

// ParlaySuggestion is a ranked multi-leg candidate built from scored props.
// Combined confidence multiplies member confidences as if the legs were
// independent, which overstates correlated legs (same game, same team); the
// number is a screening heuristic, not a fair-odds estimate.
type ParlaySuggestion struct {
	Legs               []PropAnalysisResult `json:"legs"`
	CombinedConfidence float64              `json:"combined_confidence"`
	Description        string               `json:"description"`
}
