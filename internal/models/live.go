package models

import "time"

// GamePeriod tracks where the game clock stands.
type GamePeriod int

const (
	PeriodFirstQuarter GamePeriod = iota + 1
	PeriodSecondQuarter
	PeriodThirdQuarter
	PeriodFourthQuarter
)

// LivePlayerLine is one player's in-progress box score line.
type LivePlayerLine struct {
	PlayerID      int     `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	TeamAbbrev    string  `json:"team_abbrev"`
	Points        int     `json:"points"`
	Rebounds      int     `json:"rebounds"`
	Assists       int     `json:"assists"`
	FGM           int     `json:"fgm"`
	FGA           int     `json:"fga"`
	FG3M          int     `json:"fg3m"`
	FG3A          int     `json:"fg3a"`
	FTM           int     `json:"ftm"`
	FTA           int     `json:"fta"`
	Turnovers     int     `json:"turnovers"`
	PersonalFouls int     `json:"personal_fouls"`
	Minutes       float64 `json:"minutes"`
	OnCourt       bool    `json:"on_court"`
}

// Possessions estimates the possessions this player has used
// (FGA + 0.44*FTA + TOV), the numerator of the usage share.
func (p LivePlayerLine) Possessions() float64 {
	return float64(p.FGA) + 0.44*float64(p.FTA) + float64(p.Turnovers)
}

// LiveTeamLine aggregates the live box score for one team.
type LiveTeamLine struct {
	TeamAbbrev string           `json:"team_abbrev"`
	Points     int              `json:"points"`
	FGM        int              `json:"fgm"`
	FGA        int              `json:"fga"`
	FG3M       int              `json:"fg3m"`
	FG3A       int              `json:"fg3a"`
	FTM        int              `json:"ftm"`
	FTA        int              `json:"fta"`
	Turnovers  int              `json:"turnovers"`
	QuarterPts []int            `json:"quarter_pts"`
	Players    []LivePlayerLine `json:"players"`
}

// Possessions estimates team possessions from the live box score using the
// standard FGA + 0.44*FTA + 0.96*TOV formula.
func (t LiveTeamLine) Possessions() float64 {
	return float64(t.FGA) + 0.44*float64(t.FTA) + 0.96*float64(t.Turnovers)
}

// LiveGameSnapshot is one poll of an in-progress game.
type LiveGameSnapshot struct {
	GameID         int          `json:"game_id"`
	Period         GamePeriod   `json:"period"`
	ClockRemaining string       `json:"clock_remaining"`
	ElapsedMinutes float64      `json:"elapsed_minutes"`
	Home           LiveTeamLine `json:"home"`
	Away           LiveTeamLine `json:"away"`
	FetchedAt      time.Time    `json:"fetched_at"`
}

// ScoreDifferential returns the absolute score margin.
func (s LiveGameSnapshot) ScoreDifferential() int {
	d := s.Home.Points - s.Away.Points
	if d < 0 {
		d = -d
	}
	return d
}

// TotalScore returns the combined score of both teams.
func (s LiveGameSnapshot) TotalScore() int {
	return s.Home.Points + s.Away.Points
}

// VarianceLevel classifies how far a live rate sits from its season baseline,
// in standard deviations.
type VarianceLevel string

const (
	VarianceExtremeHot  VarianceLevel = "extreme_hot"
	VarianceHot         VarianceLevel = "hot"
	VarianceNormal      VarianceLevel = "normal"
	VarianceCold        VarianceLevel = "cold"
	VarianceExtremeCold VarianceLevel = "extreme_cold"
)

// PaceTrend describes the quarter-over-quarter direction of game pace.
type PaceTrend string

const (
	PaceAccelerating PaceTrend = "accelerating"
	PaceSteady       PaceTrend = "steady"
	PaceDecelerating PaceTrend = "decelerating"
)

// GameScript classifies the competitive state of the game.
type GameScript string

const (
	ScriptClose    GameScript = "close"
	ScriptModerate GameScript = "moderate"
	ScriptBlowout  GameScript = "blowout"
)

// TotalsLean describes the second-half totals recommendation.
type TotalsLean string

const (
	LeanStrongOver  TotalsLean = "strong_over"
	LeanOver        TotalsLean = "lean_over"
	LeanNeutral     TotalsLean = "neutral"
	LeanUnder       TotalsLean = "lean_under"
	LeanStrongUnder TotalsLean = "strong_under"
)

// TeamQuarterProjection is one team's projected Q3 and Q4 scoring.
type TeamQuarterProjection struct {
	TeamAbbrev string  `json:"team_abbrev"`
	Q3         float64 `json:"q3"`
	Q4         float64 `json:"q4"`
}

// HalftimeProjection is the full output of the live projection engine for
// one game at halftime.
type HalftimeProjection struct {
	GameID             int                   `json:"game_id"`
	FirstHalfTotal     int                   `json:"first_half_total"`
	LivePace           float64               `json:"live_pace"`
	PaceDeviationPct   float64               `json:"pace_deviation_pct"`
	PaceTrend          PaceTrend             `json:"pace_trend"`
	PaceVariance       VarianceLevel         `json:"pace_variance"`
	HomeShootingLevel  VarianceLevel         `json:"home_shooting_level"`
	AwayShootingLevel  VarianceLevel         `json:"away_shooting_level"`
	GameScript         GameScript            `json:"game_script"`
	StarProjections    []StarProjection      `json:"star_projections"`
	HomeQuarters       TeamQuarterProjection `json:"home_quarters"`
	AwayQuarters       TeamQuarterProjection `json:"away_quarters"`
	ProjectedFinal     float64               `json:"projected_final"`
	ProjectedSpread    float64               `json:"projected_spread"`
	OvertimeProb       float64               `json:"overtime_prob"`
	TotalConfidence    float64               `json:"total_confidence"`
	TotalsLean         TotalsLean            `json:"totals_lean"`
	TotalsEdge         float64               `json:"totals_edge"`
	LiveLine           *float64              `json:"live_line,omitempty"`
	FactorContribution map[string]float64    `json:"factor_contribution"`
	Notes              []string              `json:"notes,omitempty"`
	GeneratedAt        time.Time             `json:"generated_at"`
}

// StarProjection is the rest-of-game projection for one high-usage player.
type StarProjection struct {
	PlayerID          int     `json:"player_id"`
	PlayerName        string  `json:"player_name"`
	TeamAbbrev        string  `json:"team_abbrev"`
	UsageRate         float64 `json:"usage_rate"`
	FirstHalfPoints   int     `json:"first_half_points"`
	ProjectedFinalPts float64 `json:"projected_final_pts"`
	ProjectedMinutes  float64 `json:"projected_minutes"`
	FoulTrouble       bool    `json:"foul_trouble"`
	BlowoutRisk       bool    `json:"blowout_risk"`
	Confidence        float64 `json:"confidence"`
	Recommendation    Tier    `json:"recommendation"`
	Notes             string  `json:"notes,omitempty"`
}
