package models

// ShootingSplits holds season-long shooting efficiency for a team.
type ShootingSplits struct {
	EFGPct float64 `json:"efg_pct"`
	TSPct  float64 `json:"ts_pct"`
	FG3Pct float64 `json:"fg3_pct"`
	FTPct  float64 `json:"ft_pct"`
}

// SeasonBaseline is a team's season profile used as the regression anchor
// for live projections.
type SeasonBaseline struct {
	TeamAbbrev      string         `json:"team_abbrev"`
	Pace            float64        `json:"pace"`
	PaceStdDev      float64        `json:"pace_std_dev"`
	OffensiveRating float64        `json:"offensive_rating"`
	PointsPerGame   float64        `json:"points_per_game"`
	Shooting        ShootingSplits `json:"shooting"`
	EFGStdDev       float64        `json:"efg_std_dev"`
}

// MatchupBaseline pairs both teams' baselines for one game.
type MatchupBaseline struct {
	Home SeasonBaseline `json:"home"`
	Away SeasonBaseline `json:"away"`
}

// ExpectedPace is the neutral pre-game pace expectation for the matchup.
func (m MatchupBaseline) ExpectedPace() float64 {
	return (m.Home.Pace + m.Away.Pace) / 2
}

// PlayerBaseline carries the per-game season averages used to project a
// star's second half.
type PlayerBaseline struct {
	PlayerID       int     `json:"player_id"`
	PlayerName     string  `json:"player_name"`
	TeamAbbrev     string  `json:"team_abbrev"`
	PointsPerGame  float64 `json:"points_per_game"`
	MinutesPerGame float64 `json:"minutes_per_game"`
}
