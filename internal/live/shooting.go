package live

import "github.com/courtedge/courtedge/internal/models"

// seasonWeight calibrates regression shrinkage so a 20-attempt live sample
// carries half the weight of the season baseline.
const seasonWeight = 20.0

// TeamShootingProfile holds live shooting splits for one team plus their
// regressed blend with the season baseline.
type TeamShootingProfile struct {
	TeamAbbrev   string               `json:"team_abbrev"`
	LiveEFG      float64              `json:"live_efg"`
	LiveTS       float64              `json:"live_ts"`
	FG3Rate      float64              `json:"fg3_rate"`
	FG3Pct       float64              `json:"fg3_pct"`
	FTRate       float64              `json:"ft_rate"`
	FTPct        float64              `json:"ft_pct"`
	RegressedEFG float64              `json:"regressed_efg"`
	Regression   float64              `json:"regression_factor"`
	Variance     models.VarianceLevel `json:"variance"`
}

// RegressionFactor is the weight the season baseline keeps against a live
// sample of the given size. Approaches 1 with no attempts and 0 as the live
// sample grows.
func RegressionFactor(liveAttempts int) float64 {
	if liveAttempts < 0 {
		liveAttempts = 0
	}
	return seasonWeight / (seasonWeight + float64(liveAttempts))
}

// EffectiveFGPct computes eFG% from a live team line. Zero attempts yield 0.
func EffectiveFGPct(t models.LiveTeamLine) float64 {
	if t.FGA == 0 {
		return 0
	}
	return (float64(t.FGM) + 0.5*float64(t.FG3M)) / float64(t.FGA)
}

// TrueShootingPct computes TS% from a live team line using the standard
// 0.44 free-throw possession weight.
func TrueShootingPct(t models.LiveTeamLine) float64 {
	tsa := float64(t.FGA) + 0.44*float64(t.FTA)
	if tsa == 0 {
		return 0
	}
	return float64(t.Points) / (2 * tsa)
}

// AnalyzeShooting builds one team's live shooting profile shrunk toward its
// season baseline. Teams with no live attempts read entirely as their
// baseline at normal variance.
func AnalyzeShooting(t models.LiveTeamLine, season models.SeasonBaseline) TeamShootingProfile {
	p := TeamShootingProfile{
		TeamAbbrev: t.TeamAbbrev,
		LiveEFG:    EffectiveFGPct(t),
		LiveTS:     TrueShootingPct(t),
		Regression: RegressionFactor(t.FGA),
	}
	if t.FGA > 0 {
		p.FG3Rate = float64(t.FG3A) / float64(t.FGA)
	}
	if t.FG3A > 0 {
		p.FG3Pct = float64(t.FG3M) / float64(t.FG3A)
	}
	if t.FGA > 0 {
		p.FTRate = float64(t.FTA) / float64(t.FGA)
	}
	if t.FTA > 0 {
		p.FTPct = float64(t.FTM) / float64(t.FTA)
	}

	if t.FGA == 0 {
		p.RegressedEFG = season.Shooting.EFGPct
		p.Variance = models.VarianceNormal
		return p
	}

	p.RegressedEFG = p.Regression*season.Shooting.EFGPct + (1-p.Regression)*p.LiveEFG
	p.Variance = varianceLevel(p.LiveEFG, season.Shooting.EFGPct, season.EFGStdDev)
	return p
}
