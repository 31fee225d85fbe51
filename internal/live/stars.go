package live

import (
	"fmt"
	"sort"

	"github.com/courtedge/courtedge/internal/analysis"
	"github.com/courtedge/courtedge/internal/models"
)

// StarConfig bounds the star projection adjustments. Zero values fall back
// to the defaults.
type StarConfig struct {
	FoulTroubleThreshold  int
	BlowoutThreshold      int
	FoulMinutesPenalty    float64
	BlowoutMinutesPenalty float64
}

// DefaultStarConfig matches typical coaching behavior: a star with four
// first-half fouls sits more, and a 20-point gap pulls starters early.
func DefaultStarConfig() StarConfig {
	return StarConfig{
		FoulTroubleThreshold:  4,
		BlowoutThreshold:      20,
		FoulMinutesPenalty:    0.75,
		BlowoutMinutesPenalty: 0.70,
	}
}

func (c StarConfig) normalize() StarConfig {
	d := DefaultStarConfig()
	if c.FoulTroubleThreshold <= 0 {
		c.FoulTroubleThreshold = d.FoulTroubleThreshold
	}
	if c.BlowoutThreshold <= 0 {
		c.BlowoutThreshold = d.BlowoutThreshold
	}
	if c.FoulMinutesPenalty <= 0 || c.FoulMinutesPenalty > 1 {
		c.FoulMinutesPenalty = d.FoulMinutesPenalty
	}
	if c.BlowoutMinutesPenalty <= 0 || c.BlowoutMinutesPenalty > 1 {
		c.BlowoutMinutesPenalty = d.BlowoutMinutesPenalty
	}
	return c
}

// scoringRateSpread approximates the per-minute scoring standard deviation
// as a fraction of the season rate, for the hot/cold read.
const scoringRateSpread = 0.25

// Star selection bounds. Usage is the share of team possessions a player
// has used while on the floor.
const (
	starCountPerTeam = 3
	starMinutesFloor = 3.0
	starUsageFloor   = 0.15
)

// ProjectStar projects a star's second half from their live line and season
// baseline. Second-half minutes start at half the season per-game average
// and shrink for foul trouble and blowout risk, so the projection always
// lands strictly below a full season workload. The confidence read keys on
// the hot/cold z less the penalty flags and maps onto the live tiers, so a
// warm star in a clean game can surface as a lean.
func ProjectStar(p models.LivePlayerLine, baseline models.PlayerBaseline, snap models.LiveGameSnapshot, paceFactor float64, cfg StarConfig) models.StarProjection {
	cfg = cfg.normalize()

	proj := models.StarProjection{
		PlayerID:        p.PlayerID,
		PlayerName:      p.PlayerName,
		TeamAbbrev:      p.TeamAbbrev,
		FirstHalfPoints: p.Points,
		FoulTrouble:     p.PersonalFouls >= cfg.FoulTroubleThreshold,
		BlowoutRisk:     snap.ScoreDifferential() >= cfg.BlowoutThreshold,
	}

	minutes := baseline.MinutesPerGame / 2
	if proj.FoulTrouble {
		minutes *= cfg.FoulMinutesPenalty
		proj.Notes = fmt.Sprintf("%d first-half fouls", p.PersonalFouls)
	}
	if proj.BlowoutRisk {
		minutes *= cfg.BlowoutMinutesPenalty
	}
	proj.ProjectedMinutes = minutes

	seasonRate := 0.0
	if baseline.MinutesPerGame > 0 {
		seasonRate = baseline.PointsPerGame / baseline.MinutesPerGame
	}

	liveRate := seasonRate
	if p.Minutes > 0 {
		liveRate = float64(p.Points) / p.Minutes
	}

	// Shrink the live scoring rate toward the season rate on the live
	// minutes sample, then extrapolate over projected minutes.
	rf := RegressionFactor(int(p.Minutes))
	rate := rf*seasonRate + (1-rf)*liveRate
	if paceFactor <= 0 {
		paceFactor = 1
	}
	proj.ProjectedFinalPts = float64(p.Points) + minutes*rate*paceFactor

	var z float64
	if seasonRate > 0 && p.Minutes > 0 {
		z = (liveRate - seasonRate) / (seasonRate * scoringRateSpread)
		switch {
		case z > 1:
			proj.Notes = appendNote(proj.Notes, "shooting hot vs season rate")
		case z < -1:
			proj.Notes = appendNote(proj.Notes, "shooting cold vs season rate")
		}
	}

	conf := 50 + 10*clampF(z, -1.5, 1.5)
	if proj.FoulTrouble {
		conf -= 8
	}
	if proj.BlowoutRisk {
		conf -= 6
	}
	proj.Confidence = clampF(conf, 0, 100)
	proj.Recommendation = analysis.LiveTierFor(proj.Confidence)
	return proj
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}

// SelectStars picks each team's heaviest-usage players from the live box
// score and projects them. A candidate needs at least three minutes, a
// usage share clearing the floor, and a season baseline to project from;
// at most three players per team qualify.
func SelectStars(snap models.LiveGameSnapshot, baselines map[int]models.PlayerBaseline, paceFactor float64, cfg StarConfig) []models.StarProjection {
	var out []models.StarProjection
	for _, team := range []models.LiveTeamLine{snap.Home, snap.Away} {
		for _, c := range teamStars(team) {
			b, ok := baselines[c.line.PlayerID]
			if !ok {
				continue
			}
			proj := ProjectStar(c.line, b, snap, paceFactor, cfg)
			proj.UsageRate = c.usage
			out = append(out, proj)
		}
	}
	return out
}

type starCandidate struct {
	line  models.LivePlayerLine
	usage float64
}

// teamStars ranks one team's players by live usage share, highest first.
func teamStars(team models.LiveTeamLine) []starCandidate {
	teamPoss := team.Possessions()
	if teamPoss <= 0 {
		return nil
	}
	var cands []starCandidate
	for _, p := range team.Players {
		usage := p.Possessions() / teamPoss
		if p.Minutes < starMinutesFloor || usage < starUsageFloor {
			continue
		}
		cands = append(cands, starCandidate{line: p, usage: usage})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].usage > cands[j].usage
	})
	if len(cands) > starCountPerTeam {
		cands = cands[:starCountPerTeam]
	}
	return cands
}
