package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/courtedge/courtedge/internal/models"
)

// League-average team profile, the fallback when no team-specific baseline
// has been loaded into the cache.
var leagueAverageBaseline = models.SeasonBaseline{
	Pace:            99.5,
	PaceStdDev:      3.2,
	OffensiveRating: 114.0,
	PointsPerGame:   113.5,
	Shooting: models.ShootingSplits{
		EFGPct: 0.545,
		TSPct:  0.580,
		FG3Pct: 0.362,
		FTPct:  0.783,
	},
	EFGStdDev: 0.045,
}

// BaselineService resolves team season baselines. Baselines live in redis
// under well-known keys so they can be refreshed out of band; a team with
// no stored profile reads as the league average rather than failing the
// projection.
type BaselineService struct {
	cache  Cache
	logger *logrus.Logger
}

func NewBaselineService(cache Cache, logger *logrus.Logger) *BaselineService {
	return &BaselineService{cache: cache, logger: logger}
}

// GetTeamBaseline returns the stored season profile for a team, or the
// league average when none exists.
func (s *BaselineService) GetTeamBaseline(ctx context.Context, teamAbbrev string) models.SeasonBaseline {
	var stored models.SeasonBaseline
	if err := s.cache.Get(ctx, TeamBaselineCacheKey(teamAbbrev), &stored); err == nil && stored.Pace > 0 {
		return stored
	}

	s.logger.WithField("team", teamAbbrev).Debug("No stored team baseline, using league average")
	b := leagueAverageBaseline
	b.TeamAbbrev = teamAbbrev
	return b
}

// GetMatchupBaseline pairs both teams' profiles for one game.
func (s *BaselineService) GetMatchupBaseline(ctx context.Context, homeAbbrev, awayAbbrev string) models.MatchupBaseline {
	return models.MatchupBaseline{
		Home: s.GetTeamBaseline(ctx, homeAbbrev),
		Away: s.GetTeamBaseline(ctx, awayAbbrev),
	}
}

// SetTeamBaseline stores a refreshed team profile. Baselines do not expire;
// a refresh overwrites in place.
func (s *BaselineService) SetTeamBaseline(ctx context.Context, baseline models.SeasonBaseline) error {
	return s.cache.Set(ctx, TeamBaselineCacheKey(baseline.TeamAbbrev), baseline, 0)
}
