package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/courtedge/courtedge/internal/live"
	"github.com/courtedge/courtedge/internal/models"
	"github.com/courtedge/courtedge/pkg/config"
)

// HalftimeService orchestrates the live path: pull the snapshot and
// baselines, run the projection engine, and cache the result for the
// poll interval.
type HalftimeService struct {
	stats     *StatsService
	baselines *BaselineService
	cache     Cache
	config    *config.Config
	logger    *logrus.Logger
}

func NewHalftimeService(stats *StatsService, baselines *BaselineService, cache Cache, cfg *config.Config, logger *logrus.Logger) *HalftimeService {
	return &HalftimeService{
		stats:     stats,
		baselines: baselines,
		cache:     cache,
		config:    cfg,
		logger:    logger,
	}
}

// ProjectGame produces the halftime projection for one live game. The
// optional live line feeds the over/under lean.
func (s *HalftimeService) ProjectGame(ctx context.Context, gameID int, liveLine *float64) (models.HalftimeProjection, error) {
	snap, err := s.stats.GetLiveSnapshot(ctx, gameID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.HalftimeProjection{}, fmt.Errorf("%w: game %d", models.ErrGameNotLive, gameID)
		}
		return models.HalftimeProjection{}, err
	}

	matchup := s.baselines.GetMatchupBaseline(ctx, snap.Home.TeamAbbrev, snap.Away.TeamAbbrev)
	playerBaselines := s.collectStarBaselines(ctx, snap)

	proj, err := live.ProjectGameTotals(live.TotalsInput{
		Snapshot:        snap,
		Matchup:         matchup,
		PlayerBaselines: playerBaselines,
		LiveLine:        liveLine,
		Stars: live.StarConfig{
			FoulTroubleThreshold: s.config.FoulTroubleThreshold,
			BlowoutThreshold:     s.config.BlowoutThreshold,
		},
	})
	if err != nil {
		return models.HalftimeProjection{}, err
	}

	if err := s.cache.Set(ctx, HalftimeProjectionCacheKey(gameID), proj, s.config.LiveCacheTTL); err != nil {
		s.logger.Warnf("Failed to cache projection for game %d: %v", gameID, err)
	}
	return proj, nil
}

// CachedProjection returns the last stored projection for a game, if the
// poller has produced one inside the TTL.
func (s *HalftimeService) CachedProjection(ctx context.Context, gameID int) (models.HalftimeProjection, error) {
	var proj models.HalftimeProjection
	if err := s.cache.Get(ctx, HalftimeProjectionCacheKey(gameID), &proj); err != nil {
		return models.HalftimeProjection{}, err
	}
	return proj, nil
}

// collectStarBaselines resolves season averages for the snapshot's players.
// Star selection itself happens in the projection engine on live usage; a
// player whose baseline cannot be fetched is simply skipped and the
// projection degrades to team-level reads.
func (s *HalftimeService) collectStarBaselines(ctx context.Context, snap models.LiveGameSnapshot) map[int]models.PlayerBaseline {
	out := make(map[int]models.PlayerBaseline)
	for _, team := range []models.LiveTeamLine{snap.Home, snap.Away} {
		for _, p := range team.Players {
			baseline, err := s.stats.GetPlayerBaseline(ctx, p.PlayerID)
			if err != nil {
				if !errors.Is(err, models.ErrNotFound) {
					s.logger.WithFields(logrus.Fields{
						"player_id": p.PlayerID,
						"error":     err.Error(),
					}).Warn("Failed to fetch player baseline")
				}
				continue
			}
			baseline.TeamAbbrev = team.TeamAbbrev
			baseline.PlayerName = p.PlayerName
			out[p.PlayerID] = baseline
		}
	}
	return out
}
