package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/courtedge/courtedge/internal/models"
	"github.com/courtedge/courtedge/pkg/config"
)

// StatsProvider is the upstream data source contract. The engine only ever
// sees data that has passed through here.
type StatsProvider interface {
	GetPlayerGameLogs(ctx context.Context, playerID int, statType models.StatType, count int) ([]models.GameLogEntry, error)
	GetPlayerSeasonAverage(ctx context.Context, playerID int) (models.PlayerBaseline, error)
	GetLiveBoxScore(ctx context.Context, gameID int) (models.LiveGameSnapshot, error)
	GetLiveGameIDs(ctx context.Context) ([]int, error)
}

// StatsService fronts the provider with the redis cache so repeated prop
// requests for the same player inside a session never hit the upstream
// rate limit.
type StatsService struct {
	provider StatsProvider
	cache    Cache
	config   *config.Config
	logger   *logrus.Logger
}

func NewStatsService(provider StatsProvider, cache Cache, cfg *config.Config, logger *logrus.Logger) *StatsService {
	return &StatsService{
		provider: provider,
		cache:    cache,
		config:   cfg,
		logger:   logger,
	}
}

// GetGameLogs returns a player's game log for one stat, cache-first.
func (s *StatsService) GetGameLogs(ctx context.Context, playerID int, statType models.StatType, count int) ([]models.GameLogEntry, error) {
	key := GameLogCacheKey(playerID, statType)

	var cached []models.GameLogEntry
	if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached) >= count {
		return cached, nil
	}

	logs, err := s.provider.GetPlayerGameLogs(ctx, playerID, statType, count)
	if err != nil {
		return nil, fmt.Errorf("fetch game logs for player %d: %w", playerID, err)
	}

	if err := s.cache.Set(ctx, key, logs, s.config.StatsCacheTTL); err != nil {
		s.logger.WithFields(logrus.Fields{
			"player_id": playerID,
			"error":     err.Error(),
		}).Warn("Failed to cache game logs")
	}
	return logs, nil
}

// GetPlayerBaseline returns season per-game averages, cache-first.
func (s *StatsService) GetPlayerBaseline(ctx context.Context, playerID int) (models.PlayerBaseline, error) {
	key := PlayerBaselineCacheKey(playerID)

	var cached models.PlayerBaseline
	if err := s.cache.Get(ctx, key, &cached); err == nil && cached.PlayerID == playerID {
		return cached, nil
	}

	baseline, err := s.provider.GetPlayerSeasonAverage(ctx, playerID)
	if err != nil {
		return models.PlayerBaseline{}, err
	}

	if err := s.cache.Set(ctx, key, baseline, s.config.StatsCacheTTL); err != nil {
		s.logger.Warnf("Failed to cache player baseline %d: %v", playerID, err)
	}
	return baseline, nil
}

// GetLiveSnapshot returns the live box score for a game. Live data gets a
// short TTL so polls inside the interval share one upstream call.
func (s *StatsService) GetLiveSnapshot(ctx context.Context, gameID int) (models.LiveGameSnapshot, error) {
	key := LiveSnapshotCacheKey(gameID)

	var cached models.LiveGameSnapshot
	if err := s.cache.Get(ctx, key, &cached); err == nil && cached.GameID == gameID {
		return cached, nil
	}

	snap, err := s.provider.GetLiveBoxScore(ctx, gameID)
	if err != nil {
		return models.LiveGameSnapshot{}, err
	}

	ttl := s.config.LivePollInterval
	if ttl <= 0 || ttl > s.config.LiveCacheTTL {
		ttl = s.config.LiveCacheTTL
	}
	if err := s.cache.Set(ctx, key, snap, ttl); err != nil {
		s.logger.Warnf("Failed to cache live snapshot %d: %v", gameID, err)
	}
	return snap, nil
}

// GetLiveGameIDs lists games currently in progress, uncached since the
// slate itself changes as games tip off and end.
func (s *StatsService) GetLiveGameIDs(ctx context.Context) ([]int, error) {
	return s.provider.GetLiveGameIDs(ctx)
}
