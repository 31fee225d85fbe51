package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/courtedge/courtedge/internal/models"
	"github.com/courtedge/courtedge/pkg/config"
)

// LivePoller re-projects every live game on a fixed interval so the API can
// serve fresh halftime reads without a provider round trip. Each tick is
// independent; a failed game is retried naturally on the next tick.
type LivePoller struct {
	halftime *HalftimeService
	stats    *StatsService
	config   *config.Config
	logger   *logrus.Logger
	cron     *cron.Cron
}

func NewLivePoller(halftime *HalftimeService, stats *StatsService, cfg *config.Config, logger *logrus.Logger) *LivePoller {
	return &LivePoller{
		halftime: halftime,
		stats:    stats,
		config:   cfg,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules the poll loop. Returns an error if the configured
// interval cannot be parsed into a schedule.
func (p *LivePoller) Start() error {
	spec := fmt.Sprintf("@every %s", p.config.LivePollInterval)
	if _, err := p.cron.AddFunc(spec, p.tick); err != nil {
		return fmt.Errorf("schedule live poll: %w", err)
	}
	p.cron.Start()
	p.logger.WithField("interval", p.config.LivePollInterval.String()).Info("Live poller started")
	return nil
}

// Stop halts the schedule and waits for an in-flight tick to finish.
func (p *LivePoller) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
	p.logger.Info("Live poller stopped")
}

func (p *LivePoller) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.LivePollInterval)
	defer cancel()

	gameIDs, err := p.stats.GetLiveGameIDs(ctx)
	if err != nil {
		p.logger.Warnf("Live poll failed to list games: %v", err)
		return
	}
	if len(gameIDs) == 0 {
		return
	}

	start := time.Now()
	projected := 0
	for _, gameID := range gameIDs {
		if _, err := p.halftime.ProjectGame(ctx, gameID, nil); err != nil {
			// First-quarter games are expected to be rejected.
			if !errors.Is(err, models.ErrGameNotLive) {
				p.logger.WithFields(logrus.Fields{
					"game_id": gameID,
					"error":   err.Error(),
				}).Warn("Live projection failed")
			}
			continue
		}
		projected++
	}

	p.logger.WithFields(logrus.Fields{
		"games":     len(gameIDs),
		"projected": projected,
		"elapsed":   time.Since(start).String(),
	}).Info("Live poll tick complete")
}
