package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/courtedge/courtedge/internal/analysis"
	"github.com/courtedge/courtedge/internal/models"
	"github.com/courtedge/courtedge/pkg/config"
)

// gameLogFetchCount covers the 20-game hit-rate window.
const gameLogFetchCount = 20

// PropAnalysisRun is the result of scoring one bet slip.
type PropAnalysisRun struct {
	RunID       string                      `json:"run_id"`
	Results     []models.PropAnalysisResult `json:"results"`
	Failures    []PropFailure               `json:"failures,omitempty"`
	Parlays     []models.ParlaySuggestion   `json:"parlays,omitempty"`
	RiskProfile string                      `json:"risk_profile"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

// PropFailure records one prop that could not be scored without failing the
// rest of the slip.
type PropFailure struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// AnalyzerService orchestrates the batch path: fetch each prop's game log,
// fan the pure scoring out across the slip, and assemble parlays from the
// survivors.
type AnalyzerService struct {
	stats  *StatsService
	config *config.Config
	logger *logrus.Logger
}

func NewAnalyzerService(stats *StatsService, cfg *config.Config, logger *logrus.Logger) *AnalyzerService {
	return &AnalyzerService{
		stats:  stats,
		config: cfg,
		logger: logger,
	}
}

// AnalyzeProps scores a full bet slip. Props are scored concurrently but
// results keep the input order. A malformed or unfetchable prop lands in
// Failures without aborting its neighbors; only context cancellation stops
// the run.
func (s *AnalyzerService) AnalyzeProps(ctx context.Context, props []models.PropRequest) (PropAnalysisRun, error) {
	run := PropAnalysisRun{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	type slot struct {
		result models.PropAnalysisResult
		err    error
	}
	slots := make([]slot, len(props))

	g, gctx := errgroup.WithContext(ctx)
	for i, prop := range props {
		i, prop := i, prop
		g.Go(func() error {
			result, err := s.analyzeOne(gctx, prop)
			slots[i] = slot{result: result, err: err}
			// Per-prop failures are isolated; only cancellation is fatal.
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PropAnalysisRun{}, err
	}

	for i, sl := range slots {
		if sl.err != nil {
			s.logger.WithFields(logrus.Fields{
				"run_id": run.RunID,
				"index":  i,
				"error":  sl.err.Error(),
			}).Warn("Prop analysis failed")
			run.Failures = append(run.Failures, PropFailure{Index: i, Message: sl.err.Error()})
			continue
		}
		run.Results = append(run.Results, sl.result)
	}

	run.Parlays = analysis.BuildParlays(run.Results, analysis.ParlayConfig{
		MaxLegs:         s.config.ParlayMaxLegs,
		ConfidenceFloor: s.config.ParlayConfidenceFloor,
	})
	run.RiskProfile = riskProfile(run.Results)

	s.logger.WithFields(logrus.Fields{
		"run_id":   run.RunID,
		"props":    len(props),
		"scored":   len(run.Results),
		"failures": len(run.Failures),
		"parlays":  len(run.Parlays),
	}).Info("Prop analysis run complete")

	return run, nil
}

func (s *AnalyzerService) analyzeOne(ctx context.Context, prop models.PropRequest) (models.PropAnalysisResult, error) {
	if err := prop.Validate(); err != nil {
		return models.PropAnalysisResult{}, err
	}

	logs, err := s.stats.GetGameLogs(ctx, prop.PlayerID, prop.StatType, gameLogFetchCount)
	if err != nil {
		return models.PropAnalysisResult{}, err
	}
	return analysis.ScoreProp(prop, logs)
}

// riskProfile summarizes a slip by its average confidence.
func riskProfile(results []models.PropAnalysisResult) string {
	if len(results) == 0 {
		return "unknown"
	}
	var sum float64
	for _, r := range results {
		sum += r.ConfidenceScore
	}
	avg := sum / float64(len(results))
	switch {
	case avg >= 65:
		return "low"
	case avg >= 50:
		return "medium"
	default:
		return "high"
	}
}
