package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"nsepulse/internal/breakout"
	"nsepulse/internal/infrastructure"
)

// AnalysisService fronts the breakout engine for the transport layer. It
// owns the loaded series and a configured predictor; all methods are safe
// for concurrent use since the engine is pure.
type AnalysisService struct {
	stock          []breakout.TradingDay
	market         []breakout.MarketIndexDay
	predictor      *breakout.Predictor
	maxConcurrency int
	logger         *slog.Logger
	metrics        *infrastructure.EngineMetrics
}

// NewAnalysisService creates the service over loaded series. metrics may be
// nil when observability is not wired (e.g. the CLI).
func NewAnalysisService(
	stock []breakout.TradingDay,
	market []breakout.MarketIndexDay,
	weights breakout.FactorWeights,
	maxConcurrency int,
	logger *slog.Logger,
	metrics *infrastructure.EngineMetrics,
) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &AnalysisService{
		stock:          stock,
		market:         market,
		predictor:      breakout.NewPredictor(stock, market, weights, logger),
		maxConcurrency: maxConcurrency,
		logger:         logger.With(slog.String("component", "analysis_service")),
		metrics:        metrics,
	}
}

// Predict computes the breakout prediction for one target date.
func (s *AnalysisService) Predict(ctx context.Context, date time.Time) (breakout.BreakoutPrediction, error) {
	prediction, err := s.predictor.Predict(ctx, date)
	s.metrics.RecordPrediction(ctx, string(prediction.ExpectedDirection), err)
	if err != nil {
		return breakout.BreakoutPrediction{}, err
	}
	return prediction, nil
}

// PredictAll computes predictions for every eligible date (all but the first
// record), fanning out across a bounded worker pool. Results are ordered by
// date. Engine purity makes the parallel calls safe without coordination.
func (s *AnalysisService) PredictAll(ctx context.Context) ([]breakout.BreakoutPrediction, error) {
	if len(s.stock) < 2 {
		return nil, fmt.Errorf("need at least two days of history, have %d", len(s.stock))
	}

	start := time.Now()
	results := make([]breakout.BreakoutPrediction, len(s.stock)-1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i := 1; i < len(s.stock); i++ {
		g.Go(func() error {
			prediction, err := s.predictor.Predict(gctx, s.stock[i].Date)
			if err != nil {
				return fmt.Errorf("predict %s: %w", s.stock[i].Date.Format("2006-01-02"), err)
			}
			results[i-1] = prediction
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Date.Before(results[j].Date) })
	s.metrics.RecordBatch(ctx, time.Since(start), len(results))
	s.logger.InfoContext(ctx, "batch prediction completed",
		"predictions", len(results),
		"duration", time.Since(start).String(),
	)
	return results, nil
}

// Snapshot computes the technical snapshot for the day at the given date,
// using all prior days as the trailing window.
func (s *AnalysisService) Snapshot(ctx context.Context, date time.Time) (breakout.TechnicalAnalysis, error) {
	idx := s.findDate(date)
	if idx < 0 {
		return breakout.TechnicalAnalysis{}, fmt.Errorf("snapshot %s: %w", date.Format("2006-01-02"), breakout.ErrInvalidTarget)
	}

	var yesterday *breakout.TradingDay
	if idx > 0 {
		yesterday = &s.stock[idx-1]
	}

	s.metrics.RecordSnapshot(ctx)
	return breakout.AnalyzeSnapshot(s.stock[idx], yesterday, s.stock[:idx]), nil
}

// Narrative produces the one-line hover summary for the day at the date.
func (s *AnalysisService) Narrative(_ context.Context, date time.Time) (breakout.DayNarrative, error) {
	idx := s.findDate(date)
	if idx < 0 {
		return breakout.DayNarrative{}, fmt.Errorf("narrative %s: %w", date.Format("2006-01-02"), breakout.ErrInvalidTarget)
	}

	var yesterday *breakout.TradingDay
	if idx > 0 {
		yesterday = &s.stock[idx-1]
	}
	return breakout.Narrative(s.stock[idx], yesterday), nil
}

// Breakouts returns the dates of historical days already tagged as breakouts.
func (s *AnalysisService) Breakouts(_ context.Context) []time.Time {
	return breakout.ComputeBreakouts(s.stock)
}

// Days reports the size of the loaded stock series.
func (s *AnalysisService) Days() int {
	return len(s.stock)
}

// findDate locates a stock day by calendar date, -1 if absent.
func (s *AnalysisService) findDate(date time.Time) int {
	ty, tm, td := date.Date()
	for i, d := range s.stock {
		y, m, dd := d.Date.Date()
		if y == ty && m == tm && dd == td {
			return i
		}
	}
	return -1
}
