package http

import (
	"context"
	"time"

	"nsepulse/internal/breakout"
)

// AnalysisServiceInterface defines the contract the analysis handler needs.
// Lets tests substitute a mock without standing up the full engine.
type AnalysisServiceInterface interface {
	Predict(ctx context.Context, date time.Time) (breakout.BreakoutPrediction, error)
	PredictAll(ctx context.Context) ([]breakout.BreakoutPrediction, error)
	Snapshot(ctx context.Context, date time.Time) (breakout.TechnicalAnalysis, error)
	Narrative(ctx context.Context, date time.Time) (breakout.DayNarrative, error)
	Breakouts(ctx context.Context) []time.Time
	Days() int
}
