package breakout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrInvalidTarget is returned when the requested target date is absent from
// the stock history or is the chronologically first record, leaving no prior
// day to analyze. It is a user-input error, not an engine failure.
var ErrInvalidTarget = errors.New("date not found or insufficient history")

// Predictor runs the multi-factor breakout analysis over a loaded stock
// series and an optional index-aligned market series. A Predictor holds no
// mutable state: concurrent Predict calls are safe.
type Predictor struct {
	stock   []TradingDay
	market  []MarketIndexDay
	weights FactorWeights
	logger  *slog.Logger
}

// NewPredictor creates a predictor over the given series. The stock series
// must be sorted ascending by date. Invalid weights fall back to the
// documented defaults.
func NewPredictor(stock []TradingDay, market []MarketIndexDay, weights FactorWeights, logger *slog.Logger) *Predictor {
	if logger == nil {
		logger = slog.Default()
	}
	if !weights.IsValid() {
		logger.Warn("invalid factor weights, using defaults", "weights", weights)
		weights = DefaultFactorWeights()
	}
	return &Predictor{
		stock:   stock,
		market:  market,
		weights: weights,
		logger:  logger,
	}
}

// Predict produces a breakout prediction for the given target date using
// only records strictly before it. The target day's own data never enters
// the analysis. Returns ErrInvalidTarget when the date is absent or is the
// first record.
func (p *Predictor) Predict(ctx context.Context, targetDate time.Time) (BreakoutPrediction, error) {
	if err := ctx.Err(); err != nil {
		return BreakoutPrediction{}, err
	}

	targetIdx := -1
	for i, d := range p.stock {
		if sameDay(d.Date, targetDate) {
			targetIdx = i
			break
		}
	}
	if targetIdx <= 0 {
		return BreakoutPrediction{}, fmt.Errorf("target %s: %w", targetDate.Format("2006-01-02"), ErrInvalidTarget)
	}

	historicalStock := p.stock[:targetIdx]
	historicalMarket := p.market
	if targetIdx < len(historicalMarket) {
		historicalMarket = historicalMarket[:targetIdx]
	}
	current := historicalStock[len(historicalStock)-1]

	factors := FactorScores{
		StockTechnicals:   analyzeStockTechnicals(historicalStock),
		MarketCorrelation: analyzeMarketCorrelation(historicalStock, historicalMarket),
		VolumePattern:     analyzeVolumePattern(historicalStock),
		DeliveryTrend:     analyzeDeliveryTrend(historicalStock),
		MarketSentiment:   analyzeMarketSentiment(historicalMarket),
	}

	probability := clamp(p.weights.Combine(factors), 5, 95)
	direction := resolveDirection(historicalStock, historicalMarket)

	prediction := BreakoutPrediction{
		Date:              targetDate,
		Probability:       probability,
		Confidence:        confidenceTier(probability, len(historicalStock)),
		Factors:           factors,
		Reasoning:         generateReasoning(factors, direction, current),
		ExpectedDirection: direction,
		RiskReward:        resolveRiskReward(historicalStock, direction),
	}

	p.logger.DebugContext(ctx, "prediction computed",
		"target_date", targetDate.Format("2006-01-02"),
		"probability", prediction.Probability,
		"direction", prediction.ExpectedDirection,
		"confidence", prediction.Confidence,
		"history_days", len(historicalStock),
	)

	return prediction, nil
}

// Dates returns the dates of the loaded stock series in order.
func (p *Predictor) Dates() []time.Time {
	out := make([]time.Time, len(p.stock))
	for i, d := range p.stock {
		out[i] = d.Date
	}
	return out
}

// confidenceTier grades a probability by historical depth and extremity.
// Histories shorter than 20 days and probabilities in the broad middle band
// both map to low confidence.
func confidenceTier(probability float64, dataPoints int) Confidence {
	if dataPoints < 20 {
		return ConfidenceLow
	}
	if probability > 75 || probability < 25 {
		return ConfidenceHigh
	}
	if probability > 60 || probability < 40 {
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// sameDay reports whether two timestamps fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
