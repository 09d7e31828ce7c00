// Package breakout implements the NSE multi-factor breakout prediction engine.
//
// The engine consumes a chronologically ordered series of daily trading records
// (price, volume, deliverable quantity) plus an optional index-aligned market
// series, and produces a forward-looking breakout prediction for a chosen
// trading day together with a live technical snapshot for any individual day.
//
// # Core Components
//
// The prediction probability is a weighted combination of five independent
// factor analyzers, each scoring a trailing window on a 0-100 scale:
//
//  1. Stock Technicals: momentum, moving-average position, volatility, resistance proximity
//  2. Market Correlation: trend alignment and correlation strength against the index
//  3. Volume Pattern: volume surge, volume trend, price-volume confirmation
//  4. Delivery Trend: deliverable percentage level, trend, and price confirmation
//  5. Market Sentiment: index trend, VIX level, advance-decline breadth
//
// # Architecture
//
//   - types.go: Core data structures (TradingDay, MarketIndexDay, outputs)
//   - stats.go: Statistical primitives (moving average, OLS trend, volatility, correlation)
//   - factors.go: The five factor analyzers
//   - weights.go: Factor weight configuration
//   - direction.go: Expected direction and risk/reward resolution
//   - reasoning.go: Natural-language rationale synthesis
//   - predictor.go: Prediction orchestrator
//   - snapshot.go: Single-day technical snapshot analyzer
//   - tagger.go: Historical breakout day tagging
//   - narrative.go: Per-day hover narrative
//
// # Usage Example
//
//	predictor := breakout.NewPredictor(stockDays, indexDays, breakout.DefaultFactorWeights(), logger)
//	prediction, err := predictor.Predict(ctx, targetDate)
//	if err != nil {
//	    // breakout.ErrInvalidTarget: date absent or no prior history
//	}
//
// All analyzers are pure functions of their input windows: they never mutate
// the supplied slices, retain no state across calls, and degrade to neutral
// scores on degenerate input (short windows, zero volume) instead of failing.
// Concurrent calls against the same predictor are safe.
package breakout
