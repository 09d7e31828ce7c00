package breakout

import (
	"time"
)

// TradingDay represents a single trading session for the analyzed instrument.
// Series passed to the engine must be sorted ascending by date; the records
// are owned by the ingestion layer and are read-only to the engine.
type TradingDay struct {
	Date        time.Time `json:"date"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      int64     `json:"volume"`
	DeliveryQty int64     `json:"delivery_qty"`
}

// IsValid checks if the trading day data is well formed
func (td TradingDay) IsValid() bool {
	return td.Open > 0 && td.High > 0 && td.Low > 0 && td.Close > 0 &&
		td.Volume >= 0 && td.DeliveryQty >= 0 &&
		td.High >= td.Low && td.High >= td.Open && td.High >= td.Close &&
		td.Low <= td.Open && td.Low <= td.Close
}

// DeliveryPercent returns the deliverable share of traded volume in percentage
// points. The second return value is false when the day has no volume, in
// which case delivery-based rules must treat the day as neutral.
func (td TradingDay) DeliveryPercent() (float64, bool) {
	if td.Volume <= 0 {
		return 0, false
	}
	return float64(td.DeliveryQty) / float64(td.Volume) * 100, true
}

// IntradayChangePercent returns the open-to-close price change in percentage points.
func (td TradingDay) IntradayChangePercent() float64 {
	if td.Open <= 0 {
		return 0
	}
	return (td.Close - td.Open) / td.Open * 100
}

// MarketIndexDay represents one session of the broad market index. The series
// is assumed index-aligned with the stock series by the caller; no date join
// is performed by the engine. VIX and AdvanceDecline are optional and absent
// when nil, never zero-valued sentinels.
type MarketIndexDay struct {
	Date           time.Time `json:"date"`
	Open           float64   `json:"open"`
	High           float64   `json:"high"`
	Low            float64   `json:"low"`
	Close          float64   `json:"close"`
	Volume         float64   `json:"volume"`
	VIX            *float64  `json:"vix,omitempty"`
	AdvanceDecline *float64  `json:"advance_decline,omitempty"`
}

// Direction is the expected price direction of a predicted move.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Confidence is a coarse tier summarizing how much historical depth and score
// extremity back a probability.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// RiskLevel grades the downside exposure of acting on a snapshot.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// FactorScores holds the five factor analyzer outputs, each in [0,100].
// Produced fresh per prediction call and never persisted.
type FactorScores struct {
	StockTechnicals   float64 `json:"stock_technicals"`
	MarketCorrelation float64 `json:"market_correlation"`
	VolumePattern     float64 `json:"volume_pattern"`
	DeliveryTrend     float64 `json:"delivery_trend"`
	MarketSentiment   float64 `json:"market_sentiment"`
}

// RiskReward quantifies the distance to the nearest support and resistance
// levels relative to the current close, in percentage points.
type RiskReward struct {
	Risk   float64 `json:"risk"`
	Reward float64 `json:"reward"`
	Ratio  float64 `json:"ratio"`
}

// BreakoutPrediction is the output of a Predict call: an immutable value
// object describing the expected behavior of the target session.
type BreakoutPrediction struct {
	Date              time.Time    `json:"date"`
	Probability       float64      `json:"probability"`
	Confidence        Confidence   `json:"confidence"`
	Factors           FactorScores `json:"factors"`
	Reasoning         string       `json:"reasoning"`
	ExpectedDirection Direction    `json:"expected_direction"`
	RiskReward        RiskReward   `json:"risk_reward"`
}

// KeyLevels are the support/resistance/target prices of a technical snapshot.
type KeyLevels struct {
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
	Target     float64 `json:"target"`
}

// Signal is one technical observation about a snapshot day. Strength is in
// [0,100]; the signal list preserves first-match order, capped by truncation.
type Signal struct {
	Type        string  `json:"type"`
	Strength    float64 `json:"strength"`
	Description string  `json:"description"`
}

// TechnicalAnalysis is the output of the snapshot analyzer: a human-readable
// trend/signal summary for a single day, used for live chart-hover display.
type TechnicalAnalysis struct {
	Trend       Direction `json:"trend"`
	Probability float64   `json:"probability"`
	Reasoning   string    `json:"reasoning"`
	KeyLevels   KeyLevels `json:"key_levels"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Signals     []Signal  `json:"signals"`
}

// DayNarrative is a one-line hover summary for a single day, with a chart
// marker and display color chosen by the dominant signal.
type DayNarrative struct {
	Summary     string  `json:"summary"`
	Probability float64 `json:"probability"`
	Marker      string  `json:"marker"`
	Color       string  `json:"color"`
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// tail returns the last n elements of days, or all of them if fewer.
func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
