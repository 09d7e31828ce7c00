package breakout

import (
	"fmt"
	"math"
)

// maxSignals caps the snapshot signal list; signals keep first-match order
// and are truncated, never sorted by strength.
const maxSignals = 4

// snapshotMetrics are the derived quantities the snapshot rules and signals
// operate on. deliveryOK is false for zero-volume days, which then pass no
// delivery-based predicate; volumeOK is false when the window average volume
// is zero, which then passes no volume predicate.
type snapshotMetrics struct {
	deliveryPercent    float64
	deliveryOK         bool
	priceChangePercent float64
	volumeRatio        float64
	volumeOK           bool
	yesterdayChange    float64
	support            float64
	resistance         float64
}

// snapshotOutcome is the tagged result of a matched snapshot rule.
type snapshotOutcome struct {
	trend       Direction
	probability float64
	riskLevel   RiskLevel
	reasoning   string
}

// snapshotRule pairs a predicate with its outcome. Rules are evaluated in
// fixed priority order and the first match wins.
type snapshotRule struct {
	applies func(m snapshotMetrics) bool
	outcome func(m snapshotMetrics) snapshotOutcome
}

// snapshotRules is the ordered rule cascade: delivery-backed rules first,
// then the volume rule as a fallback when neither delivery rule fires.
var snapshotRules = []snapshotRule{
	{
		applies: func(m snapshotMetrics) bool {
			return m.deliveryOK && m.deliveryPercent > 70 && m.priceChangePercent > 0
		},
		outcome: func(m snapshotMetrics) snapshotOutcome {
			return snapshotOutcome{
				trend:       DirectionBullish,
				probability: math.Min(85, 60+m.deliveryPercent*0.3),
				riskLevel:   RiskLow,
				reasoning:   "Strong delivery-backed buying with positive price action suggests continued upward momentum.",
			}
		},
	},
	{
		applies: func(m snapshotMetrics) bool {
			return m.deliveryOK && m.deliveryPercent < 30 && m.priceChangePercent < 0
		},
		outcome: func(m snapshotMetrics) snapshotOutcome {
			return snapshotOutcome{
				trend:       DirectionBearish,
				probability: math.Max(15, 40-m.deliveryPercent),
				riskLevel:   RiskHigh,
				reasoning:   "Weak delivery combined with negative price action indicates potential selling pressure.",
			}
		},
	},
	{
		applies: func(m snapshotMetrics) bool {
			return m.volumeOK && m.volumeRatio > 1.5
		},
		outcome: func(m snapshotMetrics) snapshotOutcome {
			trend := DirectionBearish
			if m.priceChangePercent > 0 {
				trend = DirectionBullish
			}
			return snapshotOutcome{
				trend:       trend,
				probability: math.Min(75, 50+m.volumeRatio*10),
				riskLevel:   RiskMedium,
				reasoning:   "High volume breakout suggests significant price movement ahead.",
			}
		},
	},
}

// AnalyzeSnapshot produces a technical summary of a single trading day
// against its trailing window. Unlike Predict it targets any day, typically
// whichever one a chart hover points at, and is meant for live display.
// yesterday may be nil; window may be empty.
func AnalyzeSnapshot(today TradingDay, yesterday *TradingDay, window []TradingDay) TechnicalAnalysis {
	m := deriveSnapshotMetrics(today, yesterday, window)

	outcome := snapshotOutcome{
		trend:       DirectionNeutral,
		probability: 50,
		riskLevel:   RiskMedium,
	}
	for _, rule := range snapshotRules {
		if rule.applies(m) {
			outcome = rule.outcome(m)
			break
		}
	}
	if outcome.reasoning == "" {
		outcome.reasoning = fmt.Sprintf(
			"Mixed signals with %.1f%% delivery and %.1fx volume ratio. Market showing %s bias.",
			m.deliveryPercent, displayRatio(m.volumeRatio), outcome.trend)
	}

	// The target formula deliberately reuses the bearish-side computation for
	// neutral trends, preserving the original scoring behavior.
	target := today.Close - (today.Close-m.support)*0.6
	if outcome.trend == DirectionBullish {
		target = today.Close + (m.resistance-today.Close)*0.6
	}

	return TechnicalAnalysis{
		Trend:       outcome.trend,
		Probability: outcome.probability,
		Reasoning:   outcome.reasoning,
		KeyLevels: KeyLevels{
			Support:    m.support,
			Resistance: m.resistance,
			Target:     target,
		},
		RiskLevel: outcome.riskLevel,
		Signals:   collectSignals(today, m),
	}
}

// deriveSnapshotMetrics computes the shared rule inputs from the day and its
// trailing window.
func deriveSnapshotMetrics(today TradingDay, yesterday *TradingDay, window []TradingDay) snapshotMetrics {
	m := snapshotMetrics{
		priceChangePercent: today.IntradayChangePercent(),
	}
	m.deliveryPercent, m.deliveryOK = today.DeliveryPercent()

	avgVolume := float64(today.Volume)
	if len(window) > 0 {
		var sum float64
		for _, d := range window {
			sum += float64(d.Volume)
		}
		avgVolume = sum / float64(len(window))
	}
	if avgVolume > 0 {
		m.volumeRatio = float64(today.Volume) / avgVolume
		m.volumeOK = true
	}

	if yesterday != nil && yesterday.Close > 0 {
		m.yesterdayChange = (today.Close - yesterday.Close) / yesterday.Close * 100
	}

	m.resistance = today.High * 1.05
	m.support = today.Low * 0.95
	if len(window) > 0 {
		m.resistance = window[0].High
		m.support = window[0].Low
		for _, d := range window[1:] {
			if d.High > m.resistance {
				m.resistance = d.High
			}
			if d.Low < m.support {
				m.support = d.Low
			}
		}
	}

	return m
}

// collectSignals gathers the technical observations for the day in fixed
// order: delivery, volume, candle body, prior-session momentum. The list is
// capped at maxSignals by truncation.
func collectSignals(today TradingDay, m snapshotMetrics) []Signal {
	signals := make([]Signal, 0, maxSignals)

	if m.deliveryOK && m.deliveryPercent > 70 {
		signals = append(signals, Signal{
			Type:        "Strong Delivery",
			Strength:    math.Min(95, m.deliveryPercent+10),
			Description: "High delivery percentage indicates genuine buying interest",
		})
	} else if m.deliveryOK && m.deliveryPercent < 30 {
		signals = append(signals, Signal{
			Type:        "Weak Delivery",
			Strength:    math.Max(5, 100-m.deliveryPercent*2),
			Description: "Low delivery percentage suggests speculative trading",
		})
	}

	if m.volumeOK && m.volumeRatio > 1.5 {
		signals = append(signals, Signal{
			Type:        "Volume Surge",
			Strength:    math.Min(90, m.volumeRatio*30),
			Description: fmt.Sprintf("Volume is %.1fx above average, indicating strong interest", m.volumeRatio),
		})
	} else if m.volumeOK && m.volumeRatio < 0.7 {
		signals = append(signals, Signal{
			Type:        "Low Volume",
			Strength:    math.Max(10, (1-m.volumeRatio)*50),
			Description: "Below average volume suggests lack of conviction",
		})
	}

	if totalRange := today.High - today.Low; totalRange > 0 {
		bodyRatio := math.Abs(today.Close-today.Open) / totalRange
		if bodyRatio > 0.7 {
			signals = append(signals, Signal{
				Type:        "Strong Candle",
				Strength:    math.Min(85, bodyRatio*100),
				Description: "Large body indicates strong directional movement",
			})
		}
	}

	if math.Abs(m.yesterdayChange) > 2 {
		momentum := "Negative"
		if m.yesterdayChange > 0 {
			momentum = "Positive"
		}
		signals = append(signals, Signal{
			Type:        "Price Momentum",
			Strength:    math.Min(80, math.Abs(m.yesterdayChange)*20),
			Description: fmt.Sprintf("%s momentum from previous session", momentum),
		})
	}

	if len(signals) > maxSignals {
		signals = signals[:maxSignals]
	}
	return signals
}

// displayRatio keeps degenerate volume ratios printable.
func displayRatio(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
