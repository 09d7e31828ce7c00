package breakout

import "math"

// Minimum window lengths below which each analyzer returns the neutral score.
const (
	minTechnicalDays   = 20
	minCorrelationDays = 10
	minVolumeDays      = 10
	minDeliveryDays    = 5
	minSentimentDays   = 5

	neutralScore = 50.0
)

// closes extracts the close series from a trading window.
func closes(days []TradingDay) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = d.Close
	}
	return out
}

// analyzeStockTechnicals scores price momentum, moving-average position,
// volatility regime, and proximity to the 10-day resistance. Requires at
// least 20 days of history; shorter windows score neutral.
func analyzeStockTechnicals(days []TradingDay) float64 {
	if len(days) < minTechnicalDays {
		return neutralScore
	}

	recent := tail(days, 20)
	current := days[len(days)-1]
	previous := days[len(days)-2]
	score := neutralScore

	// 1-day momentum from the previous close
	var priceChange float64
	if previous.Close > 0 {
		priceChange = (current.Close - previous.Close) / previous.Close * 100
	}
	switch {
	case priceChange > 2:
		score += 15
	case priceChange > 0:
		score += 5
	case priceChange < -2:
		score -= 15
	default:
		score -= 5
	}

	// Position relative to the trailing 20-day moving average
	ma := MovingAverage(closes(recent), 20)
	if len(ma) > 0 && current.Close > ma[len(ma)-1] {
		score += 10
	} else {
		score -= 10
	}

	// Volatility regime: elevated volatility often precedes breakouts
	vol := Volatility(closes(recent))
	if vol > 3 {
		score += 10
	} else if vol < 1 {
		score -= 5
	}

	// Proximity to the 10-day rolling resistance
	resistance := 0.0
	for _, d := range tail(recent, 10) {
		if d.High > resistance {
			resistance = d.High
		}
	}
	if current.Close > resistance*0.98 {
		score += 15
	}

	return clamp(score, 0, 100)
}

// analyzeMarketCorrelation scores the alignment of the stock's 10-day trend
// with the index trend, plus a correlation-strength adjustment. The strength
// adjustment stacks with the alignment adjustment when both apply. Requires
// at least 10 days of both series.
func analyzeMarketCorrelation(stock []TradingDay, market []MarketIndexDay) float64 {
	if len(stock) < minCorrelationDays || len(market) < minCorrelationDays {
		return neutralScore
	}

	recentStock := closes(tail(stock, 10))
	recentMarket := make([]float64, 0, 10)
	for _, d := range tail(market, 10) {
		recentMarket = append(recentMarket, d.Close)
	}
	score := neutralScore

	stockTrend := Trend(recentStock)
	marketTrend := Trend(recentMarket)
	switch {
	case stockTrend > 0 && marketTrend > 0:
		score += 20
	case stockTrend < 0 && marketTrend < 0:
		score -= 10
	case stockTrend > 0 && marketTrend < 0:
		score += 5 // outperforming a weak market
	}

	corr := Correlation(recentStock, recentMarket)
	if math.Abs(corr) > 0.7 {
		if corr > 0 && marketTrend > 0 {
			score += 15
		} else if corr > 0 && marketTrend < 0 {
			score -= 15
		}
	}

	return clamp(score, 0, 100)
}

// analyzeVolumePattern scores the latest day's volume against its trailing
// average, the overall volume trend, and price-volume confirmation. Requires
// at least 10 days of history.
func analyzeVolumePattern(days []TradingDay) float64 {
	if len(days) < minVolumeDays {
		return neutralScore
	}

	recent := tail(days, 10)
	current := days[len(days)-1]
	score := neutralScore

	// Volume surge relative to the prior days' average. Degenerate windows
	// (all-zero volume) only flow through comparisons, never into the score.
	var priorSum float64
	for _, d := range recent[:len(recent)-1] {
		priorSum += float64(d.Volume)
	}
	avgVolume := priorSum / float64(len(recent)-1)
	volumeRatio := float64(current.Volume) / avgVolume
	switch {
	case volumeRatio > 2:
		score += 25
	case volumeRatio > 1.5:
		score += 15
	case volumeRatio < 0.7:
		score -= 10
	}

	volumes := make([]float64, len(recent))
	for i, d := range recent {
		volumes[i] = float64(d.Volume)
	}
	if Trend(volumes) > 0 {
		score += 10
	} else {
		score -= 5
	}

	// Price-volume confirmation
	priceChange := current.IntradayChangePercent()
	if priceChange > 0 && volumeRatio > 1.2 {
		score += 15
	} else if priceChange < 0 && volumeRatio > 1.2 {
		score -= 10
	}

	return clamp(score, 0, 100)
}

// analyzeDeliveryTrend scores the deliverable percentage level, its 5-day
// trend, and its agreement with price action. Requires at least 5 days of
// history; a zero-volume latest day scores neutral.
func analyzeDeliveryTrend(days []TradingDay) float64 {
	if len(days) < minDeliveryDays {
		return neutralScore
	}

	current := days[len(days)-1]
	deliveryPct, ok := current.DeliveryPercent()
	if !ok {
		return neutralScore
	}

	recent := tail(days, 5)
	score := neutralScore

	switch {
	case deliveryPct > 70:
		score += 20
	case deliveryPct > 50:
		score += 10
	case deliveryPct < 30:
		score -= 15
	}

	series := make([]float64, len(recent))
	for i, d := range recent {
		pct, _ := d.DeliveryPercent()
		series[i] = pct
	}
	if Trend(series) > 0 {
		score += 10
	} else {
		score -= 5
	}

	priceChange := current.IntradayChangePercent()
	if priceChange > 0 && deliveryPct > 60 {
		score += 15
	} else if priceChange < 0 && deliveryPct < 40 {
		score -= 10
	}

	return clamp(score, 0, 100)
}

// analyzeMarketSentiment scores the index's 5-day trend plus VIX and
// advance-decline breadth when present. Requires at least 5 index days.
func analyzeMarketSentiment(market []MarketIndexDay) float64 {
	if len(market) < minSentimentDays {
		return neutralScore
	}

	recent := tail(market, 5)
	current := market[len(market)-1]
	score := neutralScore

	series := make([]float64, len(recent))
	for i, d := range recent {
		series[i] = d.Close
	}
	trend := Trend(series)
	if trend > 0 {
		score += 15
	} else if trend < 0 {
		score -= 10
	}

	if current.VIX != nil {
		if *current.VIX < 15 {
			score += 10 // low fear favors breakouts
		} else if *current.VIX > 25 {
			score -= 10
		}
	}

	if current.AdvanceDecline != nil {
		if *current.AdvanceDecline > 1.5 {
			score += 10
		} else if *current.AdvanceDecline < 0.7 {
			score -= 10
		}
	}

	return clamp(score, 0, 100)
}
