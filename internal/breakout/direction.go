package breakout

// resolveDirection determines the expected move direction from the last 10
// days of stock data, the last 10 index days (absent index data counts as a
// flat trend), and the latest day's delivery percentage. A zero-volume latest
// day passes neither delivery gate and resolves neutral.
func resolveDirection(stock []TradingDay, market []MarketIndexDay) Direction {
	stockTrend := Trend(closes(tail(stock, 10)))

	marketTrend := 0.0
	if len(market) > 0 {
		series := make([]float64, 0, 10)
		for _, d := range tail(market, 10) {
			series = append(series, d.Close)
		}
		marketTrend = Trend(series)
	}

	current := stock[len(stock)-1]
	deliveryPct, ok := current.DeliveryPercent()

	switch {
	case stockTrend > 0 && marketTrend >= 0 && ok && deliveryPct > 60:
		return DirectionBullish
	case stockTrend < 0 && marketTrend <= 0 && ok && deliveryPct < 40:
		return DirectionBearish
	default:
		return DirectionNeutral
	}
}

// resolveRiskReward computes the risk/reward profile from the last 20 days'
// highs and lows, inclusive of the current day. Bullish predictions risk the
// distance down to support and target resistance; the bearish side is used
// for both bearish and neutral directions. The 0.1 floor on risk keeps the
// ratio finite when price sits exactly on a boundary.
func resolveRiskReward(stock []TradingDay, direction Direction) RiskReward {
	recent := tail(stock, 20)
	current := stock[len(stock)-1]

	resistance := recent[0].High
	support := recent[0].Low
	for _, d := range recent[1:] {
		if d.High > resistance {
			resistance = d.High
		}
		if d.Low < support {
			support = d.Low
		}
	}

	var risk, reward float64
	if direction == DirectionBullish {
		risk = (current.Close - support) / current.Close * 100
		reward = (resistance - current.Close) / current.Close * 100
	} else {
		risk = (resistance - current.Close) / current.Close * 100
		reward = (current.Close - support) / current.Close * 100
	}

	return RiskReward{
		Risk:   risk,
		Reward: reward,
		Ratio:  reward / max(risk, 0.1),
	}
}
