package breakout

import "math"

// MovingAverage returns the simple moving averages of contiguous windows of
// size period. The result has len(values)-period+1 entries and is empty when
// the input is shorter than the period.
func MovingAverage(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	out := make([]float64, 0, len(values)-period+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// Trend returns the ordinary-least-squares slope of values against their
// 0-based index. Only the sign and magnitude of the slope matter to callers;
// no intercept is computed. Returns 0 for fewer than 2 values.
func Trend(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	fn := float64(n)
	sumX := fn * (fn - 1) / 2
	sumX2 := fn * (fn - 1) * (2*fn - 1) / 6
	var sumY, sumXY float64
	for i, v := range values {
		sumY += v
		sumXY += float64(i) * v
	}
	denom := fn*sumX2 - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / denom
}

// Volatility returns the population standard deviation of period-over-period
// percentage returns, in percentage points. Returns 0 for fewer than 2 prices.
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1]*100)
	}
	m := mean(returns)
	var variance float64
	for _, r := range returns {
		variance += (r - m) * (r - m)
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}

// Correlation returns the Pearson correlation coefficient of x and y. It
// returns 0 for mismatched lengths, fewer than 2 points, or a degenerate
// constant series; it never returns NaN.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	n := float64(len(x))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}
	denom := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
