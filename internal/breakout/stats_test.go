package breakout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		period   int
		expected []float64
	}{
		{"window of two", []float64{1, 2, 3, 4}, 2, []float64{1.5, 2.5, 3.5}},
		{"window equals input", []float64{3, 6, 9}, 3, []float64{6}},
		{"input shorter than window", []float64{1, 2}, 5, nil},
		{"empty input", nil, 3, nil},
		{"non-positive period", []float64{1, 2, 3}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MovingAverage(tt.values, tt.period)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], got[i], 1e-9)
			}
		})
	}
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"ascending line", []float64{2, 4, 6, 8}, 2},
		{"descending line", []float64{10, 7, 4, 1}, -3},
		{"flat series", []float64{5, 5, 5, 5}, 0},
		{"single value", []float64{42}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Trend(tt.values), 1e-9)
		})
	}
}

func TestVolatility(t *testing.T) {
	t.Run("symmetric returns", func(t *testing.T) {
		// Returns are +10% and -10%, mean 0, population stddev 10.
		got := Volatility([]float64{100, 110, 99})
		assert.InDelta(t, 10, got, 1e-9)
	})

	t.Run("constant prices", func(t *testing.T) {
		assert.Zero(t, Volatility([]float64{50, 50, 50}))
	})

	t.Run("fewer than two prices", func(t *testing.T) {
		assert.Zero(t, Volatility([]float64{100}))
		assert.Zero(t, Volatility(nil))
	})
}

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name     string
		x, y     []float64
		expected float64
	}{
		{"perfect positive", []float64{1, 2, 3, 4}, []float64{10, 20, 30, 40}, 1},
		{"perfect negative", []float64{1, 2, 3, 4}, []float64{40, 30, 20, 10}, -1},
		{"mismatched lengths", []float64{1, 2, 3}, []float64{1, 2}, 0},
		{"too short", []float64{1}, []float64{2}, 0},
		{"constant series never NaN", []float64{5, 5, 5}, []float64{1, 2, 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Correlation(tt.x, tt.y), 1e-9)
		})
	}
}
