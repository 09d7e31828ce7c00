package breakout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSnapshot(t *testing.T) {
	window := flatDays(10, 100, 100_000, 50)

	t.Run("delivery backed bullish day", func(t *testing.T) {
		today := day(10, 100, 104, 99, 103, 100_000, 80_000)
		got := AnalyzeSnapshot(today, nil, window)

		assert.Equal(t, DirectionBullish, got.Trend)
		assert.InDelta(t, 84, got.Probability, 1e-9) // min(85, 60+80*0.3)
		assert.Equal(t, RiskLow, got.RiskLevel)
		assert.Contains(t, got.Reasoning, "Strong delivery-backed buying")
	})

	t.Run("weak delivery bearish day", func(t *testing.T) {
		today := day(10, 100, 101, 96, 97, 100_000, 20_000)
		got := AnalyzeSnapshot(today, nil, window)

		assert.Equal(t, DirectionBearish, got.Trend)
		assert.InDelta(t, 20, got.Probability, 1e-9) // max(15, 40-20)
		assert.Equal(t, RiskHigh, got.RiskLevel)
	})

	t.Run("volume rule fires only when delivery rules do not", func(t *testing.T) {
		today := day(10, 100, 103, 99, 102, 200_000, 100_000)
		got := AnalyzeSnapshot(today, nil, window)

		assert.Equal(t, DirectionBullish, got.Trend)
		assert.InDelta(t, 70, got.Probability, 1e-9) // min(75, 50+2.0*10)
		assert.Equal(t, RiskMedium, got.RiskLevel)
		assert.Contains(t, got.Reasoning, "High volume breakout")
	})

	t.Run("volume rule follows price sign", func(t *testing.T) {
		today := day(10, 100, 101, 96, 97, 200_000, 100_000)
		got := AnalyzeSnapshot(today, nil, window)
		assert.Equal(t, DirectionBearish, got.Trend)
	})

	t.Run("quiet day stays neutral with default reasoning", func(t *testing.T) {
		today := day(10, 100, 101.5, 99, 100.5, 100_000, 50_000)
		got := AnalyzeSnapshot(today, nil, window)

		assert.Equal(t, DirectionNeutral, got.Trend)
		assert.InDelta(t, 50, got.Probability, 1e-9)
		assert.Equal(t, RiskMedium, got.RiskLevel)
		assert.Contains(t, got.Reasoning, "Mixed signals with 50.0% delivery")
		assert.Contains(t, got.Reasoning, "neutral bias")
	})

	t.Run("neutral target uses the bearish side formula", func(t *testing.T) {
		today := day(10, 100, 101.5, 99, 100.5, 100_000, 50_000)
		got := AnalyzeSnapshot(today, nil, window)

		support := 99.0 // window lows
		expected := today.Close - (today.Close-support)*0.6
		assert.InDelta(t, expected, got.KeyLevels.Target, 1e-9)
	})

	t.Run("bullish target projects toward resistance", func(t *testing.T) {
		today := day(10, 100, 104, 99, 103, 100_000, 80_000)
		got := AnalyzeSnapshot(today, nil, window)

		resistance := 101.0 // window highs only; the snapshot day is excluded
		assert.InDelta(t, resistance, got.KeyLevels.Resistance, 1e-9)
		expected := today.Close + (resistance-today.Close)*0.6
		assert.InDelta(t, expected, got.KeyLevels.Target, 1e-9)
	})

	t.Run("empty window falls back to padded day range", func(t *testing.T) {
		today := day(0, 100, 104, 98, 103, 100_000, 50_000)
		got := AnalyzeSnapshot(today, nil, nil)

		assert.InDelta(t, 104*1.05, got.KeyLevels.Resistance, 1e-9)
		assert.InDelta(t, 98*0.95, got.KeyLevels.Support, 1e-9)
	})

	t.Run("zero volume day is neutral and finite", func(t *testing.T) {
		today := day(10, 100, 101, 99, 100.5, 0, 0)
		got := AnalyzeSnapshot(today, nil, window)

		assert.Equal(t, DirectionNeutral, got.Trend)
		assert.InDelta(t, 50, got.Probability, 1e-9)
	})
}

func TestSnapshotSignals(t *testing.T) {
	t.Run("signal cap at four", func(t *testing.T) {
		// Strong delivery, volume surge, strong candle body, and prior-day
		// momentum all fire simultaneously.
		window := flatDays(10, 100, 100_000, 50)
		yesterday := window[len(window)-1]
		today := day(10, 100, 110.5, 99.5, 110, 250_000, 200_000)

		got := AnalyzeSnapshot(today, &yesterday, window)
		require.Len(t, got.Signals, 4)
		assert.Equal(t, "Strong Delivery", got.Signals[0].Type)
		assert.Equal(t, "Volume Surge", got.Signals[1].Type)
		assert.Equal(t, "Strong Candle", got.Signals[2].Type)
		assert.Equal(t, "Price Momentum", got.Signals[3].Type)
	})

	t.Run("signal strengths stay in bounds", func(t *testing.T) {
		window := flatDays(10, 100, 100_000, 50)
		yesterday := window[len(window)-1]
		today := day(10, 100, 110.5, 99.5, 110, 250_000, 200_000)

		got := AnalyzeSnapshot(today, &yesterday, window)
		for _, s := range got.Signals {
			assert.GreaterOrEqual(t, s.Strength, 0.0)
			assert.LessOrEqual(t, s.Strength, 100.0)
		}
	})

	t.Run("low volume signal", func(t *testing.T) {
		window := flatDays(10, 100, 100_000, 50)
		today := day(10, 100, 101.5, 99, 100.5, 50_000, 25_000)

		got := AnalyzeSnapshot(today, nil, window)
		require.Len(t, got.Signals, 1)
		assert.Equal(t, "Low Volume", got.Signals[0].Type)
		assert.InDelta(t, 25, got.Signals[0].Strength, 1e-9) // max(10, (1-0.5)*50)
	})

	t.Run("no volume signal when the average volume is zero", func(t *testing.T) {
		// An all-halted window leaves the volume ratio undefined; neither
		// the surge nor the low-volume branch should fire.
		window := flatDays(10, 100, 0, 0)
		today := day(10, 100, 101.5, 99, 100.5, 0, 0)

		got := AnalyzeSnapshot(today, nil, window)
		for _, s := range got.Signals {
			assert.NotEqual(t, "Volume Surge", s.Type)
			assert.NotEqual(t, "Low Volume", s.Type)
		}
		assert.Empty(t, got.Signals)
	})

	t.Run("no volume signal with an empty window and zero volume", func(t *testing.T) {
		today := day(0, 100, 101.5, 99, 100.5, 0, 0)

		got := AnalyzeSnapshot(today, nil, nil)
		assert.Empty(t, got.Signals)
		assert.Equal(t, DirectionNeutral, got.Trend)
	})

	t.Run("no signals on an unremarkable day", func(t *testing.T) {
		window := flatDays(10, 100, 100_000, 50)
		yesterday := window[len(window)-1]
		today := day(10, 100, 101.5, 99, 100.5, 100_000, 50_000)

		got := AnalyzeSnapshot(today, &yesterday, window)
		assert.Empty(t, got.Signals)
	})
}
