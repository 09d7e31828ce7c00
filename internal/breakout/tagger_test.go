package breakout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBreakouts(t *testing.T) {
	t.Run("tags spike days with speculative delivery", func(t *testing.T) {
		days := []TradingDay{
			day(0, 100, 101, 99, 100, 100_000, 70_000),
			// Volume 1.5x, close +3%, delivery 40%: all three conditions met.
			day(1, 100, 104, 99, 103, 150_000, 60_000),
			// Price jump without the volume spike.
			day(2, 103, 107, 102, 106, 150_000, 60_000),
			// Volume spike without the price jump.
			day(3, 106, 107, 105, 106.5, 250_000, 100_000),
			// Spike and jump, but delivery-backed (70%): not speculative.
			day(4, 106, 112, 105, 111, 400_000, 280_000),
		}

		got := ComputeBreakouts(days)
		require.Len(t, got, 1)
		assert.Equal(t, days[1].Date, got[0])
	})

	t.Run("first day is never tagged", func(t *testing.T) {
		days := []TradingDay{day(0, 100, 110, 99, 109, 1_000_000, 100_000)}
		assert.Empty(t, ComputeBreakouts(days))
	})

	t.Run("zero volume day is skipped", func(t *testing.T) {
		days := []TradingDay{
			day(0, 100, 101, 99, 100, 100_000, 50_000),
			day(1, 100, 104, 99, 103, 0, 0),
		}
		assert.Empty(t, ComputeBreakouts(days))
	})
}

func TestNarrative(t *testing.T) {
	yesterday := day(0, 100, 101, 99, 100, 100_000, 50_000)

	tests := []struct {
		name            string
		today           TradingDay
		wantSummary     string
		wantProbability float64
		wantMarker      string
	}{
		{
			name:            "delivery backed buying",
			today:           day(1, 100, 104, 99, 103, 100_000, 80_000),
			wantSummary:     "Strong delivery-backed buying",
			wantProbability: 80,
			wantMarker:      markerUp,
		},
		{
			name:            "weak delivery bearish close",
			today:           day(1, 100, 101, 96, 97, 100_000, 20_000),
			wantSummary:     "Weak delivery and bearish close",
			wantProbability: 30,
			wantMarker:      markerDown,
		},
		{
			name:            "breakout setup on rising volume",
			today:           day(1, 100, 101, 99, 100, 150_000, 97_500),
			wantSummary:     "Rising volume with high delivery — possible breakout setup",
			wantProbability: 70,
			wantMarker:      markerUp,
		},
		{
			name:            "mixed signals",
			today:           day(1, 100, 101, 99, 100.5, 100_000, 50_000),
			wantSummary:     "Neutral day with mixed signals",
			wantProbability: 50,
			wantMarker:      markerCaution,
		},
		{
			name:            "zero volume day",
			today:           day(1, 100, 101, 99, 103, 0, 0),
			wantSummary:     "Neutral day with mixed signals",
			wantProbability: 50,
			wantMarker:      markerCaution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Narrative(tt.today, &yesterday)
			assert.Equal(t, tt.wantSummary, got.Summary)
			assert.InDelta(t, tt.wantProbability, got.Probability, 1e-9)
			assert.Equal(t, tt.wantMarker, got.Marker)
		})
	}

	t.Run("missing yesterday counts as zero prior volume", func(t *testing.T) {
		today := day(0, 100, 101, 99, 100, 150_000, 97_500)
		got := Narrative(today, nil)
		assert.Equal(t, markerUp, got.Marker)
		assert.InDelta(t, 70, got.Probability, 1e-9)
	})
}

func TestFactorWeights(t *testing.T) {
	t.Run("defaults are valid and sum to one", func(t *testing.T) {
		w := DefaultFactorWeights()
		require.True(t, w.IsValid())
	})

	t.Run("combine is the weighted sum", func(t *testing.T) {
		w := DefaultFactorWeights()
		scores := FactorScores{
			StockTechnicals:   75,
			MarketCorrelation: 85,
			VolumePattern:     100,
			DeliveryTrend:     95,
			MarketSentiment:   75,
		}
		assert.InDelta(t, 86, w.Combine(scores), 1e-9)
	})

	t.Run("rejects weights that do not sum to one", func(t *testing.T) {
		assert.False(t, FactorWeights{StockTechnicals: 0.5}.IsValid())
		assert.False(t, FactorWeights{StockTechnicals: -0.2, MarketCorrelation: 1.2}.IsValid())
	})
}
