package breakout

// FactorWeights contains the relative weight of each factor analyzer in the
// combined breakout probability. Weights must sum to 1.
type FactorWeights struct {
	StockTechnicals   float64 `json:"stock_technicals" yaml:"stock_technicals"`
	MarketCorrelation float64 `json:"market_correlation" yaml:"market_correlation"`
	VolumePattern     float64 `json:"volume_pattern" yaml:"volume_pattern"`
	DeliveryTrend     float64 `json:"delivery_trend" yaml:"delivery_trend"`
	MarketSentiment   float64 `json:"market_sentiment" yaml:"market_sentiment"`
}

// DefaultFactorWeights returns the documented production weighting:
// technicals 25%, correlation 20%, volume 20%, delivery 20%, sentiment 15%.
func DefaultFactorWeights() FactorWeights {
	return FactorWeights{
		StockTechnicals:   0.25,
		MarketCorrelation: 0.20,
		VolumePattern:     0.20,
		DeliveryTrend:     0.20,
		MarketSentiment:   0.15,
	}
}

// IsValid checks that all weights are non-negative and sum to 1.
func (fw FactorWeights) IsValid() bool {
	if fw.StockTechnicals < 0 || fw.MarketCorrelation < 0 || fw.VolumePattern < 0 ||
		fw.DeliveryTrend < 0 || fw.MarketSentiment < 0 {
		return false
	}
	sum := fw.StockTechnicals + fw.MarketCorrelation + fw.VolumePattern +
		fw.DeliveryTrend + fw.MarketSentiment
	return sum > 0.99 && sum < 1.01 // Allow small floating point errors
}

// Combine computes the weighted sum of a factor score set.
func (fw FactorWeights) Combine(f FactorScores) float64 {
	return f.StockTechnicals*fw.StockTechnicals +
		f.MarketCorrelation*fw.MarketCorrelation +
		f.VolumePattern*fw.VolumePattern +
		f.DeliveryTrend*fw.DeliveryTrend +
		f.MarketSentiment*fw.MarketSentiment
}
