package exporter

import (
	"fmt"

	"nsepulse/internal/breakout"
)

var predictionHeaders = []string{
	"Date",
	"Probability",
	"Confidence",
	"Direction",
	"StockTechnicals",
	"MarketCorrelation",
	"VolumePattern",
	"DeliveryTrend",
	"MarketSentiment",
	"Risk",
	"Reward",
	"RiskRewardRatio",
	"Reasoning",
}

// ExportPredictions writes a batch of predictions to a CSV report.
func ExportPredictions(filePath string, predictions []breakout.BreakoutPrediction) error {
	records := make([][]string, 0, len(predictions))
	for _, p := range predictions {
		records = append(records, []string{
			p.Date.Format("2006-01-02"),
			formatFloat(p.Probability),
			string(p.Confidence),
			string(p.ExpectedDirection),
			formatFloat(p.Factors.StockTechnicals),
			formatFloat(p.Factors.MarketCorrelation),
			formatFloat(p.Factors.VolumePattern),
			formatFloat(p.Factors.DeliveryTrend),
			formatFloat(p.Factors.MarketSentiment),
			formatFloat(p.RiskReward.Risk),
			formatFloat(p.RiskReward.Reward),
			formatFloat(p.RiskReward.Ratio),
			p.Reasoning,
		})
	}

	return WriteCSV(filePath, WriteOptions{
		Headers:   predictionHeaders,
		Records:   records,
		BOMPrefix: true,
	})
}

// formatFloat formats a value with exactly 2 decimal places so 13.4 appears
// as 13.40 in the report.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
