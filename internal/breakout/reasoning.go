package breakout

import (
	"fmt"
	"strings"
)

// generateReasoning builds the templated rationale paragraph. One clause is
// appended per factor that crosses its threshold band; factors inside the
// neutral band contribute nothing, so the output may be a single closing
// sentence naming the expected direction.
func generateReasoning(factors FactorScores, direction Direction, current TradingDay) string {
	deliveryPct, _ := current.DeliveryPercent()

	var b strings.Builder
	b.WriteString("Based on comprehensive analysis: ")

	if factors.StockTechnicals > 70 {
		b.WriteString("Strong technical setup with positive price momentum. ")
	} else if factors.StockTechnicals < 30 {
		b.WriteString("Weak technical indicators showing bearish signals. ")
	}

	if factors.MarketCorrelation > 70 {
		b.WriteString("Market correlation strongly supports the move. ")
	} else if factors.MarketCorrelation < 30 {
		b.WriteString("Market conditions are not favorable. ")
	}

	if factors.VolumePattern > 70 {
		b.WriteString("Exceptional volume pattern indicates institutional interest. ")
	}

	if factors.DeliveryTrend > 70 {
		fmt.Fprintf(&b, "High delivery percentage (%.1f%%) shows genuine buying. ", deliveryPct)
	} else if factors.DeliveryTrend < 30 {
		fmt.Fprintf(&b, "Low delivery percentage (%.1f%%) suggests speculative activity. ", deliveryPct)
	}

	fmt.Fprintf(&b, "Expected direction: %s.", strings.ToUpper(string(direction)))
	return b.String()
}
