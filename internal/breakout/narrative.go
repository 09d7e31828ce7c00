package breakout

// Chart marker glyphs and display colors for day narratives.
const (
	markerUp      = "↑"
	markerDown    = "↓"
	markerCaution = "⚠️"

	colorGreen = "#22c55e"
	colorRed   = "#ef4444"
	colorBlue  = "#3b82f6"
	colorAmber = "#facc15"
)

// Narrative produces a one-line hover summary for a single day. yesterday may
// be nil for the first day of a series; a missing predecessor counts as zero
// prior volume.
func Narrative(today TradingDay, yesterday *TradingDay) DayNarrative {
	deliveryPercent, deliveryOK := today.DeliveryPercent()
	priceChange := today.Close - today.Open

	var yesterdayVolume int64
	if yesterday != nil {
		yesterdayVolume = yesterday.Volume
	}

	switch {
	case !deliveryOK:
		// Zero-volume days carry no delivery information.
		return DayNarrative{
			Summary:     "Neutral day with mixed signals",
			Probability: 50,
			Marker:      markerCaution,
			Color:       colorAmber,
		}
	case deliveryPercent > 70 && priceChange > 0:
		return DayNarrative{
			Summary:     "Strong delivery-backed buying",
			Probability: 80,
			Marker:      markerUp,
			Color:       colorGreen,
		}
	case deliveryPercent < 30 && priceChange < 0:
		return DayNarrative{
			Summary:     "Weak delivery and bearish close",
			Probability: 30,
			Marker:      markerDown,
			Color:       colorRed,
		}
	case deliveryPercent > 60 && today.Volume > yesterdayVolume:
		return DayNarrative{
			Summary:     "Rising volume with high delivery — possible breakout setup",
			Probability: 70,
			Marker:      markerUp,
			Color:       colorBlue,
		}
	default:
		return DayNarrative{
			Summary:     "Neutral day with mixed signals",
			Probability: 50,
			Marker:      markerCaution,
			Color:       colorAmber,
		}
	}
}
