package breakout

import "time"

// ComputeBreakouts tags the historical days that already exhibited breakout
// behavior: a volume spike over 1.2x the previous day, a close over 1.02x the
// previous close, and a deliverable percentage under 60 (speculative churn).
// The first day has no predecessor and is never tagged. Returns the matching
// dates in order.
func ComputeBreakouts(days []TradingDay) []time.Time {
	var out []time.Time
	for i := 1; i < len(days); i++ {
		day, prev := days[i], days[i-1]

		deliveryPct, ok := day.DeliveryPercent()
		if !ok {
			continue
		}
		volumeSpike := float64(day.Volume) > float64(prev.Volume)*1.2
		priceJump := day.Close > prev.Close*1.02
		deliveryDrop := deliveryPct < 60

		if volumeSpike && priceJump && deliveryDrop {
			out = append(out, day.Date)
		}
	}
	return out
}
