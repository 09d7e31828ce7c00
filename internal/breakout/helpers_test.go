package breakout

import (
	"time"
)

// baseDate anchors generated test series.
var baseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// day builds a well-formed trading day n sessions after baseDate.
func day(n int, open, high, low, close float64, volume, deliveryQty int64) TradingDay {
	return TradingDay{
		Date:        baseDate.AddDate(0, 0, n),
		Open:        open,
		High:        high,
		Low:         low,
		Close:       close,
		Volume:      volume,
		DeliveryQty: deliveryQty,
	}
}

// flatDays generates n identical sessions, useful for neutral baselines.
func flatDays(n int, close float64, volume int64, deliveryPct float64) []TradingDay {
	days := make([]TradingDay, n)
	for i := range days {
		days[i] = day(i, close, close+1, close-1, close, volume, int64(float64(volume)*deliveryPct/100))
	}
	return days
}

// risingDays generates n sessions with closes rising by step per day and a
// constant volume/delivery profile.
func risingDays(n int, start, step float64, volume int64, deliveryPct float64) []TradingDay {
	days := make([]TradingDay, n)
	for i := range days {
		close := start + step*float64(i)
		days[i] = day(i, close-0.3, close+1, close-1.3, close, volume, int64(float64(volume)*deliveryPct/100))
	}
	return days
}

// indexDays generates n market index sessions with closes rising by step and
// an optional constant VIX.
func indexDays(n int, start, step float64, vix *float64) []MarketIndexDay {
	days := make([]MarketIndexDay, n)
	for i := range days {
		close := start + step*float64(i)
		days[i] = MarketIndexDay{
			Date:   baseDate.AddDate(0, 0, i),
			Open:   close - 10,
			High:   close + 50,
			Low:    close - 50,
			Close:  close,
			Volume: 1_000_000,
			VIX:    vix,
		}
	}
	return days
}

func floatPtr(v float64) *float64 { return &v }
