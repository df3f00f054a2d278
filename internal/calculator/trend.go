package calculator

import "LevelSentinel/internal/model"

const (
	DefaultShortWindow = 50
	DefaultLongWindow  = 200
)

// ClassifyTrend compares the short and long simple moving averages of closes
// at the last bar. Without enough history for both windows it returns
// TrendIndeterminate; a tie counts as bearish.
func ClassifyTrend(bars []model.OHLCV, shortWindow, longWindow int) model.TrendLabel {
	if shortWindow <= 0 || longWindow <= 0 || len(bars) < longWindow || len(bars) < shortWindow {
		return model.TrendIndeterminate
	}

	closes := extractCloses(bars)
	shortMA, err := CalculateSMA(closes, shortWindow)
	if err != nil {
		return model.TrendIndeterminate
	}
	longMA, err := CalculateSMA(closes, longWindow)
	if err != nil {
		return model.TrendIndeterminate
	}

	if shortMA > longMA {
		return model.TrendBullish
	}
	return model.TrendBearish
}
