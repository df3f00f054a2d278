package calculator

import (
	"errors"
	"math"

	"LevelSentinel/internal/model"
)

// HighLow scans every bar and returns the highest high and the lowest low.
func HighLow(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// PriceRange returns max(high) - min(low) over the whole series, or 0 when empty.
func PriceRange(bars []model.OHLCV) float64 {
	high, low, err := HighLow(bars)
	if err != nil || high < low {
		return 0
	}
	return high - low
}
