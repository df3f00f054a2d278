package calculator

import (
	"math"

	"LevelSentinel/internal/model"
)

// DefaultTolerance is the absolute price distance used to confirm a level.
const DefaultTolerance = 0.5

// ConfirmLevels keeps the base levels that every confirming series touches,
// meaning at least one bar has a high or low strictly within tolerance of the
// level. Order and values come from baseLevels unchanged. With no confirming
// series every level is kept; a confirming series without bars confirms nothing.
func ConfirmLevels(baseLevels []float64, confirming []model.Series, tolerance float64) []float64 {
	confirmed := make([]float64, 0, len(baseLevels))
	for _, level := range baseLevels {
		ok := true
		for _, s := range confirming {
			if !touches(s.Bars, level, tolerance) {
				ok = false
				break
			}
		}
		if ok {
			confirmed = append(confirmed, level)
		}
	}
	return confirmed
}

func touches(bars []model.OHLCV, level, tolerance float64) bool {
	for _, b := range bars {
		if math.Abs(b.High-level) < tolerance || math.Abs(b.Low-level) < tolerance {
			return true
		}
	}
	return false
}
