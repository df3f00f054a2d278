package calculator

import (
	"errors"
	"fmt"
	"math"

	"LevelSentinel/internal/model"
)

// ErrMalformedSeries is wrapped by every data-integrity failure found in a series.
var ErrMalformedSeries = errors.New("malformed series")

// ValidateSeries checks that timestamps strictly increase, prices are finite
// and no bar has a high below its low. An empty series is valid.
func ValidateSeries(bars []model.OHLCV) error {
	for i, b := range bars {
		for _, p := range [...]float64{b.Open, b.High, b.Low, b.Close} {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return fmt.Errorf("bar %d at %s: non-finite price: %w", i, b.Time.Format("2006-01-02 15:04"), ErrMalformedSeries)
			}
		}
		if b.High < b.Low {
			return fmt.Errorf("bar %d at %s: high %.4f below low %.4f: %w",
				i, b.Time.Format("2006-01-02 15:04"), b.High, b.Low, ErrMalformedSeries)
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return fmt.Errorf("bar %d at %s: timestamp not after previous bar %s: %w",
				i, b.Time.Format("2006-01-02 15:04"), bars[i-1].Time.Format("2006-01-02 15:04"), ErrMalformedSeries)
		}
	}
	return nil
}
