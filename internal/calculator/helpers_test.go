package calculator

import (
	"time"

	"LevelSentinel/internal/model"
)

var t0 = time.Date(2024, 6, 24, 13, 30, 0, 0, time.UTC)

func mkBars(highs, lows []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(highs))
	for i := range highs {
		mid := (highs[i] + lows[i]) / 2
		bars[i] = model.OHLCV{
			Time:  t0.Add(time.Duration(i) * time.Minute),
			Open:  mid,
			High:  highs[i],
			Low:   lows[i],
			Close: mid,
		}
	}
	return bars
}

func mkCloses(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  t0.Add(time.Duration(i) * 24 * time.Hour),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return bars
}
