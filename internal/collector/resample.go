package collector

import (
	"time"

	"LevelSentinel/internal/model"
)

// bucketStart returns the start of the interval bucket that t falls into.
// Weekly buckets follow ISO weeks; shorter buckets are aligned to UTC.
func bucketStart(t time.Time, interval model.Interval) time.Time {
	t = t.UTC()
	if interval == model.Interval1wk {
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	}
	return t.Truncate(interval.Duration())
}

// Resample aggregates chronological bars into coarser interval bars.
func Resample(bars []model.OHLCV, interval model.Interval) []model.OHLCV {
	if len(bars) == 0 || !interval.Valid() {
		return nil
	}
	var out []model.OHLCV
	var cur model.OHLCV
	var curKey time.Time
	started := false

	for _, b := range bars {
		key := bucketStart(b.Time, interval)
		if !started {
			cur = model.OHLCV{Time: key, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
			curKey = key
			started = true
			continue
		}
		if !key.Equal(curKey) {
			out = append(out, cur)
			cur = model.OHLCV{Time: key, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
			curKey = key
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	if started {
		out = append(out, cur)
	}
	return out
}
