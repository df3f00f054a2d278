package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"LevelSentinel/internal/calculator"
	"LevelSentinel/internal/model"
)

// MockFetcher returns deterministic oscillating data for development and testing.
type MockFetcher struct {
	Price float64
	// Data overrides the generated bars per interval.
	Data map[model.Interval][]model.OHLCV
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, _ string, interval model.Interval, start, end time.Time) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Data != nil {
		return clip(m.Data[interval], start, end), nil
	}
	return generateMockBars(m.Price, interval, start, end), nil
}

// generateMockBars samples the same price curve at every interval so that
// coarser series revisit the levels of finer ones.
func generateMockBars(basePrice float64, interval model.Interval, start, end time.Time) []model.OHLCV {
	step := interval.Duration()
	if step <= 0 || !end.After(start) {
		return nil
	}
	price := func(t time.Time) float64 {
		hours := t.Sub(start).Hours()
		return basePrice * (1 + 0.02*math.Sin(2*math.Pi*hours/6.5) + 0.005*math.Sin(2*math.Pi*hours/1.3))
	}

	var bars []model.OHLCV
	for t := start; t.Before(end) && len(bars) < 20000; t = t.Add(step) {
		open := price(t)
		cl := price(t.Add(step))
		high, low := math.Max(open, cl), math.Min(open, cl)
		mid := price(t.Add(step / 2))
		high = math.Max(high, mid)
		low = math.Min(low, mid)
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cl,
			Volume: 1000000,
		})
	}
	return bars
}

// Collector fetches one series per interval for a symbol.
type Collector struct {
	Fetcher       Fetcher
	MaxConcurrent int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, MaxConcurrent: 4}
}

// CollectOne fetches a single interval and fails with ErrNoData when it is empty.
func (c *Collector) CollectOne(ctx context.Context, symbol string, interval model.Interval, start, end time.Time) (model.Series, error) {
	bars, err := c.Fetcher.FetchBars(ctx, symbol, interval, start, end)
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch %s %s bars from %s: %w", symbol, interval, c.Fetcher.Name(), err)
	}
	bars, err = NormalizeBars(bars)
	if err != nil {
		return model.Series{}, fmt.Errorf("%s %s bars from %s: %w", symbol, interval, c.Fetcher.Name(), err)
	}
	if len(bars) == 0 {
		return model.Series{}, fmt.Errorf("%s %s: %w", symbol, interval, ErrNoData)
	}
	return model.Series{Symbol: symbol, Interval: interval, Bars: bars}, nil
}

// Collect fetches all intervals concurrently. The result keeps the order of intervals.
func (c *Collector) Collect(ctx context.Context, symbol string, start, end time.Time, intervals ...model.Interval) ([]model.Series, error) {
	out := make([]model.Series, len(intervals))
	g, gctx := errgroup.WithContext(ctx)
	if c.MaxConcurrent > 0 {
		g.SetLimit(c.MaxConcurrent)
	}
	for i, interval := range intervals {
		g.Go(func() error {
			s, err := c.CollectOne(gctx, symbol, interval, start, end)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeBars sorts bars chronologically, since providers may page results
// out of order, and drops bars repeated verbatim. Two bars sharing a timestamp
// but not their prices fail with calculator.ErrMalformedSeries.
func NormalizeBars(bars []model.OHLCV) ([]model.OHLCV, error) {
	if len(bars) == 0 {
		return bars, nil
	}
	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := sorted[:0]
	for _, b := range sorted {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			if !sameBar(out[n-1], b) {
				return nil, fmt.Errorf("conflicting bars at %s: %w", b.Time.Format(time.RFC3339), calculator.ErrMalformedSeries)
			}
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func sameBar(a, b model.OHLCV) bool {
	return a.Open == b.Open && a.High == b.High && a.Low == b.Low &&
		a.Close == b.Close && a.Volume == b.Volume
}

// clip keeps bars with start <= time < end.
func clip(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if b.Time.Before(start) || !b.Time.Before(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}
