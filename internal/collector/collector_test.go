package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LevelSentinel/internal/calculator"
	"LevelSentinel/internal/model"
)

var (
	start = time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 6, 29, 0, 0, 0, 0, time.UTC)
)

func TestCollect_PreservesIntervalOrder(t *testing.T) {
	col := NewCollector(&MockFetcher{Price: 120})
	series, err := col.Collect(context.Background(), "NVDA", start, end,
		model.Interval1m, model.Interval5m, model.Interval15m, model.Interval1h)
	require.NoError(t, err)
	require.Len(t, series, 4)

	assert.Equal(t, model.Interval1m, series[0].Interval)
	assert.Equal(t, model.Interval1h, series[3].Interval)
	assert.Equal(t, "NVDA", series[2].Symbol)
	assert.Greater(t, len(series[0].Bars), len(series[1].Bars))
	assert.Len(t, series[3].Bars, 5*24)
}

func TestCollect_NoData(t *testing.T) {
	col := NewCollector(&MockFetcher{Data: map[model.Interval][]model.OHLCV{}})
	_, err := col.Collect(context.Background(), "NVDA", start, end, model.Interval1m)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestCollect_FetchError(t *testing.T) {
	boom := errors.New("boom")
	col := NewCollector(&MockFetcher{Err: boom})
	_, err := col.Collect(context.Background(), "NVDA", start, end, model.Interval1m, model.Interval5m)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "mock")
}

func TestNormalizeBars(t *testing.T) {
	t.Run("sorts and drops verbatim repeats", func(t *testing.T) {
		bars := []model.OHLCV{
			{Time: start.Add(2 * time.Minute), Close: 3},
			{Time: start, Close: 1},
			{Time: start.Add(time.Minute), Close: 2},
			{Time: start.Add(time.Minute), Close: 2},
		}
		got, err := NormalizeBars(bars)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 1.0, got[0].Close)
		assert.Equal(t, 2.0, got[1].Close)
		assert.Equal(t, 3.0, got[2].Close)
	})

	t.Run("conflicting bars at one timestamp", func(t *testing.T) {
		bars := []model.OHLCV{
			{Time: start, High: 10, Low: 9},
			{Time: start.Add(time.Minute), High: 15, Low: 5},
			{Time: start.Add(time.Minute), High: 30, Low: 1},
		}
		_, err := NormalizeBars(bars)
		assert.ErrorIs(t, err, calculator.ErrMalformedSeries)
	})
}

func TestCollectOne_ConflictingDuplicate(t *testing.T) {
	bars := []model.OHLCV{
		{Time: start, Open: 10, High: 11, Low: 9, Close: 10},
		{Time: start.Add(2 * time.Minute), Open: 10, High: 12, Low: 9, Close: 11},
		{Time: start.Add(time.Minute), Open: 10, High: 15, Low: 5, Close: 10},
		{Time: start.Add(time.Minute), Open: 10, High: 30, Low: 1, Close: 10},
		{Time: start.Add(3 * time.Minute), Open: 11, High: 12, Low: 10, Close: 11},
	}
	col := NewCollector(&MockFetcher{Data: map[model.Interval][]model.OHLCV{model.Interval1m: bars}})

	_, err := col.CollectOne(context.Background(), "NVDA", model.Interval1m, start, end)
	assert.ErrorIs(t, err, calculator.ErrMalformedSeries)
}

func TestResample(t *testing.T) {
	var minutes []model.OHLCV
	for i := 0; i < 10; i++ {
		p := 100 + float64(i)
		minutes = append(minutes, model.OHLCV{
			Time: start.Add(time.Duration(i) * time.Minute),
			Open: p, High: p + 0.5, Low: p - 0.5, Close: p + 0.25, Volume: 10,
		})
	}

	fives := Resample(minutes, model.Interval5m)
	require.Len(t, fives, 2)
	assert.Equal(t, start, fives[0].Time)
	assert.Equal(t, 100.0, fives[0].Open)
	assert.Equal(t, 104.5, fives[0].High)
	assert.Equal(t, 99.5, fives[0].Low)
	assert.Equal(t, 104.25, fives[0].Close)
	assert.Equal(t, 50.0, fives[0].Volume)

	weekly := Resample(minutes, model.Interval1wk)
	require.Len(t, weekly, 1)
	assert.Equal(t, time.Monday, weekly[0].Time.Weekday())

	assert.Nil(t, Resample(nil, model.Interval5m))
}
