package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LevelSentinel/internal/calculator"
	"LevelSentinel/internal/collector"
	"LevelSentinel/internal/model"
)

func newTestService() *Service {
	return NewService(collector.NewCollector(&collector.MockFetcher{Price: 100}), DefaultParams())
}

func TestService_Analyze(t *testing.T) {
	svc := newTestService()
	req := Request{
		Symbol:  "NVDA",
		Base:    model.Interval1m,
		Confirm: []model.Interval{model.Interval1h, model.Interval5m, model.Interval15m},
		Start:   time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 6, 29, 0, 0, 0, 0, time.UTC),
	}

	report, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, report.Timeframes, 4)
	assert.Equal(t, model.Interval1m, report.Timeframes[0].Interval)
	assert.Equal(t, model.Interval5m, report.Timeframes[1].Interval)
	assert.Equal(t, model.Interval1h, report.Timeframes[3].Interval)
	assert.Equal(t, req.Start, report.Start)

	base := report.Base().Levels
	require.NotEmpty(t, base)
	assert.Subset(t, base, report.Validated)
}

func TestService_SignificantLevels_NoData(t *testing.T) {
	svc := NewService(collector.NewCollector(&collector.MockFetcher{Data: map[model.Interval][]model.OHLCV{}}), DefaultParams())
	_, err := svc.SignificantLevels(context.Background(), "NVDA", model.Interval1h,
		time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 29, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, collector.ErrNoData)
}

func TestService_Trend(t *testing.T) {
	svc := newTestService()
	label, err := svc.Trend(context.Background(), "NVDA", model.Interval1h,
		time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, model.TrendIndeterminate, label, "24 hourly bars cannot fill a 200 bar window")
}

func TestRequest_Validate(t *testing.T) {
	start := time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC)
	ok := Request{Symbol: "NVDA", Base: model.Interval1m, Confirm: []model.Interval{model.Interval5m}, Start: start, End: start.AddDate(0, 0, 1)}
	assert.NoError(t, ok.Validate())

	noSymbol := ok
	noSymbol.Symbol = ""
	assert.Error(t, noSymbol.Validate())

	finer := ok
	finer.Base = model.Interval15m
	assert.Error(t, finer.Validate())

	backwards := ok
	backwards.End = start.Add(-time.Hour)
	assert.Error(t, backwards.Validate())

	unknown := ok
	unknown.Base = "7m"
	assert.Error(t, unknown.Validate())
}

func TestService_SignificantLevels_ConflictingDuplicate(t *testing.T) {
	t0 := time.Date(2024, 6, 24, 13, 30, 0, 0, time.UTC)
	bars := []model.OHLCV{
		{Time: t0, Open: 10, High: 11, Low: 9, Close: 10},
		{Time: t0.Add(2 * time.Minute), Open: 10, High: 12, Low: 9, Close: 11},
		{Time: t0.Add(time.Minute), Open: 10, High: 15, Low: 5, Close: 10},
		{Time: t0.Add(time.Minute), Open: 10, High: 30, Low: 1, Close: 10},
		{Time: t0.Add(3 * time.Minute), Open: 11, High: 12, Low: 10, Close: 11},
	}
	svc := NewService(collector.NewCollector(&collector.MockFetcher{Data: map[model.Interval][]model.OHLCV{model.Interval1m: bars}}), DefaultParams())

	levels, err := svc.SignificantLevels(context.Background(), "NVDA", model.Interval1m, t0, t0.Add(time.Hour))
	assert.ErrorIs(t, err, calculator.ErrMalformedSeries)
	assert.Nil(t, levels)
}
