package collector

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"LevelSentinel/internal/model"
)

// PolygonFetcher implements Fetcher using the Polygon.io aggregates API.
type PolygonFetcher struct {
	Client *polygon.Client
}

// NewPolygonFetcher creates a fetcher authenticated with apiKey.
func NewPolygonFetcher(apiKey string) *PolygonFetcher {
	return &PolygonFetcher{Client: polygon.New(apiKey)}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

func polygonTimespan(interval model.Interval) (int, models.Timespan, error) {
	switch interval {
	case model.Interval1m:
		return 1, models.Minute, nil
	case model.Interval5m:
		return 5, models.Minute, nil
	case model.Interval15m:
		return 15, models.Minute, nil
	case model.Interval30m:
		return 30, models.Minute, nil
	case model.Interval1h:
		return 1, models.Hour, nil
	case model.Interval1d:
		return 1, models.Day, nil
	case model.Interval1wk:
		return 1, models.Week, nil
	default:
		return 0, "", fmt.Errorf("polygon: unsupported interval %q", interval)
	}
}

func (f *PolygonFetcher) FetchBars(ctx context.Context, symbol string, interval model.Interval, start, end time.Time) ([]model.OHLCV, error) {
	multiplier, timespan, err := polygonTimespan(interval)
	if err != nil {
		return nil, err
	}

	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithOrder(models.Asc).WithAdjusted(true)

	iter := f.Client.ListAggs(ctx, params)

	var bars []model.OHLCV
	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, model.OHLCV{
			Time:   time.Time(agg.Timestamp).UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon list aggs: %w", err)
	}

	// Polygon treats To as inclusive.
	return clip(bars, start, end), nil
}
