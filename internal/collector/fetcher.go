package collector

import (
	"context"
	"errors"
	"time"

	"LevelSentinel/internal/model"
)

// ErrNoData is returned when a provider has no bars for the requested window.
var ErrNoData = errors.New("no data found for the given parameters")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchBars returns bars with start <= time < end in chronological order.
	FetchBars(ctx context.Context, symbol string, interval model.Interval, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}
