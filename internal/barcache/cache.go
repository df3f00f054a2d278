package barcache

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"LevelSentinel/internal/collector"
	"LevelSentinel/internal/model"
)

// Cache persists fetched bars keyed by the exact request window.
type Cache interface {
	Load(symbol string, interval model.Interval, start, end time.Time) ([]model.OHLCV, bool, error)
	Store(symbol string, interval model.Interval, start, end time.Time, bars []model.OHLCV) error
	Close() error
}

// CachingFetcher serves historical windows from a Cache and falls through to
// Upstream on a miss. Windows ending after Now are never cached since the
// provider may still append bars to them.
type CachingFetcher struct {
	Upstream collector.Fetcher
	Cache    Cache
	Now      func() time.Time
}

// NewCachingFetcher wraps upstream with cache.
func NewCachingFetcher(upstream collector.Fetcher, cache Cache) *CachingFetcher {
	return &CachingFetcher{Upstream: upstream, Cache: cache, Now: time.Now}
}

func (f *CachingFetcher) Name() string { return f.Upstream.Name() + "+cache" }

func (f *CachingFetcher) FetchBars(ctx context.Context, symbol string, interval model.Interval, start, end time.Time) ([]model.OHLCV, error) {
	cacheable := end.Before(f.Now())
	if cacheable {
		bars, ok, err := f.Cache.Load(symbol, interval, start, end)
		if err != nil {
			log.Warnf("bar cache load %s %s: %v", symbol, interval, err)
		} else if ok {
			log.Debugf("bar cache hit %s %s (%d bars)", symbol, interval, len(bars))
			return bars, nil
		}
	}

	bars, err := f.Upstream.FetchBars(ctx, symbol, interval, start, end)
	if err != nil {
		return nil, err
	}
	// The bars table keys on timestamp, so conflicts must surface before a store.
	if bars, err = collector.NormalizeBars(bars); err != nil {
		return nil, err
	}
	if cacheable && len(bars) > 0 {
		if err := f.Cache.Store(symbol, interval, start, end, bars); err != nil {
			log.Warnf("bar cache store %s %s: %v", symbol, interval, err)
		}
	}
	return bars, nil
}
