package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"LevelSentinel/internal/analyzer"
	"LevelSentinel/internal/barcache"
	"LevelSentinel/internal/collector"
	"LevelSentinel/internal/config"
	"LevelSentinel/internal/model"
)

// newFetcher builds the configured data source, wrapped in the bar cache when
// a SQLite path is set. The returned func releases the cache.
func newFetcher(cfg *config.Config) (collector.Fetcher, func(), error) {
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "polygon":
		fetcher = collector.NewPolygonFetcher(cfg.DataSource.APIKey)
	case "csv":
		return collector.NewCSVFetcher(cfg.DataSource.CSVDir), func() {}, nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, func() {}, nil
	default:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.Proxy)
	}

	var cache barcache.Cache
	if cfg.Cache.SQLitePath != "" {
		sc, err := barcache.NewSQLiteCache(cfg.Cache.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("init sqlite cache failed, using noop")
			cache = barcache.NewNoopCache()
		} else {
			cache = sc
		}
	} else {
		cache = barcache.NewNoopCache()
	}
	cached := barcache.NewCachingFetcher(fetcher, cache)
	log.Infof("data source: %s", cached.Name())
	return cached, func() {
		if err := cache.Close(); err != nil {
			log.WithError(err).Warn("close sqlite cache")
		}
	}, nil
}

func analysisParams(cfg *config.Config) analyzer.Params {
	p := analyzer.DefaultParams()
	p.Prominence = cfg.Analysis.Prominence
	p.ClusterFactor = cfg.Analysis.ClusterFactor
	p.Tolerance = cfg.Analysis.Tolerance
	p.TolerancePct = cfg.Analysis.TolerancePct
	p.ShortWindow = cfg.Analysis.ShortWindow
	p.LongWindow = cfg.Analysis.LongWindow
	return p
}

func newService(cfg *config.Config) (*analyzer.Service, func(), error) {
	fetcher, closeFn, err := newFetcher(cfg)
	if err != nil {
		return nil, nil, err
	}
	p := analysisParams(cfg)
	if err := p.Validate(); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("analysis config: %w", err)
	}
	return analyzer.NewService(collector.NewCollector(fetcher), p), closeFn, nil
}

func parseInterval(s string) (model.Interval, error) {
	i := model.Interval(s)
	if !i.Valid() {
		return "", fmt.Errorf("unsupported interval %q", s)
	}
	return i, nil
}

func parseIntervals(values []string) ([]model.Interval, error) {
	out := make([]model.Interval, 0, len(values))
	for _, v := range values {
		i, err := parseInterval(v)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

// window resolves the --start/--end flags; empty values fall back to the
// configured lookback ending today. The end date is exclusive.
func window(startFlag, endFlag string, lookbackDays int) (time.Time, time.Time, error) {
	start, end := analyzer.LookbackWindow(time.Now(), lookbackDays)
	if endFlag != "" {
		t, err := time.Parse("2006-01-02", endFlag)
		if err != nil {
			return start, end, fmt.Errorf("invalid --end %q: %w", endFlag, err)
		}
		end = t
		start = end.AddDate(0, 0, -lookbackDays)
	}
	if startFlag != "" {
		t, err := time.Parse("2006-01-02", startFlag)
		if err != nil {
			return start, end, fmt.Errorf("invalid --start %q: %w", startFlag, err)
		}
		start = t
	}
	return start, end, nil
}
