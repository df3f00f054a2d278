package barcache

import (
	"time"

	"LevelSentinel/internal/model"
)

// NoopCache is used when SQLite is not configured.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (n *NoopCache) Load(string, model.Interval, time.Time, time.Time) ([]model.OHLCV, bool, error) {
	return nil, false, nil
}
func (n *NoopCache) Store(string, model.Interval, time.Time, time.Time, []model.OHLCV) error {
	return nil
}
func (n *NoopCache) Close() error { return nil }
