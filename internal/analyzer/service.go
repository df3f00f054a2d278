package analyzer

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"LevelSentinel/internal/calculator"
	"LevelSentinel/internal/collector"
	"LevelSentinel/internal/model"
)

// Request describes one multi-timeframe analysis.
type Request struct {
	Symbol  string
	Base    model.Interval
	Confirm []model.Interval
	Start   time.Time
	End     time.Time
}

// Validate checks the request before any data is fetched.
func (r Request) Validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if !r.Base.Valid() {
		return fmt.Errorf("unsupported interval %q", r.Base)
	}
	for _, i := range r.Confirm {
		if !i.Valid() {
			return fmt.Errorf("unsupported confirm interval %q", i)
		}
		if i.Duration() <= r.Base.Duration() {
			return fmt.Errorf("confirm interval %s must be coarser than base %s", i, r.Base)
		}
	}
	if !r.End.After(r.Start) {
		return fmt.Errorf("end %s must be after start %s", r.End.Format("2006-01-02"), r.Start.Format("2006-01-02"))
	}
	return nil
}

// Service ties data collection to level analysis.
type Service struct {
	Collector *collector.Collector
	Params    Params
}

// NewService creates a new Service.
func NewService(col *collector.Collector, params Params) *Service {
	return &Service{Collector: col, Params: params}
}

// SignificantLevels returns the clustered levels of a single timeframe.
func (s *Service) SignificantLevels(ctx context.Context, symbol string, interval model.Interval, start, end time.Time) ([]float64, error) {
	series, err := s.Collector.CollectOne(ctx, symbol, interval, start, end)
	if err != nil {
		return nil, err
	}
	return calculator.FindSignificantLevels(series.Bars, s.Params.Prominence, s.Params.ClusterFactor)
}

// Trend classifies a single timeframe.
func (s *Service) Trend(ctx context.Context, symbol string, interval model.Interval, start, end time.Time) (model.TrendLabel, error) {
	series, err := s.Collector.CollectOne(ctx, symbol, interval, start, end)
	if err != nil {
		return model.TrendIndeterminate, err
	}
	if err := calculator.ValidateSeries(series.Bars); err != nil {
		return model.TrendIndeterminate, err
	}
	return calculator.ClassifyTrend(series.Bars, s.Params.ShortWindow, s.Params.LongWindow), nil
}

// Analyze fetches the base and confirming timeframes and evaluates them.
func (s *Service) Analyze(ctx context.Context, req Request) (*model.LevelReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	confirm := append([]model.Interval(nil), req.Confirm...)
	sort.SliceStable(confirm, func(i, j int) bool { return confirm[i].Duration() < confirm[j].Duration() })

	began := time.Now()
	series, err := s.Collector.Collect(ctx, req.Symbol, req.Start, req.End, append([]model.Interval{req.Base}, confirm...)...)
	if err != nil {
		return nil, err
	}

	report, err := Evaluate(series[0], series[1:], s.Params)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", req.Symbol, err)
	}
	report.Start, report.End = req.Start, req.End

	log.WithFields(log.Fields{
		"symbol":    req.Symbol,
		"base":      req.Base,
		"levels":    len(report.Base().Levels),
		"validated": len(report.Validated),
		"elapsed":   time.Since(began).Round(time.Millisecond),
	}).Debug("analysis complete")
	return report, nil
}

// LookbackWindow returns the [start, end) window of whole UTC days ending
// after the day containing now.
func LookbackWindow(now time.Time, days int) (start, end time.Time) {
	end = now.UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	return end.AddDate(0, 0, -days), end
}
