package analyzer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"LevelSentinel/internal/calculator"
	"LevelSentinel/internal/model"
)

// Params tunes level detection, confirmation and trend classification.
type Params struct {
	Prominence    float64
	ClusterFactor float64
	// Tolerance is the absolute confirmation distance. TolerancePct, when
	// positive, replaces it with a percentage of the base series price range.
	Tolerance    float64
	TolerancePct float64
	ShortWindow  int
	LongWindow   int
	MaxWorkers   int
}

// DefaultParams returns the reference settings.
func DefaultParams() Params {
	return Params{
		Prominence:    2,
		ClusterFactor: 0.5,
		Tolerance:     calculator.DefaultTolerance,
		ShortWindow:   calculator.DefaultShortWindow,
		LongWindow:    calculator.DefaultLongWindow,
		MaxWorkers:    4,
	}
}

// Validate rejects settings the calculators cannot use.
func (p Params) Validate() error {
	if p.Prominence < 0 {
		return errors.New("prominence must not be negative")
	}
	if p.ClusterFactor < 0 {
		return errors.New("cluster factor must not be negative")
	}
	if p.Tolerance <= 0 && p.TolerancePct <= 0 {
		return errors.New("tolerance or tolerance percentage must be positive")
	}
	if p.ShortWindow <= 0 || p.LongWindow <= 0 {
		return errors.New("moving average windows must be positive")
	}
	if p.ShortWindow >= p.LongWindow {
		return fmt.Errorf("short window %d must be below long window %d", p.ShortWindow, p.LongWindow)
	}
	return nil
}

// ToleranceFor resolves the confirmation tolerance for a base series.
func (p Params) ToleranceFor(base model.Series) float64 {
	if p.TolerancePct > 0 {
		if r := calculator.PriceRange(base.Bars); r > 0 {
			return r * p.TolerancePct / 100
		}
	}
	return p.Tolerance
}

// Evaluate finds significant levels and the trend on every timeframe, then
// keeps the base levels confirmed by all confirming series. Timeframes are
// analysed concurrently; the report lists them base first, then in the order
// given.
func Evaluate(base model.Series, confirming []model.Series, p Params) (*model.LevelReport, error) {
	all := append([]model.Series{base}, confirming...)
	frames := make([]model.TimeframeLevels, len(all))

	var g errgroup.Group
	if p.MaxWorkers > 0 {
		g.SetLimit(p.MaxWorkers)
	}
	for i, s := range all {
		g.Go(func() error {
			levels, err := calculator.FindSignificantLevels(s.Bars, p.Prominence, p.ClusterFactor)
			if err != nil {
				return fmt.Errorf("%s %s: %w", s.Symbol, s.Interval, err)
			}
			frames[i] = model.TimeframeLevels{
				Interval: s.Interval,
				Bars:     len(s.Bars),
				Levels:   levels,
				Trend:    calculator.ClassifyTrend(s.Bars, p.ShortWindow, p.LongWindow),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tolerance := p.ToleranceFor(base)
	report := &model.LevelReport{
		ID:           uuid.NewString(),
		Symbol:       base.Symbol,
		BaseInterval: base.Interval,
		Timeframes:   frames,
		Validated:    calculator.ConfirmLevels(frames[0].Levels, confirming, tolerance),
		Tolerance:    tolerance,
		GeneratedAt:  time.Now().UTC(),
	}
	if n := len(base.Bars); n > 0 {
		report.Start = base.Bars[0].Time
		report.End = base.Bars[n-1].Time
	}
	return report, nil
}
