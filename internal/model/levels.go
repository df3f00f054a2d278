package model

import "time"

// TrendLabel is the moving-average crossover verdict for a series.
type TrendLabel string

const (
	TrendBullish       TrendLabel = "BULLISH"
	TrendBearish       TrendLabel = "BEARISH"
	TrendIndeterminate TrendLabel = "INDETERMINATE"
)

// TimeframeLevels holds the significant levels found on one timeframe.
type TimeframeLevels struct {
	Interval Interval   `json:"interval"`
	Bars     int        `json:"bars"`
	Levels   []float64  `json:"levels"`
	Trend    TrendLabel `json:"trend"`
}

// LevelReport is the output of a multi-timeframe level analysis.
type LevelReport struct {
	ID           string            `json:"id"`
	Symbol       string            `json:"symbol"`
	BaseInterval Interval          `json:"base_interval"`
	Start        time.Time         `json:"start"`
	End          time.Time         `json:"end"`
	Timeframes   []TimeframeLevels `json:"timeframes"`
	Validated    []float64         `json:"validated_levels"`
	Tolerance    float64           `json:"tolerance"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// Base returns the levels of the finest timeframe, if any.
func (r *LevelReport) Base() *TimeframeLevels {
	if len(r.Timeframes) == 0 {
		return nil
	}
	return &r.Timeframes[0]
}
