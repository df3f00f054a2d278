package calculator

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"LevelSentinel/internal/model"
)

// ClusterLevels merges peak and trough prices into representative levels.
//
// Candidates are sorted ascending and scanned once. A value joins the current
// cluster when it is within priceRange*clusterFactor/100 of the last value
// appended to that cluster; otherwise it starts a new one. Each cluster is
// replaced by its mean, so the output is ascending. A non-positive range or
// factor degrades to merging exact duplicates only.
func ClusterLevels(peakPrices, troughPrices []float64, priceRange, clusterFactor float64) ([]float64, error) {
	candidates := make([]float64, 0, len(peakPrices)+len(troughPrices))
	candidates = append(candidates, peakPrices...)
	candidates = append(candidates, troughPrices...)
	if len(candidates) == 0 {
		return []float64{}, nil
	}
	sort.Float64s(candidates)

	threshold := priceRange * clusterFactor / 100
	if !(threshold > 0) {
		threshold = 0
	}

	levels := make([]float64, 0, len(candidates))
	current := []float64{candidates[0]}
	last := candidates[0]
	for _, v := range candidates[1:] {
		if v-last <= threshold {
			current = append(current, v)
		} else {
			mean, err := stats.Mean(current)
			if err != nil {
				return nil, fmt.Errorf("cluster mean: %w", err)
			}
			levels = append(levels, mean)
			current = []float64{v}
		}
		last = v
	}
	mean, err := stats.Mean(current)
	if err != nil {
		return nil, fmt.Errorf("cluster mean: %w", err)
	}
	return append(levels, mean), nil
}

// FindSignificantLevels detects prominent highs and lows in bars and clusters
// them with a threshold scaled to the series' full high-low range.
func FindSignificantLevels(bars []model.OHLCV, minProminence, clusterFactor float64) ([]float64, error) {
	if len(bars) == 0 {
		return []float64{}, nil
	}
	if err := ValidateSeries(bars); err != nil {
		return nil, err
	}

	highs := extractHighs(bars)
	lows := extractLows(bars)

	peakPrices := pick(highs, DetectPeaks(highs, minProminence))
	troughPrices := pick(lows, DetectTroughs(lows, minProminence))

	return ClusterLevels(peakPrices, troughPrices, PriceRange(bars), clusterFactor)
}
