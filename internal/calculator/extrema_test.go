package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPeaks(t *testing.T) {
	tests := []struct {
		name       string
		values     []float64
		prominence float64
		want       []int
	}{
		{"too short", []float64{1, 2}, 0, nil},
		{"empty", nil, 0, nil},
		{"all equal", []float64{3, 3, 3, 3, 3}, 0, nil},
		{"single peak", []float64{1, 3, 1}, 1, []int{1}},
		{"plateau reports leftmost", []float64{1, 3, 3, 3, 1}, 1, []int{1}},
		{"plateau running to the edge", []float64{1, 3, 3}, 0, nil},
		{"boundary is never a peak", []float64{5, 1, 2, 1, 6}, 0, []int{2}},
		{"low prominence filtered", []float64{0, 5, 4, 4.5, 0}, 1, []int{1}},
		{"zero threshold keeps small bumps", []float64{0, 5, 4, 4.5, 0}, 0, []int{1, 3}},
		{"prominence equal to threshold is kept", []float64{0, 2, 0}, 2, []int{1}},
		{"monotonic", []float64{1, 2, 3, 4, 5}, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPeaks(tt.values, tt.prominence))
		})
	}
}

func TestProminence(t *testing.T) {
	highs := []float64{10, 10.1, 12, 8, 14, 7.9, 13.8}

	// 12 must drop to 10 on the left before the series runs out; 8 on the right before 14.
	assert.InDelta(t, 2.0, prominence(highs, 2), 1e-9)
	assert.InDelta(t, 6.0, prominence(highs, 4), 1e-9)
}

func TestDetectTroughs(t *testing.T) {
	t.Run("mirror of peaks", func(t *testing.T) {
		assert.Equal(t, []int{1}, DetectTroughs([]float64{5, 1, 5}, 1))
	})

	t.Run("indices refer to original values", func(t *testing.T) {
		lows := []float64{9, 9.1, 11, 7, 13, 6.9, 12.8}
		idx := DetectTroughs(lows, 1)
		assert.Equal(t, []int{3, 5}, idx)
		assert.Equal(t, []float64{7, 6.9}, pick(lows, idx))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		lows := []float64{5, 1, 5}
		DetectTroughs(lows, 0)
		assert.Equal(t, []float64{5, 1, 5}, lows)
	})
}
