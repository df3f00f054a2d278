package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"LevelSentinel/internal/model"
)

func TestClassifyTrend(t *testing.T) {
	rising := make([]float64, 250)
	for i := range rising {
		rising[i] = 100 + float64(i)*0.5
	}
	falling := make([]float64, len(rising))
	for i, v := range rising {
		falling[len(rising)-1-i] = v
	}

	t.Run("rising closes are bullish", func(t *testing.T) {
		assert.Equal(t, model.TrendBullish, ClassifyTrend(mkCloses(rising), DefaultShortWindow, DefaultLongWindow))
	})

	t.Run("falling closes are bearish", func(t *testing.T) {
		assert.Equal(t, model.TrendBearish, ClassifyTrend(mkCloses(falling), DefaultShortWindow, DefaultLongWindow))
	})

	t.Run("equal averages resolve bearish", func(t *testing.T) {
		flat := make([]float64, 200)
		for i := range flat {
			flat[i] = 42
		}
		assert.Equal(t, model.TrendBearish, ClassifyTrend(mkCloses(flat), DefaultShortWindow, DefaultLongWindow))
	})

	t.Run("insufficient history", func(t *testing.T) {
		assert.Equal(t, model.TrendIndeterminate, ClassifyTrend(mkCloses(rising[:199]), DefaultShortWindow, DefaultLongWindow))
		assert.Equal(t, model.TrendIndeterminate, ClassifyTrend(nil, DefaultShortWindow, DefaultLongWindow))
	})

	t.Run("invalid windows", func(t *testing.T) {
		assert.Equal(t, model.TrendIndeterminate, ClassifyTrend(mkCloses(rising), 0, DefaultLongWindow))
		assert.Equal(t, model.TrendIndeterminate, ClassifyTrend(mkCloses(rising), 300, 20))
	})
}

func TestCalculateSMA(t *testing.T) {
	sma, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	assert.NoError(t, err)
	assert.InDelta(t, 4.5, sma, 1e-9)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.Error(t, err)

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}
