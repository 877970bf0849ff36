package utils

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 5.0, Mean([]float64{5}))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
	assert.InDelta(t, 0, Mean([]float64{-1, 1}), 1e-12)
}

func TestSampleStdDev(t *testing.T) {
	assert.Equal(t, 0.0, SampleStdDev(nil))
	assert.Equal(t, 0.0, SampleStdDev([]float64{42}))

	// Variance of {2,4,4,4,5,5,7,9} is 32/7 with the n-1 denominator.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, math.Sqrt(32.0/7), SampleStdDev(values), 1e-12)

	assert.Equal(t, 0.0, SampleStdDev([]float64{3, 3, 3}))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 0.0, Min(nil))
	assert.Equal(t, 0.0, Max(nil))

	values := []float64{3, -1, 7, 0}
	assert.Equal(t, -1.0, Min(values))
	assert.Equal(t, 7.0, Max(values))
}

func TestMinMaxDecimal(t *testing.T) {
	a := decimal.NewFromInt(3)
	b := decimal.NewFromInt(7)

	assert.True(t, MinDecimal(a, b).Equal(a))
	assert.True(t, MinDecimal(b, a).Equal(a))
	assert.True(t, MaxDecimal(a, b).Equal(b))
	assert.True(t, MaxDecimal(a, a).Equal(a))
}

func TestPercentChange(t *testing.T) {
	change := PercentChange(decimal.NewFromInt(100), decimal.NewFromInt(110))
	assert.True(t, change.Equal(decimal.NewFromFloat(0.1)), "got %s", change)

	change = PercentChange(decimal.NewFromInt(100), decimal.NewFromInt(90))
	assert.True(t, change.Equal(decimal.NewFromFloat(-0.1)), "got %s", change)

	assert.True(t, PercentChange(decimal.Zero, decimal.NewFromInt(50)).IsZero())
}
