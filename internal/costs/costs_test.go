package costs

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quanthelper/internal/testutils"
)

func TestRate_CombinesCommissionAndSlippage(t *testing.T) {
	m := NewModel(decimal.NewFromFloat(0.001), decimal.NewFromFloat(0.0005))
	assert.True(t, m.Rate().Equal(decimal.NewFromFloat(0.0015)))
}

func TestRate_ClampsNegative(t *testing.T) {
	m := NewModel(decimal.NewFromFloat(-0.01), decimal.NewFromFloat(0.002))
	assert.True(t, m.Rate().IsZero(), "negative combined rate must clamp to zero, got %s", m.Rate())
}

func TestDefaultModel(t *testing.T) {
	assert.True(t, DefaultModel().Rate().Equal(decimal.NewFromFloat(0.001)))
}

func TestCostSeries_EntryFromFlat(t *testing.T) {
	// The position at period 0 has no prior value: the whole position is a
	// trade from flat.
	m := NewModel(decimal.NewFromFloat(0.01), decimal.Zero)
	prices := testutils.PriceSeries(100, 110, 99)
	positions := testutils.ConstantPositions(3, 1)

	cost := m.CostSeries(positions, prices)

	require.Equal(t, 3, cost.Len())
	assert.True(t, cost[0].Value.Equal(decimal.NewFromInt(1)), "1 * 100 * 0.01, got %s", cost[0].Value)
	assert.True(t, cost[1].Value.IsZero())
	assert.True(t, cost[2].Value.IsZero())
}

func TestCostSeries_PositionFlip(t *testing.T) {
	m := NewModel(decimal.NewFromFloat(0.01), decimal.Zero)
	prices := testutils.PriceSeries(100, 110, 99, 99, 108)
	positions := testutils.PriceSeries(0, 1, 1, 1, 1)

	cost := m.CostSeries(positions, prices)

	// No position at period 0, a full flip at period 1, then nothing.
	assert.True(t, cost[0].Value.IsZero())
	assert.True(t, cost[1].Value.Equal(decimal.NewFromFloat(1.1)), "|1-0| * 110 * 0.01, got %s", cost[1].Value)
	for i := 2; i < 5; i++ {
		assert.True(t, cost[i].Value.IsZero())
	}
}

func TestCostSeries_ShortToLongCountsFullSwing(t *testing.T) {
	m := NewModel(decimal.NewFromFloat(0.01), decimal.Zero)
	prices := testutils.PriceSeries(100, 100)
	positions := testutils.PriceSeries(-1, 1)

	cost := m.CostSeries(positions, prices)

	assert.True(t, cost[0].Value.Equal(decimal.NewFromInt(1)), "|-1| * 100 * 0.01")
	assert.True(t, cost[1].Value.Equal(decimal.NewFromInt(2)), "|1-(-1)| * 100 * 0.01")
}

func TestCostSeries_ZeroRate(t *testing.T) {
	m := NewModel(decimal.Zero, decimal.Zero)
	prices := testutils.PriceSeries(100, 110)
	positions := testutils.PriceSeries(1, -1)

	for _, p := range m.CostSeries(positions, prices) {
		assert.True(t, p.Value.IsZero())
	}
}
