// Package costs models proportional transaction costs: commission and
// slippage combined into a single rate applied to traded notional.
package costs

import (
	"github.com/shopspring/decimal"

	"quanthelper/internal/series"
	"quanthelper/pkg/utils"
)

// Model applies simple proportional trading costs. Costs scale with the
// notional traded; commission and slippage are decimal fractions.
type Model struct {
	Commission decimal.Decimal
	Slippage   decimal.Decimal
}

// NewModel creates a cost model with the given commission and slippage rates.
func NewModel(commission, slippage decimal.Decimal) *Model {
	return &Model{Commission: commission, Slippage: slippage}
}

// DefaultModel returns a model with 5 bps commission and 5 bps slippage.
func DefaultModel() *Model {
	return &Model{
		Commission: decimal.NewFromFloat(0.0005),
		Slippage:   decimal.NewFromFloat(0.0005),
	}
}

// Rate returns the combined proportional cost rate, floored at zero.
// Negative inputs are clamped rather than rejected.
func (m *Model) Rate() decimal.Decimal {
	return utils.MaxDecimal(m.Commission.Add(m.Slippage), decimal.Zero)
}

// CostSeries calculates the per-period cost in currency units. The trade size
// at the first period is the position itself (entry from flat); afterwards it
// is the absolute position change. Positions and prices must share an index;
// this function does not validate.
func (m *Model) CostSeries(positions, prices series.Series) series.Series {
	rate := m.Rate()
	out := make(series.Series, len(positions))
	prev := decimal.Zero
	for i, p := range positions {
		trade := p.Value.Sub(prev).Abs()
		if i == 0 {
			trade = p.Value.Abs()
		}
		out[i] = series.Point{
			Time:  p.Time,
			Value: trade.Mul(prices[i].Value).Mul(rate),
		}
		prev = p.Value
	}
	return out
}
