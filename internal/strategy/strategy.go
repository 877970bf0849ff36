// Package strategy defines the strategy contract consumed by the backtest
// engine, plus a couple of ready-made strategies.
package strategy

import (
	"quanthelper/internal/marketdata"
	"quanthelper/internal/series"
)

// Strategy turns a price history into a target position series. A position of
// 1 is fully long, 0 is flat and -1 is fully short; intermediate values scale
// exposure. Implementations must be pure: the same history always produces
// the same positions, and the engine invokes Positions exactly once per run.
//
// The emitted series may be sparser than the price index; the engine
// forward-fills it onto the price timestamps.
type Strategy interface {
	Positions(history *marketdata.History) series.Series
}

// Func adapts an ordinary function to the Strategy interface.
type Func func(history *marketdata.History) series.Series

// Positions implements Strategy.
func (f Func) Positions(history *marketdata.History) series.Series {
	return f(history)
}
