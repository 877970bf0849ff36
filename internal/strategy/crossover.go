package strategy

import (
	"github.com/shopspring/decimal"

	"quanthelper/internal/marketdata"
	"quanthelper/internal/series"
)

// MovingAverageCross is a simple SMA crossover strategy: long while the fast
// moving average is above the slow one, flat otherwise. Periods before the
// slow window has filled stay flat.
type MovingAverageCross struct {
	FastWindow int
	SlowWindow int
}

// NewMovingAverageCross creates a crossover strategy. Non-positive windows
// fall back to the 7/25 daily defaults.
func NewMovingAverageCross(fast, slow int) *MovingAverageCross {
	if fast <= 0 {
		fast = 7
	}
	if slow <= 0 {
		slow = 25
	}
	return &MovingAverageCross{FastWindow: fast, SlowWindow: slow}
}

// Positions implements Strategy.
func (s *MovingAverageCross) Positions(history *marketdata.History) series.Series {
	closes := history.Closes()
	fast := rollingMean(closes, s.FastWindow)
	slow := rollingMean(closes, s.SlowWindow)

	one := decimal.NewFromInt(1)
	out := make(series.Series, closes.Len())
	for i, p := range closes {
		position := decimal.Zero
		if !fast[i].isZeroWindow && !slow[i].isZeroWindow && fast[i].mean.GreaterThan(slow[i].mean) {
			position = one
		}
		out[i] = series.Point{Time: p.Time, Value: position}
	}
	return out
}

type rollingPoint struct {
	mean decimal.Decimal
	// isZeroWindow marks points where the window has not filled yet.
	isZeroWindow bool
}

func rollingMean(s series.Series, window int) []rollingPoint {
	out := make([]rollingPoint, s.Len())
	sum := decimal.Zero
	for i, p := range s {
		sum = sum.Add(p.Value)
		if i >= window {
			sum = sum.Sub(s[i-window].Value)
		}
		if i < window-1 {
			out[i] = rollingPoint{isZeroWindow: true}
			continue
		}
		out[i] = rollingPoint{mean: sum.Div(decimal.NewFromInt(int64(window)))}
	}
	return out
}

// BuyAndHold stays fully long for the whole history.
type BuyAndHold struct{}

// Positions implements Strategy.
func (BuyAndHold) Positions(history *marketdata.History) series.Series {
	return series.Constant(history.Times(), decimal.NewFromInt(1))
}
