// Package marketdata provides historical price data for backtesting: a
// CoinGecko HTTP client, a CSV loader and a deterministic sample generator.
package marketdata

import (
	"time"

	"github.com/shopspring/decimal"

	"quanthelper/internal/series"
)

// Candle represents a single OHLCV bar.
type Candle struct {
	Symbol    string
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// History is a collection of historical candles for one instrument, ordered by
// strictly increasing timestamp.
type History struct {
	Symbol  string
	Candles []Candle
}

// Empty reports whether the history has no candles.
func (h *History) Empty() bool {
	return h == nil || len(h.Candles) == 0
}

// Start returns the timestamp of the first candle.
func (h *History) Start() time.Time {
	if h.Empty() {
		return time.Time{}
	}
	return h.Candles[0].Timestamp
}

// End returns the timestamp of the last candle.
func (h *History) End() time.Time {
	if h.Empty() {
		return time.Time{}
	}
	return h.Candles[len(h.Candles)-1].Timestamp
}

// Closes returns the close prices as a series. Only the close column is
// consumed by the simulation core.
func (h *History) Closes() series.Series {
	if h.Empty() {
		return series.Series{}
	}
	s := make(series.Series, len(h.Candles))
	for i, c := range h.Candles {
		s[i] = series.Point{Time: c.Timestamp, Value: c.Close}
	}
	return s
}

// Times returns the timestamp index of the history.
func (h *History) Times() []time.Time {
	if h.Empty() {
		return nil
	}
	out := make([]time.Time, len(h.Candles))
	for i, c := range h.Candles {
		out[i] = c.Timestamp
	}
	return out
}
