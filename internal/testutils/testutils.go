// Package testutils provides shared fixtures for tests.
package testutils

import (
	"time"

	"github.com/shopspring/decimal"

	"quanthelper/internal/marketdata"
	"quanthelper/internal/series"
)

// Day0 is the fixed starting timestamp for all generated fixtures.
var Day0 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DailyIndex returns n consecutive daily timestamps starting at Day0.
func DailyIndex(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = Day0.Add(time.Duration(i) * 24 * time.Hour)
	}
	return out
}

// PriceSeries builds a daily close-price series from float values.
func PriceSeries(prices ...float64) series.Series {
	return series.FromFloats(DailyIndex(len(prices)), prices)
}

// PriceHistory builds a daily candle history where open, high and low mirror
// the close, which is all the simulation core consumes.
func PriceHistory(symbol string, closes ...float64) *marketdata.History {
	index := DailyIndex(len(closes))
	candles := make([]marketdata.Candle, len(closes))
	for i, c := range closes {
		price := decimal.NewFromFloat(c)
		candles[i] = marketdata.Candle{
			Symbol:    symbol,
			Timestamp: index[i],
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    decimal.NewFromInt(1000),
		}
	}
	return &marketdata.History{Symbol: symbol, Candles: candles}
}

// ConstantPositions builds a daily position series with the same value
// everywhere.
func ConstantPositions(n int, value float64) series.Series {
	return series.Constant(DailyIndex(n), decimal.NewFromFloat(value))
}
