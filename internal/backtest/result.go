package backtest

import (
	"time"

	"github.com/shopspring/decimal"

	"quanthelper/internal/marketdata"
	"quanthelper/internal/metrics"
	"quanthelper/internal/series"
)

// Result holds everything produced by one simulation run. It is created once
// per run and never mutated afterwards; the engine replaces its held result
// wholesale on the next run.
type Result struct {
	ID             string
	Symbol         string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital decimal.Decimal
	FinalValue     decimal.Decimal

	PortfolioValues series.Series
	BenchmarkValues series.Series
	Positions       series.Series
	Prices          *marketdata.History
	CumulativeCosts series.Series

	StrategySummary  metrics.Summary
	BenchmarkSummary metrics.Summary
}

// TotalCosts returns the total transaction costs paid over the run.
func (r *Result) TotalCosts() decimal.Decimal {
	if r.CumulativeCosts.Empty() {
		return decimal.Zero
	}
	return r.CumulativeCosts.Last().Value
}

// Outperformance is the strategy's total return minus the benchmark's.
func (r *Result) Outperformance() float64 {
	return r.StrategySummary.TotalReturn - r.BenchmarkSummary.TotalReturn
}
