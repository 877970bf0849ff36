// Package metrics derives risk/return statistics from portfolio value series.
package metrics

import (
	"math"

	"quanthelper/internal/series"
	"quanthelper/pkg/utils"
)

// Analyzer computes performance statistics. The zero value is not useful;
// construct with NewAnalyzer. All statistics that need a dispersion measure
// use the sample standard deviation (n-1 denominator) so that Sharpe ratio
// and volatility stay directly comparable.
type Analyzer struct {
	// RiskFreeRate is the annual risk-free rate used by the Sharpe ratio.
	RiskFreeRate float64
	// PeriodsPerYear is the annualization factor; 365 is the daily
	// convention for crypto markets that never close.
	PeriodsPerYear int
}

// NewAnalyzer returns an analyzer with a zero risk-free rate and the daily
// (365 periods per year) convention.
func NewAnalyzer() *Analyzer {
	return &Analyzer{RiskFreeRate: 0, PeriodsPerYear: 365}
}

// Summary bundles the statistics derived from one value series. It is a plain
// value: once produced it is never mutated.
type Summary struct {
	TotalReturn float64
	SharpeRatio float64
	MaxDrawdown float64
	Volatility  float64
	WinRate     float64
	MeanReturn  float64
	BestPeriod  float64
	WorstPeriod float64
	Periods     int
}

// Returns calculates period-over-period percentage returns from a value
// series. The result is one point shorter than the input; empty input yields
// an empty series, not an error.
func (a *Analyzer) Returns(values series.Series) series.Series {
	return values.PctChange()
}

// TotalReturn is the fractional gain from first to last value. Fewer than two
// points is a degenerate-but-valid input and yields 0.
func (a *Analyzer) TotalReturn(values series.Series) float64 {
	if values.Len() < 2 {
		return 0
	}
	first := values.First().Value
	if first.IsZero() {
		return 0
	}
	return values.Last().Value.Sub(first).Div(first).InexactFloat64()
}

// SharpeRatio is the annualized mean return minus the risk-free rate, divided
// by annualized volatility. An empty return series or zero standard deviation
// yields 0 by policy rather than dividing by zero.
func (a *Analyzer) SharpeRatio(returns series.Series) float64 {
	rs := returns.Floats()
	if len(rs) == 0 {
		return 0
	}
	std := utils.SampleStdDev(rs)
	if std == 0 {
		return 0
	}
	periods := float64(a.PeriodsPerYear)
	annMean := utils.Mean(rs) * periods
	annStd := std * math.Sqrt(periods)
	return (annMean - a.RiskFreeRate) / annStd
}

// MaxDrawdown is the largest peak-to-trough decline of a value series,
// expressed as a fraction <= 0. Empty input yields 0.
func (a *Analyzer) MaxDrawdown(values series.Series) float64 {
	vs := values.Floats()
	if len(vs) == 0 {
		return 0
	}
	runningMax := vs[0]
	maxDD := 0.0
	for _, v := range vs {
		if v > runningMax {
			runningMax = v
		}
		if runningMax == 0 {
			continue
		}
		dd := (v - runningMax) / runningMax
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// Volatility is the annualized sample standard deviation of returns. Empty
// input yields 0.
func (a *Analyzer) Volatility(returns series.Series) float64 {
	rs := returns.Floats()
	if len(rs) == 0 {
		return 0
	}
	return utils.SampleStdDev(rs) * math.Sqrt(float64(a.PeriodsPerYear))
}

// WinRate is the fraction of periods with a strictly positive return. Empty
// input yields 0.
func (a *Analyzer) WinRate(returns series.Series) float64 {
	rs := returns.Floats()
	if len(rs) == 0 {
		return 0
	}
	wins := 0
	for _, r := range rs {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(rs))
}

// Summary computes the full statistic set for a value series. Pass nil for
// returns to derive them from values.
func (a *Analyzer) Summary(values, returns series.Series) Summary {
	if returns == nil {
		returns = a.Returns(values)
	}
	rs := returns.Floats()
	return Summary{
		TotalReturn: a.TotalReturn(values),
		SharpeRatio: a.SharpeRatio(returns),
		MaxDrawdown: a.MaxDrawdown(values),
		Volatility:  a.Volatility(returns),
		WinRate:     a.WinRate(returns),
		MeanReturn:  utils.Mean(rs),
		BestPeriod:  utils.Max(rs),
		WorstPeriod: utils.Min(rs),
		Periods:     len(rs),
	}
}
