// Package backtest simulates the financial outcome of a trading strategy on a
// historical price series and compares it against a buy-and-hold benchmark.
package backtest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quanthelper/internal/costs"
	"quanthelper/internal/marketdata"
	"quanthelper/internal/metrics"
	"quanthelper/internal/series"
	"quanthelper/internal/strategy"
)

// Config holds engine configuration.
type Config struct {
	// InitialCapital is the starting capital in currency units. Must be
	// positive.
	InitialCapital decimal.Decimal
	// CostModel applies transaction costs when set; nil runs cost-free.
	CostModel *costs.Model
	// Analyzer computes the performance summaries. Nil uses the default
	// analyzer (zero risk-free rate, 365 periods per year).
	Analyzer *metrics.Analyzer
}

// DefaultConfig returns a cost-free configuration with $10,000 capital.
func DefaultConfig() *Config {
	return &Config{
		InitialCapital: decimal.NewFromInt(10000),
	}
}

// Engine runs strategy simulations. One engine holds at most one result, the
// one from its latest run. An engine must not be shared by concurrent Run
// callers; use independent engines to parallelize backtests.
type Engine struct {
	initialCapital decimal.Decimal
	costModel      *costs.Model
	analyzer       *metrics.Analyzer

	last *Result
}

// NewEngine creates a backtest engine from config.
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if !config.InitialCapital.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidCapital, config.InitialCapital)
	}
	analyzer := config.Analyzer
	if analyzer == nil {
		analyzer = metrics.NewAnalyzer()
	}
	return &Engine{
		initialCapital: config.InitialCapital,
		costModel:      config.CostModel,
		analyzer:       analyzer,
	}, nil
}

// Run executes a backtest of strat over history and stores the result,
// replacing any previous one.
//
// The strategy is invoked exactly once. Its positions are aligned onto the
// price index by forward-fill; timestamps before the strategy's first
// decision stay flat. A position recorded at t earns the price return from t
// to t+1 only, which rules out lookahead: the first period always realizes
// zero return. Transaction costs, when modeled, reduce the return of the
// period whose position change implied the trade.
func (e *Engine) Run(strat strategy.Strategy, history *marketdata.History) (*Result, error) {
	if history.Empty() {
		return nil, fmt.Errorf("%w for %q", ErrEmptyData, symbolOf(history))
	}

	prices := history.Closes()
	index := prices.Times()

	// A failing strategy is a caller bug; nothing is caught here.
	raw := strat.Positions(history)
	positions := raw.Reindex(index)

	returns := e.periodReturns(prices, positions)

	costSeries := series.Zeros(index)
	if e.costModel != nil {
		costSeries = e.costModel.CostSeries(positions, prices)
		for i := range returns {
			// Normalized by initial capital, not current value: a
			// preserved approximation from the reference model.
			returns[i] = returns[i].Sub(costSeries[i].Value.Div(e.initialCapital))
		}
	}

	portfolioValues := e.compound(index, returns)
	benchmarkValues := e.buyAndHold(prices)

	strategyReturns := e.analyzer.Returns(portfolioValues)
	benchmarkReturns := e.analyzer.Returns(benchmarkValues)

	result := &Result{
		ID:               uuid.New().String(),
		Symbol:           history.Symbol,
		StartDate:        history.Start(),
		EndDate:          history.End(),
		InitialCapital:   e.initialCapital,
		FinalValue:       portfolioValues.Last().Value,
		PortfolioValues:  portfolioValues,
		BenchmarkValues:  benchmarkValues,
		Positions:        positions,
		Prices:           history,
		CumulativeCosts:  costSeries.CumSum(),
		StrategySummary:  e.analyzer.Summary(portfolioValues, strategyReturns),
		BenchmarkSummary: e.analyzer.Summary(benchmarkValues, benchmarkReturns),
	}

	e.last = result
	return result, nil
}

// LastResult returns the result of the most recent run.
func (e *Engine) LastResult() (*Result, error) {
	if e.last == nil {
		return nil, ErrNoResult
	}
	return e.last, nil
}

// periodReturns computes the per-period strategy return: the previous
// period's position times the price return realized since then. The first
// period has no prior position and earns nothing.
func (e *Engine) periodReturns(prices, positions series.Series) []decimal.Decimal {
	priceReturns := prices.PctChange()
	returns := make([]decimal.Decimal, prices.Len())
	returns[0] = decimal.Zero
	for i := 1; i < prices.Len(); i++ {
		returns[i] = positions[i-1].Value.Mul(priceReturns[i-1].Value)
	}
	return returns
}

// compound turns period returns into a portfolio value series via cumulative
// product. Multiplicative compounding avoids the drift a running sum would
// accumulate at high return magnitudes.
func (e *Engine) compound(index []time.Time, returns []decimal.Decimal) series.Series {
	one := decimal.NewFromInt(1)
	values := make(series.Series, len(index))
	value := e.initialCapital
	for i := range index {
		value = value.Mul(one.Add(returns[i]))
		values[i] = series.Point{Time: index[i], Value: value}
	}
	return values
}

// buyAndHold computes the costless benchmark: prices normalized to the
// initial capital.
func (e *Engine) buyAndHold(prices series.Series) series.Series {
	first := prices.First().Value
	values := make(series.Series, prices.Len())
	for i, p := range prices {
		values[i] = series.Point{Time: p.Time, Value: e.initialCapital.Mul(p.Value).Div(first)}
	}
	return values
}

func symbolOf(history *marketdata.History) string {
	if history == nil {
		return ""
	}
	return history.Symbol
}
