// Package analysis provides out-of-core analytics on already-available
// series: factor exposure regression, portfolio weight optimization and
// scenario stress testing.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"quanthelper/internal/marketdata"
	"quanthelper/internal/series"
	"quanthelper/pkg/utils"
)

// ErrNoOverlap indicates the target and factor series share no timestamps.
var ErrNoOverlap = errors.New("insufficient overlapping data for regression")

// Exposures holds the result of a factor regression.
type Exposures struct {
	Alpha       float64
	ResidualVol float64
	Betas       map[string]float64
}

// PriceFetcher is the slice of the market data client the factor analyzer
// needs.
type PriceFetcher interface {
	FetchPrices(ctx context.Context, coinID string, start, end time.Time) (*marketdata.History, error)
}

// FactorAnalyzer loads proxy factor returns and estimates exposures via
// ordinary least squares.
type FactorAnalyzer struct {
	fetcher PriceFetcher
}

// NewFactorAnalyzer creates a factor analyzer backed by fetcher.
func NewFactorAnalyzer(fetcher PriceFetcher) *FactorAnalyzer {
	return &FactorAnalyzer{fetcher: fetcher}
}

// FactorReturns downloads price histories for the given factor proxies and
// converts them to return series. The map keys name the factors; the values
// are provider instrument IDs.
func (fa *FactorAnalyzer) FactorReturns(ctx context.Context, proxies map[string]string, start, end time.Time) (map[string]series.Series, error) {
	if len(proxies) == 0 {
		return nil, errors.New("no factor proxies supplied")
	}
	out := make(map[string]series.Series, len(proxies))
	for name, id := range proxies {
		history, err := fa.fetcher.FetchPrices(ctx, id, start, end)
		if err != nil {
			return nil, fmt.Errorf("factor %s: %w", name, err)
		}
		out[name] = history.Closes().PctChange()
	}
	return out, nil
}

// EstimateExposures regresses target returns on factor returns with an
// intercept. Series are inner-joined on timestamps first; an empty overlap is
// an error.
func (fa *FactorAnalyzer) EstimateExposures(target series.Series, factors map[string]series.Series) (*Exposures, error) {
	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)

	lookups := make([]map[int64]float64, len(names))
	for i, name := range names {
		lookup := make(map[int64]float64, factors[name].Len())
		for _, p := range factors[name] {
			lookup[p.Time.UnixNano()] = p.Value.InexactFloat64()
		}
		lookups[i] = lookup
	}

	var y []float64
	var rows [][]float64
	for _, p := range target {
		key := p.Time.UnixNano()
		row := make([]float64, len(names))
		ok := true
		for i := range names {
			v, found := lookups[i][key]
			if !found {
				ok = false
				break
			}
			row[i] = v
		}
		if !ok {
			continue
		}
		y = append(y, p.Value.InexactFloat64())
		rows = append(rows, row)
	}

	n := len(y)
	k := len(names)
	if n == 0 || n <= k {
		return nil, ErrNoOverlap
	}

	// Design matrix with an intercept column of ones.
	x := mat.NewDense(n, k+1, nil)
	for i, row := range rows {
		x.Set(i, 0, 1)
		for j, v := range row {
			x.Set(i, j+1, v)
		}
	}
	yVec := mat.NewDense(n, 1, y)

	var qr mat.QR
	qr.Factorize(x)
	var coef mat.Dense
	if err := qr.SolveTo(&coef, false, yVec); err != nil {
		return nil, fmt.Errorf("least squares solve: %w", err)
	}

	var fitted mat.Dense
	fitted.Mul(x, &coef)
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		residuals[i] = y[i] - fitted.At(i, 0)
	}

	exposures := &Exposures{
		Alpha:       coef.At(0, 0),
		ResidualVol: utils.SampleStdDev(residuals),
		Betas:       make(map[string]float64, k),
	}
	for i, name := range names {
		exposures.Betas[name] = coef.At(i+1, 0)
	}
	return exposures, nil
}
