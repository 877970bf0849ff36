package analysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quanthelper/internal/marketdata"
	"quanthelper/internal/series"
	"quanthelper/internal/testutils"
)

// Both providers must be usable as factor proxy sources: CoinGecko for crypto
// IDs, Stooq for equity and ETF tickers.
var (
	_ PriceFetcher = (*marketdata.Client)(nil)
	_ PriceFetcher = (*marketdata.EquityClient)(nil)
)

type fakeFetcher struct {
	histories map[string]*marketdata.History
	err       error
}

func (f *fakeFetcher) FetchPrices(_ context.Context, coinID string, _, _ time.Time) (*marketdata.History, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.histories[coinID], nil
}

func TestFactorReturns(t *testing.T) {
	fetcher := &fakeFetcher{histories: map[string]*marketdata.History{
		"bitcoin":  testutils.PriceHistory("bitcoin", 100, 110, 99),
		"ethereum": testutils.PriceHistory("ethereum", 50, 55, 60),
	}}
	fa := NewFactorAnalyzer(fetcher)

	factors, err := fa.FactorReturns(context.Background(),
		map[string]string{"market": "bitcoin", "tech": "ethereum"},
		testutils.Day0, testutils.Day0.AddDate(0, 0, 3))
	require.NoError(t, err)

	require.Len(t, factors, 2)
	assert.Equal(t, 2, factors["market"].Len())
	assert.InDelta(t, 0.1, factors["market"][0].Value.InexactFloat64(), 1e-12)
}

func TestFactorReturns_EquityProxies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "spy.us", r.URL.Query().Get("s"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Date,Open,High,Low,Close,Volume\n" +
			"2024-01-02,470.00,473.00,469.00,472.00,1000\n" +
			"2024-01-03,472.00,475.00,471.00,466.10,1000\n"))
	}))
	defer server.Close()

	fa := NewFactorAnalyzer(marketdata.NewEquityClientWithBaseURL(server.URL))
	factors, err := fa.FactorReturns(context.Background(),
		map[string]string{"market": "SPY"},
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Equal(t, 1, factors["market"].Len())
	assert.InDelta(t, -0.0125, factors["market"][0].Value.InexactFloat64(), 1e-9)
}

func TestFactorReturns_NoProxies(t *testing.T) {
	fa := NewFactorAnalyzer(&fakeFetcher{})
	_, err := fa.FactorReturns(context.Background(), nil, testutils.Day0, testutils.Day0.AddDate(0, 0, 1))
	assert.Error(t, err)
}

func TestFactorReturns_FetchFailure(t *testing.T) {
	wantErr := errors.New("provider down")
	fa := NewFactorAnalyzer(&fakeFetcher{err: wantErr})

	_, err := fa.FactorReturns(context.Background(),
		map[string]string{"market": "bitcoin"},
		testutils.Day0, testutils.Day0.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, wantErr)
}

func TestEstimateExposures_RecoversKnownCoefficients(t *testing.T) {
	// Target constructed exactly as alpha + 1.5*f1 - 0.5*f2: the regression
	// must recover the coefficients with near-zero residual volatility.
	f1 := []float64{0.01, -0.02, 0.015, 0.005, -0.01, 0.02}
	f2 := []float64{0.005, 0.01, -0.005, 0.02, 0, -0.015}
	alpha := 0.001

	target := make([]float64, len(f1))
	for i := range f1 {
		target[i] = alpha + 1.5*f1[i] - 0.5*f2[i]
	}

	index := testutils.DailyIndex(len(f1))
	fa := NewFactorAnalyzer(nil)
	exposures, err := fa.EstimateExposures(
		series.FromFloats(index, target),
		map[string]series.Series{
			"f1": series.FromFloats(index, f1),
			"f2": series.FromFloats(index, f2),
		})
	require.NoError(t, err)

	assert.InDelta(t, alpha, exposures.Alpha, 1e-9)
	assert.InDelta(t, 1.5, exposures.Betas["f1"], 1e-9)
	assert.InDelta(t, -0.5, exposures.Betas["f2"], 1e-9)
	assert.InDelta(t, 0, exposures.ResidualVol, 1e-9)
}

func TestEstimateExposures_NoOverlap(t *testing.T) {
	fa := NewFactorAnalyzer(nil)

	target := series.FromFloats(testutils.DailyIndex(3), []float64{0.01, 0.02, 0.03})
	offsetIndex := []time.Time{
		testutils.Day0.AddDate(1, 0, 0),
		testutils.Day0.AddDate(1, 0, 1),
		testutils.Day0.AddDate(1, 0, 2),
	}
	factors := map[string]series.Series{
		"market": series.FromFloats(offsetIndex, []float64{0.01, 0.02, 0.03}),
	}

	_, err := fa.EstimateExposures(target, factors)
	assert.ErrorIs(t, err, ErrNoOverlap)
}

func TestEstimateExposures_TooFewObservations(t *testing.T) {
	// One overlapping point against one factor cannot identify two
	// coefficients.
	fa := NewFactorAnalyzer(nil)
	index := testutils.DailyIndex(1)

	_, err := fa.EstimateExposures(
		series.FromFloats(index, []float64{0.01}),
		map[string]series.Series{"market": series.FromFloats(index, []float64{0.02})})
	assert.ErrorIs(t, err, ErrNoOverlap)
}
