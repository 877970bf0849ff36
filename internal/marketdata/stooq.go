package marketdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quanthelper/internal/logger"
)

const defaultStooqBaseURL = "https://stooq.com"

// EquityClient fetches daily equity and ETF candles from the Stooq CSV
// endpoint, covering the factor proxies (SPY-style tickers) that CoinGecko
// cannot serve. No authentication is required. Tickers without a market
// suffix are treated as US listings.
type EquityClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewEquityClient creates a Stooq client with a 30 second request timeout.
func NewEquityClient() *EquityClient {
	return &EquityClient{
		baseURL:    defaultStooqBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Component("marketdata"),
	}
}

// NewEquityClientWithBaseURL creates a client against a custom endpoint. Used
// by tests to point at a local server.
func NewEquityClientWithBaseURL(baseURL string) *EquityClient {
	c := NewEquityClient()
	c.baseURL = baseURL
	return c
}

// FetchPrices retrieves daily candles for one ticker between start and end.
// Stooq answers unknown symbols with a plain "No data" body rather than an
// error status; that surfaces as ErrNoData.
func (c *EquityClient) FetchPrices(ctx context.Context, symbol string, start, end time.Time) (*History, error) {
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	if !start.Before(end) {
		return nil, errors.New("start date must be before end date")
	}

	params := url.Values{
		"s":  {stooqSymbol(symbol)},
		"d1": {start.Format("20060102")},
		"d2": {end.Format("20060102")},
		"i":  {"d"},
	}
	endpoint := fmt.Sprintf("%s/q/d/l/?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "quanthelper/0.1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch equity prices for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch equity prices for %s: %w", symbol, statusError(resp))
	}

	candles, err := parseStooqCSV(resp.Body, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch equity prices for %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoData, symbol)
	}

	c.log.Symbol(symbol).Info("fetched equity history", "candles", len(candles))

	return &History{Symbol: symbol, Candles: candles}, nil
}

// stooqSymbol lowercases a ticker and appends the .us market suffix when none
// is present.
func stooqSymbol(symbol string) string {
	s := strings.ToLower(symbol)
	if !strings.Contains(s, ".") {
		s += ".us"
	}
	return s
}

// parseStooqCSV reads the Date,Open,High,Low,Close,Volume payload. Index
// symbols omit the volume column; malformed rows are skipped like the CSV
// loader does.
func parseStooqCSV(r io.Reader, symbol string) ([]Candle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	candles := make([]Candle, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record: %w", err)
		}
		if len(record) < 5 || record[0] == "Date" {
			continue
		}

		timestamp, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			continue
		}

		fields := make([]decimal.Decimal, 4)
		ok := true
		for i := range fields {
			fields[i], err = decimal.NewFromString(record[i+1])
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		volume := decimal.Zero
		if len(record) > 5 {
			if v, err := decimal.NewFromString(record[5]); err == nil {
				volume = v
			}
		}

		candles = append(candles, Candle{
			Symbol:    symbol,
			Timestamp: timestamp.UTC(),
			Open:      fields[0],
			High:      fields[1],
			Low:       fields[2],
			Close:     fields[3],
			Volume:    volume,
		})
	}
	return candles, nil
}
