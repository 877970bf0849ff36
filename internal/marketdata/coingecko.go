package marketdata

import (
	"context"
	"encoding/json"
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

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// ErrNoData indicates the provider returned an empty payload for the request.
var ErrNoData = errors.New("no price data returned")

// Client fetches cryptocurrency market data from the CoinGecko API. No
// authentication is required. Provider failures surface directly to the
// caller; the client never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a CoinGecko client with a 30 second request timeout.
func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Component("marketdata"),
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint. Used by
// tests to point at a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// Coin identifies a listed cryptocurrency.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type marketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// FetchPrices retrieves historical prices for one coin between start and end.
// CoinGecko's range endpoint delivers close prices only, so open/high/low are
// mirrored from close; that is acceptable for daily-granularity strategies.
func (c *Client) FetchPrices(ctx context.Context, coinID string, start, end time.Time) (*History, error) {
	if coinID == "" {
		return nil, errors.New("coin id is required")
	}
	if !start.Before(end) {
		return nil, errors.New("start date must be before end date")
	}

	params := url.Values{
		"vs_currency": {"usd"},
		"from":        {fmt.Sprintf("%d", start.Unix())},
		"to":          {fmt.Sprintf("%d", end.Unix())},
	}
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart/range?%s", c.baseURL, url.PathEscape(coinID), params.Encode())

	var chart marketChartResponse
	if err := c.getJSON(ctx, endpoint, &chart); err != nil {
		return nil, fmt.Errorf("fetch prices for %s: %w", coinID, err)
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoData, coinID)
	}

	volumes := make(map[int64]decimal.Decimal, len(chart.TotalVolumes))
	for _, v := range chart.TotalVolumes {
		volumes[int64(v[0])] = decimal.NewFromFloat(v[1])
	}

	candles := make([]Candle, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		ms := int64(p[0])
		close := decimal.NewFromFloat(p[1])
		candles = append(candles, Candle{
			Symbol:    coinID,
			Timestamp: time.UnixMilli(ms).UTC(),
			Open:      close,
			High:      close,
			Low:       close,
			Close:     close,
			Volume:    volumes[ms],
		})
	}

	c.log.WithField("coin", coinID).Info("fetched price history", "candles", len(candles))

	return &History{Symbol: coinID, Candles: candles}, nil
}

// FetchMultiple retrieves histories for several coins, keyed by coin ID.
// Coins whose fetch fails are skipped with a warning; an error is returned
// only when every fetch failed.
func (c *Client) FetchMultiple(ctx context.Context, coinIDs []string, start, end time.Time) (map[string]*History, error) {
	out := make(map[string]*History, len(coinIDs))
	var lastErr error
	for _, id := range coinIDs {
		history, err := c.FetchPrices(ctx, id, start, end)
		if err != nil {
			c.log.WithError(err).Warn("skipping coin", "coin", id)
			lastErr = err
			continue
		}
		out[id] = history
	}
	if len(out) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all %d fetches failed, last: %w", len(coinIDs), lastErr)
	}
	return out, nil
}

// ListPopularCoins returns the top coins by market capitalization.
func (c *Client) ListPopularCoins(ctx context.Context) ([]Coin, error) {
	params := url.Values{
		"vs_currency": {"usd"},
		"order":       {"market_cap_desc"},
		"per_page":    {"20"},
		"page":        {"1"},
		"sparkline":   {"false"},
	}
	endpoint := fmt.Sprintf("%s/coins/markets?%s", c.baseURL, params.Encode())

	var coins []Coin
	if err := c.getJSON(ctx, endpoint, &coins); err != nil {
		return nil, fmt.Errorf("list coins: %w", err)
	}
	return coins, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "quanthelper/0.1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// statusError formats a non-200 response, keeping a snippet of the body so
// the provider's stated reason (rate limits, unknown instruments) reaches the
// caller.
func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
}
