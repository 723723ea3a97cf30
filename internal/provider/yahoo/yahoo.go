// Package yahoo fetches daily price history from the Yahoo Finance
// chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"time"

	"github.com/whitmore/dripline/internal/core"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validTicker matches symbols like AAPL, BRK.B, 0700.HK.
var validTicker = regexp.MustCompile(`^[A-Za-z0-9]{1,10}([.-][A-Za-z]{1,4})?$`)

func validateTicker(ticker string) error {
	if ticker == "" {
		return fmt.Errorf("ticker cannot be empty")
	}
	if len(ticker) > 10 {
		return fmt.Errorf("ticker too long: %s", ticker)
	}
	if !validTicker.MatchString(ticker) {
		return fmt.Errorf("invalid ticker format: %s", ticker)
	}
	return nil
}

// Yahoo implements provider.HistoryProvider against the chart API.
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// New creates a Yahoo provider with a default HTTP timeout.
func New() *Yahoo {
	return &Yahoo{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
	}
}

// NewWithTimeout creates a Yahoo provider with a custom HTTP timeout.
func NewWithTimeout(timeout time.Duration) *Yahoo {
	return &Yahoo{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultBaseURL,
	}
}

// NewWithBaseURL creates a Yahoo provider against a custom endpoint.
// Used by tests and proxies.
func NewWithBaseURL(baseURL string, client *http.Client) *Yahoo {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Yahoo{client: client, baseURL: baseURL}
}

// Lookup resolves the ticker's display name from chart metadata.
func (y *Yahoo) Lookup(ctx context.Context, ticker string) (*core.Security, error) {
	if err := validateTicker(ticker); err != nil {
		return nil, core.WrapError(core.ErrTickerUnavailable, err)
	}

	result, err := y.fetchChart(ctx, ticker, "1d", "1mo")
	if err != nil {
		return nil, err
	}

	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}
	if name == "" {
		name = ticker
	}
	return &core.Security{Ticker: ticker, Name: name}, nil
}

// History fetches the maximum available daily history, oldest first,
// dates truncated to midnight UTC, duplicates removed.
func (y *Yahoo) History(ctx context.Context, ticker string) (core.Series, error) {
	if err := validateTicker(ticker); err != nil {
		return nil, core.WrapError(core.ErrTickerUnavailable, err)
	}

	result, err := y.fetchChart(ctx, ticker, "1d", "max")
	if err != nil {
		return nil, err
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, core.WrapError(core.ErrTickerUnavailable,
			fmt.Errorf("no quote data for %s", ticker))
	}
	quotes := result.Indicators.Quote[0]

	s := make(core.Series, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quotes.Close) || quotes.Close[i] == nil {
			continue // missing bar
		}
		p := core.PricePoint{
			Date:  core.Day(time.Unix(ts, 0)),
			Close: *quotes.Close[i],
		}
		if i < len(quotes.Open) && quotes.Open[i] != nil {
			p.Open = *quotes.Open[i]
		}
		s = append(s, p)
	}

	sort.Slice(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
	s = s.Dedupe()

	if len(s) == 0 {
		return nil, core.WrapError(core.ErrTickerUnavailable,
			fmt.Errorf("no usable history for %s", ticker))
	}
	return s, nil
}

func (y *Yahoo) fetchChart(ctx context.Context, ticker, interval, rng string) (*chartResult, error) {
	url := fmt.Sprintf("%s/%s?interval=%s&range=%s", y.baseURL, ticker, interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, core.WrapError(core.ErrTickerUnavailable,
			fmt.Errorf("symbol not found: %s", ticker))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrProviderFailed,
			fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	if body.Chart.Error != nil {
		return nil, core.WrapError(core.ErrTickerUnavailable,
			fmt.Errorf("yahoo error: %s", body.Chart.Error.Description))
	}
	if len(body.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrTickerUnavailable,
			fmt.Errorf("no data for symbol: %s", ticker))
	}
	return &body.Chart.Result[0], nil
}

// Yahoo chart API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type chartMeta struct {
	Symbol    string `json:"symbol"`
	LongName  string `json:"longName"`
	ShortName string `json:"shortName"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open  []*float64 `json:"open"`
	Close []*float64 `json:"close"`
}
