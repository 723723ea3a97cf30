// internal/analyze/analyzer_test.go
package analyze

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whitmore/dripline/internal/core"
)

// fakeProvider serves a canned history from memory.
type fakeProvider struct {
	history core.Series
	err     error
}

func (f *fakeProvider) Lookup(ctx context.Context, ticker string) (*core.Security, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &core.Security{Ticker: ticker, Name: "Test Corp"}, nil
}

func (f *fakeProvider) History(ctx context.Context, ticker string) (core.Series, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

// businessDays generates n consecutive business days of linearly
// changing prices ending today.
func businessDays(n int, lo, hi float64) core.Series {
	var days []time.Time
	d := core.Day(time.Now())
	for len(days) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	// days run newest-first; emit the series oldest-first, rising.
	out := make(core.Series, n)
	for i := range days {
		c := hi - (hi-lo)*float64(i)/float64(n-1)
		out[n-1-i] = core.PricePoint{Date: days[i], Open: c, Close: c}
	}
	return out
}

func validRequest() Request {
	return Request{
		Ticker:         "TEST",
		Amount:         100,
		Frequency:      "Monthly",
		TimelineMonths: 12,
		TrailingPct:    10,
	}
}

func TestRun_FullPipeline(t *testing.T) {
	// Three years of daily data, analyzed over the last 12 months.
	a := New(&fakeProvider{history: businessDays(780, 100, 200)}, nil)

	result, err := a.Run(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, result)

	// Monthly cadence over a year yields roughly 12 purchases.
	ndca := len(result.Transactions.DCA)
	assert.GreaterOrEqual(t, ndca, 10)
	assert.LessOrEqual(t, ndca, 13)

	assert.Greater(t, result.Summary.TotalInvestment, 0.0)
	assert.Greater(t, result.Summary.LumpValue, 0.0)
	assert.NotEmpty(t, result.Performance.Dates)
	assert.NotEmpty(t, result.DailyPrices)
	assert.Contains(t, result.Summary.RollingReturns, "All-Time")

	// The analysis core never attaches stock identity.
	assert.Nil(t, result.StockInfo)
}

func TestRun_ValidationFailures(t *testing.T) {
	a := New(&fakeProvider{history: businessDays(300, 100, 200)}, nil)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing ticker", func(r *Request) { r.Ticker = "" }},
		{"long ticker", func(r *Request) { r.Ticker = "TOOLONGTICKER" }},
		{"zero amount", func(r *Request) { r.Amount = 0 }},
		{"negative amount", func(r *Request) { r.Amount = -5 }},
		{"bad frequency", func(r *Request) { r.Frequency = "Fortnightly" }},
		{"zero timeline", func(r *Request) { r.TimelineMonths = 0 }},
		{"trailing too high", func(r *Request) { r.TrailingPct = 100 }},
		{"trailing zero", func(r *Request) { r.TrailingPct = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := a.Run(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrValidation), "got %v", err)
		})
	}
}

func TestRun_ProviderErrorPassesThrough(t *testing.T) {
	a := New(&fakeProvider{err: core.WrapError(core.ErrTickerUnavailable, errors.New("404"))}, nil)
	_, err := a.Run(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTickerUnavailable))
}

func TestRun_EmptyHistory(t *testing.T) {
	a := New(&fakeProvider{history: core.Series{}}, nil)
	_, err := a.Run(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTickerUnavailable))
}

func TestRun_ShortHistoryStillAnalyzes(t *testing.T) {
	// The timeline window trails the last available date, so a
	// 30-day history analyzed over 12 months simply uses what exists.
	a := New(&fakeProvider{history: businessDays(30, 100, 110)}, nil)
	result, err := a.Run(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Transactions.DCA)
	assert.Contains(t, result.Summary.RollingReturns, "All-Time")
}

func TestRun_InvalidInitialPrice(t *testing.T) {
	h := businessDays(300, 100, 200)
	for i := range h {
		h[i].Close = 0
		h[i].Open = 0
	}
	a := New(&fakeProvider{history: h}, nil)
	_, err := a.Run(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInitialPrice), "got %v", err)
}

func TestRun_LumpSizedToSchedule(t *testing.T) {
	a := New(&fakeProvider{history: businessDays(780, 100, 200)}, nil)
	req := validRequest()
	req.Frequency = "Weekly"

	result, err := a.Run(context.Background(), req)
	require.NoError(t, err)

	// ~52 weekly periods at $100 each.
	assert.InDelta(t, 52*100, result.Summary.TotalInvestment, 300)
}

func TestLookup(t *testing.T) {
	a := New(&fakeProvider{}, nil)
	sec, err := a.Lookup(context.Background(), "TEST")
	require.NoError(t, err)
	assert.Equal(t, "Test Corp", sec.Name)
}
