// Package assemble merges the simulation outputs into the response
// payload. Monetary figures are rounded to two decimals here, at the
// boundary; everything upstream computes at full precision.
package assemble

import (
	"math"
	"time"

	"github.com/whitmore/dripline/internal/core"
	"github.com/whitmore/dripline/internal/rolling"
	"github.com/whitmore/dripline/internal/simulate"
)

const dateLayout = "2006-01-02"

// Lifetime describes the span of the full available history.
type Lifetime struct {
	Years     int    `json:"years"`
	Months    int    `json:"months"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Summary holds the headline comparison of the three strategies.
type Summary struct {
	Lifetime               Lifetime        `json:"lifetime"`
	DCAValue               float64         `json:"dca_value"`
	TrailingValue          float64         `json:"trailing_value"`
	LumpValue              float64         `json:"lump_value"`
	DCAVsTrailing          float64         `json:"dca_vs_trailing"`
	DCAPctIncrease         float64         `json:"dca_percentage_increase"`
	TrailingPctIncrease    float64         `json:"trailing_percentage_increase"`
	LumpPctIncrease        float64         `json:"lump_percentage_increase"`
	DCADollarIncrease      float64         `json:"dca_dollar_increase"`
	TrailingDollarIncrease float64         `json:"trailing_dollar_increase"`
	LumpDollarIncrease     float64         `json:"lump_dollar_increase"`
	InitialPrice           float64         `json:"initial_price"`
	TotalInvestment        float64         `json:"total_investment"`
	RollingReturns         rolling.Returns `json:"rolling_returns"`
}

// Performance holds the parallel day-by-day curves.
type Performance struct {
	Dates            []string  `json:"dates"`
	DCA              []float64 `json:"dca"`
	Trailing         []float64 `json:"trailing"`
	Lump             []float64 `json:"lump"`
	DCAInvested      []float64 `json:"dca_invested"`
	TrailingInvested []float64 `json:"trailing_invested"`
	LumpInvested     []float64 `json:"lump_invested"`
}

// PurchaseRecord is one ledger entry in the response.
type PurchaseRecord struct {
	Date             string  `json:"date"`
	Price            float64 `json:"price"`
	Shares           float64 `json:"shares"`
	Amount           float64 `json:"amount"`
	DeclinePct       float64 `json:"decline_percentage,omitempty"`
	CumulativeShares float64 `json:"cumulative_shares"`
	TotalInvested    float64 `json:"total_invested"`
}

// SkipRecord is one skipped point in the response.
type SkipRecord struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// Transactions holds the full purchase ledgers.
type Transactions struct {
	DCA             []PurchaseRecord `json:"dca"`
	Trailing        []PurchaseRecord `json:"trailing"`
	DCASkipped      []SkipRecord     `json:"dca_skipped,omitempty"`
	TrailingSkipped []SkipRecord     `json:"trailing_skipped,omitempty"`
}

// DailyPrice is one raw open/close pair for the requested timeline.
type DailyPrice struct {
	Open  float64 `json:"open"`
	Close float64 `json:"close"`
}

// StockInfo identifies the analyzed security. Attached by the caller,
// not the core.
type StockInfo struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// Result is the full analysis payload.
type Result struct {
	Summary      Summary               `json:"summary"`
	Performance  Performance           `json:"performance"`
	Transactions Transactions          `json:"transactions"`
	DailyPrices  map[string]DailyPrice `json:"daily_prices"`
	StockInfo    *StockInfo            `json:"stock_info,omitempty"`
	Insight      string                `json:"insight,omitempty"`
}

// Input carries everything the assembler merges.
type Input struct {
	FullStart       time.Time
	FullEnd         time.Time
	Daily           core.Series // timeline-filtered raw daily series
	DCA             simulate.Outcome
	Trailing        simulate.Outcome
	Lump            simulate.Outcome
	DCACurve        simulate.Curve
	TrailingCurve   simulate.Curve
	LumpCurve       simulate.Curve
	InitialPrice    float64
	TotalInvestment float64
	RollingReturns  rolling.Returns
}

// Build assembles the response payload from the simulation outputs.
func Build(in Input) *Result {
	totalYears := in.FullEnd.Sub(in.FullStart).Hours() / 24 / 365.25
	years := int(totalYears)
	months := int((totalYears - float64(years)) * 12)

	summary := Summary{
		Lifetime: Lifetime{
			Years:     years,
			Months:    months,
			StartDate: in.FullStart.Format(dateLayout),
			EndDate:   in.FullEnd.Format(dateLayout),
		},
		DCAValue:               round2(in.DCA.FinalValue),
		TrailingValue:          round2(in.Trailing.FinalValue),
		LumpValue:              round2(in.Lump.FinalValue),
		DCAVsTrailing:          round2(pctDiff(in.Trailing.FinalValue, in.DCA.FinalValue)),
		DCAPctIncrease:         round2(pctGain(in.DCA.FinalValue, in.DCA.TotalInvested)),
		TrailingPctIncrease:    round2(pctGain(in.Trailing.FinalValue, in.Trailing.TotalInvested)),
		LumpPctIncrease:        round2(pctGain(in.Lump.FinalValue, in.Lump.TotalInvested)),
		DCADollarIncrease:      round2(in.DCA.FinalValue - in.DCA.TotalInvested),
		TrailingDollarIncrease: round2(in.Trailing.FinalValue - in.Trailing.TotalInvested),
		LumpDollarIncrease:     round2(in.Lump.FinalValue - in.Lump.TotalInvested),
		InitialPrice:           in.InitialPrice,
		TotalInvestment:        round2(in.TotalInvestment),
		RollingReturns:         in.RollingReturns,
	}

	perf := Performance{
		Dates:            formatDates(in.DCACurve.Dates),
		DCA:              in.DCACurve.Value,
		Trailing:         in.TrailingCurve.Value,
		Lump:             in.LumpCurve.Value,
		DCAInvested:      in.DCACurve.Invested,
		TrailingInvested: in.TrailingCurve.Invested,
		LumpInvested:     in.LumpCurve.Invested,
	}

	daily := make(map[string]DailyPrice, len(in.Daily))
	for _, p := range in.Daily {
		daily[p.Date.Format(dateLayout)] = DailyPrice{Open: p.Open, Close: p.Close}
	}

	return &Result{
		Summary:     summary,
		Performance: perf,
		Transactions: Transactions{
			DCA:             purchaseRecords(in.DCA.Ledger.Purchases),
			Trailing:        purchaseRecords(in.Trailing.Ledger.Purchases),
			DCASkipped:      skipRecords(in.DCA.Ledger.Skips),
			TrailingSkipped: skipRecords(in.Trailing.Ledger.Skips),
		},
		DailyPrices: daily,
	}
}

func purchaseRecords(purchases []core.Purchase) []PurchaseRecord {
	out := make([]PurchaseRecord, len(purchases))
	for i, p := range purchases {
		out[i] = PurchaseRecord{
			Date:             p.Date.Format(dateLayout),
			Price:            p.Price,
			Shares:           p.Shares,
			Amount:           p.Amount,
			DeclinePct:       p.DeclinePct,
			CumulativeShares: p.CumulativeShares,
			TotalInvested:    p.TotalInvested,
		}
	}
	return out
}

func skipRecords(skips []core.Skip) []SkipRecord {
	if len(skips) == 0 {
		return nil
	}
	out := make([]SkipRecord, len(skips))
	for i, s := range skips {
		out[i] = SkipRecord{Date: s.Date.Format(dateLayout), Reason: s.Reason}
	}
	return out
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return out
}

// pctGain is the percentage return on invested capital; zero when
// nothing was invested.
func pctGain(value, invested float64) float64 {
	if invested <= 0 {
		return 0
	}
	return (value - invested) / invested * 100
}

// pctDiff compares trailing against DCA final value.
func pctDiff(trailing, dca float64) float64 {
	if dca <= 0 {
		return 0
	}
	return (trailing - dca) / dca * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
