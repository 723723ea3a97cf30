// Package analyze runs the full strategy comparison pipeline for one
// request: fetch history, filter the timeline, resolve the purchase
// calendar, normalize, simulate the three strategies, compute rolling
// returns and assemble the payload. Every intermediate value is local
// to one invocation; nothing is shared across requests.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/whitmore/dripline/internal/assemble"
	"github.com/whitmore/dripline/internal/calendar"
	"github.com/whitmore/dripline/internal/core"
	"github.com/whitmore/dripline/internal/insight"
	"github.com/whitmore/dripline/internal/metrics"
	"github.com/whitmore/dripline/internal/provider"
	"github.com/whitmore/dripline/internal/rolling"
	"github.com/whitmore/dripline/internal/series"
	"github.com/whitmore/dripline/internal/simulate"
	"go.uber.org/zap"
)

// Request is one analysis request, transport-independent.
type Request struct {
	Ticker         string  `json:"ticker" validate:"required,max=10"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Frequency      string  `json:"frequency" validate:"required,oneof=Daily Weekly Bi-Weekly Monthly Annual"`
	TimelineMonths int     `json:"timeline" validate:"required,gte=1"`
	TrailingPct    float64 `json:"trailingPercentage" validate:"required,gt=0,lt=100"`
	IncludeInsight bool    `json:"include_insight,omitempty"`
}

// Analyzer runs strategy comparisons against a history provider.
type Analyzer struct {
	provider provider.HistoryProvider
	logger   *zap.Logger
	validate *validator.Validate
	metrics  *metrics.Registry
	insight  *insight.Generator
}

// New creates an Analyzer.
func New(p provider.HistoryProvider, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		provider: p,
		logger:   logger,
		validate: validator.New(),
	}
}

// SetMetrics attaches a metrics registry.
func (a *Analyzer) SetMetrics(reg *metrics.Registry) {
	a.metrics = reg
}

// SetInsight attaches an optional narrative insight generator.
func (a *Analyzer) SetInsight(gen *insight.Generator) {
	a.insight = gen
}

// Lookup resolves ticker metadata via the underlying provider.
func (a *Analyzer) Lookup(ctx context.Context, ticker string) (*core.Security, error) {
	return a.provider.Lookup(ctx, ticker)
}

// Run executes one full analysis. Structural failures abort with a
// core.Error; per-point anomalies are recorded in the ledgers and the
// analysis continues.
func (a *Analyzer) Run(ctx context.Context, req Request) (*assemble.Result, error) {
	start := time.Now()
	res, err := a.run(ctx, req)
	if a.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		a.metrics.RecordAnalysis(status, time.Since(start).Seconds())
	}
	return res, err
}

func (a *Analyzer) run(ctx context.Context, req Request) (*assemble.Result, error) {
	if err := a.validate.Struct(req); err != nil {
		return nil, core.WrapError(core.ErrValidation, err)
	}
	freq, err := core.ParseFrequency(req.Frequency)
	if err != nil {
		return nil, core.WrapError(core.ErrValidation, err)
	}

	full, err := a.provider.History(ctx, req.Ticker)
	if a.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		a.metrics.RecordProviderFetch("yahoo", status)
	}
	if err != nil {
		return nil, err
	}
	if len(full) == 0 {
		return nil, core.WrapError(core.ErrTickerUnavailable,
			fmt.Errorf("empty history for %s", req.Ticker))
	}

	// The display timeline trails the last available date; rolling
	// returns always use the full history regardless.
	timelineStart := core.Day(full.End().AddDate(0, -req.TimelineMonths, 0))
	filtered := full.SliceFrom(timelineStart)
	if len(filtered) == 0 {
		return nil, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("no data in the last %d months", req.TimelineMonths))
	}

	sampled, err := series.Normalize(filtered, freq)
	if err != nil {
		if errors.Is(err, core.ErrEmptySeries) {
			return nil, core.WrapError(core.ErrInsufficientData, err)
		}
		return nil, core.WrapError(core.ErrResampleFailed, err)
	}

	initial := sampled.First().Close
	final := sampled.Last().Close
	if initial <= 0 {
		return nil, core.WrapError(core.ErrInvalidInitialPrice,
			fmt.Errorf("initial sampled price %.4f", initial))
	}
	if final <= 0 {
		return nil, core.WrapError(core.ErrInvalidFinalPrice,
			fmt.Errorf("final sampled price %.4f", final))
	}

	periods := calendar.Periods(filtered.Start(), filtered.End(), freq)
	if periods == 0 {
		return nil, core.ErrNoTradingPeriods
	}
	totalInvestment := req.Amount * float64(periods)

	schedule := calendar.Intersect(
		calendar.Resolve(filtered.Start(), filtered.End(), freq),
		filtered.DateSet(),
	)

	dca := simulate.DCA(sampled, schedule, req.Amount, a.logger)
	trailing, err := simulate.TrailingBuy(sampled, req.Amount, req.TrailingPct, a.logger)
	if err != nil {
		return nil, err
	}
	lump, err := simulate.LumpSum(sampled, totalInvestment)
	if err != nil {
		return nil, err
	}
	a.recordOutcomes(dca, trailing)

	result := assemble.Build(assemble.Input{
		FullStart:       full.Start(),
		FullEnd:         full.End(),
		Daily:           filtered,
		DCA:             dca,
		Trailing:        trailing,
		Lump:            lump,
		DCACurve:        simulate.ValueCurve(sampled, dca.Ledger.Purchases, totalInvestment),
		TrailingCurve:   simulate.ValueCurve(sampled, trailing.Ledger.Purchases, totalInvestment),
		LumpCurve:       simulate.LumpCurve(sampled, lump.TotalShares, totalInvestment),
		InitialPrice:    filtered[0].Close,
		TotalInvestment: totalInvestment,
		RollingReturns:  rolling.Analyze(full, req.Amount, freq, req.TrailingPct, a.logger),
	})

	if req.IncludeInsight && a.insight != nil {
		text, ierr := a.insight.Generate(ctx, req.Ticker, result.Summary)
		if ierr != nil {
			a.logger.Warn("insight generation failed",
				zap.String("ticker", req.Ticker),
				zap.Error(ierr),
			)
		} else {
			result.Insight = text
		}
		if a.metrics != nil {
			status := "ok"
			if ierr != nil {
				status = "error"
			}
			a.metrics.RecordInsight(status)
		}
	}

	a.logger.Info("analysis complete",
		zap.String("ticker", req.Ticker),
		zap.String("frequency", string(freq)),
		zap.Int("trading_periods", periods),
		zap.Int("dca_purchases", len(dca.Ledger.Purchases)),
		zap.Int("trailing_purchases", len(trailing.Ledger.Purchases)),
	)
	return result, nil
}

func (a *Analyzer) recordOutcomes(dca, trailing simulate.Outcome) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordPurchases(simulate.NameDCA, len(dca.Ledger.Purchases))
	a.metrics.RecordPurchases(simulate.NameTrailing, len(trailing.Ledger.Purchases))
	a.metrics.RecordSkips(simulate.NameDCA, len(dca.Ledger.Skips))
	a.metrics.RecordSkips(simulate.NameTrailing, len(trailing.Ledger.Skips))
}
