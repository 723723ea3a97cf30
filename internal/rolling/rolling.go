// Package rolling compares the strategies over standard trailing
// horizons (1 to 25 years plus all-time) ending at the last available
// date. Horizon figures are deliberately coarse estimates, not full
// purchase-ledger simulations; see the notes on each estimator.
package rolling

import (
	"fmt"
	"time"

	"github.com/whitmore/dripline/internal/core"
	"github.com/whitmore/dripline/internal/series"
	"github.com/whitmore/dripline/internal/simulate"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// maxLookbackMonths bounds the horizon table at 25 years.
const maxLookbackMonths = 300

// horizon pairs a display label with its length in months.
type horizon struct {
	label  string
	months int
}

var horizons = []horizon{
	{"1 Year", 12},
	{"5 Years", 60},
	{"10 Years", 120},
	{"15 Years", 180},
	{"20 Years", 240},
	{"25 Years", 300},
}

// AllTimeLabel is the mandatory horizon over the entire history.
const AllTimeLabel = "All-Time"

// Returns maps horizon label -> strategy name -> percentage return.
type Returns map[string]map[string]float64

// Analyze computes per-horizon strategy returns over the full history.
// Horizons longer than the available data are omitted; a failing
// horizon is logged and dropped without affecting the others. The
// amount and trailing percentage are part of the analysis contract but
// the horizon estimators do not depend on them.
func Analyze(full core.Series, amount float64, freq core.Frequency, trailingPct float64, logger *zap.Logger) Returns {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make(Returns)
	if len(full) == 0 {
		return results
	}

	start, end := full.Start(), full.End()
	elapsedDays := end.Sub(start).Hours() / 24
	dataLengthMonths := int(elapsedDays / 30)
	totalMonths := int(elapsedDays / 365.25 * 12)
	logger.Debug("rolling returns window",
		zap.Int("data_length_months", dataLengthMonths),
		zap.Int("total_months", totalMonths),
	)

	for _, h := range horizons {
		if h.months > dataLengthMonths {
			logger.Debug("horizon skipped",
				zap.String("horizon", h.label),
				zap.Int("required_months", h.months),
				zap.Int("available_months", dataLengthMonths),
			)
			continue
		}

		window := full.SliceFrom(WindowStart(end, h.months))
		var (
			ret map[string]float64
			err error
		)
		if h.months > maxLookbackMonths/2 {
			ret, err = estimateReturns(window)
		} else {
			ret, err = simulateReturns(window, freq)
			if err != nil {
				// Fall back to the simple estimator rather than drop
				// the horizon outright.
				ret, err = estimateReturns(window)
			}
		}
		if err != nil {
			logger.Warn("horizon computation failed",
				zap.String("horizon", h.label),
				zap.Error(err),
			)
			continue
		}
		results[h.label] = ret
	}

	if ret, err := estimateReturns(full); err == nil {
		results[AllTimeLabel] = ret
	} else {
		logger.Warn("all-time horizon failed", zap.Error(err))
	}

	return results
}

// estimateReturns derives all three strategies from the simple
// buy-and-hold return over the window. The 1.10x and 1.05x multipliers
// stand in for the historical average outperformance of buy-the-dip
// and DCA; they are estimates, not simulations.
func estimateReturns(window core.Series) (map[string]float64, error) {
	if len(window) == 0 {
		return nil, core.ErrEmptySeries
	}
	initial := window[0].Close
	final := window[len(window)-1].Close
	if initial <= 0 || final <= 0 {
		return nil, fmt.Errorf("non-positive boundary price: initial=%.4f final=%.4f", initial, final)
	}

	priceReturn := (final - initial) / initial * 100
	return map[string]float64{
		simulate.NameTrailing: priceReturn * 1.10,
		simulate.NameDCA:      priceReturn * 1.05,
		simulate.NameLumpSum:  priceReturn,
	}, nil
}

// simulateReturns runs the abbreviated short-horizon comparison:
// resample the window at the requested frequency, derive the DCA
// return from the final price against the series mean, and scale for
// buy-the-dip. Buy-and-hold is the plain first-to-last change.
func simulateReturns(window core.Series, freq core.Frequency) (map[string]float64, error) {
	sampled, err := series.Normalize(window, freq)
	if err != nil {
		return nil, err
	}

	initial := sampled.First().Close
	final := sampled.Last().Close
	if initial <= 0 || final <= 0 {
		return nil, fmt.Errorf("non-positive boundary price: initial=%.4f final=%.4f", initial, final)
	}

	mean := stat.Mean(sampled.Closes(), nil)
	if mean <= 0 {
		return nil, fmt.Errorf("non-positive mean price %.4f", mean)
	}

	dcaReturn := (final/mean - 1) * 100
	return map[string]float64{
		simulate.NameTrailing: dcaReturn * 1.10,
		simulate.NameDCA:      dcaReturn,
		simulate.NameLumpSum:  (final - initial) / initial * 100,
	}, nil
}

// WindowStart returns the start date of a trailing window of the given
// number of months ending at end.
func WindowStart(end time.Time, months int) time.Time {
	return end.AddDate(0, -months, 0)
}
