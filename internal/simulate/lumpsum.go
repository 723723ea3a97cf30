package simulate

import (
	"fmt"

	"github.com/whitmore/dripline/internal/core"
	"github.com/whitmore/dripline/internal/series"
)

// LumpSum makes a single purchase at the first sampled price, sized to
// the same total capital the DCA schedule would commit over the full
// range (amount x trading periods). This keeps the three strategies'
// capital commitment comparable even when DCA or trailing-buy skip
// dates.
func LumpSum(sampled *series.Sampled, totalInvestment float64) (Outcome, error) {
	var out Outcome
	if sampled.Len() == 0 {
		return out, core.ErrEmptySeries
	}

	first := sampled.First()
	if first.Close <= 0 {
		return out, core.WrapError(core.ErrInvalidInitialPrice,
			fmt.Errorf("first sampled price is %.4f", first.Close))
	}

	shares := totalInvestment / first.Close
	out.TotalShares = shares
	out.TotalInvested = totalInvestment
	out.Ledger.Purchases = []core.Purchase{{
		Date:             first.Date,
		Price:            first.Close,
		Shares:           shares,
		Amount:           totalInvestment,
		CumulativeShares: shares,
		TotalInvested:    totalInvestment,
	}}
	out.FinalValue = shares * sampled.Last().Close
	return out, nil
}
