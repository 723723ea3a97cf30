package simulate

import (
	"fmt"
	"time"

	"github.com/whitmore/dripline/internal/core"
	"github.com/whitmore/dripline/internal/series"
	"go.uber.org/zap"
)

// DCA buys amount/price shares on every schedule date that has a valid
// sampled price. Dates with a missing or non-positive price are
// recorded as skips, not failures. The schedule must already be
// intersected with the available daily dates.
func DCA(sampled *series.Sampled, schedule []time.Time, amount float64, logger *zap.Logger) Outcome {
	if logger == nil {
		logger = zap.NewNop()
	}

	var out Outcome
	for _, date := range schedule {
		price, ok := sampled.CloseOn(date)
		if !ok {
			out.Ledger.Skips = append(out.Ledger.Skips, core.Skip{Date: date, Reason: "no sampled price"})
			logger.Warn("dca purchase skipped",
				zap.Time("date", date),
				zap.String("reason", "no sampled price"),
			)
			continue
		}
		if price <= 0 {
			out.Ledger.Skips = append(out.Ledger.Skips, core.Skip{Date: date, Reason: fmt.Sprintf("invalid price %.4f", price)})
			logger.Warn("dca purchase skipped",
				zap.Time("date", date),
				zap.Float64("price", price),
			)
			continue
		}

		shares := amount / price
		out.TotalShares += shares
		out.TotalInvested += amount
		out.Ledger.Purchases = append(out.Ledger.Purchases, core.Purchase{
			Date:             date,
			Price:            price,
			Shares:           shares,
			Amount:           amount,
			CumulativeShares: out.TotalShares,
			TotalInvested:    out.TotalInvested,
		})
	}

	if sampled.Len() > 0 {
		out.FinalValue = out.TotalShares * sampled.Last().Close
	}
	return out
}
