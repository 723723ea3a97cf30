package simulate

import (
	"fmt"

	"github.com/whitmore/dripline/internal/core"
	"github.com/whitmore/dripline/internal/series"
	"go.uber.org/zap"
)

// TrailingBuy purchases amount/price shares whenever price has
// declined by at least trailingPct percent from the highest price seen
// since the last purchase. After a purchase the peak resets to the
// purchase price, so a new decline must accumulate before the next
// buy. Non-positive prices are skipped entirely: no purchase, no peak
// update.
func TrailingBuy(sampled *series.Sampled, amount, trailingPct float64, logger *zap.Logger) (Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var out Outcome
	if sampled.Len() == 0 {
		return out, core.ErrEmptySeries
	}

	highest := sampled.First().Close
	if highest <= 0 {
		return out, core.WrapError(core.ErrInvalidInitialPrice,
			fmt.Errorf("first sampled price is %.4f", highest))
	}

	for i := 0; i < sampled.Len(); i++ {
		obs := sampled.At(i)
		if obs.Close <= 0 {
			out.Ledger.Skips = append(out.Ledger.Skips, core.Skip{Date: obs.Date, Reason: fmt.Sprintf("invalid price %.4f", obs.Close)})
			logger.Warn("trailing point skipped",
				zap.Time("date", obs.Date),
				zap.Float64("price", obs.Close),
			)
			continue
		}

		decline := (highest - obs.Close) / highest * 100
		if decline >= trailingPct {
			shares := amount / obs.Close
			out.TotalShares += shares
			out.TotalInvested += amount
			out.Ledger.Purchases = append(out.Ledger.Purchases, core.Purchase{
				Date:             obs.Date,
				Price:            obs.Close,
				Shares:           shares,
				Amount:           amount,
				DeclinePct:       decline,
				CumulativeShares: out.TotalShares,
				TotalInvested:    out.TotalInvested,
			})
			// Peak resets to the purchase price so the next buy needs
			// a fresh decline from this lower level.
			highest = obs.Close
		}

		if obs.Close > highest {
			highest = obs.Close
		}
	}

	out.FinalValue = out.TotalShares * sampled.Last().Close
	return out, nil
}
