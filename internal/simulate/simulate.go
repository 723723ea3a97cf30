// Package simulate runs the three purchase strategies against a
// normalized price series: dollar-cost averaging, trailing buy-the-dip
// and lump-sum. Per-point anomalies become Skip records and never
// abort a simulation; only structural failures return errors.
package simulate

import (
	"github.com/whitmore/dripline/internal/core"
)

// Strategy names as they appear in result payloads.
const (
	NameDCA      = "Dollar-Cost Averaging (DCA)"
	NameTrailing = "Buy the Dip"
	NameLumpSum  = "Buy and Hold"
)

// Ledger is the ordered record of a strategy's purchases and the
// points it skipped, with reasons.
type Ledger struct {
	Purchases []core.Purchase
	Skips     []core.Skip
}

// Outcome is the result of one strategy simulation.
type Outcome struct {
	Ledger        Ledger
	TotalShares   float64
	TotalInvested float64
	FinalValue    float64
}
