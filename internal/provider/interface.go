// Package provider defines the external price-history collaborator.
package provider

import (
	"context"

	"github.com/whitmore/dripline/internal/core"
)

// HistoryProvider resolves a ticker and fetches its maximum available
// daily price history. Implementations normalize all dates to midnight
// UTC and deduplicate before returning. "No data" and provider errors
// both surface as TICKER_UNAVAILABLE.
type HistoryProvider interface {
	// Lookup resolves ticker metadata, including a display name.
	Lookup(ctx context.Context, ticker string) (*core.Security, error)

	// History returns the full available daily series, oldest first.
	History(ctx context.Context, ticker string) (core.Series, error)
}
