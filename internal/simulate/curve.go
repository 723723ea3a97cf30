package simulate

import (
	"time"

	"github.com/whitmore/dripline/internal/core"
	"github.com/whitmore/dripline/internal/series"
)

// Curve is a per-point performance track over the normalized series:
// portfolio value and capital invested to date at each observation.
type Curve struct {
	Dates    []time.Time
	Value    []float64
	Invested []float64
}

// ValueCurve walks the sampled series and, at each point, values the
// shares from all purchases dated at or before that point. The
// invested track is capped at the comparable total commitment.
func ValueCurve(sampled *series.Sampled, purchases []core.Purchase, limit float64) Curve {
	n := sampled.Len()
	c := Curve{
		Dates:    make([]time.Time, n),
		Value:    make([]float64, n),
		Invested: make([]float64, n),
	}

	var shares, invested float64
	next := 0
	for i := 0; i < n; i++ {
		obs := sampled.At(i)
		for next < len(purchases) && !purchases[next].Date.After(obs.Date) {
			shares += purchases[next].Shares
			invested += purchases[next].Amount
			next++
		}
		c.Dates[i] = obs.Date
		c.Value[i] = shares * obs.Close
		c.Invested[i] = invested
		if c.Invested[i] > limit {
			c.Invested[i] = limit
		}
	}
	return c
}

// LumpCurve values a fixed share count at every point, with the full
// commitment invested from the start.
func LumpCurve(sampled *series.Sampled, shares, totalInvestment float64) Curve {
	n := sampled.Len()
	c := Curve{
		Dates:    make([]time.Time, n),
		Value:    make([]float64, n),
		Invested: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		obs := sampled.At(i)
		c.Dates[i] = obs.Date
		c.Value[i] = shares * obs.Close
		c.Invested[i] = totalInvestment
	}
	return c
}
