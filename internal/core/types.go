package core

import (
	"fmt"
	"time"
)

// Frequency is the cadence at which a periodic purchase occurs.
type Frequency string

const (
	FreqDaily    Frequency = "Daily"
	FreqWeekly   Frequency = "Weekly"
	FreqBiWeekly Frequency = "Bi-Weekly"
	FreqMonthly  Frequency = "Monthly"
	FreqAnnual   Frequency = "Annual"
)

// Frequencies lists every supported frequency.
var Frequencies = []Frequency{FreqDaily, FreqWeekly, FreqBiWeekly, FreqMonthly, FreqAnnual}

// ParseFrequency converts a request string into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	for _, known := range Frequencies {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown frequency: %q", s)
}

// Security holds provider metadata for a resolved ticker.
type Security struct {
	Ticker string
	Name   string
}

// PricePoint is one trading day of a security's price history.
// Date is truncated to midnight UTC at ingestion.
type PricePoint struct {
	Date  time.Time
	Open  float64
	Close float64
}

// Purchase is one executed buy, immutable once recorded.
type Purchase struct {
	Date             time.Time
	Price            float64
	Shares           float64
	Amount           float64
	DeclinePct       float64 // only set for trailing-buy purchases
	CumulativeShares float64
	TotalInvested    float64
}

// Skip records a point that was passed over during simulation,
// with the reason it produced no purchase.
type Skip struct {
	Date   time.Time
	Reason string
}

// Day truncates t to midnight UTC. All series dates pass through this
// once, at ingestion, so downstream code can compare dates directly.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
