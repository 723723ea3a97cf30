package core

import "time"

// Series is an ordered daily price history, dates strictly increasing.
type Series []PricePoint

// Start returns the first date in the series.
func (s Series) Start() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Date
}

// End returns the last date in the series.
func (s Series) End() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}

// Dedupe removes duplicate dates, keeping the first occurrence.
// Duplicates would corrupt cumulative-share bookkeeping downstream.
func (s Series) Dedupe() Series {
	if len(s) < 2 {
		return s
	}
	out := make(Series, 0, len(s))
	seen := make(map[time.Time]struct{}, len(s))
	for _, p := range s {
		if _, dup := seen[p.Date]; dup {
			continue
		}
		seen[p.Date] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SliceFrom returns the points on or after the given date.
func (s Series) SliceFrom(start time.Time) Series {
	for i, p := range s {
		if !p.Date.Before(start) {
			return s[i:]
		}
	}
	return nil
}

// DateSet returns the set of dates present in the series.
func (s Series) DateSet() map[time.Time]struct{} {
	set := make(map[time.Time]struct{}, len(s))
	for _, p := range s {
		set[p.Date] = struct{}{}
	}
	return set
}

// Closes returns the closing prices in order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}
