// Package series resamples a raw daily price history into one
// observation per calendar bucket for a given purchase frequency.
package series

import (
	"math"
	"time"

	"github.com/whitmore/dripline/internal/calendar"
	"github.com/whitmore/dripline/internal/core"
)

// chunkSize bounds the number of points fed into the bucket
// accumulator per pass. Chunking caps peak working-set size on very
// long histories; results are identical to a single pass.
const chunkSize = 1000

// Normalize resamples the daily series at the frequency's calendar
// buckets, taking the last close per bucket, then forward-fills and
// back-fills missing buckets. Duplicate dates keep the first
// occurrence. Returns EMPTY_SERIES when nothing survives resampling.
func Normalize(s core.Series, freq core.Frequency) (*Sampled, error) {
	s = s.Dedupe()
	if len(s) == 0 {
		return nil, core.ErrEmptySeries
	}

	acc := newAccumulator(freq, s[0].Date)
	for i := 0; i < len(s); i += chunkSize {
		end := i + chunkSize
		if end > len(s) {
			end = len(s)
		}
		acc.add(s[i:end])
	}

	obs := acc.observations()
	fillForward(obs)
	fillBackward(obs)

	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if math.IsNaN(o.Close) {
			continue
		}
		out = append(out, o)
	}
	if len(out) == 0 {
		return nil, core.ErrEmptySeries
	}
	return NewSampled(out), nil
}

// accumulator groups points into calendar buckets, keeping the last
// close seen per bucket.
type accumulator struct {
	freq   core.Frequency
	anchor time.Time // bi-weekly bucket anchor: first point's week-end Friday
	last   map[time.Time]float64
	first  time.Time
	final  time.Time
}

func newAccumulator(freq core.Frequency, firstDate time.Time) *accumulator {
	return &accumulator{
		freq:   freq,
		anchor: calendar.NextFriday(firstDate),
		last:   make(map[time.Time]float64),
	}
}

func (a *accumulator) add(points core.Series) {
	for _, p := range points {
		label := a.label(p.Date)
		a.last[label] = p.Close
		if a.first.IsZero() || label.Before(a.first) {
			a.first = label
		}
		if label.After(a.final) {
			a.final = label
		}
	}
}

// label maps a date to the end of its calendar bucket.
func (a *accumulator) label(d time.Time) time.Time {
	switch a.freq {
	case core.FreqDaily:
		// Weekend points roll forward to the next business day.
		for !calendar.IsBusinessDay(d) {
			d = d.AddDate(0, 0, 1)
		}
		return d
	case core.FreqWeekly:
		return calendar.NextFriday(d)
	case core.FreqBiWeekly:
		wk := calendar.NextFriday(d)
		days := int(wk.Sub(a.anchor).Hours() / 24)
		k := (days + 13) / 14
		if k < 0 {
			k = 0
		}
		return a.anchor.AddDate(0, 0, 14*k)
	case core.FreqMonthly:
		return calendar.LastBusinessDayOfMonth(d)
	case core.FreqAnnual:
		return calendar.LastBusinessDayOfYear(d)
	}
	return d
}

// next advances a bucket label to the following bucket's label.
func (a *accumulator) next(d time.Time) time.Time {
	switch a.freq {
	case core.FreqDaily:
		d = d.AddDate(0, 0, 1)
		for !calendar.IsBusinessDay(d) {
			d = d.AddDate(0, 0, 1)
		}
		return d
	case core.FreqWeekly:
		return d.AddDate(0, 0, 7)
	case core.FreqBiWeekly:
		return d.AddDate(0, 0, 14)
	case core.FreqMonthly:
		return calendar.LastBusinessDayOfMonth(time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0))
	case core.FreqAnnual:
		return calendar.LastBusinessDayOfYear(time.Date(d.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
	return d
}

// observations materializes the full bucket sequence from first to
// final label, with NaN for buckets that collected no points.
func (a *accumulator) observations() []Observation {
	if len(a.last) == 0 {
		return nil
	}
	var obs []Observation
	for d := a.first; !d.After(a.final); d = a.next(d) {
		c, ok := a.last[d]
		if !ok {
			c = math.NaN()
		}
		obs = append(obs, Observation{Date: d, Close: c})
	}
	return obs
}

func fillForward(obs []Observation) {
	prev := math.NaN()
	for i := range obs {
		if math.IsNaN(obs[i].Close) {
			obs[i].Close = prev
		} else {
			prev = obs[i].Close
		}
	}
}

func fillBackward(obs []Observation) {
	next := math.NaN()
	for i := len(obs) - 1; i >= 0; i-- {
		if math.IsNaN(obs[i].Close) {
			obs[i].Close = next
		} else {
			next = obs[i].Close
		}
	}
}
