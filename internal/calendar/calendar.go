// Package calendar resolves purchase schedules from a frequency and a
// date range, following business-day conventions: Mon-Fri trading,
// weeks ending Friday, business month-end and business year-end.
package calendar

import (
	"time"

	"github.com/whitmore/dripline/internal/core"
)

// IsBusinessDay reports whether t falls on Mon-Fri.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextFriday returns the first Friday on or after t.
func NextFriday(t time.Time) time.Time {
	days := (int(time.Friday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, days)
}

// LastBusinessDayOfMonth returns the last Mon-Fri date of the month containing t.
func LastBusinessDayOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	d := firstOfNext.AddDate(0, 0, -1)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// LastBusinessDayOfYear returns the last Mon-Fri date of the year containing t.
func LastBusinessDayOfYear(t time.Time) time.Time {
	d := time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// Resolve produces the ordered purchase dates for the frequency within
// [start, end]. Annual always yields at least one entry: when no
// business year-end falls inside a short range, the range end stands in.
func Resolve(start, end time.Time, freq core.Frequency) []time.Time {
	start, end = core.Day(start), core.Day(end)
	if end.Before(start) {
		return nil
	}

	var dates []time.Time
	switch freq {
	case core.FreqDaily:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if IsBusinessDay(d) {
				dates = append(dates, d)
			}
		}
	case core.FreqWeekly:
		for d := NextFriday(start); !d.After(end); d = d.AddDate(0, 0, 7) {
			dates = append(dates, d)
		}
	case core.FreqBiWeekly:
		for d := NextFriday(start); !d.After(end); d = d.AddDate(0, 0, 14) {
			dates = append(dates, d)
		}
	case core.FreqMonthly:
		m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		for ; !m.After(end); m = m.AddDate(0, 1, 0) {
			d := LastBusinessDayOfMonth(m)
			if !d.Before(start) && !d.After(end) {
				dates = append(dates, d)
			}
		}
	case core.FreqAnnual:
		for y := start.Year(); y <= end.Year(); y++ {
			d := LastBusinessDayOfYear(time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC))
			if !d.Before(start) && !d.After(end) {
				dates = append(dates, d)
			}
		}
		if len(dates) == 0 {
			dates = append(dates, end)
		}
	}
	return dates
}

// Intersect keeps only schedule dates that exist in the available set.
// Dates without price data produce no purchase, not an error.
func Intersect(schedule []time.Time, available map[time.Time]struct{}) []time.Time {
	out := make([]time.Time, 0, len(schedule))
	for _, d := range schedule {
		if _, ok := available[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Periods returns the expected trading-period count for the range,
// used to size the comparable total capital commitment.
func Periods(start, end time.Time, freq core.Frequency) int {
	return len(Resolve(start, end, freq))
}
