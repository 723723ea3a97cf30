package series

import (
	"time"

	"github.com/whitmore/dripline/internal/core"
)

// Observation is one sampled close in a normalized series.
type Observation struct {
	Date  time.Time
	Close float64
}

// Sampled is a normalized price series: one observation per calendar
// bucket, no gaps, no duplicate dates.
type Sampled struct {
	obs []Observation
	idx map[time.Time]int
}

// NewSampled builds a Sampled from ordered observations.
func NewSampled(obs []Observation) *Sampled {
	idx := make(map[time.Time]int, len(obs))
	for i, o := range obs {
		idx[o.Date] = i
	}
	return &Sampled{obs: obs, idx: idx}
}

// Len returns the number of observations.
func (s *Sampled) Len() int {
	return len(s.obs)
}

// At returns the i-th observation.
func (s *Sampled) At(i int) Observation {
	return s.obs[i]
}

// First returns the earliest observation.
func (s *Sampled) First() Observation {
	return s.obs[0]
}

// Last returns the latest observation.
func (s *Sampled) Last() Observation {
	return s.obs[len(s.obs)-1]
}

// CloseOn looks up the sampled close for an exact bucket date.
func (s *Sampled) CloseOn(date time.Time) (float64, bool) {
	i, ok := s.idx[date]
	if !ok {
		return 0, false
	}
	return s.obs[i].Close, true
}

// Dates returns the bucket dates in order.
func (s *Sampled) Dates() []time.Time {
	out := make([]time.Time, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Date
	}
	return out
}

// Closes returns the sampled closes in order.
func (s *Sampled) Closes() []float64 {
	out := make([]float64, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Close
	}
	return out
}

// AsSeries converts the sampled observations back into a core.Series,
// with the close standing in for the open.
func (s *Sampled) AsSeries() core.Series {
	out := make(core.Series, len(s.obs))
	for i, o := range s.obs {
		out[i] = core.PricePoint{Date: o.Date, Open: o.Close, Close: o.Close}
	}
	return out
}
