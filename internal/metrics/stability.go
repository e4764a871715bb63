// Package metrics provides scenario-level accumulators implementing
// sim.Metric.
package metrics

import "github.com/hooplab/courtsim/internal/sim"

// Stability averages the 0..1 balance stability over every character and
// every observed frame.
type Stability struct {
	sum     float64
	samples int
}

func NewStability() *Stability {
	return &Stability{}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(t float64, chars []*sim.Character) {
	for _, c := range chars {
		s.sum += c.Balance().Stability()
		s.samples++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return s.sum / float64(s.samples)
}

func (s *Stability) Reset() {
	s.sum = 0
	s.samples = 0
}
