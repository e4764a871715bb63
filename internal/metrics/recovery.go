package metrics

import "github.com/hooplab/courtsim/internal/sim"

// Recovery tracks the worst predicted recovery time seen across the run.
type Recovery struct {
	peak float64
}

func NewRecovery() *Recovery {
	return &Recovery{}
}

func (r *Recovery) Name() string { return "peak_recovery" }

func (r *Recovery) Observe(t float64, chars []*sim.Character) {
	for _, c := range chars {
		if est := c.Balance().EstimatedRecoveryTime(); est > r.peak {
			r.peak = est
		}
	}
}

func (r *Recovery) Value() float64 { return r.peak }

func (r *Recovery) Reset() { r.peak = 0 }
