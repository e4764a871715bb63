package metrics

import "github.com/hooplab/courtsim/internal/sim"

// Impulse accumulates total collision impulse. It is fed by the collision
// event stream rather than per-frame observation: hook Record into
// contact.Events.OnCollision when wiring a scenario.
type Impulse struct {
	total float64
	hits  int
}

func NewImpulse() *Impulse {
	return &Impulse{}
}

// Record adds one collision's impulse magnitude.
func (m *Impulse) Record(impulse float64) {
	m.total += impulse
	m.hits++
}

// Hits returns the number of recorded collisions.
func (m *Impulse) Hits() int { return m.hits }

func (m *Impulse) Name() string { return "total_impulse" }

func (m *Impulse) Observe(t float64, chars []*sim.Character) {}

func (m *Impulse) Value() float64 { return m.total }

func (m *Impulse) Reset() {
	m.total = 0
	m.hits = 0
}
