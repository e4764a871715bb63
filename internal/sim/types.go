package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hooplab/courtsim/internal/court"
)

// Metric accumulates a scalar over a scenario run.
type Metric interface {
	Name() string
	Observe(t float64, chars []*Character)
	Value() float64
	Reset()
}

// Observer receives every frame of a running scenario.
type Observer interface {
	OnStep(t float64, chars []*Character)
}

// Config holds the frame-stepping parameters of one run.
type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
}

// EventKind discriminates scripted scenario events.
type EventKind int

const (
	EventStartAction EventKind = iota
	EventForceEnd
	EventImpulse
	EventSetVelocity
	EventPostUp
	EventBoxOut
)

// Event is one scripted scenario entry, fired when the accumulated
// simulation time reaches Time.
type Event struct {
	Time      float64
	Character string
	Kind      EventKind

	Action   court.ActionType // EventStartAction
	Impulse  mgl64.Vec3       // EventImpulse
	Velocity mgl64.Vec3       // EventSetVelocity
	Target   string           // EventPostUp / EventBoxOut
}

// Sample is one character's flattened state at one frame.
type Sample struct {
	ID        string
	OffsetH   float64
	OffsetY   float64
	Speed     float64
	Stability float64
	Recovery  float64
	Locked    bool
	Phase     string
	Action    string
}

// Result is the outcome of a scenario run.
type Result struct {
	Times      []float64
	Samples    [][]Sample // per step, per character
	Metrics    map[string]float64
	StepsTaken int
	Collisions int
}

// SimError carries the step context of a runtime failure.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
