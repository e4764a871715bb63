package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hooplab/courtsim/internal/court"
	"github.com/hooplab/courtsim/internal/sim"
)

func makeChar(t *testing.T, id string) *sim.Character {
	t.Helper()
	return sim.NewCharacter(id, 80, 1.9, sim.Abilities{},
		court.DefaultActionTable(), court.DefaultForceTable(), court.DefaultTuning(), nil)
}

func TestStability(t *testing.T) {
	m := NewStability()
	if m.Value() != 1.0 {
		t.Error("empty stability metric must default to 1")
	}

	settled := makeChar(t, "settled")
	shoved := makeChar(t, "shoved")
	shoved.Balance().ApplyImpulse(mgl64.Vec3{400, 0, 0})

	chars := []*sim.Character{settled, shoved}
	m.Observe(0, chars)
	m.Observe(1.0/60.0, chars)

	want := (settled.Balance().Stability() + shoved.Balance().Stability()) / 2
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("stability mean: got %f want %f", m.Value(), want)
	}
	if m.Value() >= 1.0 {
		t.Error("a shoved character must drag the mean below 1")
	}

	m.Reset()
	if m.Value() != 1.0 {
		t.Error("reset must restore the empty default")
	}
}

func TestRecovery_TracksPeak(t *testing.T) {
	m := NewRecovery()

	settled := makeChar(t, "settled")
	m.Observe(0, []*sim.Character{settled})
	if m.Value() != 0 {
		t.Errorf("settled character predicts no recovery, got %f", m.Value())
	}

	shoved := makeChar(t, "shoved")
	shoved.Balance().ApplyImpulse(mgl64.Vec3{400, 0, 0})
	m.Observe(0, []*sim.Character{shoved})
	peak := m.Value()
	if peak <= 0 {
		t.Fatal("shoved character must register a positive recovery peak")
	}

	// The peak is sticky: later calmer frames never lower it.
	for i := 0; i < 120; i++ {
		shoved.Update(1.0 / 60.0)
	}
	m.Observe(2, []*sim.Character{shoved})
	if m.Value() != peak {
		t.Errorf("peak must be sticky: got %f want %f", m.Value(), peak)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset must clear the peak")
	}
}

func TestImpulse_RecordsCollisionStream(t *testing.T) {
	m := NewImpulse()

	m.Record(104.5)
	m.Record(60.0)
	m.Observe(0, nil) // frame observation is deliberately a no-op

	if m.Hits() != 2 {
		t.Errorf("expected 2 hits, got %d", m.Hits())
	}
	if math.Abs(m.Value()-164.5) > 1e-9 {
		t.Errorf("total impulse: got %f want 164.5", m.Value())
	}

	m.Reset()
	if m.Hits() != 0 || m.Value() != 0 {
		t.Error("reset must clear totals")
	}
}
