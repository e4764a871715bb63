package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hooplab/courtsim/internal/contact"
	"github.com/hooplab/courtsim/internal/court"
)

func newTestCharacter(t *testing.T, id string, weight, height float64, pos mgl64.Vec3) *Character {
	t.Helper()
	c := NewCharacter(id, weight, height, Abilities{},
		court.DefaultActionTable(), court.DefaultForceTable(), court.DefaultTuning(), nil)
	c.SetPosition(pos)
	return c
}

func TestRun_StepCountAndSamples(t *testing.T) {
	s := NewScenario(court.DefaultTuning(), contact.Events{}, nil)
	s.AddCharacter(newTestCharacter(t, "a", 80, 1.85, mgl64.Vec3{0, 0, 0}))
	s.AddCharacter(newTestCharacter(t, "b", 110, 2.05, mgl64.Vec3{5, 0, 0}))

	res, err := s.Run(context.Background(), Config{Dt: 1.0 / 60.0, Duration: 1.0})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.StepsTaken != 60 {
		t.Errorf("expected 60 steps for 1s at 60Hz, got %d", res.StepsTaken)
	}
	if len(res.Times) != res.StepsTaken || len(res.Samples) != res.StepsTaken {
		t.Errorf("times/samples length mismatch: %d/%d vs %d steps",
			len(res.Times), len(res.Samples), res.StepsTaken)
	}
	for i, frame := range res.Samples {
		if len(frame) != 2 {
			t.Fatalf("frame %d: expected 2 samples, got %d", i, len(frame))
		}
	}
	if res.Collisions != 0 {
		t.Errorf("characters 5m apart must never collide, got %d", res.Collisions)
	}

	// Time is the accumulated dt, monotonically increasing.
	for i := 1; i < len(res.Times); i++ {
		if res.Times[i] <= res.Times[i-1] {
			t.Fatalf("time not monotonic at step %d", i)
		}
	}
}

func TestRun_DuplicateCharacter(t *testing.T) {
	s := NewScenario(court.DefaultTuning(), contact.Events{}, nil)
	if err := s.AddCharacter(newTestCharacter(t, "a", 80, 1.85, mgl64.Vec3{})); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := s.AddCharacter(newTestCharacter(t, "a", 90, 1.95, mgl64.Vec3{2, 0, 0}))
	if !errors.Is(err, court.ErrDuplicateActor) {
		t.Fatalf("expected ErrDuplicateActor, got %v", err)
	}
}

func TestRun_Validation(t *testing.T) {
	valid := func() *Scenario {
		s := NewScenario(court.DefaultTuning(), contact.Events{}, nil)
		s.AddCharacter(newTestCharacter(t, "a", 80, 1.85, mgl64.Vec3{}))
		return s
	}
	ctx := context.Background()

	cases := []struct {
		name string
		s    *Scenario
		cfg  Config
	}{
		{"zero dt", valid(), Config{Dt: 0, Duration: 1}},
		{"negative duration", valid(), Config{Dt: 1.0 / 60.0, Duration: -1}},
		{"no characters", NewScenario(court.DefaultTuning(), contact.Events{}, nil),
			Config{Dt: 1.0 / 60.0, Duration: 1}},
	}
	for _, tc := range cases {
		if _, err := tc.s.Run(ctx, tc.cfg); !errors.Is(err, court.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tc.name, err)
		}
	}

	s := valid()
	s.Schedule(Event{Time: 0.5, Character: "ghost", Kind: EventImpulse})
	if _, err := s.Run(ctx, Config{Dt: 1.0 / 60.0, Duration: 1}); !errors.Is(err, court.ErrInvalidConfig) {
		t.Errorf("unknown event character: expected ErrInvalidConfig, got %v", err)
	}

	s = valid()
	s.AddCharacter(newTestCharacter(t, "b", 90, 1.95, mgl64.Vec3{3, 0, 0}))
	s.Schedule(Event{Time: 0.5, Character: "a", Kind: EventPostUp, Target: "ghost"})
	if _, err := s.Run(ctx, Config{Dt: 1.0 / 60.0, Duration: 1}); !errors.Is(err, court.ErrInvalidConfig) {
		t.Errorf("unknown event target: expected ErrInvalidConfig, got %v", err)
	}
}

func TestRun_ImpulseCollision(t *testing.T) {
	s := NewScenario(court.DefaultTuning(), contact.Events{}, nil)
	// Inside each other's contact radius; the scripted shoves meet head on.
	s.AddCharacter(newTestCharacter(t, "a", 80, 1.85, mgl64.Vec3{0, 0, 0}))
	s.AddCharacter(newTestCharacter(t, "b", 110, 2.05, mgl64.Vec3{0.5, 0, 0}))
	s.Schedule(Event{Time: 0, Character: "a", Kind: EventImpulse, Impulse: mgl64.Vec3{160, 0, 0}})
	s.Schedule(Event{Time: 0, Character: "b", Kind: EventImpulse, Impulse: mgl64.Vec3{-220, 0, 0}})

	res, err := s.Run(context.Background(), Config{Dt: 1.0 / 60.0, Duration: 2.0})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Collisions < 1 {
		t.Fatal("head-on shoves inside contact range must collide")
	}

	// The hit shows up in the recording: someone was moving fast early on.
	peak := 0.0
	for _, frame := range res.Samples[:30] {
		for _, smp := range frame {
			if smp.Speed > peak {
				peak = smp.Speed
			}
		}
	}
	if peak < 0.5 {
		t.Errorf("expected visible post-collision motion, peak speed %f", peak)
	}
}

func TestRun_Deterministic(t *testing.T) {
	run := func() *Result {
		s := NewScenario(court.DefaultTuning(), contact.Events{}, nil)
		s.AddCharacter(newTestCharacter(t, "a", 80, 1.85, mgl64.Vec3{0, 0, 0}))
		s.AddCharacter(newTestCharacter(t, "b", 110, 2.05, mgl64.Vec3{0.5, 0, 0}))
		s.Schedule(Event{Time: 0.2, Character: "a", Kind: EventImpulse, Impulse: mgl64.Vec3{200, 0, 40}})
		s.Schedule(Event{Time: 0.2, Character: "b", Kind: EventImpulse, Impulse: mgl64.Vec3{-180, 0, 0}})
		res, err := s.Run(context.Background(), Config{Dt: 1.0 / 60.0, Duration: 2.0})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return res
	}

	first, second := run(), run()
	if first.Collisions != second.Collisions {
		t.Fatalf("collision counts differ: %d vs %d", first.Collisions, second.Collisions)
	}
	for i := range first.Samples {
		for j := range first.Samples[i] {
			if first.Samples[i][j] != second.Samples[i][j] {
				t.Fatalf("runs diverge at step %d character %d", i, j)
			}
		}
	}
}

func TestRun_JumpArcLandsAndUnlocks(t *testing.T) {
	s := NewScenario(court.DefaultTuning(), contact.Events{}, nil)
	s.AddCharacter(newTestCharacter(t, "a", 80, 1.85, mgl64.Vec3{}))
	s.Schedule(Event{Time: 0.1, Character: "a", Kind: EventStartAction, Action: court.ActionJump})

	res, err := s.Run(context.Background(), Config{Dt: 1.0 / 60.0, Duration: 4.0})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	airborne := false
	for _, frame := range res.Samples {
		if frame[0].Locked {
			airborne = true
			break
		}
	}
	if !airborne {
		t.Fatal("jump never left the ground")
	}

	last := res.Samples[len(res.Samples)-1][0]
	if last.Locked {
		t.Error("jump never landed within 4s")
	}
	if last.Phase != court.PhaseIdle.String() {
		t.Errorf("touchdown must close the jump, final phase %s", last.Phase)
	}
}

func TestRun_PostUpEvent(t *testing.T) {
	s := NewScenario(court.DefaultTuning(), contact.Events{}, nil)
	s.AddCharacter(newTestCharacter(t, "post", 120, 2.08, mgl64.Vec3{0, 0, 0}))
	s.AddCharacter(newTestCharacter(t, "def", 90, 1.95, mgl64.Vec3{0, 0, 1.2}))
	s.Schedule(Event{Time: 0, Character: "post", Kind: EventPostUp, Target: "def"})

	res, err := s.Run(context.Background(), Config{Dt: 1.0 / 60.0, Duration: 1.0})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// The defender got shoved at t=0: frame one records the stagger.
	if got := res.Samples[0][1].Speed; got < 0.5 {
		t.Errorf("defender should stagger after the post-up shove, speed %f", got)
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	s := NewScenario(court.DefaultTuning(), contact.Events{}, nil)
	s.AddCharacter(newTestCharacter(t, "a", 80, 1.85, mgl64.Vec3{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx, Config{Dt: 1.0 / 60.0, Duration: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStepper_LiveStepping(t *testing.T) {
	s := NewScenario(court.DefaultTuning(), contact.Events{}, nil)
	s.AddCharacter(newTestCharacter(t, "a", 80, 1.85, mgl64.Vec3{}))

	st, err := s.Stepper(Config{Dt: 1.0 / 60.0, Duration: 0.5})
	if err != nil {
		t.Fatalf("stepper: %v", err)
	}

	steps := 0
	for st.Step() {
		steps++
	}
	if steps != 30 {
		t.Errorf("expected 30 steps for 0.5s at 60Hz, got %d", steps)
	}
	if !st.Done() {
		t.Error("stepper must report done after exhausting its duration")
	}
	if got := st.Time(); got < 0.499 || got > 0.501 {
		t.Errorf("accumulated time drifted: %f", got)
	}
	if len(st.Characters()) != 1 {
		t.Error("stepper must expose the scenario characters")
	}
}
