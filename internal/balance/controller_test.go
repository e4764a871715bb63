package balance

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hooplab/courtsim/internal/court"
)

const testDt = 1.0 / 60.0

func newTestController(weight, height float64, forces court.ForceTable) *Controller {
	return NewController(weight, height, forces, court.DefaultTuning(), nil)
}

func TestController_RestIsFixedPoint(t *testing.T) {
	c := newTestController(80, 1.9, court.DefaultForceTable())

	before := c.State()
	for i := 0; i < 300; i++ {
		c.Update(testDt)
	}
	after := c.State()

	if before.Position != after.Position {
		t.Errorf("rest position drifted: %v -> %v", before.Position, after.Position)
	}
	if after.Velocity != (mgl64.Vec3{}) {
		t.Errorf("rest velocity drifted: %v", after.Velocity)
	}
	if !c.IsNeutral() || !c.CanTransition() {
		t.Error("character at rest must be neutral and transitionable")
	}
}

func TestController_LockedForceScenario(t *testing.T) {
	forces := court.ForceTable{
		court.ActionJump: {Force: mgl64.Vec3{0, 2000, 200}, Duration: 0.15, Lock: true},
	}
	c := newTestController(80, 1.9, forces)

	c.ApplyNamedForce(court.ActionJump)
	if !c.IsLocked() {
		t.Fatal("lock must engage immediately on force application")
	}
	if c.IsGrounded() {
		t.Error("locked character must not be grounded")
	}
	if c.CanPerformAction() {
		t.Error("locked character must not be able to act")
	}

	prevY := c.Position().Y()
	for i := 0; i < 5; i++ {
		c.Update(testDt)
		y := c.Position().Y()
		if y <= prevY {
			t.Fatalf("step %d: y must strictly increase while the lift force runs (%f <= %f)", i, y, prevY)
		}
		prevY = y
	}
}

func TestController_UnlockHardLanding(t *testing.T) {
	forces := court.ForceTable{
		court.ActionJump: {Force: mgl64.Vec3{}, Duration: 0.05, Lock: true},
	}
	c := newTestController(80, 1.9, forces)
	c.ApplyNamedForce(court.ActionJump)

	// Descending fast with some lateral drift.
	c.ApplyImpulse(mgl64.Vec3{160, -400, 0}) // Δv = (2, -5, 0)

	c.Unlock()

	if c.IsLocked() || !c.IsGrounded() {
		t.Fatal("unlock must clear the lock and re-ground")
	}
	v := c.State().Velocity
	if v.Y() != 0 {
		t.Errorf("vertical velocity must zero on landing, got %f", v.Y())
	}
	// Skid: 5 m/s down is 2 m/s past the hard-landing threshold,
	// amplifying horizontal velocity by 1 + 0.15·2 = 1.3.
	if math.Abs(v.X()-2.6) > 1e-9 {
		t.Errorf("expected skid vx=2.6, got %f", v.X())
	}
	if got := c.Position().Y(); got != c.State().RestPosition.Y() {
		t.Errorf("landing must snap y to rest height, got %f", got)
	}
}

func TestController_SoftLandingNoSkid(t *testing.T) {
	forces := court.ForceTable{
		court.ActionJump: {Force: mgl64.Vec3{}, Duration: 0.05, Lock: true},
	}
	c := newTestController(80, 1.9, forces)
	c.ApplyNamedForce(court.ActionJump)
	c.ApplyImpulse(mgl64.Vec3{80, -80, 0}) // Δv = (1, -1, 0)

	c.Unlock()

	if v := c.State().Velocity; math.Abs(v.X()-1.0) > 1e-9 {
		t.Errorf("soft landing must not skid, got vx=%f", v.X())
	}
}

func TestController_InverseMassScaling(t *testing.T) {
	forces := court.ForceTable{
		court.ActionCrossover: {Force: mgl64.Vec3{900, 0, 0}, Duration: 0.5},
	}

	light := newTestController(60, 1.8, forces)
	heavy := newTestController(140, 1.8, forces)

	light.ApplyNamedForce(court.ActionCrossover)
	heavy.ApplyNamedForce(court.ActionCrossover)
	light.Update(testDt)
	heavy.Update(testDt)

	if light.HorizontalOffset() <= heavy.HorizontalOffset() {
		t.Errorf("equal nominal force must displace the lighter character more: %f <= %f",
			light.HorizontalOffset(), heavy.HorizontalOffset())
	}
}

func TestController_MissingForceEntryIsNoOp(t *testing.T) {
	c := newTestController(80, 1.9, court.ForceTable{})

	before := c.State()
	c.ApplyNamedForce(court.ActionDunk)
	c.Update(testDt)

	if got := c.State(); got.Position != before.Position || got.Locked {
		t.Errorf("missing force entry must be a no-op, state changed: %+v", got)
	}
}

func TestController_ApplyImpulse(t *testing.T) {
	c := newTestController(100, 2.0, court.DefaultForceTable())

	c.ApplyImpulse(mgl64.Vec3{50, 0, 0})
	if got := c.State().Velocity.X(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected Δvx = impulse/mass = 0.5, got %f", got)
	}
}

func TestController_SetAttributesResets(t *testing.T) {
	c := newTestController(80, 1.9, court.DefaultForceTable())

	c.ApplyImpulse(mgl64.Vec3{200, 0, 0})
	for i := 0; i < 10; i++ {
		c.Update(testDt)
	}
	if c.HorizontalOffset() == 0 {
		t.Fatal("setup: impulse should displace the body")
	}

	c.SetAttributes(100, 2.05)

	if c.HorizontalOffset() != 0 {
		t.Error("attribute change must hard-reset to rest")
	}
	if c.State().Velocity != (mgl64.Vec3{}) {
		t.Error("attribute change must zero velocity")
	}
	if c.IsLocked() {
		t.Error("attribute change must clear the lock")
	}
	if c.State().Mass != 100 {
		t.Errorf("expected mass 100 after attribute change, got %f", c.State().Mass)
	}
}

func TestController_RecoversAfterImpulse(t *testing.T) {
	c := newTestController(80, 1.9, court.DefaultForceTable())

	c.ApplyImpulse(mgl64.Vec3{240, 0, 0}) // Δv = 3 m/s
	if c.CanTransition() {
		t.Fatal("shoved character must not be transitionable immediately")
	}
	if c.EstimatedRecoveryTime() <= 0 {
		t.Error("shoved character must estimate positive recovery time")
	}

	// The spring-damper must eventually settle it back.
	for i := 0; i < 60*60; i++ {
		c.Update(testDt)
		if c.IsNeutral() {
			break
		}
	}
	if !c.IsNeutral() {
		t.Error("character never settled back to neutral")
	}
	if c.Position() != c.State().RestPosition {
		t.Error("neutral snap must land exactly on rest")
	}
}

func TestController_AgilityAndPushPower(t *testing.T) {
	guard := newTestController(75, 1.85, court.DefaultForceTable())
	center := newTestController(120, 2.10, court.DefaultForceTable())

	if guard.AgilityFactor() <= center.AgilityFactor() {
		t.Errorf("lighter, shorter build must be more agile: %f <= %f",
			guard.AgilityFactor(), center.AgilityFactor())
	}
	if center.PushPower() <= guard.PushPower() {
		t.Errorf("heavier build must push harder: %f <= %f",
			center.PushPower(), guard.PushPower())
	}
}

func TestController_StabilityBounds(t *testing.T) {
	c := newTestController(80, 1.9, court.DefaultForceTable())

	if got := c.Stability(); got != 1.0 {
		t.Errorf("rest stability must be 1, got %f", got)
	}

	c.ApplyImpulse(mgl64.Vec3{800, 0, 0})
	for i := 0; i < 5; i++ {
		c.Update(testDt)
	}
	got := c.Stability()
	if got < 0 || got >= 1 {
		t.Errorf("disturbed stability must stay in [0,1) band, got %f", got)
	}
}

func TestController_Snapshot(t *testing.T) {
	c := newTestController(80, 1.9, court.DefaultForceTable())

	snap := c.Snapshot()
	for _, key := range []string{"offset_h", "speed", "stability", "recovery_time", "agility", "push_power", "locked"} {
		if _, ok := snap[key]; !ok {
			t.Errorf("snapshot missing %q", key)
		}
	}
	if snap["locked"] != 0 {
		t.Errorf("resting snapshot must report locked=0, got %f", snap["locked"])
	}
}
