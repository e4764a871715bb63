package balance

import (
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/hooplab/courtsim/internal/court"
)

// referenceParams is the baseline build the agility factor is measured
// against.
var referenceParams = DeriveParams(80, 1.9, court.DefaultTuning())

// externalForce is the active declarative force, valid until its expiry on
// the controller's accumulated simulation clock.
type externalForce struct {
	force  mgl64.Vec3
	expiry float64
	active bool
}

// Controller owns one character's balance state and derived physics
// parameters. All timing runs off an internal clock accumulated from dt,
// never wall time, so identical inputs replay identically.
type Controller struct {
	state  State
	params Params
	tuning court.Tuning
	forces court.ForceTable
	log    *logrus.Logger

	weight float64
	height float64

	now float64
	ext externalForce
}

// NewController derives physics parameters for the given build and places
// the balance body at rest. A nil logger is replaced with a silent one.
func NewController(weight, height float64, forces court.ForceTable, tn court.Tuning, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	c := &Controller{
		tuning: tn,
		forces: forces,
		log:    log,
	}
	c.SetAttributes(weight, height)
	return c
}

// SetAttributes reclamps the build, rederives physics parameters and
// performs a full reset to rest. The stance reset is deliberate: a new
// build means a new equilibrium, and carrying a stale offset across it
// would leave the spring fighting the wrong rest pose.
func (c *Controller) SetAttributes(weight, height float64) {
	c.params = DeriveParams(weight, height, c.tuning)
	if weight != c.params.Mass || height < c.tuning.HeightMin || height > c.tuning.HeightMax {
		c.log.WithFields(logrus.Fields{
			"weight": weight,
			"height": height,
		}).Warn("balance: attributes clamped to valid range")
	}
	c.weight = c.params.Mass
	c.height = clamp(height, c.tuning.HeightMin, c.tuning.HeightMax)
	c.Reset()
}

// Reset unconditionally returns the balance body to rest with zero
// velocity, clearing the lock and any pending external force.
func (c *Controller) Reset() {
	rest := mgl64.Vec3{0, c.params.RestHeight, 0}
	c.state = State{
		Position:     rest,
		Velocity:     mgl64.Vec3{},
		Mass:         c.params.Mass,
		Radius:       c.params.Radius,
		RestPosition: rest,
		Grounded:     true,
	}
	c.ext = externalForce{}
}

// ApplyNamedForce looks up the action's declarative force entry and
// installs it at unit scale. A missing entry is a logged no-op; a live
// frame must never crash over a hole in a data table.
func (c *Controller) ApplyNamedForce(id court.ActionType) {
	c.ApplyActionForce(id, 1.0)
}

// ApplyActionForce installs the action's force entry scaled by the given
// factor. The nominal force is normalized to the reference mass, so the
// same table entry displaces a light guard further than a heavy center.
// Entries with Lock engage the airborne lock for the force's duration.
func (c *Controller) ApplyActionForce(id court.ActionType, scale float64) {
	spec, ok := c.forces[id]
	if !ok {
		c.log.WithField("action", id.String()).Warn("balance: no force entry for action")
		return
	}

	massScale := court.ReferenceMass / c.params.Mass
	c.ext = externalForce{
		force:  spec.Force.Mul(scale * massScale),
		expiry: c.now + spec.Duration,
		active: true,
	}
	if spec.Lock {
		c.state.Locked = true
		c.state.Grounded = false
	}
}

// ApplyForce installs a raw external force for the given duration.
func (c *Controller) ApplyForce(force mgl64.Vec3, duration float64) {
	c.ext = externalForce{force: force, expiry: c.now + duration, active: true}
}

// ApplyImpulse adds impulse/mass to the velocity immediately.
func (c *Controller) ApplyImpulse(impulse mgl64.Vec3) {
	c.state.Velocity = c.state.Velocity.Add(impulse.Mul(1 / c.params.Mass))
}

// CollideWith resolves a collision against other and applies this
// controller's velocity delta. The other party's delta is returned in the
// result but NOT applied; when a coordinator holds both parties it applies
// both deltas itself, and applying the reciprocal here too would double it.
func (c *Controller) CollideWith(other *Controller, contactNormal mgl64.Vec3) CollisionResult {
	res := ResolveCollision(c.state, other.state, c.height, other.height, contactNormal, c.tuning)
	if res.Occurred {
		c.state.Velocity = c.state.Velocity.Add(res.VelocityDeltaA)
	}
	return res
}

// ApplyCollisionDelta adds a solver-produced velocity delta directly.
// Used by the collision coordinator to propagate the reciprocal half of a
// resolved pair.
func (c *Controller) ApplyCollisionDelta(delta mgl64.Vec3) {
	c.state.Velocity = c.state.Velocity.Add(delta)
}

// Unlock ends the airborne lock on landing. A descent faster than the
// hard-landing speed converts the excess into a horizontal skid before
// vertical motion is zeroed and the body snaps back to rest height.
func (c *Controller) Unlock() {
	if !c.state.Locked {
		return
	}
	c.state.Locked = false
	c.state.Grounded = true

	vy := c.state.Velocity.Y()
	if vy < -c.tuning.HardLandingSpeed {
		skid := 1 + c.tuning.SkidFactor*(-vy-c.tuning.HardLandingSpeed)
		c.state.Velocity = mgl64.Vec3{
			c.state.Velocity.X() * skid,
			0,
			c.state.Velocity.Z() * skid,
		}
	} else {
		c.state.Velocity = mgl64.Vec3{c.state.Velocity.X(), 0, c.state.Velocity.Z()}
	}
	c.state.Position = mgl64.Vec3{c.state.Position.X(), c.state.RestPosition.Y(), c.state.Position.Z()}
}

// Update advances the balance body one frame.
//
// Locked: only a reduced-gravity vertical pull integrates; the spring is
// suspended so the body drifts on a loose tether until landing.
//
// Unlocked: active external force plus the spring-damper force integrate
// via semi-implicit Euler, the result is clamped to bounds, and once the
// body is neutral with no force still running it snaps exactly to rest to
// kill residual jitter.
func (c *Controller) Update(dt float64) {
	c.now += dt

	if c.ext.active && c.now >= c.ext.expiry {
		c.ext = externalForce{}
	}

	if c.state.Locked {
		gravity := mgl64.Vec3{0, -court.Gravity * c.tuning.LockedGravityFactor * c.params.Mass, 0}
		force := gravity
		if c.ext.active {
			force = force.Add(c.ext.force)
		}
		c.state.Position, c.state.Velocity = Integrate(c.state.Position, c.state.Velocity, force, c.params.Mass, dt)
		c.state.Position = ClampToBounds(c.state.Position, c.state.RestPosition, c.tuning)
		return
	}

	force := SpringDamperForce(c.state.Position, c.state.Velocity, c.state.RestPosition,
		c.params.SpringConstant, c.params.Damping)
	if c.ext.active {
		force = force.Add(c.ext.force)
	}

	c.state.Position, c.state.Velocity = Integrate(c.state.Position, c.state.Velocity, force, c.params.Mass, dt)
	c.state.Position = ClampToBounds(c.state.Position, c.state.RestPosition, c.tuning)

	// The snap must not fight a live external force: one frame of a ramping
	// push sits well under the neutral thresholds.
	if !c.ext.active && IsNeutral(c.state, c.tuning) {
		c.state.Position = c.state.RestPosition
		c.state.Velocity = mgl64.Vec3{}
	}
}

// CanPerformAction reports whether the balance layer permits starting an
// action right now.
func (c *Controller) CanPerformAction() bool {
	if c.state.Locked {
		return false
	}
	return CanTransition(c.state, c.tuning)
}

// State returns a copy of the current balance state.
func (c *Controller) State() State { return c.state }

// Position returns the balance body position relative to character origin.
func (c *Controller) Position() mgl64.Vec3 { return c.state.Position }

// Offset returns the 3D displacement from rest.
func (c *Controller) Offset() mgl64.Vec3 { return c.state.Offset() }

// HorizontalOffset returns the XZ displacement magnitude from rest.
func (c *Controller) HorizontalOffset() float64 { return c.state.HorizontalOffset() }

// CanTransition reports the action-gating settledness test.
func (c *Controller) CanTransition() bool { return CanTransition(c.state, c.tuning) }

// IsNeutral reports the stricter rest-snap settledness test.
func (c *Controller) IsNeutral() bool { return IsNeutral(c.state, c.tuning) }

// IsLocked reports whether the airborne lock is engaged.
func (c *Controller) IsLocked() bool { return c.state.Locked }

// IsGrounded reports whether the character is on the floor.
func (c *Controller) IsGrounded() bool { return c.state.Grounded }

// EstimatedRecoveryTime predicts seconds until a new action may start.
func (c *Controller) EstimatedRecoveryTime() float64 {
	return EstimateRecoveryTime(c.state, c.params.Damping, c.tuning)
}

// AgilityFactor compares this character's undamped natural frequency to
// the reference build's. Above 1 means quicker recovery than the baseline.
func (c *Controller) AgilityFactor() float64 {
	omega := math.Sqrt(c.params.SpringConstant / c.params.Mass)
	ref := math.Sqrt(referenceParams.SpringConstant / referenceParams.Mass)
	return omega / ref
}

// Stability flattens the balance state to a 0..1 score for AI and HUD
// consumers. Locked is always 0: an airborne character has no stance.
func (c *Controller) Stability() float64 {
	if c.state.Locked {
		return 0
	}
	offsetTerm := math.Min(1, c.state.HorizontalOffset()/c.tuning.MaxHorizontalOffset)
	speedTerm := math.Min(1, c.state.Velocity.Len()/(2*c.tuning.VelocityThreshold))
	s := 1 - 0.7*offsetTerm - 0.3*speedTerm
	return math.Max(0, s)
}

// PushPower is the character's leverage in shoving contests, relative to
// the reference mass.
func (c *Controller) PushPower() float64 {
	return c.params.Mass / court.ReferenceMass
}

// Params returns the derived physics parameters.
func (c *Controller) Params() Params { return c.params }

// Height returns the clamped standing height.
func (c *Controller) Height() float64 { return c.height }

// Weight returns the clamped weight.
func (c *Controller) Weight() float64 { return c.weight }

// Snapshot flattens the controller to scalars for telemetry display.
func (c *Controller) Snapshot() map[string]float64 {
	locked := 0.0
	if c.state.Locked {
		locked = 1
	}
	return map[string]float64{
		"offset_x":      c.state.Offset().X(),
		"offset_y":      c.state.Offset().Y(),
		"offset_z":      c.state.Offset().Z(),
		"offset_h":      c.state.HorizontalOffset(),
		"speed":         c.state.Velocity.Len(),
		"stability":     c.Stability(),
		"recovery_time": c.EstimatedRecoveryTime(),
		"agility":       c.AgilityFactor(),
		"push_power":    c.PushPower(),
		"locked":        locked,
	}
}
