package action

import (
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/hooplab/courtsim/internal/balance"
	"github.com/hooplab/courtsim/internal/court"
)

// StartResult reports the outcome of a start or cancel attempt. Guard
// failures are ordinary results, not errors, so AI callers branch on OK
// without exception plumbing.
type StartResult struct {
	OK     bool
	Reason string
}

var started = StartResult{OK: true}

// Callbacks are per-action notifications. They are registered after a
// successful Start and discarded on the next Start or any hard reset, so
// a late-firing callback from a previous action can never leak into the
// current one.
type Callbacks struct {
	OnInterrupt func(t court.ActionType)
	OnComplete  func(t court.ActionType)
}

// MotionFunc receives the motion reference of every action that starts.
// The animation layer supplies it; the core never interprets the ref.
type MotionFunc func(motionRef string)

// Controller is one character's action state machine.
//
// Invariant: phase == idle exactly when current == nil.
type Controller struct {
	defs court.ActionTable
	bal  *balance.Controller
	log  *logrus.Logger

	// verticalAbility scales the applied force of airborne actions,
	// nominally 1.0 for an average leaper.
	verticalAbility float64

	motion MotionFunc

	now        float64
	phase      court.Phase
	current    *court.ActionDefinition
	phaseStart float64
	cb         Callbacks
}

// NewController builds an action controller over the given balance
// controller and action table. motion may be nil when no animation layer
// is attached; a nil logger is replaced with a silent one.
func NewController(defs court.ActionTable, bal *balance.Controller, verticalAbility float64, motion MotionFunc, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	if verticalAbility <= 0 {
		verticalAbility = 1.0
	}
	return &Controller{
		defs:            defs,
		bal:             bal,
		log:             log,
		verticalAbility: verticalAbility,
		motion:          motion,
		phase:           court.PhaseIdle,
	}
}

// CanStart reports whether t may begin right now. A fresh start requires
// the balance body settled under the transition threshold; interrupting an
// in-flight action instead requires that action to still be in startup,
// interruptible, and lower priority than the candidate. The settledness
// check is skipped for interrupts because the in-flight action has already
// disturbed the stance on purpose.
func (c *Controller) CanStart(t court.ActionType) bool {
	return c.startGuard(t).OK
}

func (c *Controller) startGuard(t court.ActionType) StartResult {
	cand, ok := c.defs[t]
	if !ok {
		return StartResult{Reason: "unknown action: " + t.String()}
	}
	if c.bal.IsLocked() {
		return StartResult{Reason: "balance locked"}
	}
	if c.current == nil {
		if !c.bal.CanTransition() {
			return StartResult{Reason: "balance not settled"}
		}
		return started
	}
	if c.phase != court.PhaseStartup {
		return StartResult{Reason: "action already active: " + c.current.Type.String()}
	}
	if !c.current.Interruptible {
		return StartResult{Reason: "current action not interruptible: " + c.current.Type.String()}
	}
	if cand.Priority <= c.current.Priority {
		return StartResult{Reason: "insufficient priority to interrupt " + c.current.Type.String()}
	}
	return started
}

// Start attempts to begin t. On success any in-flight action receives its
// interrupt notification, previously registered callbacks are discarded,
// the machine enters startup, and the action's motion ref is triggered.
// On failure the result carries the guard reason; Start never panics.
func (c *Controller) Start(t court.ActionType) StartResult {
	if _, ok := c.defs[t]; !ok {
		// Missing table rows must not take down a live frame.
		c.log.WithField("action", t.String()).Warn("action: start of unknown action ignored")
		return StartResult{Reason: "unknown action: " + t.String()}
	}

	if res := c.startGuard(t); !res.OK {
		return res
	}

	if c.current != nil && c.cb.OnInterrupt != nil {
		c.cb.OnInterrupt(c.current.Type)
	}
	c.cb = Callbacks{}

	def := c.defs[t]
	c.current = &def
	c.phase = court.PhaseStartup
	c.phaseStart = c.now

	if c.motion != nil {
		c.motion(def.MotionRef)
	}
	return started
}

// SetCallbacks registers notifications for the action currently running.
// They are discarded by the next Start and by ForceReset.
func (c *Controller) SetCallbacks(cb Callbacks) {
	c.cb = cb
}

// Cancel aborts the current action. It is only legal during the startup
// phase of an interruptible action.
func (c *Controller) Cancel() StartResult {
	if c.current == nil {
		return StartResult{Reason: "no action to cancel"}
	}
	if c.phase != court.PhaseStartup {
		return StartResult{Reason: "cannot cancel outside startup"}
	}
	if !c.current.Interruptible {
		return StartResult{Reason: "action not interruptible: " + c.current.Type.String()}
	}
	if c.cb.OnInterrupt != nil {
		c.cb.OnInterrupt(c.current.Type)
	}
	c.toIdle()
	return started
}

// Update advances the machine one frame: startup auto-promotes to active
// once the startup duration elapses, and a finite active phase
// auto-completes back to idle. An infinite active phase persists until
// Cancel, ForceEnd or ForceReset.
func (c *Controller) Update(dt float64) {
	c.now += dt
	if c.current == nil {
		return
	}

	if c.phase == court.PhaseStartup && c.now-c.phaseStart >= c.current.Startup {
		c.phase = court.PhaseActive
		c.phaseStart = c.now
		c.applyActionForce()
	}

	if c.phase == court.PhaseActive && !c.current.InfiniteActive() &&
		c.now-c.phaseStart >= c.current.Active {
		c.complete()
	}
}

// applyActionForce fires at the startup→active transition: the moment of
// contact or release, not the moment the action was requested. A jump
// pushes when the airborne window opens.
func (c *Controller) applyActionForce() {
	scale := 1.0
	if court.AbilityScaled(c.current.Type) {
		scale = c.verticalAbility
	}
	c.bal.ApplyActionForce(c.current.Type, scale)
}

func (c *Controller) complete() {
	if c.cb.OnComplete != nil {
		c.cb.OnComplete(c.current.Type)
	}
	c.toIdle()
}

// ForceEnd completes the current action early. It is a no-op outside the
// active phase; ending an action mid-startup is Cancel's job.
func (c *Controller) ForceEnd() {
	if c.phase != court.PhaseActive {
		return
	}
	c.complete()
}

// ForceReset unconditionally drops back to idle, discarding callbacks
// without firing them. Higher-level transitions (e.g. switching the
// controlled character) use it to guarantee no stale action survives.
func (c *Controller) ForceReset() {
	c.cb = Callbacks{}
	c.toIdle()
}

func (c *Controller) toIdle() {
	c.current = nil
	c.phase = court.PhaseIdle
	c.phaseStart = c.now
	c.cb = Callbacks{}
}

// ActiveHitbox returns the current action's hitbox transformed to world
// space: the declared offset rotated by facing (radians about +Y) and
// translated to origin. Nil outside the active phase or for actions with
// no hitbox.
func (c *Controller) ActiveHitbox(origin mgl64.Vec3, facing float64) *court.WorldHitbox {
	if c.phase != court.PhaseActive || c.current == nil || c.current.Hitbox == nil {
		return nil
	}
	hb := c.current.Hitbox
	offset := mgl64.Rotate3DY(facing).Mul3x1(hb.Offset)
	return &court.WorldHitbox{
		Shape:  hb.Shape,
		Radius: hb.Radius,
		Height: hb.Height,
		Center: origin.Add(offset),
	}
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() court.Phase { return c.phase }

// CurrentAction returns the running action, if any.
func (c *Controller) CurrentAction() (court.ActionType, bool) {
	if c.current == nil {
		return 0, false
	}
	return c.current.Type, true
}

// IsActionActive reports whether an action is in its active phase.
func (c *Controller) IsActionActive() bool { return c.phase == court.PhaseActive }

// PhaseProgress returns 0..1 progress through the current phase. Idle is
// 0; an infinite active phase reports 1 (fully committed).
func (c *Controller) PhaseProgress() float64 {
	if c.current == nil {
		return 0
	}
	var duration float64
	switch c.phase {
	case court.PhaseStartup:
		duration = c.current.Startup
	case court.PhaseActive:
		if c.current.InfiniteActive() {
			return 1
		}
		duration = c.current.Active
	default:
		return 0
	}
	if duration <= 0 {
		return 1
	}
	return math.Min(1, (c.now-c.phaseStart)/duration)
}

// IsUnstable reports whether the character is in a post-action or
// collision instability window. External catch/steal eligibility keys off
// this.
func (c *Controller) IsUnstable() bool {
	return c.bal.IsLocked() || !c.bal.CanTransition()
}

// IsStable is the complement of IsUnstable with no action in flight.
func (c *Controller) IsStable() bool {
	return c.current == nil && !c.IsUnstable()
}

// Stability passes through the balance layer's 0..1 score.
func (c *Controller) Stability() float64 { return c.bal.Stability() }

// EstimatedRecoveryTime passes through the balance layer's prediction.
func (c *Controller) EstimatedRecoveryTime() float64 { return c.bal.EstimatedRecoveryTime() }
