package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/hooplab/courtsim/internal/action"
	"github.com/hooplab/courtsim/internal/balance"
	"github.com/hooplab/courtsim/internal/court"
)

// bodyRadiusPad converts the balance-body radius into the wider
// world-space contact radius of the whole character.
const bodyRadiusPad = 0.2

// Abilities are the stat multipliers a character brings to the court,
// nominally 1.0 each.
type Abilities struct {
	Vertical float64 `yaml:"vertical"`
	Strength float64 `yaml:"strength"`
}

// Character binds one player's world kinematics to its balance and action
// controllers. It satisfies contact.Actor.
type Character struct {
	id     string
	pos    mgl64.Vec3
	vel    mgl64.Vec3
	facing float64

	abilities Abilities

	bal *balance.Controller
	act *action.Controller
}

// NewCharacter derives the balance physics for the given build and wires
// an action controller over it.
func NewCharacter(id string, weight, height float64, ab Abilities, defs court.ActionTable, forces court.ForceTable, tn court.Tuning, log *logrus.Logger) *Character {
	if ab.Vertical <= 0 {
		ab.Vertical = 1.0
	}
	if ab.Strength <= 0 {
		ab.Strength = 1.0
	}
	bal := balance.NewController(weight, height, forces, tn, log)
	return &Character{
		id:        id,
		abilities: ab,
		bal:       bal,
		act:       action.NewController(defs, bal, ab.Vertical, nil, log),
	}
}

// Update advances the character one frame: land if the airborne arc has
// come back down, then step the action machine, the balance body, and the
// world kinematics.
func (c *Character) Update(dt float64) {
	st := c.bal.State()
	if st.Locked && st.Velocity.Y() < 0 && st.Position.Y() <= st.RestPosition.Y() {
		c.bal.Unlock()
		// A jump's infinite active window closes on touchdown.
		c.act.ForceEnd()
	}

	c.act.Update(dt)
	c.bal.Update(dt)
	c.pos = c.pos.Add(c.vel.Mul(dt))
}

// ID implements contact.Actor.
func (c *Character) ID() string { return c.id }

// Position implements contact.Actor.
func (c *Character) Position() mgl64.Vec3 { return c.pos }

// Height implements contact.Actor.
func (c *Character) Height() float64 { return c.bal.Height() }

// BodyRadius implements contact.Actor.
func (c *Character) BodyRadius() float64 {
	return c.bal.Params().Radius + bodyRadiusPad
}

// Balance implements contact.Actor.
func (c *Character) Balance() *balance.Controller { return c.bal }

// Action returns the character's action state machine.
func (c *Character) Action() *action.Controller { return c.act }

// Facing returns the yaw in radians about +Y.
func (c *Character) Facing() float64 { return c.facing }

// SetFacing sets the yaw in radians.
func (c *Character) SetFacing(rad float64) { c.facing = rad }

// SetPosition places the character in the world.
func (c *Character) SetPosition(p mgl64.Vec3) { c.pos = p }

// SetVelocity sets the scenario-driven locomotion velocity.
func (c *Character) SetVelocity(v mgl64.Vec3) { c.vel = v }

// Velocity returns the locomotion velocity.
func (c *Character) Velocity() mgl64.Vec3 { return c.vel }

// Abilities returns the character's stat multipliers.
func (c *Character) Abilities() Abilities { return c.abilities }

// ActiveHitbox returns the running action's hitbox in world space, or nil.
func (c *Character) ActiveHitbox() *court.WorldHitbox {
	return c.act.ActiveHitbox(c.pos, c.facing)
}

// Sample flattens the character for recording and display.
func (c *Character) Sample() Sample {
	s := Sample{
		ID:        c.id,
		OffsetH:   c.bal.HorizontalOffset(),
		OffsetY:   c.bal.Offset().Y(),
		Speed:     c.bal.State().Velocity.Len(),
		Stability: c.bal.Stability(),
		Recovery:  c.bal.EstimatedRecoveryTime(),
		Locked:    c.bal.IsLocked(),
		Phase:     c.act.Phase().String(),
	}
	if t, ok := c.act.CurrentAction(); ok {
		s.Action = t.String()
	}
	return s
}
