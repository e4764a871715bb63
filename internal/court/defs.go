package court

import "github.com/go-gl/mathgl/mgl64"

// HitboxShape distinguishes the two supported hitbox volumes.
type HitboxShape int

const (
	HitboxSphere HitboxShape = iota
	HitboxCylinder
)

func (s HitboxShape) String() string {
	if s == HitboxCylinder {
		return "cylinder"
	}
	return "sphere"
}

// Hitbox is the contact volume an action exposes during its active phase,
// declared in character-local space (offset relative to the character
// origin, +Z facing forward).
type Hitbox struct {
	Shape  HitboxShape
	Radius float64
	Height float64 // cylinders only
	Offset mgl64.Vec3
}

// WorldHitbox is a Hitbox transformed into world space: the offset rotated
// by the character's facing and translated to its position.
type WorldHitbox struct {
	Shape  HitboxShape
	Radius float64
	Height float64
	Center mgl64.Vec3
}

// ActionDefinition is one immutable row of the action table.
type ActionDefinition struct {
	Type     ActionType
	Category Category

	// MotionRef names the animation clip collaborators trigger when the
	// action starts. The core never interprets it.
	MotionRef string

	// Startup and Active are phase durations in seconds. Active may be
	// InfiniteActive for actions that persist until explicitly ended.
	Startup float64
	Active  float64

	Priority      int
	Interruptible bool

	Hitbox *Hitbox
}

// InfiniteActive reports whether the action's active phase never ends on
// its own.
func (d ActionDefinition) InfiniteActive() bool {
	return d.Active < 0
}

// ActionTable maps each action to its definition.
type ActionTable map[ActionType]ActionDefinition

// DefaultActionTable returns the built-in action catalog. The returned map
// is freshly allocated; callers treat it as immutable after injection.
func DefaultActionTable() ActionTable {
	defs := []ActionDefinition{
		{Type: ActionJumpShot, Category: CategoryShot, MotionRef: "shot_jumper", Startup: 0.35, Active: 0.50, Priority: 5},
		{Type: ActionLayup, Category: CategoryShot, MotionRef: "shot_layup", Startup: 0.30, Active: 0.60, Priority: 5},
		{Type: ActionDunk, Category: CategoryShot, MotionRef: "shot_dunk", Startup: 0.40, Active: 0.60, Priority: 6},
		{Type: ActionJump, Category: CategoryMovement, MotionRef: "jump_vertical", Startup: 0.20, Active: InfiniteActive, Priority: 4},
		{Type: ActionCrossover, Category: CategoryDribble, MotionRef: "dribble_crossover", Startup: 0.15, Active: 0.30, Priority: 3, Interruptible: true},
		{Type: ActionSpinMove, Category: CategoryDribble, MotionRef: "dribble_spin", Startup: 0.25, Active: 0.45, Priority: 3, Interruptible: true},
		{Type: ActionStepBack, Category: CategoryDribble, MotionRef: "dribble_stepback", Startup: 0.20, Active: 0.35, Priority: 3, Interruptible: true},
		{Type: ActionPumpFake, Category: CategoryShot, MotionRef: "shot_pumpfake", Startup: 0.15, Active: 0.25, Priority: 2, Interruptible: true},
		{Type: ActionPass, Category: CategoryMovement, MotionRef: "pass_chest", Startup: 0.10, Active: 0.20, Priority: 2, Interruptible: true},
		{Type: ActionSteal, Category: CategoryDefense, MotionRef: "defense_steal", Startup: 0.15, Active: 0.25, Priority: 4,
			Hitbox: &Hitbox{Shape: HitboxSphere, Radius: 0.45, Offset: mgl64.Vec3{0, 0.9, 0.6}}},
		{Type: ActionBlock, Category: CategoryDefense, MotionRef: "defense_block", Startup: 0.25, Active: 0.40, Priority: 5,
			Hitbox: &Hitbox{Shape: HitboxCylinder, Radius: 0.50, Height: 1.0, Offset: mgl64.Vec3{0, 1.6, 0.4}}},
		{Type: ActionScreen, Category: CategoryPhysical, MotionRef: "physical_screen", Startup: 0.30, Active: InfiniteActive, Priority: 3,
			Hitbox: &Hitbox{Shape: HitboxCylinder, Radius: 0.55, Height: 1.8, Offset: mgl64.Vec3{0, 0.9, 0}}},
		{Type: ActionBoxOut, Category: CategoryPhysical, MotionRef: "physical_boxout", Startup: 0.20, Active: InfiniteActive, Priority: 4},
		{Type: ActionPostUp, Category: CategoryPhysical, MotionRef: "physical_postup", Startup: 0.25, Active: InfiniteActive, Priority: 4},
	}

	table := make(ActionTable, len(defs))
	for _, d := range defs {
		table[d.Type] = d
	}
	return table
}
