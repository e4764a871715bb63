package court

import "github.com/go-gl/mathgl/mgl64"

// ForceSpec is a declarative balance force attached to an action. Force is
// in Newtons, normalized to ReferenceMass: the balance controller rescales
// it by the character's actual mass so lighter characters move further.
type ForceSpec struct {
	Force    mgl64.Vec3
	Duration float64 // seconds
	Lock     bool    // engage the airborne lock while the force runs
}

// ForceTable maps actions to the force applied when they go active.
type ForceTable map[ActionType]ForceSpec

// DefaultForceTable returns the built-in force catalog. Forces apply at the
// startup→active transition, not at action start: a jump pushes when the
// feet leave the floor, not when the knees bend.
func DefaultForceTable() ForceTable {
	return ForceTable{
		ActionJumpShot:  {Force: mgl64.Vec3{0, 2200, 120}, Duration: 0.15, Lock: true},
		ActionLayup:     {Force: mgl64.Vec3{0, 2000, 400}, Duration: 0.18, Lock: true},
		ActionDunk:      {Force: mgl64.Vec3{0, 3000, 500}, Duration: 0.18, Lock: true},
		ActionJump:      {Force: mgl64.Vec3{0, 2600, 0}, Duration: 0.15, Lock: true},
		ActionBlock:     {Force: mgl64.Vec3{0, 2400, 200}, Duration: 0.15, Lock: true},
		ActionCrossover: {Force: mgl64.Vec3{900, 0, 300}, Duration: 0.12},
		ActionSpinMove:  {Force: mgl64.Vec3{700, 0, 500}, Duration: 0.20},
		ActionStepBack:  {Force: mgl64.Vec3{0, 0, -1100}, Duration: 0.15},
		ActionPumpFake:  {Force: mgl64.Vec3{0, 300, 0}, Duration: 0.10},
		ActionPass:      {Force: mgl64.Vec3{0, 0, 150}, Duration: 0.08},
		ActionSteal:     {Force: mgl64.Vec3{0, 0, 800}, Duration: 0.10},
		ActionScreen:    {Force: mgl64.Vec3{0, -600, 0}, Duration: 0.30},
		ActionBoxOut:    {Force: mgl64.Vec3{0, -800, 0}, Duration: 0.30},
		ActionPostUp:    {Force: mgl64.Vec3{0, -500, 400}, Duration: 0.30},
	}
}

// AbilityScaled reports whether the action's force magnitude scales with
// the character's vertical ability stat. Airborne actions jump higher for
// better leapers; everything else applies the table force as-is.
func AbilityScaled(a ActionType) bool {
	switch a {
	case ActionJumpShot, ActionLayup, ActionDunk, ActionJump, ActionBlock:
		return true
	}
	return false
}
