package balance

import "github.com/go-gl/mathgl/mgl64"

// State is one character's balance body: position and velocity are
// relative to the character origin, with +Y up. While Locked the
// spring-damper restoring force is suspended (airborne commitment).
type State struct {
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Mass         float64
	Radius       float64
	RestPosition mgl64.Vec3
	Locked       bool
	Grounded     bool
}

// Offset returns the 3D displacement from the rest position.
func (s State) Offset() mgl64.Vec3 {
	return s.Position.Sub(s.RestPosition)
}

// HorizontalOffset returns the displacement magnitude in the XZ plane.
func (s State) HorizontalOffset() float64 {
	off := s.Offset()
	return mgl64.Vec2{off.X(), off.Z()}.Len()
}

// HorizontalSpeed returns the velocity magnitude in the XZ plane.
func (s State) HorizontalSpeed() float64 {
	return mgl64.Vec2{s.Velocity.X(), s.Velocity.Z()}.Len()
}
