package balance

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hooplab/courtsim/internal/court"
)

// CollisionResult is the ephemeral outcome of one pairwise collision check.
// Both velocity deltas are returned so the caller can apply them to both
// parties in a single step.
type CollisionResult struct {
	Occurred         bool
	VelocityDeltaA   mgl64.Vec3
	VelocityDeltaB   mgl64.Vec3
	ImpulseMagnitude float64
	DestabilizedA    bool
	DestabilizedB    bool
	KnockedBackA     bool
	KnockedBackB     bool
}

// SpringDamperForce returns the restoring force -k·(pos-rest) - c·vel.
func SpringDamperForce(pos, vel, rest mgl64.Vec3, k, c float64) mgl64.Vec3 {
	return pos.Sub(rest).Mul(-k).Sub(vel.Mul(c))
}

// Integrate advances position and velocity one semi-implicit Euler step:
// velocity first, then position with the updated velocity.
func Integrate(pos, vel, force mgl64.Vec3, mass, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	vel = vel.Add(force.Mul(dt / mass))
	pos = pos.Add(vel.Mul(dt))
	return pos, vel
}

// ClampToBounds confines pos to the configured envelope around rest: a
// radial clamp in the horizontal plane that preserves direction, and a
// band clamp vertically.
func ClampToBounds(pos, rest mgl64.Vec3, tn court.Tuning) mgl64.Vec3 {
	off := pos.Sub(rest)

	horiz := mgl64.Vec2{off.X(), off.Z()}
	if l := horiz.Len(); l > tn.MaxHorizontalOffset {
		horiz = horiz.Mul(tn.MaxHorizontalOffset / l)
	}

	vert := off.Y()
	if vert > tn.MaxVerticalOffset {
		vert = tn.MaxVerticalOffset
	} else if vert < -tn.MaxVerticalOffset {
		vert = -tn.MaxVerticalOffset
	}

	return rest.Add(mgl64.Vec3{horiz.X(), vert, horiz.Y()})
}

// ResolveCollision performs 1-D impulse resolution along contactNormal,
// which points from B toward A. If the pair is already separating the
// result is empty; a separated pair must not be resolved twice.
//
// The impulse uses the reduced-mass formula j = -(1+e)·v_rel·n / (1/mA +
// 1/mB) and is applied as ±j·n/mass. The shorter party additionally takes
// a downward shove proportional to the height difference, so a big man
// leaning on a guard wins the exchange. Severity per party is classified
// by impulse per unit mass against the destabilize and knockback tiers.
func ResolveCollision(a, b State, heightA, heightB float64, contactNormal mgl64.Vec3, tn court.Tuning) CollisionResult {
	relVel := a.Velocity.Sub(b.Velocity)
	vn := relVel.Dot(contactNormal)
	if vn >= 0 {
		return CollisionResult{}
	}

	invMass := 1/a.Mass + 1/b.Mass
	j := -(1 + tn.Restitution) * vn / invMass

	deltaA := contactNormal.Mul(j / a.Mass)
	deltaB := contactNormal.Mul(-j / b.Mass)

	heightDiff := heightA - heightB
	if heightDiff < 0 {
		deltaA = deltaA.Sub(mgl64.Vec3{0, -heightDiff * tn.HeightAdvantage * (j / a.Mass), 0})
	} else if heightDiff > 0 {
		deltaB = deltaB.Sub(mgl64.Vec3{0, heightDiff * tn.HeightAdvantage * (j / b.Mass), 0})
	}

	perMassA := math.Abs(j) / a.Mass
	perMassB := math.Abs(j) / b.Mass

	return CollisionResult{
		Occurred:         true,
		VelocityDeltaA:   deltaA,
		VelocityDeltaB:   deltaB,
		ImpulseMagnitude: math.Abs(j),
		DestabilizedA:    perMassA >= tn.DestabilizeImpulse,
		DestabilizedB:    perMassB >= tn.DestabilizeImpulse,
		KnockedBackA:     perMassA >= tn.KnockbackImpulse,
		KnockedBackB:     perMassB >= tn.KnockbackImpulse,
	}
}

// CanTransition reports whether the balance state is settled enough to
// begin a new action: unlocked, horizontal offset within the transition
// threshold and horizontal speed within the velocity threshold.
func CanTransition(s State, tn court.Tuning) bool {
	if s.Locked {
		return false
	}
	return s.HorizontalOffset() <= tn.TransitionThreshold &&
		s.HorizontalSpeed() <= tn.VelocityThreshold
}

// IsNeutral is the stricter settledness test used for the rest snap: the
// full 3D offset inside the neutral threshold and speed under half the
// velocity threshold.
func IsNeutral(s State, tn court.Tuning) bool {
	if s.Locked {
		return false
	}
	return s.Offset().Len() <= tn.NeutralThreshold &&
		s.Velocity.Len() <= tn.VelocityThreshold/2
}

// EstimateRecoveryTime predicts how long until CanTransition would pass,
// using the exponential envelope of the damped system with time constant
// τ = m/c. It is an ordering heuristic for AI and HUD prediction, not the
// integrated trajectory: larger offset or speed always yields a larger
// estimate, and the exact value is approximate.
func EstimateRecoveryTime(s State, damping float64, tn court.Tuning) float64 {
	if CanTransition(s, tn) {
		return 0
	}

	tau := s.Mass / damping

	var tOffset, tSpeed float64
	if off := s.HorizontalOffset(); off > tn.TransitionThreshold {
		tOffset = tau * math.Log(off/tn.TransitionThreshold)
	}
	if spd := s.HorizontalSpeed(); spd > tn.VelocityThreshold {
		tSpeed = tau * math.Log(spd/tn.VelocityThreshold)
	}

	return math.Max(tOffset, tSpeed)
}
