package balance

import "github.com/hooplab/courtsim/internal/court"

// Baseline coefficients for parameter derivation. Tuned so the full
// weight/height ranges keep the spring and damping above their floors.
const (
	baseSpring     = 9000.0
	springPerKg    = 40.0   // spring lost per kg above WeightMin
	springPerM     = 2000.0 // spring lost per meter above HeightMin
	baseDamping    = 600.0
	dampingPerKg   = 3.0
	baseRadius     = 0.15
	radiusPerKg    = 0.001
	restHeightFrac = 0.55 // center of mass sits at ~55% of standing height
)

// Params are the derived spring-damper characteristics of one character.
type Params struct {
	SpringConstant float64
	Damping        float64
	Mass           float64
	Radius         float64
	RestHeight     float64
}

// DeriveParams maps a character's physical build to balance physics.
// Weight and height are clamped to the tuning ranges first. Excess weight
// and height both soften the spring (taller, heavier players are less
// stable); excess weight also weakens damping (more momentum to kill).
// Both derived constants are floored so every legal build still recovers.
func DeriveParams(weight, height float64, tn court.Tuning) Params {
	w := clamp(weight, tn.WeightMin, tn.WeightMax)
	h := clamp(height, tn.HeightMin, tn.HeightMax)

	spring := baseSpring - springPerKg*(w-tn.WeightMin) - springPerM*(h-tn.HeightMin)
	if spring < tn.SpringFloor {
		spring = tn.SpringFloor
	}

	damping := baseDamping - dampingPerKg*(w-tn.WeightMin)
	if damping < tn.DampingFloor {
		damping = tn.DampingFloor
	}

	return Params{
		SpringConstant: spring,
		Damping:        damping,
		Mass:           w,
		Radius:         baseRadius + radiusPerKg*w,
		RestHeight:     restHeightFrac * h,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
