package court

// Physical constants shared across the simulation.
const (
	Gravity = 9.81

	// ReferenceMass is the mass the force table is normalized against.
	// A character of exactly this mass receives a table force verbatim;
	// lighter characters are displaced more, heavier ones less.
	ReferenceMass = 80.0

	// InfiniteActive marks an action whose active phase never ends on its
	// own; only an explicit cancel, force-end or hard reset leaves it.
	InfiniteActive = -1.0
)

// Tuning bundles every numeric limit and threshold of the balance model.
// One value is built at startup (DefaultTuning plus config overrides) and
// passed by value into the pure physics functions.
type Tuning struct {
	WeightMin float64 `yaml:"weight_min"`
	WeightMax float64 `yaml:"weight_max"`
	HeightMin float64 `yaml:"height_min"`
	HeightMax float64 `yaml:"height_max"`

	// Balance offset bounds relative to the rest position: a radial clamp
	// in the horizontal plane and a band clamp vertically.
	MaxHorizontalOffset float64 `yaml:"max_horizontal_offset"`
	MaxVerticalOffset   float64 `yaml:"max_vertical_offset"`

	// TransitionThreshold gates when a new action may begin; the tighter
	// NeutralThreshold gates the snap back to perfect rest.
	TransitionThreshold float64 `yaml:"transition_threshold"`
	NeutralThreshold    float64 `yaml:"neutral_threshold"`
	VelocityThreshold   float64 `yaml:"velocity_threshold"`

	// Floors below which derived spring constants never drop, so the
	// heaviest, tallest character still recovers.
	SpringFloor  float64 `yaml:"spring_floor"`
	DampingFloor float64 `yaml:"damping_floor"`

	Restitution float64 `yaml:"restitution"`

	// Impulse-per-unit-mass severity tiers. Knockback is the harsher tier
	// and must stay above the destabilize threshold.
	DestabilizeImpulse float64 `yaml:"destabilize_impulse"`
	KnockbackImpulse   float64 `yaml:"knockback_impulse"`

	// HeightAdvantage scales the extra downward shove the shorter party
	// takes in a collision, per meter of height difference.
	HeightAdvantage float64 `yaml:"height_advantage"`

	// LockedGravityFactor is the fraction of gravity applied to the balance
	// body while locked (airborne). The balance body is a tether, not the
	// character's true trajectory, so it falls softer than 1 g.
	LockedGravityFactor float64 `yaml:"locked_gravity_factor"`

	// Landing: descending faster than HardLandingSpeed converts part of the
	// vertical speed into a horizontal skid on unlock.
	HardLandingSpeed float64 `yaml:"hard_landing_speed"`
	SkidFactor       float64 `yaml:"skid_factor"`

	// ChoreographyBonus multiplies the scripted post-up / box-out forces.
	ChoreographyBonus float64 `yaml:"choreography_bonus"`
}

// DefaultTuning returns the baseline tuning used by every preset.
func DefaultTuning() Tuning {
	return Tuning{
		WeightMin:           50.0,
		WeightMax:           150.0,
		HeightMin:           1.6,
		HeightMax:           2.3,
		MaxHorizontalOffset: 0.5,
		MaxVerticalOffset:   0.4,
		TransitionThreshold: 0.15,
		NeutralThreshold:    0.05,
		VelocityThreshold:   0.5,
		SpringFloor:         10.0,
		DampingFloor:        2.0,
		Restitution:         0.3,
		DestabilizeImpulse:  1.0,
		KnockbackImpulse:    2.5,
		HeightAdvantage:     0.75,
		LockedGravityFactor: 0.35,
		HardLandingSpeed:    3.0,
		SkidFactor:          0.15,
		ChoreographyBonus:   1.5,
	}
}
