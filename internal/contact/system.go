// Package contact coordinates inter-character balance collisions once per
// frame. It owns the only code path allowed to touch two characters'
// velocities in a single step: every unique pair is resolved at most once,
// and both parties receive their deltas in the same instant.
package contact

import (
	"fmt"
	"io"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/hooplab/courtsim/internal/balance"
	"github.com/hooplab/courtsim/internal/court"
)

// Scripted choreography impulse magnitudes, in N·s before the bonus
// multiplier and push-power scaling.
const (
	postUpPushImpulse = 80.0
	boxOutPushImpulse = 60.0

	// coarsePad widens the body-contact radius for the cheap pre-filter.
	coarsePad = 1.0
)

// Actor is the view of a character the collision system needs. The sim
// character satisfies it; tests use lightweight fakes.
type Actor interface {
	ID() string
	Position() mgl64.Vec3
	Height() float64
	BodyRadius() float64
	Balance() *balance.Controller
}

// Events are structured collision notifications. Any field may be nil.
type Events struct {
	OnCollision    func(a, b Actor, res balance.CollisionResult)
	OnDestabilized func(who, by Actor)
	OnKnockedBack  func(who, by Actor, velocityDelta mgl64.Vec3)

	// OnPushSuccess fires when one party visibly moved the other: the
	// larger velocity-delta receiver is the one who got pushed.
	OnPushSuccess func(pusher, pushed Actor)
}

// System runs the per-frame pairwise collision scan over its tracked
// characters. Iteration order is insertion order and therefore
// deterministic; simultaneous collisions on one character resolve
// serially, each seeing the velocities the previous one left behind.
type System struct {
	actors *orderedmap.OrderedMap[string, Actor]
	tuning court.Tuning
	events Events
	log    *logrus.Logger
}

// NewSystem builds an empty collision system.
func NewSystem(tn court.Tuning, events Events, log *logrus.Logger) *System {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &System{
		actors: orderedmap.NewOrderedMap[string, Actor](),
		tuning: tn,
		events: events,
		log:    log,
	}
}

// Track registers a character for collision scanning.
func (s *System) Track(a Actor) error {
	if _, ok := s.actors.Get(a.ID()); ok {
		return fmt.Errorf("%w: %s", court.ErrDuplicateActor, a.ID())
	}
	s.actors.Set(a.ID(), a)
	return nil
}

// Untrack removes a character from collision scanning.
func (s *System) Untrack(id string) {
	s.actors.Delete(id)
}

// Tracked returns the number of tracked characters.
func (s *System) Tracked() int { return s.actors.Len() }

// Update scans every unique pair once. The coarse distance pre-filter
// rejects far pairs cheaply; surviving pairs get the body-contact-radius
// test and, on contact, a single atomic resolution applying both deltas.
func (s *System) Update(dt float64) {
	seen := make(map[string]struct{})

	for ea := s.actors.Front(); ea != nil; ea = ea.Next() {
		for eb := ea.Next(); eb != nil; eb = eb.Next() {
			key := pairKey(ea.Key, eb.Key)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			s.checkPair(ea.Value, eb.Value)
		}
	}
}

func (s *System) checkPair(a, b Actor) {
	delta := a.Position().Sub(b.Position())
	contactDist := a.BodyRadius() + b.BodyRadius()

	coarse := contactDist + coarsePad
	if delta.Dot(delta) > coarse*coarse {
		return
	}

	dist := delta.Len()
	if dist > contactDist {
		return
	}
	if dist < 1e-9 {
		// Perfectly coincident centers give no usable normal.
		return
	}

	normal := delta.Mul(1 / dist) // from B toward A

	res := a.Balance().CollideWith(b.Balance(), normal)
	if !res.Occurred {
		return
	}
	// CollideWith applied A's delta; the reciprocal half is ours to hand
	// over, exactly once.
	b.Balance().ApplyCollisionDelta(res.VelocityDeltaB)

	s.emit(a, b, res)
}

func (s *System) emit(a, b Actor, res balance.CollisionResult) {
	if s.events.OnCollision != nil {
		s.events.OnCollision(a, b, res)
	}
	if s.events.OnDestabilized != nil {
		if res.DestabilizedA {
			s.events.OnDestabilized(a, b)
		}
		if res.DestabilizedB {
			s.events.OnDestabilized(b, a)
		}
	}
	if s.events.OnKnockedBack != nil {
		if res.KnockedBackA {
			s.events.OnKnockedBack(a, b, res.VelocityDeltaA)
		}
		if res.KnockedBackB {
			s.events.OnKnockedBack(b, a, res.VelocityDeltaB)
		}
	}
	if s.events.OnPushSuccess != nil {
		la, lb := res.VelocityDeltaA.Len(), res.VelocityDeltaB.Len()
		if la > lb {
			s.events.OnPushSuccess(b, a)
		} else if lb > la {
			s.events.OnPushSuccess(a, b)
		}
	}
}

// InitiatePostUp applies the scripted post-up exchange: the attacker
// plants with its post-up stabilizing force and the defender is shoved
// backward along the attacker's line, scaled by the choreography bonus and
// the attacker's push power. Asymmetric by construction; this is not the
// general solver.
func (s *System) InitiatePostUp(attackerID, defenderID string) error {
	att, def, dir, err := s.lookupPair(attackerID, defenderID)
	if err != nil {
		return err
	}
	att.Balance().ApplyNamedForce(court.ActionPostUp)
	push := dir.Mul(postUpPushImpulse * s.tuning.ChoreographyBonus * att.Balance().PushPower())
	def.Balance().ApplyImpulse(push)
	return nil
}

// InitiateBoxOut applies the scripted box-out: the boxer takes its
// self-stabilizing downward force while the opponent is pushed outward,
// away from the boxer, with the same bonus scaling.
func (s *System) InitiateBoxOut(boxerID, opponentID string) error {
	boxer, opp, dir, err := s.lookupPair(boxerID, opponentID)
	if err != nil {
		return err
	}
	boxer.Balance().ApplyNamedForce(court.ActionBoxOut)
	push := dir.Mul(boxOutPushImpulse * s.tuning.ChoreographyBonus * boxer.Balance().PushPower())
	opp.Balance().ApplyImpulse(push)
	return nil
}

// lookupPair resolves both actors and the horizontal unit vector from the
// first toward the second.
func (s *System) lookupPair(firstID, secondID string) (Actor, Actor, mgl64.Vec3, error) {
	first, ok := s.actors.Get(firstID)
	if !ok {
		return nil, nil, mgl64.Vec3{}, fmt.Errorf("contact: unknown actor %q", firstID)
	}
	second, ok := s.actors.Get(secondID)
	if !ok {
		return nil, nil, mgl64.Vec3{}, fmt.Errorf("contact: unknown actor %q", secondID)
	}

	d := second.Position().Sub(first.Position())
	d = mgl64.Vec3{d.X(), 0, d.Z()}
	if l := d.Len(); l > 1e-9 {
		d = d.Mul(1 / l)
	} else {
		d = mgl64.Vec3{0, 0, 1}
	}
	return first, second, d, nil
}

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}
