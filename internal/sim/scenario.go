package sim

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/hooplab/courtsim/internal/balance"
	"github.com/hooplab/courtsim/internal/contact"
	"github.com/hooplab/courtsim/internal/court"
)

// Scenario drives a set of characters through a scripted, frame-stepped
// run. Each frame executes in the fixed order collisions → actions →
// balance integration, matching the order collaborators read snapshots in.
type Scenario struct {
	tuning court.Tuning
	log    *logrus.Logger

	characters []*Character
	byID       map[string]*Character
	system     *contact.System

	events    []Event
	metrics   []Metric
	observers []Observer

	collisions int
}

// NewScenario builds an empty scenario. The caller's contact events are
// preserved; the scenario only wraps the collision callback to count.
func NewScenario(tn court.Tuning, events contact.Events, log *logrus.Logger) *Scenario {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	s := &Scenario{
		tuning: tn,
		log:    log,
		byID:   make(map[string]*Character),
	}

	wrapped := events
	userCollision := events.OnCollision
	wrapped.OnCollision = func(a, b contact.Actor, res balance.CollisionResult) {
		s.collisions++
		if userCollision != nil {
			userCollision(a, b, res)
		}
	}
	s.system = contact.NewSystem(tn, wrapped, log)
	return s
}

// AddCharacter registers a character with the scenario and its collision
// system. Registration order fixes the deterministic iteration order.
func (s *Scenario) AddCharacter(c *Character) error {
	if _, dup := s.byID[c.ID()]; dup {
		return fmt.Errorf("%w: %s", court.ErrDuplicateActor, c.ID())
	}
	if err := s.system.Track(c); err != nil {
		return err
	}
	s.characters = append(s.characters, c)
	s.byID[c.ID()] = c
	return nil
}

// Character returns a registered character by id.
func (s *Scenario) Character(id string) (*Character, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Schedule adds a scripted event. Events fire once their time is reached.
func (s *Scenario) Schedule(ev Event) {
	s.events = append(s.events, ev)
}

// AddMetric registers a per-step metric.
func (s *Scenario) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// AddObserver registers a per-step observer.
func (s *Scenario) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// System exposes the collision coordinator, e.g. for choreography calls.
func (s *Scenario) System() *contact.System { return s.system }

// Stepper advances a scenario one frame at a time. Run wraps it for batch
// execution; the live TUI drives it directly at display rate.
type Stepper struct {
	s      *Scenario
	cfg    Config
	events []Event
	next   int
	t      float64
	step   int
	steps  int
}

// Stepper validates the config, resets metrics and returns a fresh
// frame-by-frame runner.
func (s *Scenario) Stepper(cfg Config) (*Stepper, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	events := make([]Event, len(s.events))
	copy(events, s.events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })

	for _, m := range s.metrics {
		m.Reset()
	}
	s.collisions = 0

	return &Stepper{
		s:      s,
		cfg:    cfg,
		events: events,
		steps:  int(cfg.Duration / cfg.Dt),
	}, nil
}

// Step executes one frame: due scripted events, then collisions, then
// per-character action and balance updates. Returns false once the
// configured duration is exhausted.
func (st *Stepper) Step() bool {
	if st.step >= st.steps {
		return false
	}

	for st.next < len(st.events) && st.events[st.next].Time <= st.t {
		st.s.apply(st.events[st.next])
		st.next++
	}

	st.s.system.Update(st.cfg.Dt)
	for _, c := range st.s.characters {
		c.Update(st.cfg.Dt)
	}

	st.t += st.cfg.Dt
	st.step++

	for _, m := range st.s.metrics {
		m.Observe(st.t, st.s.characters)
	}
	for _, o := range st.s.observers {
		o.OnStep(st.t, st.s.characters)
	}
	return true
}

// Time returns the accumulated simulation time.
func (st *Stepper) Time() float64 { return st.t }

// Done reports whether the run has exhausted its duration.
func (st *Stepper) Done() bool { return st.step >= st.steps }

// Characters returns the scenario's characters in registration order.
func (st *Stepper) Characters() []*Character { return st.s.characters }

// Run steps the scenario for the configured duration. The accumulated
// simulation time advanced by dt is the only clock anywhere in the run;
// identical configs produce identical results.
func (s *Scenario) Run(ctx context.Context, cfg Config) (*Result, error) {
	stepper, err := s.Stepper(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Times:   make([]float64, 0, stepper.steps),
		Samples: make([][]Sample, 0, stepper.steps),
		Metrics: make(map[string]float64),
	}

	for !stepper.Done() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		stepper.Step()
		result.StepsTaken++

		result.Times = append(result.Times, stepper.Time())
		frame := make([]Sample, len(s.characters))
		for j, c := range s.characters {
			frame[j] = c.Sample()
		}
		result.Samples = append(result.Samples, frame)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Collisions = s.collisions

	return result, nil
}

func (s *Scenario) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", court.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", court.ErrInvalidConfig, cfg.Duration)
	}
	if len(s.characters) == 0 {
		return fmt.Errorf("%w: no characters", court.ErrInvalidConfig)
	}
	for _, ev := range s.events {
		if _, ok := s.byID[ev.Character]; !ok {
			return fmt.Errorf("%w: event at t=%.2f names unknown character %q", court.ErrInvalidConfig, ev.Time, ev.Character)
		}
		if (ev.Kind == EventPostUp || ev.Kind == EventBoxOut) && ev.Target != "" {
			if _, ok := s.byID[ev.Target]; !ok {
				return fmt.Errorf("%w: event at t=%.2f names unknown target %q", court.ErrInvalidConfig, ev.Time, ev.Target)
			}
		}
	}
	return nil
}

func (s *Scenario) apply(ev Event) {
	c, ok := s.byID[ev.Character]
	if !ok {
		s.log.WithField("character", ev.Character).Warn("sim: event for unknown character skipped")
		return
	}

	switch ev.Kind {
	case EventStartAction:
		if res := c.Action().Start(ev.Action); !res.OK {
			s.log.WithFields(logrus.Fields{
				"character": ev.Character,
				"action":    ev.Action.String(),
				"reason":    res.Reason,
			}).Debug("sim: scripted action start rejected")
		}
	case EventForceEnd:
		c.Action().ForceEnd()
	case EventImpulse:
		c.Balance().ApplyImpulse(ev.Impulse)
	case EventSetVelocity:
		c.SetVelocity(ev.Velocity)
	case EventPostUp:
		if err := s.system.InitiatePostUp(ev.Character, ev.Target); err != nil {
			s.log.WithError(err).Warn("sim: post-up skipped")
		}
	case EventBoxOut:
		if err := s.system.InitiateBoxOut(ev.Character, ev.Target); err != nil {
			s.log.WithError(err).Warn("sim: box-out skipped")
		}
	}
}
