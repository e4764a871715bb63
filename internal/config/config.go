// Package config loads and validates scenario configuration files.
// Action and force ids are parsed to their closed enum at load time, so a
// typo in a yaml file fails here rather than silently mid-frame.
package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/hooplab/courtsim/internal/court"
	"github.com/hooplab/courtsim/internal/sim"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultDuration = 8.0
)

// Config is the full scenario description.
type Config struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`

	Tuning court.Tuning `yaml:"tuning"`

	Characters []CharacterConfig `yaml:"characters"`
	Events     []EventConfig     `yaml:"events"`

	// Forces overrides entries of the built-in force table by action name.
	Forces map[string]ForceConfig `yaml:"forces"`

	// Actions overrides timing/priority fields of the built-in action
	// table by action name.
	Actions map[string]ActionConfig `yaml:"actions"`
}

type CharacterConfig struct {
	Name     string  `yaml:"name"`
	Weight   float64 `yaml:"weight"`
	Height   float64 `yaml:"height"`
	X        float64 `yaml:"x"`
	Z        float64 `yaml:"z"`
	Facing   float64 `yaml:"facing"`
	VX       float64 `yaml:"vx"`
	VZ       float64 `yaml:"vz"`
	Vertical float64 `yaml:"vertical"`
	Strength float64 `yaml:"strength"`
}

type EventConfig struct {
	Time      float64 `yaml:"time"`
	Character string  `yaml:"character"`
	Kind      string  `yaml:"kind"` // start_action, force_end, impulse, set_velocity, post_up, box_out
	Action    string  `yaml:"action"`
	Target    string  `yaml:"target"`
	IX        float64 `yaml:"ix"`
	IY        float64 `yaml:"iy"`
	IZ        float64 `yaml:"iz"`
	VX        float64 `yaml:"vx"`
	VY        float64 `yaml:"vy"`
	VZ        float64 `yaml:"vz"`
}

type ForceConfig struct {
	FX       float64 `yaml:"fx"`
	FY       float64 `yaml:"fy"`
	FZ       float64 `yaml:"fz"`
	Duration float64 `yaml:"duration"`
	Lock     bool    `yaml:"lock"`
}

type ActionConfig struct {
	Startup       *float64 `yaml:"startup"`
	Active        *float64 `yaml:"active"`
	Priority      *int     `yaml:"priority"`
	Interruptible *bool    `yaml:"interruptible"`
}

// DefaultConfig returns an empty scenario with baseline stepping and
// tuning.
func DefaultConfig() *Config {
	return &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Tuning:   court.DefaultTuning(),
	}
}

// Load reads a yaml config over the defaults, so partial files override
// only what they name.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as yaml.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks structural soundness: stepping parameters, unique
// character names, resolvable action ids and event references.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive", court.ErrInvalidConfig)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", court.ErrInvalidConfig)
	}
	if len(c.Characters) == 0 {
		return fmt.Errorf("%w: at least one character required", court.ErrInvalidConfig)
	}

	names := make(map[string]struct{}, len(c.Characters))
	for _, ch := range c.Characters {
		if ch.Name == "" {
			return fmt.Errorf("%w: character without a name", court.ErrInvalidConfig)
		}
		if _, dup := names[ch.Name]; dup {
			return fmt.Errorf("%w: duplicate character %q", court.ErrInvalidConfig, ch.Name)
		}
		names[ch.Name] = struct{}{}
	}

	for _, ev := range c.Events {
		if _, ok := names[ev.Character]; !ok {
			return fmt.Errorf("%w: event at t=%.2f names unknown character %q", court.ErrInvalidConfig, ev.Time, ev.Character)
		}
		switch ev.Kind {
		case "start_action":
			if _, err := court.ParseActionType(ev.Action); err != nil {
				return fmt.Errorf("%w: event at t=%.2f: %v", court.ErrInvalidConfig, ev.Time, err)
			}
		case "force_end", "impulse", "set_velocity":
		case "post_up", "box_out":
			if _, ok := names[ev.Target]; !ok {
				return fmt.Errorf("%w: event at t=%.2f names unknown target %q", court.ErrInvalidConfig, ev.Time, ev.Target)
			}
		default:
			return fmt.Errorf("%w: unknown event kind %q", court.ErrInvalidConfig, ev.Kind)
		}
	}

	for name := range c.Forces {
		if _, err := court.ParseActionType(name); err != nil {
			return fmt.Errorf("%w: force override: %v", court.ErrInvalidConfig, err)
		}
	}
	for name := range c.Actions {
		if _, err := court.ParseActionType(name); err != nil {
			return fmt.Errorf("%w: action override: %v", court.ErrInvalidConfig, err)
		}
	}

	return nil
}

// ForceTable builds the force table: the defaults with this config's
// overrides applied.
func (c *Config) ForceTable() (court.ForceTable, error) {
	table := court.DefaultForceTable()
	for name, fc := range c.Forces {
		t, err := court.ParseActionType(name)
		if err != nil {
			return nil, err
		}
		table[t] = court.ForceSpec{
			Force:    mgl64.Vec3{fc.FX, fc.FY, fc.FZ},
			Duration: fc.Duration,
			Lock:     fc.Lock,
		}
	}
	return table, nil
}

// ActionTable builds the action table: the defaults with this config's
// field-level overrides applied.
func (c *Config) ActionTable() (court.ActionTable, error) {
	table := court.DefaultActionTable()
	for name, ac := range c.Actions {
		t, err := court.ParseActionType(name)
		if err != nil {
			return nil, err
		}
		def := table[t]
		if ac.Startup != nil {
			def.Startup = *ac.Startup
		}
		if ac.Active != nil {
			def.Active = *ac.Active
		}
		if ac.Priority != nil {
			def.Priority = *ac.Priority
		}
		if ac.Interruptible != nil {
			def.Interruptible = *ac.Interruptible
		}
		table[t] = def
	}
	return table, nil
}

// SimEvents converts the config events to their typed sim form.
// Validate must have passed first.
func (c *Config) SimEvents() ([]sim.Event, error) {
	out := make([]sim.Event, 0, len(c.Events))
	for _, ev := range c.Events {
		typed := sim.Event{
			Time:      ev.Time,
			Character: ev.Character,
			Target:    ev.Target,
		}
		switch ev.Kind {
		case "start_action":
			at, err := court.ParseActionType(ev.Action)
			if err != nil {
				return nil, err
			}
			typed.Kind = sim.EventStartAction
			typed.Action = at
		case "force_end":
			typed.Kind = sim.EventForceEnd
		case "impulse":
			typed.Kind = sim.EventImpulse
			typed.Impulse = mgl64.Vec3{ev.IX, ev.IY, ev.IZ}
		case "set_velocity":
			typed.Kind = sim.EventSetVelocity
			typed.Velocity = mgl64.Vec3{ev.VX, ev.VY, ev.VZ}
		case "post_up":
			typed.Kind = sim.EventPostUp
		case "box_out":
			typed.Kind = sim.EventBoxOut
		default:
			return nil, fmt.Errorf("%w: unknown event kind %q", court.ErrInvalidConfig, ev.Kind)
		}
		out = append(out, typed)
	}
	return out, nil
}
