package config

import "sort"

// presets are the built-in scenarios the CLI ships with.
var presets = map[string]func() *Config{
	"jumpshot": jumpshotPreset,
	"duel":     duelPreset,
	"postup":   postupPreset,
	"boxout":   boxoutPreset,
	"chain":    chainPreset,
}

// GetPreset returns a named built-in scenario, or nil if unknown.
func GetPreset(name string) *Config {
	fn, ok := presets[name]
	if !ok {
		return nil
	}
	return fn()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// jumpshotPreset: a lone guard rises for a jumper, lands, and settles.
func jumpshotPreset() *Config {
	cfg := DefaultConfig()
	cfg.Duration = 5.0
	cfg.Characters = []CharacterConfig{
		{Name: "guard", Weight: 80, Height: 1.88, Vertical: 1.1},
	}
	cfg.Events = []EventConfig{
		{Time: 0.5, Character: "guard", Kind: "start_action", Action: "jump_shot"},
	}
	return cfg
}

// duelPreset: a guard and a center close head-on and collide at speed.
func duelPreset() *Config {
	cfg := DefaultConfig()
	cfg.Duration = 6.0
	cfg.Characters = []CharacterConfig{
		{Name: "guard", Weight: 80, Height: 1.85, X: -2, VX: 2.0, Vertical: 1.1},
		{Name: "center", Weight: 115, Height: 2.11, X: 2, VX: -1.0, Strength: 1.2},
	}
	cfg.Events = []EventConfig{
		// Shoulder load lands just before the bodies meet (~t=1.0s).
		{Time: 1.0, Character: "guard", Kind: "impulse", IX: 180},
		{Time: 1.0, Character: "center", Kind: "impulse", IX: -160},
		{Time: 2.5, Character: "guard", Kind: "set_velocity"},
		{Time: 2.5, Character: "center", Kind: "set_velocity"},
	}
	return cfg
}

// postupPreset: a forward backs a lighter defender down on the block.
func postupPreset() *Config {
	cfg := DefaultConfig()
	cfg.Duration = 6.0
	cfg.Characters = []CharacterConfig{
		{Name: "forward", Weight: 110, Height: 2.05, X: 0, Z: 0, Strength: 1.2},
		{Name: "defender", Weight: 85, Height: 1.95, X: 0, Z: 0.8},
	}
	cfg.Events = []EventConfig{
		{Time: 0.5, Character: "forward", Kind: "start_action", Action: "post_up"},
		{Time: 0.6, Character: "forward", Kind: "post_up", Target: "defender"},
		{Time: 2.0, Character: "forward", Kind: "post_up", Target: "defender"},
		// The post-up stance holds until it is released; the turnaround
		// jumper needs the stance closed and the body settled first.
		{Time: 3.0, Character: "forward", Kind: "force_end"},
		{Time: 4.0, Character: "forward", Kind: "start_action", Action: "jump_shot"},
	}
	return cfg
}

// boxoutPreset: a rebounder seals out an opponent crashing the glass.
func boxoutPreset() *Config {
	cfg := DefaultConfig()
	cfg.Duration = 5.0
	cfg.Characters = []CharacterConfig{
		{Name: "rebounder", Weight: 105, Height: 2.03, X: 0, Z: 0, Strength: 1.15},
		{Name: "crasher", Weight: 90, Height: 1.98, X: 0, Z: 0.7, VZ: -0.8},
	}
	cfg.Events = []EventConfig{
		{Time: 0.3, Character: "rebounder", Kind: "start_action", Action: "box_out"},
		{Time: 0.5, Character: "rebounder", Kind: "box_out", Target: "crasher"},
		{Time: 2.2, Character: "rebounder", Kind: "force_end"},
		{Time: 3.2, Character: "rebounder", Kind: "start_action", Action: "jump"},
	}
	return cfg
}

// chainPreset: a dribble chain showing interrupt priority and the balance
// cost of stacking moves.
func chainPreset() *Config {
	cfg := DefaultConfig()
	cfg.Duration = 6.0
	cfg.Characters = []CharacterConfig{
		{Name: "handler", Weight: 78, Height: 1.83, Vertical: 1.05},
	}
	cfg.Events = []EventConfig{
		{Time: 0.5, Character: "handler", Kind: "start_action", Action: "crossover"},
		// Higher-priority jumper interrupts the crossover mid-startup.
		{Time: 0.55, Character: "handler", Kind: "start_action", Action: "jump_shot"},
		// The handler is back down and settled around t=3.
		{Time: 3.2, Character: "handler", Kind: "start_action", Action: "spin_move"},
		{Time: 4.5, Character: "handler", Kind: "start_action", Action: "step_back"},
	}
	return cfg
}
