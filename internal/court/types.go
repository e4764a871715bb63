package court

import "fmt"

// ActionType enumerates every discrete action a character can perform.
// The set is closed: config files name actions by string, parsed once at
// load time through ParseActionType, so an unknown id fails at the config
// boundary instead of mid-frame.
type ActionType int

const (
	ActionJumpShot ActionType = iota
	ActionLayup
	ActionDunk
	ActionJump
	ActionCrossover
	ActionSpinMove
	ActionStepBack
	ActionPumpFake
	ActionPass
	ActionSteal
	ActionBlock
	ActionScreen
	ActionBoxOut
	ActionPostUp

	numActionTypes
)

var actionNames = [numActionTypes]string{
	ActionJumpShot:  "jump_shot",
	ActionLayup:     "layup",
	ActionDunk:      "dunk",
	ActionJump:      "jump",
	ActionCrossover: "crossover",
	ActionSpinMove:  "spin_move",
	ActionStepBack:  "step_back",
	ActionPumpFake:  "pump_fake",
	ActionPass:      "pass",
	ActionSteal:     "steal",
	ActionBlock:     "block",
	ActionScreen:    "screen",
	ActionBoxOut:    "box_out",
	ActionPostUp:    "post_up",
}

func (a ActionType) String() string {
	if a < 0 || a >= numActionTypes {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseActionType maps a config-file action id to its ActionType.
func ParseActionType(s string) (ActionType, error) {
	for i, name := range actionNames {
		if name == s {
			return ActionType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// ActionTypes returns every defined action in declaration order.
func ActionTypes() []ActionType {
	out := make([]ActionType, numActionTypes)
	for i := range out {
		out[i] = ActionType(i)
	}
	return out
}

// Category groups actions by gameplay role.
type Category int

const (
	CategoryShot Category = iota
	CategoryDribble
	CategoryMovement
	CategoryDefense
	CategoryPhysical
)

var categoryNames = map[Category]string{
	CategoryShot:     "shot",
	CategoryDribble:  "dribble",
	CategoryMovement: "movement",
	CategoryDefense:  "defense",
	CategoryPhysical: "physical",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Phase is the lifecycle stage of a running action.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStartup
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStartup:
		return "startup"
	case PhaseActive:
		return "active"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}
