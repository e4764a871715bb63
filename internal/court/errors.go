package court

import "errors"

// Domain errors for the balance simulation.
var (
	// ErrUnknownAction indicates an action id absent from the action table.
	ErrUnknownAction = errors.New("court: unknown action")

	// ErrUnknownForce indicates an action with no force table entry.
	ErrUnknownForce = errors.New("court: no force entry for action")

	// ErrInvalidAttribute indicates a weight or height outside the clamp range.
	ErrInvalidAttribute = errors.New("court: attribute out of valid range")

	// ErrInvalidConfig indicates a scenario config that fails validation.
	ErrInvalidConfig = errors.New("court: invalid config")

	// ErrDuplicateActor indicates the same character registered twice with
	// a collision system.
	ErrDuplicateActor = errors.New("court: actor already tracked")
)
