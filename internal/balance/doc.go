// Package balance models a character's postural stability as a secondary
// spring-damper body anchored to a rest position derived from the
// character's build. The pure functions in physics.go and params.go carry
// the math; Controller wraps one character's state and steps it each frame.
//
// Heavier and taller characters derive a softer spring and weaker damping,
// so they drift further under the same force and take longer to settle.
// That settling time is the only thing gating how soon the next action may
// begin; there is no fixed cooldown anywhere in the system.
package balance
