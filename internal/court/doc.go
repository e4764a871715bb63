// Package court holds the shared domain types for the balance simulation:
// the closed action catalog, per-action timing and force tables, hitbox
// geometry, and the physical tuning limits every other package consumes.
//
// Tables returned by [DefaultActionTable] and [DefaultForceTable] are
// process-wide immutable data. Callers inject them at construction instead
// of reaching for globals, which keeps the core independently testable.
package court
