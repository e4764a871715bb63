// Package action implements the discrete per-character action state
// machine: idle → startup → active → idle. There is no recovery or
// cooldown state; once an action completes, the balance layer alone
// decides how soon the next one may begin.
//
// All phase timing runs off an internal clock accumulated from dt.
package action
