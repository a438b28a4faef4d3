// Package session provides the funnel session aggregate and its state
// machine. The session owns the derived profile, submission, score, and tier
// by composition; nothing is shared across sessions.
package session

import (
	"errors"
	"fmt"
)

// State is the tagged funnel state. The transition methods on Session are the
// only way state changes, which keeps impossible combinations (a tier without
// a score, a submission without a profile) unrepresentable in practice.
type State string

const (
	StateEntry           State = "entry"
	StateMasterclassLive State = "masterclass_live"
	StateChallengeOpen   State = "challenge_open"
	StateScored          State = "scored"
	StateExitIntent      State = "exit_intent"
	StateCompleted       State = "completed"
	StateAbandoned       State = "abandoned"
)

// IsTerminal reports whether no further transitions are permitted
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateAbandoned
}

// Valid reports whether s is one of the seven funnel states
func (s State) Valid() bool {
	switch s {
	case StateEntry, StateMasterclassLive, StateChallengeOpen, StateScored,
		StateExitIntent, StateCompleted, StateAbandoned:
		return true
	}
	return false
}

// Action names a funnel action event received from the presentation layer
type Action string

const (
	ActionEnterMasterclass Action = "enter_masterclass"
	ActionStartChallenge   Action = "start_challenge"
	ActionSubmitChallenge  Action = "submit_challenge"
	ActionExitIntent       Action = "exit_intent"
	ActionResume           Action = "resume"
	ActionAbandon          Action = "abandon"
)

// ErrInvalidTransition is the sentinel for an action that is not legal in the
// session's current non-terminal state. Actions received in a terminal state
// are not errors; they are reported to the caller as ignored.
var ErrInvalidTransition = errors.New("invalid transition")

func invalidTransition(from State, action Action) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, from)
}
