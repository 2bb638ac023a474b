package workflow

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrInvalidState      = errors.New("invalid state")
	ErrGuardFailed       = errors.New("guard condition failed")
)

// TransitionError reports a trigger that could not be fired. It unwraps to
// ErrInvalidTransition or ErrGuardFailed.
type TransitionError struct {
	From    State
	Trigger Trigger
	cause   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s from %s", e.cause, e.Trigger, e.From)
}

func (e *TransitionError) Unwrap() error {
	return e.cause
}
