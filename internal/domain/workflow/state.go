package workflow

import "github.com/garyjia/charge-information/internal/domain/chargeversion"

// State is the approval status of a charge version workflow
type State string

const (
	StateDraft            State = State(chargeversion.StatusDraft)
	StateReview           State = State(chargeversion.StatusReview)
	StateChangesRequested State = State(chargeversion.StatusChangesRequested)
	StateCurrent          State = State(chargeversion.StatusCurrent)
)

var validStates = map[State]bool{
	StateDraft:            true,
	StateReview:           true,
	StateChangesRequested: true,
	StateCurrent:          true,
}

// IsTerminal returns true once the charge version has been approved
func (s State) IsTerminal() bool {
	return s == StateCurrent
}

// IsEditable returns true while the caseworker may still change the draft
func (s State) IsEditable() bool {
	return s == StateDraft || s == StateChangesRequested
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}

// Status converts the state to the draft status it corresponds to
func (s State) Status() chargeversion.Status {
	return chargeversion.Status(s)
}

// FromStatus converts a draft status to a state. An empty status is a draft.
func FromStatus(status chargeversion.Status) (State, error) {
	if status == "" {
		return StateDraft, nil
	}
	s := State(status)
	if !s.IsValid() {
		return "", ErrInvalidState
	}
	return s, nil
}
