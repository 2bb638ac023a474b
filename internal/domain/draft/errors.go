package draft

import "errors"

var (
	// ErrUnknownAction is returned by Reduce for a nil or unrecognised action
	ErrUnknownAction = errors.New("unknown action")

	// ErrSchemeMismatch is returned when an element operation does not fit the draft's scheme
	ErrSchemeMismatch = errors.New("operation does not match draft scheme")

	// ErrSchemeUndetermined is returned when elements are added before a start date is chosen
	ErrSchemeUndetermined = errors.New("draft scheme not yet determined")
)
