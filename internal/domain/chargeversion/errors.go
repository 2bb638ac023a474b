package chargeversion

import "errors"

var (
	// ErrInvalidDate is returned when a date string cannot be parsed
	ErrInvalidDate = errors.New("invalid date")

	// ErrElementNotFound is returned when a charge element id is not in the draft
	ErrElementNotFound = errors.New("charge element not found")

	// ErrPurposeNotFound is returned when a charge purpose id is not in its category
	ErrPurposeNotFound = errors.New("charge purpose not found")

	// ErrInvalidFragment is returned when a fragment cannot be merged into an element
	ErrInvalidFragment = errors.New("invalid fragment")
)
