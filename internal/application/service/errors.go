package service

import "errors"

var (
	// ErrDraftNotFound is returned when a page is requested for a draft that does not exist
	ErrDraftNotFound = errors.New("draft not found")
	// ErrNotEditable is returned when a step is submitted for an approved charge version
	ErrNotEditable = errors.New("charge version is not editable")
)
