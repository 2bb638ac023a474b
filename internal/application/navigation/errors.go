package navigation

import "errors"

var (
	// ErrUnknownStep is returned for a step that is not part of the flow
	ErrUnknownStep = errors.New("unknown step")

	// ErrUnknownFlow is returned for a flow with no graph
	ErrUnknownFlow = errors.New("unknown flow")

	// ErrMissingElement is returned when an element level flow has no element id
	ErrMissingElement = errors.New("element id is required")

	// ErrMissingCategory is returned when a charge purpose flow has no category id
	ErrMissingCategory = errors.New("category id is required")

	// ErrIncompleteGraph is returned by Validate when a step cannot be reached or left
	ErrIncompleteGraph = errors.New("incomplete step graph")
)
