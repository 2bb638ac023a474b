package port

import "errors"

// ErrNotFound is returned by collaborators when a looked-up record does not exist
var ErrNotFound = errors.New("not found")
