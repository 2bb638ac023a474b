package persistence

import "errors"

var (
	// ErrChargeVersionExists is returned when a workflow has already produced a charge version
	ErrChargeVersionExists = errors.New("charge version already created for workflow")
	// ErrIncompleteDraft is returned when a workflow's payload lacks the fields a charge version needs
	ErrIncompleteDraft = errors.New("workflow charge version is incomplete")
)
