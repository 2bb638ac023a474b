package workflow

import (
	"context"
	"errors"

	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/entity"
	domainwf "github.com/garyjia/charge-information/internal/domain/workflow"
)

var (
	// ErrNoDraft is returned when there is no stored draft to submit
	ErrNoDraft = errors.New("no draft to submit")
	// ErrNotCancellable is returned when cancelling a workflow that is already approved
	ErrNotCancellable = errors.New("approved workflow cannot be cancelled")
)

// Engine drives a draft charge version through approval
type Engine interface {
	// Submit sends the draft stored under key for review and returns the workflow id.
	// The draft is re-keyed under the workflow id.
	Submit(ctx context.Context, key port.Key, actor string) (string, error)

	// Approve makes the workflow current, creates the charge version and clears the draft
	Approve(ctx context.Context, workflowID, actor string) (*entity.ChargeVersion, error)

	// RequestChanges returns the workflow to its author with comments. The draft is kept.
	RequestChanges(ctx context.Context, workflowID, actor, comments string) error

	// Cancel discards the draft and deletes its pending workflow, if any
	Cancel(ctx context.Context, key port.Key, actor string) error

	// CurrentState returns the persisted state of a workflow
	CurrentState(ctx context.Context, workflowID string) (domainwf.State, error)

	// History returns the recorded transitions of a workflow, oldest first
	History(ctx context.Context, workflowID string) ([]*entity.WorkflowHistory, error)
}
