package port

import (
	"context"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

// Key addresses a draft. An empty WorkflowID is the draft of a new charge
// version with no pending workflow.
type Key struct {
	LicenceID  string
	WorkflowID string
}

// String returns a stable representation of the key
func (k Key) String() string {
	if k.WorkflowID == "" {
		return k.LicenceID
	}
	return k.LicenceID + "/" + k.WorkflowID
}

// DraftRepository holds in-progress drafts. Writes are last-writer-wins.
type DraftRepository interface {
	// Get returns the draft for the key, or nil when there is none
	Get(ctx context.Context, key Key) (*chargeversion.Draft, error)
	Set(ctx context.Context, key Key, draft *chargeversion.Draft) error
	Clear(ctx context.Context, key Key) error
}
