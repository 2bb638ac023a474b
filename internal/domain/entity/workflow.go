package entity

import (
	"time"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

// ChargeVersionWorkflow is the record tracking a submitted draft through approval
type ChargeVersionWorkflow struct {
	ID               string               `json:"id"`
	LicenceID        string               `json:"licence_id"`
	Status           chargeversion.Status `json:"status"`
	ApproverComments string               `json:"approver_comments,omitempty"`
	ChargeVersion    chargeversion.Draft  `json:"charge_version"`
	CreatedBy        string               `json:"created_by"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// WorkflowPatch holds the fields changed by a workflow update. Nil fields are left as they are.
type WorkflowPatch struct {
	Status           *chargeversion.Status
	ApproverComments *string
	ChargeVersion    *chargeversion.Draft
}
