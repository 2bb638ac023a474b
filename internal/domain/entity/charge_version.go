package entity

import (
	"time"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

// ChargeVersion is an approved charge version, the licence's active charging record
type ChargeVersion struct {
	ID               string                        `json:"id"`
	LicenceID        string                        `json:"licence_id"`
	WorkflowID       string                        `json:"workflow_id"`
	Scheme           chargeversion.Scheme          `json:"scheme"`
	StartDate        chargeversion.Date            `json:"start_date"`
	EndDate          *chargeversion.Date           `json:"end_date,omitempty"`
	Status           chargeversion.Status          `json:"status"`
	ChangeReasonID   string                        `json:"change_reason_id"`
	BillingAccountID string                        `json:"billing_account_id"`
	ChargeElements   []chargeversion.ChargeElement `json:"charge_elements"`
	CreatedAt        time.Time                     `json:"created_at"`
}
