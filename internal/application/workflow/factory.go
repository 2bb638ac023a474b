package workflow

import (
	domainwf "github.com/garyjia/charge-information/internal/domain/workflow"
)

// BuildChargeVersionStateMachine creates a state machine configured for charge
// version approval.
//
//	draft ──SUBMIT──▶ review ──APPROVE──▶ current
//	                    │  ▲
//	    REQUEST_CHANGES ▼  │ SUBMIT
//	             changes_requested
func BuildChargeVersionStateMachine(initialState domainwf.State) domainwf.StateMachine {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StateDraft).
		Permit(domainwf.TriggerSubmit, domainwf.StateReview)

	builder.Configure(domainwf.StateReview).
		Permit(domainwf.TriggerApprove, domainwf.StateCurrent).
		Permit(domainwf.TriggerRequestChanges, domainwf.StateChangesRequested)

	builder.Configure(domainwf.StateChangesRequested).
		Permit(domainwf.TriggerSubmit, domainwf.StateReview)

	// current is terminal

	return builder.Build(initialState)
}
