package workflow

// Trigger is an approval action that moves a workflow between states
type Trigger string

const (
	TriggerSubmit         Trigger = "SUBMIT"
	TriggerApprove        Trigger = "APPROVE"
	TriggerRequestChanges Trigger = "REQUEST_CHANGES"
)

func (t Trigger) String() string {
	return string(t)
}

// IsValid reports whether t is one of the approval triggers
func (t Trigger) IsValid() bool {
	switch t {
	case TriggerSubmit, TriggerApprove, TriggerRequestChanges:
		return true
	}
	return false
}
