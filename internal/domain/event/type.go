package event

// Type identifies a charge version workflow event
type Type string

const (
	TypeSubmitted        Type = "chargeversion.submitted"
	TypeApproved         Type = "chargeversion.approved"
	TypeChangesRequested Type = "chargeversion.changes_requested"
	TypeCancelled        Type = "chargeversion.cancelled"
	// TypeStatusChanged accompanies every approval state change
	TypeStatusChanged Type = "chargeversion.status_changed"
)

// Lifecycle are the event types that mark one approval action each
var Lifecycle = []Type{TypeSubmitted, TypeApproved, TypeChangesRequested, TypeCancelled}

func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeSubmitted, TypeApproved, TypeChangesRequested, TypeCancelled, TypeStatusChanged:
		return true
	}
	return false
}
