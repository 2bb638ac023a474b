// Package event defines the events published as a charge version moves
// through approval.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload keys
const (
	KeyActor           = "actor"
	KeyComments        = "comments"
	KeyChargeVersionID = "charge_version_id"
	KeyPreviousStatus  = "previous_status"
	KeyNewStatus       = "new_status"
	KeyTrigger         = "trigger"
)

// Event is something that happened to one licence's charge version workflow
type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	LicenceID  string         `json:"licence_id"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Payload    map[string]any `json:"payload"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewEvent creates an event with a fresh id, stamped at now
func NewEvent(eventType Type, licenceID, workflowID string, payload map[string]any, now time.Time) *Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		LicenceID:  licenceID,
		WorkflowID: workflowID,
		Payload:    payload,
		Timestamp:  now,
	}
}

// String returns the payload value of key when it is a string
func (e *Event) String(key string) string {
	s, _ := e.Payload[key].(string)
	return s
}

// Actor is the user who caused the event
func (e *Event) Actor() string {
	return e.String(KeyActor)
}
