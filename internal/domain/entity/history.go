package entity

import "time"

// WorkflowHistory is one recorded transition of a charge version workflow
type WorkflowHistory struct {
	ID             int64     `json:"id"`
	WorkflowID     string    `json:"workflow_id"`
	LicenceID      string    `json:"licence_id"`
	Actor          string    `json:"actor"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ActionType     string    `json:"action_type"`
	ActionData     string    `json:"action_data"`
	Timestamp      time.Time `json:"timestamp"`
}
