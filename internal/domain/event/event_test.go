package event

import (
	"testing"
	"time"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      string
	}{
		{"submitted", TypeSubmitted, "chargeversion.submitted"},
		{"approved", TypeApproved, "chargeversion.approved"},
		{"changes requested", TypeChangesRequested, "chargeversion.changes_requested"},
		{"cancelled", TypeCancelled, "chargeversion.cancelled"},
		{"status changed", TypeStatusChanged, "chargeversion.status_changed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.String(); got != tt.want {
				t.Errorf("Type.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{"valid - submitted", TypeSubmitted, true},
		{"valid - status changed", TypeStatusChanged, true},
		{"invalid - unknown", Type("chargeversion.deleted"), false},
		{"invalid - empty", Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLifecycle_AllValid(t *testing.T) {
	for _, typ := range Lifecycle {
		if !typ.IsValid() {
			t.Errorf("%s in Lifecycle is not valid", typ)
		}
		if typ == TypeStatusChanged {
			t.Error("status changed is not a lifecycle event")
		}
	}
}

func TestNewEvent(t *testing.T) {
	now := time.Date(2022, 4, 1, 9, 0, 0, 0, time.UTC)
	evt := NewEvent(TypeSubmitted, "lic-1", "wf-1", map[string]any{KeyActor: "mail@example.com"}, now)

	if evt.ID == "" {
		t.Error("expected non-empty ID")
	}
	if evt.LicenceID != "lic-1" || evt.WorkflowID != "wf-1" {
		t.Errorf("ids = %q/%q", evt.LicenceID, evt.WorkflowID)
	}
	if !evt.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", evt.Timestamp, now)
	}
	if evt.Actor() != "mail@example.com" {
		t.Errorf("Actor() = %q", evt.Actor())
	}

	other := NewEvent(TypeSubmitted, "lic-1", "wf-1", nil, now)
	if other.ID == evt.ID {
		t.Error("event ids should be unique")
	}
	if other.Payload == nil {
		t.Error("nil payload should be replaced by an empty map")
	}
}

func TestEvent_String(t *testing.T) {
	evt := NewEvent(TypeStatusChanged, "lic-1", "wf-1", map[string]any{
		KeyTrigger:   "APPROVE",
		KeyNewStatus: "current",
		"count":      3,
	}, time.Now())

	tests := []struct {
		key  string
		want string
	}{
		{KeyTrigger, "APPROVE"},
		{KeyNewStatus, "current"},
		{"count", ""},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := evt.String(tt.key); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
