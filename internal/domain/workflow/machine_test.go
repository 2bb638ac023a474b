package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateDraft, false},
		{StateReview, false},
		{StateChangesRequested, false},
		{StateCurrent, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsEditable(t *testing.T) {
	if !StateDraft.IsEditable() || !StateChangesRequested.IsEditable() {
		t.Error("draft and changes_requested should be editable")
	}
	if StateReview.IsEditable() || StateCurrent.IsEditable() {
		t.Error("review and current should not be editable")
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"draft", StateDraft, true},
		{"current", StateCurrent, true},
		{"invalid state", State("approved"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFromStatus(t *testing.T) {
	s, err := FromStatus("")
	if err != nil || s != StateDraft {
		t.Errorf("FromStatus(\"\") = %v, %v; want draft", s, err)
	}

	s, err = FromStatus(chargeversion.StatusChangesRequested)
	if err != nil || s != StateChangesRequested {
		t.Errorf("FromStatus(changes_requested) = %v, %v", s, err)
	}
	if s.Status() != chargeversion.StatusChangesRequested {
		t.Errorf("Status() = %v", s.Status())
	}

	if _, err := FromStatus("archived"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("FromStatus(archived) error = %v, want %v", err, ErrInvalidState)
	}
}

func TestTrigger_String(t *testing.T) {
	if got := TriggerRequestChanges.String(); got != "REQUEST_CHANGES" {
		t.Errorf("Trigger.String() = %v, want %v", got, "REQUEST_CHANGES")
	}
}

func TestTrigger_IsValid(t *testing.T) {
	for _, tr := range []Trigger{TriggerSubmit, TriggerApprove, TriggerRequestChanges} {
		if !tr.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", tr)
		}
	}
	if Trigger("CANCEL").IsValid() {
		t.Error("CANCEL should not be a valid trigger")
	}
}

func TestBuilder_ConfigureSameStateTwiceAddsEdges(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateReview).Permit(TriggerApprove, StateCurrent)
	builder.Configure(StateReview).Permit(TriggerRequestChanges, StateChangesRequested)

	machine := builder.Build(StateReview)
	got := machine.PermittedTriggers()
	want := []Trigger{TriggerApprove, TriggerRequestChanges}
	if len(got) != len(want) {
		t.Fatalf("PermittedTriggers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PermittedTriggers()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBuilder_PermitPanicsOnInvalidTrigger(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on an unknown trigger")
		}
	}()

	NewBuilder().Configure(StateDraft).Permit(Trigger("CANCEL"), StateReview)
}

func TestFire_TransitionError(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateDraft).Permit(TriggerSubmit, StateReview)
	machine := builder.Build(StateDraft)

	err := machine.Fire(context.Background(), TriggerApprove)

	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("Fire() error = %v, want *TransitionError", err)
	}
	if te.From != StateDraft || te.Trigger != TriggerApprove {
		t.Errorf("TransitionError = {%v %v}, want {%v %v}", te.From, te.Trigger, StateDraft, TriggerApprove)
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error should unwrap to ErrInvalidTransition, got %v", err)
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("INVALID"))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial state")
		}
	}()

	NewBuilder().Build(State("INVALID"))
}

func TestBuilder_PermitPanicsOnInvalidTarget(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid target state")
		}
	}()

	NewBuilder().Configure(StateDraft).Permit(TriggerSubmit, State("nowhere"))
}

func TestBuilder_BuiltMachineIgnoresLaterConfiguration(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateDraft).Permit(TriggerSubmit, StateReview)
	machine := builder.Build(StateDraft)

	builder.Configure(StateDraft).Permit(TriggerApprove, StateCurrent)

	if machine.CanFire(TriggerApprove) {
		t.Error("machine should not see transitions configured after Build()")
	}
}

func TestStateConfiguration_PermitIf_GuardFails(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateReview).
		PermitIf(TriggerApprove, StateCurrent, func(ctx context.Context) bool {
			return false
		})

	machine := builder.Build(StateReview)

	err := machine.Fire(context.Background(), TriggerApprove)
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire() error = %v, want %v", err, ErrGuardFailed)
	}
	if machine.State() != StateReview {
		t.Errorf("State should remain %v after failed Fire(), got %v", StateReview, machine.State())
	}
}

type approverKey struct{}

func TestStateConfiguration_PermitIf_FirstPassingGuardWins(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateReview).
		PermitIf(TriggerSubmit, StateCurrent, func(ctx context.Context) bool {
			approver, _ := ctx.Value(approverKey{}).(bool)
			return approver
		}).
		PermitIf(TriggerSubmit, StateChangesRequested, func(ctx context.Context) bool {
			approver, _ := ctx.Value(approverKey{}).(bool)
			return !approver
		})

	m1 := builder.Build(StateReview)
	if err := m1.Fire(context.WithValue(context.Background(), approverKey{}, true), TriggerSubmit); err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if m1.State() != StateCurrent {
		t.Errorf("State after Fire() = %v, want %v", m1.State(), StateCurrent)
	}

	m2 := builder.Build(StateReview)
	if err := m2.Fire(context.Background(), TriggerSubmit); err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if m2.State() != StateChangesRequested {
		t.Errorf("State after Fire() = %v, want %v", m2.State(), StateChangesRequested)
	}
}
