package workflow

import (
	"context"
	"sort"
)

// StateMachine tracks the state of one workflow and applies triggers to it
type StateMachine interface {
	State() State
	// CanFire reports whether the current state has an edge for the trigger.
	// Guards are not evaluated.
	CanFire(trigger Trigger) bool
	// Fire moves to the target of the first edge whose guard passes
	Fire(ctx context.Context, trigger Trigger) error
	// PermittedTriggers lists the triggers of the current state in sorted order
	PermittedTriggers() []Trigger
}

// Guard decides at fire time whether an edge may be taken
type Guard func(ctx context.Context) bool

type edge struct {
	to    State
	guard Guard
}

// table holds the edges leaving each state, in the order they were permitted
type table map[State]map[Trigger][]edge

func (t table) clone() table {
	out := make(table, len(t))
	for from, byTrigger := range t {
		cp := make(map[Trigger][]edge, len(byTrigger))
		for trigger, edges := range byTrigger {
			cp[trigger] = append([]edge(nil), edges...)
		}
		out[from] = cp
	}
	return out
}

type machine struct {
	state State
	edges table
}

func (m *machine) State() State {
	return m.state
}

func (m *machine) CanFire(trigger Trigger) bool {
	return len(m.edges[m.state][trigger]) > 0
}

func (m *machine) Fire(ctx context.Context, trigger Trigger) error {
	edges := m.edges[m.state][trigger]
	if len(edges) == 0 {
		return &TransitionError{From: m.state, Trigger: trigger, cause: ErrInvalidTransition}
	}

	for _, e := range edges {
		if e.guard != nil && !e.guard(ctx) {
			continue
		}
		m.state = e.to
		return nil
	}
	return &TransitionError{From: m.state, Trigger: trigger, cause: ErrGuardFailed}
}

func (m *machine) PermittedTriggers() []Trigger {
	triggers := make([]Trigger, 0, len(m.edges[m.state]))
	for trigger, edges := range m.edges[m.state] {
		if len(edges) > 0 {
			triggers = append(triggers, trigger)
		}
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	return triggers
}
