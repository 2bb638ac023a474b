package workflow

import "fmt"

// Builder collects the permitted transitions of a workflow. Configuration
// mistakes are programming errors and panic.
type Builder struct {
	edges table
}

// StateConfiguration adds edges leaving one state
type StateConfiguration struct {
	from  State
	edges table
}

func NewBuilder() *Builder {
	return &Builder{edges: make(table)}
}

// Configure returns the configuration of a state, creating it on first use
func (b *Builder) Configure(state State) *StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}
	if b.edges[state] == nil {
		b.edges[state] = make(map[Trigger][]edge)
	}
	return &StateConfiguration{from: state, edges: b.edges}
}

// Build returns a machine in the initial state. The machine keeps its own
// copy of the edges, so later Configure calls do not affect it.
func (b *Builder) Build(initial State) StateMachine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initial))
	}
	return &machine{state: initial, edges: b.edges.clone()}
}

// Permit adds an unconditional edge
func (c *StateConfiguration) Permit(trigger Trigger, to State) *StateConfiguration {
	return c.PermitIf(trigger, to, nil)
}

// PermitIf adds an edge taken only when guard passes. Edges for the same
// trigger are tried in the order they were added.
func (c *StateConfiguration) PermitIf(trigger Trigger, to State, guard Guard) *StateConfiguration {
	if !trigger.IsValid() {
		panic(fmt.Sprintf("invalid trigger: %s", trigger))
	}
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}
	c.edges[c.from][trigger] = append(c.edges[c.from][trigger], edge{to: to, guard: guard})
	return c
}
