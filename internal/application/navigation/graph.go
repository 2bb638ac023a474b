// Package navigation resolves where each charge information step links back to
// and where a submitted step redirects.
package navigation

import (
	"fmt"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

// StepID identifies a page within a flow
type StepID string

// End is the absent step: the flow continues at the check answers page
const End StepID = ""

// Flow identifies one of the step graphs
type Flow string

const (
	FlowChargeInformation Flow = "charge-information"
	FlowNote              Flow = "note"
	FlowChargeElement     Flow = "charge-element"
	FlowChargeCategory    Flow = "charge-category"
	FlowChargePurpose     Flow = "charge-purpose"
)

// ElementFlow returns the element level flow used under a scheme
func ElementFlow(scheme chargeversion.Scheme) Flow {
	if scheme == chargeversion.SchemeSROC {
		return FlowChargeCategory
	}
	return FlowChargeElement
}

// Request carries what the caller knows about the page being resolved
type Request struct {
	LicenceID         string
	WorkflowID        string
	ElementID         string
	CategoryID        string
	ReturnToCheckData bool
	Draft             chargeversion.Draft
}

// Element returns the charge element or category the request addresses
func (r Request) Element() chargeversion.ChargeElement {
	e, _ := r.Draft.FindElement(r.ElementID)
	return e
}

// Purpose returns the nested charge purpose the request addresses
func (r Request) Purpose() chargeversion.ChargePurpose {
	category, _ := r.Draft.FindElement(r.CategoryID)
	p, _ := category.FindPurpose(r.ElementID)
	return p
}

// Resolver computes a neighbouring step from the draft
type Resolver func(Request) StepID

// StepConfig describes one page of a flow
type StepConfig struct {
	Title    string
	Back     StepID
	Next     StepID
	BackFunc Resolver
	NextFunc Resolver

	// RestartsFlow makes the draft's restart marker win over ReturnToCheckData
	RestartsFlow bool
}

func (c StepConfig) back(req Request) StepID {
	if c.BackFunc != nil {
		return c.BackFunc(req)
	}
	return c.Back
}

func (c StepConfig) next(req Request) StepID {
	if c.NextFunc != nil {
		return c.NextFunc(req)
	}
	return c.Next
}

// Graph is the ordered set of steps of one flow
type Graph struct {
	Flow  Flow
	Order []StepID
	Steps map[StepID]StepConfig
}

// First returns the entry step
func (g *Graph) First() StepID {
	if len(g.Order) == 0 {
		return End
	}
	return g.Order[0]
}

// Has reports whether the step belongs to the graph
func (g *Graph) Has(step StepID) bool {
	_, ok := g.Steps[step]
	return ok
}

// Title returns the page title of a step
func (g *Graph) Title(step StepID) (string, error) {
	cfg, err := g.config(step)
	if err != nil {
		return "", err
	}
	return cfg.Title, nil
}

// IsLast reports whether the step has no next step for this draft
func (g *Graph) IsLast(step StepID, req Request) (bool, error) {
	cfg, err := g.config(step)
	if err != nil {
		return false, err
	}
	return cfg.next(req) == End, nil
}

// BackLink returns the URL the step's back link points at
func (g *Graph) BackLink(step StepID, req Request) (string, error) {
	cfg, err := g.config(step)
	if err != nil {
		return "", err
	}
	if err := g.checkRequest(req); err != nil {
		return "", err
	}

	if req.ReturnToCheckData || step == g.First() {
		return CheckURL(req), nil
	}

	back := cfg.back(req)
	if back == End {
		return CheckURL(req), nil
	}
	return StepURL(g.Flow, back, req), nil
}

// RedirectPath returns the URL to continue at after the step is submitted
func (g *Graph) RedirectPath(step StepID, req Request) (string, error) {
	cfg, err := g.config(step)
	if err != nil {
		return "", err
	}
	if err := g.checkRequest(req); err != nil {
		return "", err
	}

	returnToCheck := req.ReturnToCheckData
	if cfg.RestartsFlow && req.Draft.RestartFlow {
		returnToCheck = false
	}
	if returnToCheck {
		return CheckURL(req), nil
	}

	next := cfg.next(req)
	if next == End {
		return CheckURL(req), nil
	}
	return StepURL(g.Flow, next, req), nil
}

// StartURL returns the URL of the flow's first step
func (g *Graph) StartURL(req Request) string {
	return StepURL(g.Flow, g.First(), req)
}

// Validate checks the graph is total: every step has a title, every step
// but the last has a next step, every step but the first has a back step,
// and every static link stays within the graph.
func (g *Graph) Validate() error {
	if len(g.Order) == 0 {
		return fmt.Errorf("%w: %s has no steps", ErrIncompleteGraph, g.Flow)
	}
	if len(g.Order) != len(g.Steps) {
		return fmt.Errorf("%w: %s orders %d steps but configures %d", ErrIncompleteGraph, g.Flow, len(g.Order), len(g.Steps))
	}

	for i, step := range g.Order {
		cfg, ok := g.Steps[step]
		if !ok {
			return fmt.Errorf("%w: %s/%s is not configured", ErrIncompleteGraph, g.Flow, step)
		}
		if cfg.Title == "" {
			return fmt.Errorf("%w: %s/%s has no title", ErrIncompleteGraph, g.Flow, step)
		}
		if i > 0 && cfg.Back == End && cfg.BackFunc == nil {
			return fmt.Errorf("%w: %s/%s has no back step", ErrIncompleteGraph, g.Flow, step)
		}
		if i < len(g.Order)-1 && cfg.Next == End && cfg.NextFunc == nil {
			return fmt.Errorf("%w: %s/%s has no next step", ErrIncompleteGraph, g.Flow, step)
		}
		for _, linked := range []StepID{cfg.Back, cfg.Next} {
			if linked != End && !g.Has(linked) {
				return fmt.Errorf("%w: %s/%s links to unknown step %s", ErrIncompleteGraph, g.Flow, step, linked)
			}
		}
	}

	return nil
}

func (g *Graph) config(step StepID) (StepConfig, error) {
	cfg, ok := g.Steps[step]
	if !ok {
		return StepConfig{}, fmt.Errorf("%w: %s/%s", ErrUnknownStep, g.Flow, step)
	}
	return cfg, nil
}

func (g *Graph) checkRequest(req Request) error {
	switch g.Flow {
	case FlowChargeElement, FlowChargeCategory:
		if req.ElementID == "" {
			return ErrMissingElement
		}
	case FlowChargePurpose:
		if req.ElementID == "" {
			return ErrMissingElement
		}
		if req.CategoryID == "" {
			return ErrMissingCategory
		}
	}
	return nil
}
