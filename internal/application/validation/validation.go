// Package validation flags charge elements whose answers disagree with each other.
// Warnings are advisory: they are shown on the check answers page and never
// stop a submission.
package validation

import "github.com/garyjia/charge-information/internal/domain/chargeversion"

// Warning messages
const (
	WarningSeason   = "The abstraction period does not match the season selected"
	WarningLoss     = "The loss factor does not match the purpose selected"
	WarningQuantity = "The billable volume exceeds the authorised volume"
)

// Rule is one consistency check. Check returns true when the purpose is consistent.
type Rule struct {
	Name    string
	Warning string
	Check   func(chargeversion.ChargePurpose) bool
}

// DefaultRules are the checks run on the check answers page
var DefaultRules = []Rule{
	{Name: "season", Warning: WarningSeason, Check: seasonMatchesPeriod},
	{Name: "loss", Warning: WarningLoss, Check: lossMatchesPurpose},
	{Name: "quantity", Warning: WarningQuantity, Check: billableWithinAuthorised},
}

// ElementWarnings are the warnings raised against one element or nested purpose
type ElementWarnings struct {
	ElementID  string   `json:"elementId"`
	CategoryID string   `json:"categoryId,omitempty"`
	Warnings   []string `json:"validationWarnings"`
}

// Validator runs a set of rules
type Validator struct {
	rules []Rule
}

// New creates a validator; with no rules it uses DefaultRules
func New(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Validator{rules: rules}
}

// Validate runs every rule against every alcs element and every purpose
// nested in an sroc category. Only elements with warnings are reported.
func (v *Validator) Validate(d chargeversion.Draft) []ElementWarnings {
	var report []ElementWarnings

	for _, e := range d.ChargeElements {
		if e.Scheme == chargeversion.SchemeSROC || d.Scheme == chargeversion.SchemeSROC {
			for _, p := range e.ChargePurposes {
				if w := v.Check(p); len(w) > 0 {
					report = append(report, ElementWarnings{ElementID: p.ID, CategoryID: e.ID, Warnings: w})
				}
			}
			continue
		}
		if w := v.Check(e.ChargePurpose); len(w) > 0 {
			report = append(report, ElementWarnings{ElementID: e.ID, Warnings: w})
		}
	}

	return report
}

// Check returns the warnings of the rules a purpose fails, in rule order
func (v *Validator) Check(p chargeversion.ChargePurpose) []string {
	var warnings []string
	for _, r := range v.rules {
		if !r.Check(p) {
			warnings = append(warnings, r.Warning)
		}
	}
	return warnings
}

// Count returns the total number of warnings in a report
func Count(report []ElementWarnings) int {
	n := 0
	for _, r := range report {
		n += len(r.Warnings)
	}
	return n
}

// Tally counts the warnings of a report by rule name
func (v *Validator) Tally(report []ElementWarnings) map[string]int {
	names := make(map[string]string, len(v.rules))
	for _, r := range v.rules {
		names[r.Warning] = r.Name
	}

	out := make(map[string]int)
	for _, r := range report {
		for _, w := range r.Warnings {
			out[names[w]]++
		}
	}
	return out
}

// An unanswered question is not an inconsistency, so each check passes
// while either side of its comparison is missing.

func seasonMatchesPeriod(p chargeversion.ChargePurpose) bool {
	if p.AbstractionPeriod == nil || p.Season == "" {
		return true
	}
	return p.AbstractionPeriod.Season() == p.Season
}

func lossMatchesPurpose(p chargeversion.ChargePurpose) bool {
	if p.PurposeUse == nil || p.PurposeUse.LossFactor == "" || p.Loss == "" {
		return true
	}
	return p.PurposeUse.LossFactor == p.Loss
}

func billableWithinAuthorised(p chargeversion.ChargePurpose) bool {
	if p.BillableAnnualQuantity == nil || p.AuthorisedAnnualQuantity == nil {
		return true
	}
	return *p.BillableAnnualQuantity <= *p.AuthorisedAnnualQuantity
}
