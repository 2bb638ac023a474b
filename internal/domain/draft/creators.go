package draft

import (
	"fmt"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

// NewSetReason creates a SetReason action
func NewSetReason(reason chargeversion.ChangeReason) SetReason {
	return SetReason{ChangeReason: reason}
}

// NewSetStartDate creates a SetStartDate action. When the new date puts the
// draft on a different scheme and charge elements already exist, the
// elements are dropped and the flow is restarted.
func NewSetStartDate(state chargeversion.Draft, startDate, cutover chargeversion.Date) SetStartDate {
	scheme := chargeversion.SchemeFor(startDate, cutover)

	dateRange := chargeversion.DateRange{StartDate: startDate}
	if state.DateRange != nil && state.DateRange.EndDate != nil {
		end := *state.DateRange.EndDate
		dateRange.EndDate = &end
	}

	reset := state.HasElements() && state.Scheme != scheme
	action := SetStartDate{
		DateRange: dateRange,
		Scheme:    scheme,
		Reset:     reset,
	}
	if reset {
		action.ChargeElements = []chargeversion.ChargeElement{}
	}
	return action
}

// NewSetBillingAccount creates a SetBillingAccount action
func NewSetBillingAccount(account chargeversion.BillingAccount) SetBillingAccount {
	return SetBillingAccount{BillingAccount: account}
}

// NewSetNote creates a SetNote action. An empty text removes the note.
func NewSetNote(text, user string) SetNote {
	if text == "" {
		return SetNote{}
	}
	return SetNote{Note: &chargeversion.Note{Text: text, User: user}}
}

// NewCreateChargeElement creates a CreateChargeElement action for an alcs draft
func NewCreateChargeElement(state chargeversion.Draft, id string) (CreateChargeElement, error) {
	if err := requireScheme(state, chargeversion.SchemeALCS); err != nil {
		return CreateChargeElement{}, err
	}
	return CreateChargeElement{ID: id}, nil
}

// NewCreateChargeCategory creates a CreateChargeCategory action for an sroc draft
func NewCreateChargeCategory(state chargeversion.Draft, id string) (CreateChargeCategory, error) {
	if err := requireScheme(state, chargeversion.SchemeSROC); err != nil {
		return CreateChargeCategory{}, err
	}
	return CreateChargeCategory{ID: id}, nil
}

// NewSetChargeElementData merges a fragment into the element with the given
// id. An unknown id adds a new draft element.
func NewSetChargeElementData(state chargeversion.Draft, elementID string, fragment chargeversion.Fragment) (SetChargeElementData, error) {
	elements, err := upsertElement(state, elementID, fragment)
	if err != nil {
		return SetChargeElementData{}, err
	}
	return SetChargeElementData{ChargeElements: elements}, nil
}

// NewUpdateChargeCategory merges a category level fragment into an sroc category
func NewUpdateChargeCategory(state chargeversion.Draft, categoryID string, fragment chargeversion.Fragment) (UpdateChargeCategory, error) {
	if err := requireScheme(state, chargeversion.SchemeSROC); err != nil {
		return UpdateChargeCategory{}, err
	}
	elements, err := upsertElement(state, categoryID, fragment)
	if err != nil {
		return UpdateChargeCategory{}, err
	}
	return UpdateChargeCategory{ChargeElements: elements}, nil
}

// NewSetChargePurposeData merges a fragment into one charge purpose of an sroc
// category. Sibling categories and purposes are carried over untouched.
func NewSetChargePurposeData(state chargeversion.Draft, categoryID, purposeID string, fragment chargeversion.Fragment) (SetChargePurposeData, error) {
	if err := requireScheme(state, chargeversion.SchemeSROC); err != nil {
		return SetChargePurposeData{}, err
	}

	ci := indexOfElement(state.ChargeElements, categoryID)
	if ci < 0 {
		return SetChargePurposeData{}, fmt.Errorf("%w: category %s", chargeversion.ErrElementNotFound, categoryID)
	}
	category := state.ChargeElements[ci]

	pi := indexOfPurpose(category.ChargePurposes, purposeID)
	current := chargeversion.ChargePurpose{ID: purposeID, Status: chargeversion.ElementStatusDraft}
	if pi >= 0 {
		current = category.ChargePurposes[pi]
	}

	updated, err := fragment.ApplyToPurpose(current)
	if err != nil {
		return SetChargePurposeData{}, err
	}
	updated.ID = purposeID

	purposes := make([]chargeversion.ChargePurpose, len(category.ChargePurposes), len(category.ChargePurposes)+1)
	copy(purposes, category.ChargePurposes)
	if pi >= 0 {
		purposes[pi] = updated
	} else {
		purposes = append(purposes, updated)
	}
	category.ChargePurposes = purposes

	return SetChargePurposeData{ChargeElements: replaceElement(state.ChargeElements, ci, category)}, nil
}

// NewSetAbstractionData builds charge elements from the licence's default
// charge facts. Under alcs each fact becomes an element; under sroc the facts
// become the purposes of a single new category. A nil defaults slice keeps
// the current elements.
func NewSetAbstractionData(state chargeversion.Draft, defaults []chargeversion.ChargePurpose, newID func() string) (SetAbstractionData, error) {
	if defaults == nil {
		return SetAbstractionData{ChargeElements: state.ChargeElements}, nil
	}
	if !state.Scheme.IsValid() {
		return SetAbstractionData{}, ErrSchemeUndetermined
	}

	purposes := make([]chargeversion.ChargePurpose, 0, len(defaults))
	for _, d := range defaults {
		p := d.Clone()
		p.ID = newID()
		p.Status = chargeversion.ElementStatusDraft
		if p.Season == "" && p.AbstractionPeriod != nil {
			p.Season = p.AbstractionPeriod.Season()
		}
		if p.Loss == "" && p.PurposeUse != nil {
			p.Loss = p.PurposeUse.LossFactor
		}
		purposes = append(purposes, p)
	}

	if state.Scheme == chargeversion.SchemeSROC {
		return SetAbstractionData{ChargeElements: []chargeversion.ChargeElement{{
			ChargePurpose:  chargeversion.ChargePurpose{ID: newID(), Status: chargeversion.ElementStatusDraft},
			Scheme:         chargeversion.SchemeSROC,
			ChargePurposes: purposes,
		}}}, nil
	}

	elements := make([]chargeversion.ChargeElement, 0, len(purposes))
	for _, p := range purposes {
		elements = append(elements, chargeversion.ChargeElement{
			ChargePurpose: p,
			Scheme:        chargeversion.SchemeALCS,
		})
	}
	return SetAbstractionData{ChargeElements: elements}, nil
}

// MarkComplete clears the transient draft status of an element once its flow is finished
func MarkComplete(state chargeversion.Draft, elementID string) (SetChargeElementData, error) {
	i := indexOfElement(state.ChargeElements, elementID)
	if i < 0 {
		return SetChargeElementData{}, fmt.Errorf("%w: %s", chargeversion.ErrElementNotFound, elementID)
	}
	e := state.ChargeElements[i]
	e.Status = ""
	return SetChargeElementData{ChargeElements: replaceElement(state.ChargeElements, i, e)}, nil
}

// MarkPurposeComplete clears the transient draft status of a nested charge purpose
func MarkPurposeComplete(state chargeversion.Draft, categoryID, purposeID string) (SetChargePurposeData, error) {
	ci := indexOfElement(state.ChargeElements, categoryID)
	if ci < 0 {
		return SetChargePurposeData{}, fmt.Errorf("%w: category %s", chargeversion.ErrElementNotFound, categoryID)
	}
	category := state.ChargeElements[ci]
	pi := indexOfPurpose(category.ChargePurposes, purposeID)
	if pi < 0 {
		return SetChargePurposeData{}, fmt.Errorf("%w: %s", chargeversion.ErrPurposeNotFound, purposeID)
	}

	purposes := make([]chargeversion.ChargePurpose, len(category.ChargePurposes))
	copy(purposes, category.ChargePurposes)
	purposes[pi].Status = ""
	category.ChargePurposes = purposes

	return SetChargePurposeData{ChargeElements: replaceElement(state.ChargeElements, ci, category)}, nil
}

func upsertElement(state chargeversion.Draft, id string, fragment chargeversion.Fragment) ([]chargeversion.ChargeElement, error) {
	if !state.Scheme.IsValid() {
		return nil, ErrSchemeUndetermined
	}

	i := indexOfElement(state.ChargeElements, id)
	current := chargeversion.ChargeElement{
		ChargePurpose: chargeversion.ChargePurpose{ID: id, Status: chargeversion.ElementStatusDraft},
		Scheme:        state.Scheme,
	}
	if i >= 0 {
		current = state.ChargeElements[i]
	}

	updated, err := fragment.ApplyTo(current)
	if err != nil {
		return nil, err
	}
	updated.ID = id

	if i >= 0 {
		return replaceElement(state.ChargeElements, i, updated), nil
	}
	return appendElement(state.ChargeElements, updated), nil
}

func requireScheme(state chargeversion.Draft, scheme chargeversion.Scheme) error {
	if !state.Scheme.IsValid() {
		return ErrSchemeUndetermined
	}
	if state.Scheme != scheme {
		return fmt.Errorf("%w: draft is %s, operation needs %s", ErrSchemeMismatch, state.Scheme, scheme)
	}
	return nil
}
