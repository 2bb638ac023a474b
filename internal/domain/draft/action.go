// Package draft implements the state transitions of a draft charge version.
package draft

import "github.com/garyjia/charge-information/internal/domain/chargeversion"

// ActionType identifies the kind of an action
type ActionType string

const (
	TypeSetReason            ActionType = "setReason"
	TypeSetStartDate         ActionType = "setStartDate"
	TypeSetBillingAccount    ActionType = "setBillingAccount"
	TypeSetNote              ActionType = "setNote"
	TypeSetChargeElementData ActionType = "setChargeElementData"
	TypeCreateChargeElement  ActionType = "createChargeElement"
	TypeCreateChargeCategory ActionType = "createChargeCategory"
	TypeUpdateChargeCategory ActionType = "updateChargeCategory"
	TypeSetChargePurposeData ActionType = "setChargePurposeData"
	TypeSetAbstractionData   ActionType = "setAbstractionData"
	TypeClearData            ActionType = "clearData"
)

// String returns the string representation of the action type
func (t ActionType) String() string {
	return string(t)
}

// Action is a state transition request. The set of actions is closed: only
// the types in this package implement it.
type Action interface {
	Type() ActionType
	action()
}

// SetReason replaces the change reason
type SetReason struct {
	ChangeReason chargeversion.ChangeReason
}

// SetStartDate replaces the date range and, when the scheme changes under
// existing charge elements, resets them
type SetStartDate struct {
	DateRange      chargeversion.DateRange
	Scheme         chargeversion.Scheme
	ChargeElements []chargeversion.ChargeElement
	Reset          bool
}

// SetBillingAccount replaces the billing account
type SetBillingAccount struct {
	BillingAccount chargeversion.BillingAccount
}

// SetNote replaces or removes the note
type SetNote struct {
	Note *chargeversion.Note
}

// SetChargeElementData replaces the charge elements with a list computed by the caller
type SetChargeElementData struct {
	ChargeElements []chargeversion.ChargeElement
}

// CreateChargeElement appends a new, empty alcs charge element
type CreateChargeElement struct {
	ID string
}

// CreateChargeCategory appends a new, empty sroc charge category
type CreateChargeCategory struct {
	ID string
}

// UpdateChargeCategory replaces the charge elements after a category level change
type UpdateChargeCategory struct {
	ChargeElements []chargeversion.ChargeElement
}

// SetChargePurposeData replaces the charge elements after a nested purpose change
type SetChargePurposeData struct {
	ChargeElements []chargeversion.ChargeElement
}

// SetAbstractionData replaces the charge elements with ones built from licence data
type SetAbstractionData struct {
	ChargeElements []chargeversion.ChargeElement
}

// ClearData empties the draft
type ClearData struct{}

func (SetReason) Type() ActionType            { return TypeSetReason }
func (SetStartDate) Type() ActionType         { return TypeSetStartDate }
func (SetBillingAccount) Type() ActionType    { return TypeSetBillingAccount }
func (SetNote) Type() ActionType              { return TypeSetNote }
func (SetChargeElementData) Type() ActionType { return TypeSetChargeElementData }
func (CreateChargeElement) Type() ActionType  { return TypeCreateChargeElement }
func (CreateChargeCategory) Type() ActionType { return TypeCreateChargeCategory }
func (UpdateChargeCategory) Type() ActionType { return TypeUpdateChargeCategory }
func (SetChargePurposeData) Type() ActionType { return TypeSetChargePurposeData }
func (SetAbstractionData) Type() ActionType   { return TypeSetAbstractionData }
func (ClearData) Type() ActionType            { return TypeClearData }

func (SetReason) action()            {}
func (SetStartDate) action()         {}
func (SetBillingAccount) action()    {}
func (SetNote) action()              {}
func (SetChargeElementData) action() {}
func (CreateChargeElement) action()  {}
func (CreateChargeCategory) action() {}
func (UpdateChargeCategory) action() {}
func (SetChargePurposeData) action() {}
func (SetAbstractionData) action()   {}
func (ClearData) action()            {}
