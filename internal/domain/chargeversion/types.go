// Package chargeversion holds the draft charge version aggregate and its parts.
package chargeversion

import "github.com/shopspring/decimal"

// Draft is the in-progress charge version built up by the charge information flow
type Draft struct {
	ID               string          `json:"id,omitempty"`
	LicenceID        string          `json:"licenceId,omitempty"`
	WorkflowID       string          `json:"workflowId,omitempty"`
	Scheme           Scheme          `json:"scheme,omitempty"`
	ChangeReason     *ChangeReason   `json:"changeReason,omitempty"`
	DateRange        *DateRange      `json:"dateRange,omitempty"`
	BillingAccount   *BillingAccount `json:"billingAccount,omitempty"`
	Note             *Note           `json:"note,omitempty"`
	Status           Status          `json:"status,omitempty"`
	ApproverComments string          `json:"approverComments,omitempty"`
	ChargeElements   []ChargeElement `json:"chargeElements"`
	RestartFlow      bool            `json:"restartFlow,omitempty"`
}

// ChangeReason explains why a new charge version is being created
type ChangeReason struct {
	ID          string `json:"changeReasonId" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
}

// DateRange is the period the charge version is effective for
type DateRange struct {
	StartDate Date  `json:"startDate"`
	EndDate   *Date `json:"endDate,omitempty"`
}

// BillingAccount is the account charges are invoiced to
type BillingAccount struct {
	ID            string   `json:"id" yaml:"id"`
	AccountNumber string   `json:"accountNumber,omitempty" yaml:"account_number"`
	Address       *Address `json:"address,omitempty" yaml:"address"`
}

// Address is a postal address attached to a billing account
type Address struct {
	AddressLine1 string `json:"addressLine1,omitempty" yaml:"address_line_1"`
	AddressLine2 string `json:"addressLine2,omitempty" yaml:"address_line_2"`
	Town         string `json:"town,omitempty" yaml:"town"`
	Postcode     string `json:"postcode,omitempty" yaml:"postcode"`
}

// Note is a free-text note recorded against the draft
type Note struct {
	Text string `json:"text"`
	User string `json:"user"`
}

// Purpose is a primary or secondary purpose reference
type Purpose struct {
	ID   string `json:"id" yaml:"id"`
	Code string `json:"legacyId" yaml:"code"`
	Name string `json:"description" yaml:"name"`
}

// PurposeUse is a purpose use reference with its charging defaults
type PurposeUse struct {
	Purpose         `yaml:",inline"`
	LossFactor      string `json:"lossFactor" yaml:"loss_factor"`
	IsTwoPartTariff bool   `json:"isTwoPartTariff" yaml:"two_part_tariff"`
}

// AbstractionPeriod is the recurring window abstraction is permitted in
type AbstractionPeriod struct {
	StartDay   int `json:"startDay"`
	StartMonth int `json:"startMonth"`
	EndDay     int `json:"endDay"`
	EndMonth   int `json:"endMonth"`
}

// TimeLimitedPeriod bounds a time-limited charge element
type TimeLimitedPeriod struct {
	StartDate Date `json:"startDate"`
	EndDate   Date `json:"endDate"`
}

// ChargePurpose is one abstraction purpose. Under alcs it is the whole charge
// element; under sroc it is nested in a charge category.
type ChargePurpose struct {
	ID                           string             `json:"id"`
	Status                       ElementStatus      `json:"status,omitempty"`
	PurposePrimary               *Purpose           `json:"purposePrimary,omitempty"`
	PurposeSecondary             *Purpose           `json:"purposeSecondary,omitempty"`
	PurposeUse                   *PurposeUse        `json:"purposeUse,omitempty"`
	Description                  string             `json:"description,omitempty"`
	AbstractionPeriod            *AbstractionPeriod `json:"abstractionPeriod,omitempty"`
	AuthorisedAnnualQuantity     *float64           `json:"authorisedAnnualQuantity,omitempty"`
	BillableAnnualQuantity       *float64           `json:"billableAnnualQuantity,omitempty"`
	TimeLimitedPeriod            *TimeLimitedPeriod `json:"timeLimitedPeriod,omitempty"`
	Season                       string             `json:"season,omitempty"`
	Loss                         string             `json:"loss,omitempty"`
	IsSection127AgreementEnabled bool               `json:"isSection127AgreementEnabled,omitempty"`
}

// Adjustments are the sroc charge adjustments of a category. Unselected
// factors are nil and unselected flags false.
type Adjustments struct {
	Aggregate *decimal.Decimal `json:"aggregate,omitempty"`
	Charge    *decimal.Decimal `json:"charge,omitempty"`
	S126      *decimal.Decimal `json:"s126,omitempty"`
	S127      bool             `json:"s127,omitempty"`
	S130      bool             `json:"s130,omitempty"`
	Winter    bool             `json:"winter,omitempty"`
}

// IsZero reports whether no adjustment is selected
func (a Adjustments) IsZero() bool {
	return a.Aggregate == nil && a.Charge == nil && a.S126 == nil && !a.S127 && !a.S130 && !a.Winter
}

// ChargeCategoryRef is the reference data resolved for an sroc category
type ChargeCategoryRef struct {
	ID               string `json:"id" yaml:"id"`
	Reference        string `json:"reference" yaml:"reference"`
	ShortDescription string `json:"shortDescription" yaml:"short_description"`
}

// ChargeElement is an alcs charge element or an sroc charge category.
// The embedded purpose fields are only populated under alcs.
type ChargeElement struct {
	ChargePurpose

	Scheme     Scheme `json:"scheme,omitempty"`
	Source     string `json:"source,omitempty"`
	EiucSource string `json:"eiucSource,omitempty"`

	Volume              *float64           `json:"volume,omitempty"`
	WaterAvailability   string             `json:"waterAvailability,omitempty"`
	WaterModel          string             `json:"waterModel,omitempty"`
	IsAdjustments       *bool              `json:"isAdjustments,omitempty"`
	Adjustments         Adjustments        `json:"adjustments"`
	IsAdditionalCharges *bool              `json:"isAdditionalCharges,omitempty"`
	IsSupportedSource   *bool              `json:"isSupportedSource,omitempty"`
	SupportedSourceID   string             `json:"supportedSourceId,omitempty"`
	SupportedSourceName string             `json:"supportedSourceName,omitempty"`
	IsSupplyPublicWater *bool              `json:"isSupplyPublicWater,omitempty"`
	ChargeCategory      *ChargeCategoryRef `json:"chargeCategory,omitempty"`
	ChargePurposes      []ChargePurpose    `json:"chargePurposes,omitempty"`
}

// HasElements reports whether the draft has any charge elements
func (d Draft) HasElements() bool {
	return len(d.ChargeElements) > 0
}

// FindElement returns the element with the given id
func (d Draft) FindElement(id string) (ChargeElement, bool) {
	for _, e := range d.ChargeElements {
		if e.ID == id {
			return e, true
		}
	}
	return ChargeElement{}, false
}

// FindPurpose returns the purpose with the given id
func (e ChargeElement) FindPurpose(id string) (ChargePurpose, bool) {
	for _, p := range e.ChargePurposes {
		if p.ID == id {
			return p, true
		}
	}
	return ChargePurpose{}, false
}

// IsTwoPartTariff reports whether the purpose use is charged on a two-part tariff
func (p ChargePurpose) IsTwoPartTariff() bool {
	return p.PurposeUse != nil && p.PurposeUse.IsTwoPartTariff
}
