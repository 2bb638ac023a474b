// Package mapper turns posted step input into typed draft values.
package mapper

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/garyjia/charge-information/internal/application/navigation"
	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

// ErrInvalidInput is returned when posted input cannot be parsed. Field
// level validation happens before the mappers run, so this is a defensive
// failure.
var ErrInvalidInput = errors.New("invalid step input")

// Reference is the lookup data a mapper may resolve ids against
type Reference struct {
	Today            chargeversion.Date
	LicenceStartDate chargeversion.Date
	ChangeReasons    []chargeversion.ChangeReason
	Purposes         []port.PurposeOption
	SupportedSources []port.SupportedSource
	BillingAccounts  []chargeversion.BillingAccount
}

// Mapper converts the input of one step into a fragment of a charge element or purpose
type Mapper func(input url.Values, ref Reference) (chargeversion.Fragment, error)

// Registry selects the mapper of each step of a flow
type Registry map[navigation.StepID]Mapper

// For returns the step's mapper, or Passthrough when the step has none
func (r Registry) For(step navigation.StepID) Mapper {
	if m, ok := r[step]; ok {
		return m
	}
	return Passthrough
}

// transportFields are form fields that never belong in a draft
var transportFields = []string{"csrf_token", "_csrf"}

// Passthrough copies the input into a fragment unchanged, minus transport fields.
// Single values become strings and repeated values string slices.
func Passthrough(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	f := make(chargeversion.Fragment, len(input))
	for k, v := range input {
		switch len(v) {
		case 0:
		case 1:
			f[k] = v[0]
		default:
			f[k] = append([]string(nil), v...)
		}
	}
	return f.Without(transportFields...), nil
}

// ForFlow returns the registry of an element level flow
func ForFlow(flow navigation.Flow) (Registry, error) {
	switch flow {
	case navigation.FlowChargeElement:
		return ChargeElementMappers, nil
	case navigation.FlowChargeCategory:
		return ChargeCategoryMappers, nil
	case navigation.FlowChargePurpose:
		return ChargePurposeMappers, nil
	default:
		return nil, fmt.Errorf("%w: %s has no element mappers", navigation.ErrUnknownFlow, flow)
	}
}

// ChargeElementMappers map the steps of an alcs charge element
var ChargeElementMappers = Registry{
	navigation.StepPurpose:     Purpose,
	navigation.StepDescription: Description,
	navigation.StepAbstraction: Abstraction,
	navigation.StepQuantities:  Quantities,
	navigation.StepTimeLimit:   TimeLimit,
	navigation.StepSource:      Source,
	navigation.StepAgreements:  Agreements,
}

// ChargeCategoryMappers map the steps of an sroc charge category
var ChargeCategoryMappers = Registry{
	navigation.StepDescription:            Description,
	navigation.StepSource:                 Source,
	navigation.StepVolume:                 Volume,
	navigation.StepAdjustmentsApply:       AdjustmentsApply,
	navigation.StepAdjustments:            Adjustments,
	navigation.StepAdditionalChargesApply: AdditionalChargesApply,
	navigation.StepIsSupportedSource:      IsSupportedSource,
	navigation.StepSupportedSourceName:    SupportedSourceName,
	navigation.StepIsSupplyPublicWater:    IsSupplyPublicWater,
}

// ChargePurposeMappers map the steps of a purpose nested in an sroc category
var ChargePurposeMappers = Registry{
	navigation.StepPurpose:     Purpose,
	navigation.StepDescription: Description,
	navigation.StepAbstraction: Abstraction,
	navigation.StepQuantities:  Quantities,
	navigation.StepTimeLimit:   TimeLimit,
}

func invalid(field string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, field)
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidInput, field, cause)
}
