package mapper

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

// Adjustment checkbox values
const (
	AdjustmentAggregate = "aggregate"
	AdjustmentCharge    = "charge"
	AdjustmentS126      = "s126"
	AdjustmentS127      = "s127"
	AdjustmentS130      = "s130"
	AdjustmentWinter    = "winter"
)

// Volume parses the category volume in megalitres
func Volume(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	volume, err := strconv.ParseFloat(strings.TrimSpace(input.Get("volume")), 64)
	if err != nil || volume <= 0 {
		return nil, invalid("volume", err)
	}
	return chargeversion.Fragment{"volume": volume}, nil
}

// AdjustmentsApply records whether adjustments apply; "no" clears any chosen adjustments
func AdjustmentsApply(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	apply, err := yesNo(input, "adjustmentsApply")
	if err != nil {
		return nil, err
	}
	f := chargeversion.Fragment{"isAdjustments": apply}
	if !apply {
		f["adjustments"] = chargeversion.Adjustments{}
	}
	return f, nil
}

// Adjustments expands the checked adjustments into factors and flags.
// Unchecked factors are nil and unchecked flags false.
func Adjustments(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	checked := make(map[string]bool)
	for _, v := range input["adjustments"] {
		checked[v] = true
	}

	var adj chargeversion.Adjustments
	var err error
	if adj.Aggregate, err = factor(input, checked, AdjustmentAggregate); err != nil {
		return nil, err
	}
	if adj.Charge, err = factor(input, checked, AdjustmentCharge); err != nil {
		return nil, err
	}
	if adj.S126, err = factor(input, checked, AdjustmentS126); err != nil {
		return nil, err
	}
	adj.S127 = checked[AdjustmentS127]
	adj.S130 = checked[AdjustmentS130]
	adj.Winter = checked[AdjustmentWinter]

	return chargeversion.Fragment{"adjustments": adj}, nil
}

// factor reads the "<name>Factor" field of a checked adjustment
func factor(input url.Values, checked map[string]bool, name string) (*decimal.Decimal, error) {
	if !checked[name] {
		return nil, nil
	}
	field := name + "Factor"
	d, err := decimal.NewFromString(strings.TrimSpace(input.Get(field)))
	if err != nil {
		return nil, invalid(field, err)
	}
	if !d.IsPositive() {
		return nil, invalid(field, nil)
	}
	return &d, nil
}

// AdditionalChargesApply records whether additional charges apply. "No"
// ends the category flow, so the answers that follow it are cleared.
func AdditionalChargesApply(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	apply, err := yesNo(input, "additionalChargesApply")
	if err != nil {
		return nil, err
	}
	f := chargeversion.Fragment{"isAdditionalCharges": apply}
	if !apply {
		f["isSupportedSource"] = nil
		f["supportedSourceId"] = nil
		f["supportedSourceName"] = nil
		f["isSupplyPublicWater"] = nil
	}
	return f, nil
}

// IsSupportedSource records whether the category draws from a supported source
func IsSupportedSource(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	supported, err := yesNo(input, "isSupportedSource")
	if err != nil {
		return nil, err
	}
	f := chargeversion.Fragment{"isSupportedSource": supported}
	if !supported {
		f["supportedSourceId"] = nil
		f["supportedSourceName"] = nil
	}
	return f, nil
}

// SupportedSourceName resolves the chosen supported source id to its name
func SupportedSourceName(input url.Values, ref Reference) (chargeversion.Fragment, error) {
	id := input.Get("supportedSourceId")
	for _, s := range ref.SupportedSources {
		if s.ID == id {
			return chargeversion.Fragment{"supportedSourceId": s.ID, "supportedSourceName": s.Name}, nil
		}
	}
	return nil, invalid("supportedSourceId", nil)
}

// IsSupplyPublicWater records whether the abstraction supplies public water
func IsSupplyPublicWater(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	public, err := yesNo(input, "isSupplyPublicWater")
	if err != nil {
		return nil, err
	}
	return chargeversion.Fragment{"isSupplyPublicWater": public}, nil
}
