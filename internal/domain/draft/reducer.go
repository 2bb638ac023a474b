package draft

import (
	"fmt"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

// Reduce applies an action to a draft and returns the resulting draft.
// The input draft is never modified.
func Reduce(state chargeversion.Draft, action Action) (chargeversion.Draft, error) {
	if action == nil {
		return state, fmt.Errorf("%w: <nil>", ErrUnknownAction)
	}

	next := state

	switch a := action.(type) {
	case SetReason:
		reason := a.ChangeReason
		next.ChangeReason = &reason

	case SetStartDate:
		dateRange := a.DateRange
		next.DateRange = &dateRange
		next.Scheme = a.Scheme
		next.RestartFlow = a.Reset
		if a.Reset {
			next.ChargeElements = []chargeversion.ChargeElement{}
		}

	case SetBillingAccount:
		account := a.BillingAccount
		next.BillingAccount = &account

	case SetNote:
		next.Note = a.Note

	case SetChargeElementData:
		next.ChargeElements = a.ChargeElements

	case CreateChargeElement:
		next.ChargeElements = appendElement(state.ChargeElements, chargeversion.ChargeElement{
			ChargePurpose: chargeversion.ChargePurpose{ID: a.ID, Status: chargeversion.ElementStatusDraft},
			Scheme:        chargeversion.SchemeALCS,
		})

	case CreateChargeCategory:
		next.ChargeElements = appendElement(state.ChargeElements, chargeversion.ChargeElement{
			ChargePurpose:  chargeversion.ChargePurpose{ID: a.ID, Status: chargeversion.ElementStatusDraft},
			Scheme:         chargeversion.SchemeSROC,
			ChargePurposes: []chargeversion.ChargePurpose{},
		})

	case UpdateChargeCategory:
		next.ChargeElements = a.ChargeElements

	case SetChargePurposeData:
		next.ChargeElements = a.ChargeElements

	case SetAbstractionData:
		next.ChargeElements = a.ChargeElements

	case ClearData:
		return chargeversion.Draft{}, nil

	default:
		return state, fmt.Errorf("%w: %s", ErrUnknownAction, action.Type())
	}

	return next, nil
}

// appendElement returns a new slice; the backing array of elements is never shared
func appendElement(elements []chargeversion.ChargeElement, e chargeversion.ChargeElement) []chargeversion.ChargeElement {
	out := make([]chargeversion.ChargeElement, len(elements), len(elements)+1)
	copy(out, elements)
	return append(out, e)
}

// replaceElement returns a new slice with index i replaced
func replaceElement(elements []chargeversion.ChargeElement, i int, e chargeversion.ChargeElement) []chargeversion.ChargeElement {
	out := make([]chargeversion.ChargeElement, len(elements))
	copy(out, elements)
	out[i] = e
	return out
}

func indexOfElement(elements []chargeversion.ChargeElement, id string) int {
	for i, e := range elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func indexOfPurpose(purposes []chargeversion.ChargePurpose, id string) int {
	for i, p := range purposes {
		if p.ID == id {
			return i
		}
	}
	return -1
}
