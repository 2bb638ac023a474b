package mapper

import (
	"net/url"
	"strings"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/pkg/utils"
)

// Start date options
const (
	StartDateToday        = "today"
	StartDateLicenceStart = "licenceStartDate"
	StartDateCustom       = "customDate"
)

// Reason resolves the chosen change reason
func Reason(input url.Values, ref Reference) (chargeversion.ChangeReason, error) {
	id := input.Get("reason")
	for _, r := range ref.ChangeReasons {
		if r.ID == id {
			return r, nil
		}
	}
	return chargeversion.ChangeReason{}, invalid("reason", nil)
}

// StartDate resolves the chosen start date option to a date
func StartDate(input url.Values, ref Reference) (chargeversion.Date, error) {
	switch input.Get("startDate") {
	case StartDateToday:
		return ref.Today, nil
	case StartDateLicenceStart:
		if ref.LicenceStartDate.IsZero() {
			return chargeversion.Date{}, invalid("startDate", nil)
		}
		return ref.LicenceStartDate, nil
	case StartDateCustom:
		d, err := chargeversion.ParseDate(strings.TrimSpace(input.Get("customDate")))
		if err != nil {
			return chargeversion.Date{}, invalid("customDate", err)
		}
		return d, nil
	default:
		return chargeversion.Date{}, invalid("startDate", nil)
	}
}

// BillingAccount resolves the chosen billing account of the licence
func BillingAccount(input url.Values, ref Reference) (chargeversion.BillingAccount, error) {
	id := input.Get("billingAccountId")
	for _, a := range ref.BillingAccounts {
		if a.ID == id {
			return a, nil
		}
	}
	return chargeversion.BillingAccount{}, invalid("billingAccountId", nil)
}

// UseAbstractionData reads whether the elements are built from licence data
func UseAbstractionData(input url.Values) (bool, error) {
	return yesNo(input, "useAbstractionData")
}

// Note returns the cleaned note text; empty removes the note
func Note(input url.Values) string {
	return utils.SanitizeString(strings.TrimSpace(input.Get("note")))
}
