package mapper

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/pkg/utils"
)

// Purpose resolves the chosen purpose use against the licence's purposes
func Purpose(input url.Values, ref Reference) (chargeversion.Fragment, error) {
	id := input.Get("purpose")
	for _, p := range ref.Purposes {
		if p.Use.ID != id {
			continue
		}
		f := chargeversion.Fragment{
			"purposeUse":       p.Use,
			"purposePrimary":   nil,
			"purposeSecondary": nil,
		}
		if p.Primary != nil {
			f["purposePrimary"] = *p.Primary
		}
		if p.Secondary != nil {
			f["purposeSecondary"] = *p.Secondary
		}
		return f, nil
	}
	return nil, invalid("purpose", nil)
}

// Description trims and cleans the element description
func Description(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	return chargeversion.Fragment{
		"description": utils.SanitizeString(strings.TrimSpace(input.Get("description"))),
	}, nil
}

// Abstraction splits the two day-month strings of the abstraction period
func Abstraction(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	startDay, startMonth, err := dayMonth(input.Get("startDate"))
	if err != nil {
		return nil, invalid("startDate", err)
	}
	endDay, endMonth, err := dayMonth(input.Get("endDate"))
	if err != nil {
		return nil, invalid("endDate", err)
	}

	period := chargeversion.AbstractionPeriod{
		StartDay:   startDay,
		StartMonth: startMonth,
		EndDay:     endDay,
		EndMonth:   endMonth,
	}
	if !period.IsValid() {
		return nil, invalid("abstractionPeriod", nil)
	}
	return chargeversion.Fragment{"abstractionPeriod": period}, nil
}

// dayMonth parses "D-M"
func dayMonth(s string) (int, int, error) {
	day, month, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return 0, 0, strconv.ErrSyntax
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return 0, 0, err
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return 0, 0, err
	}
	return d, m, nil
}

// TimeLimit clears the time limit when declined, else reads both dates
func TimeLimit(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	limited, err := yesNo(input, "timeLimitedPeriod")
	if err != nil {
		return nil, err
	}
	if !limited {
		return chargeversion.Fragment{"timeLimitedPeriod": nil}, nil
	}

	start, err := chargeversion.ParseDate(input.Get("startDate"))
	if err != nil {
		return nil, invalid("startDate", err)
	}
	end, err := chargeversion.ParseDate(input.Get("endDate"))
	if err != nil {
		return nil, invalid("endDate", err)
	}
	if end.Before(start) {
		return nil, invalid("endDate", nil)
	}

	return chargeversion.Fragment{
		"timeLimitedPeriod": chargeversion.TimeLimitedPeriod{StartDate: start, EndDate: end},
	}, nil
}

// Source stores the source and derives its EIUC classification
func Source(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	source := input.Get("source")
	if source == "" {
		return nil, invalid("source", nil)
	}
	eiuc := chargeversion.EiucSourceOther
	if source == chargeversion.SourceTidal {
		eiuc = chargeversion.SourceTidal
	}
	return chargeversion.Fragment{"source": source, "eiucSource": eiuc}, nil
}

// Quantities parses the annual quantities; an empty billable quantity is cleared
func Quantities(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	authorised, err := strconv.ParseFloat(strings.TrimSpace(input.Get("authorisedAnnualQuantity")), 64)
	if err != nil {
		return nil, invalid("authorisedAnnualQuantity", err)
	}

	f := chargeversion.Fragment{
		"authorisedAnnualQuantity": authorised,
		"billableAnnualQuantity":   nil,
	}

	if raw := strings.TrimSpace(input.Get("billableAnnualQuantity")); raw != "" {
		billable, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalid("billableAnnualQuantity", err)
		}
		f["billableAnnualQuantity"] = billable
	}
	return f, nil
}

// Agreements records whether the section 127 two-part tariff agreement applies
func Agreements(input url.Values, _ Reference) (chargeversion.Fragment, error) {
	enabled, err := yesNo(input, "isSection127AgreementEnabled")
	if err != nil {
		return nil, err
	}
	return chargeversion.Fragment{"isSection127AgreementEnabled": enabled}, nil
}

// yesNo reads a radio answer posted as true/false or yes/no
func yesNo(input url.Values, field string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input.Get(field))) {
	case "true", "yes":
		return true, nil
	case "false", "no":
		return false, nil
	default:
		return false, invalid(field, nil)
	}
}
