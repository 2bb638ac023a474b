package chargeversion

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbstractionPeriod_Season(t *testing.T) {
	tests := []struct {
		name   string
		period AbstractionPeriod
		want   string
	}{
		{"april to october is summer", AbstractionPeriod{1, 4, 31, 10}, SeasonSummer},
		{"inside summer", AbstractionPeriod{1, 6, 31, 8}, SeasonSummer},
		{"november to march is winter", AbstractionPeriod{1, 11, 31, 3}, SeasonWinter},
		{"inside winter across new year", AbstractionPeriod{1, 12, 28, 2}, SeasonWinter},
		{"leap day end stays winter", AbstractionPeriod{1, 11, 29, 2}, SeasonWinter},
		{"whole year", AbstractionPeriod{1, 1, 31, 12}, SeasonAllYear},
		{"straddles 31 october", AbstractionPeriod{1, 10, 30, 11}, SeasonAllYear},
		{"april to march", AbstractionPeriod{1, 4, 31, 3}, SeasonAllYear},
		{"invalid month", AbstractionPeriod{1, 13, 31, 3}, SeasonAllYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Season())
		})
	}
}

func TestAbstractionPeriod_IsValid(t *testing.T) {
	assert.True(t, AbstractionPeriod{1, 4, 31, 10}.IsValid())
	assert.True(t, AbstractionPeriod{29, 2, 31, 12}.IsValid())
	assert.False(t, AbstractionPeriod{31, 4, 31, 10}.IsValid())
	assert.False(t, AbstractionPeriod{0, 4, 31, 10}.IsValid())
}

func TestSchemeFor(t *testing.T) {
	assert.Equal(t, SchemeALCS, SchemeFor(MustParseDate("2022-03-31"), SrocCutover))
	assert.Equal(t, SchemeSROC, SchemeFor(MustParseDate("2022-04-01"), SrocCutover))
	assert.Equal(t, SchemeSROC, SchemeFor(MustParseDate("2023-01-15"), SrocCutover))
}

func TestDate_JSON(t *testing.T) {
	raw, err := json.Marshal(DateRange{StartDate: MustParseDate("2021-05-01")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"startDate":"2021-05-01"}`, string(raw))

	var dr DateRange
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2022-04-01","endDate":null}`), &dr))
	assert.True(t, dr.StartDate.Equal(SrocCutover))
	assert.Nil(t, dr.EndDate)

	_, err = ParseDate("01/04/2022")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestFragment_ApplyTo(t *testing.T) {
	authorised := 40.0
	element := ChargeElement{
		ChargePurpose: ChargePurpose{
			ID:                       "e1",
			Status:                   ElementStatusDraft,
			Description:              "Spray irrigation",
			AuthorisedAnnualQuantity: &authorised,
			TimeLimitedPeriod: &TimeLimitedPeriod{
				StartDate: MustParseDate("2021-01-01"),
				EndDate:   MustParseDate("2025-01-01"),
			},
		},
		Scheme: SchemeALCS,
	}

	updated, err := Fragment{
		"timeLimitedPeriod": nil,
		"season":            SeasonSummer,
		"source":            SourceTidal,
	}.ApplyTo(element)
	require.NoError(t, err)

	assert.Nil(t, updated.TimeLimitedPeriod)
	assert.Equal(t, SeasonSummer, updated.Season)
	assert.Equal(t, SourceTidal, updated.Source)
	assert.Equal(t, "Spray irrigation", updated.Description)
	require.NotNil(t, updated.AuthorisedAnnualQuantity)
	assert.Equal(t, 40.0, *updated.AuthorisedAnnualQuantity)

	// original is untouched
	assert.NotNil(t, element.TimeLimitedPeriod)
	assert.Empty(t, element.Season)
}

func TestFragment_ApplyToAdjustments(t *testing.T) {
	factor := decimal.RequireFromString("0.5")
	updated, err := Fragment{
		"adjustments": Adjustments{Aggregate: &factor, S127: true},
	}.ApplyTo(ChargeElement{ChargePurpose: ChargePurpose{ID: "c1"}, Scheme: SchemeSROC})
	require.NoError(t, err)

	require.NotNil(t, updated.Adjustments.Aggregate)
	assert.True(t, updated.Adjustments.Aggregate.Equal(factor))
	assert.True(t, updated.Adjustments.S127)
	assert.Nil(t, updated.Adjustments.Charge)
}

func TestFragment_ApplyToInvalid(t *testing.T) {
	_, err := Fragment{"volume": "lots"}.ApplyTo(ChargeElement{})
	assert.ErrorIs(t, err, ErrInvalidFragment)
}

func TestFragment_Without(t *testing.T) {
	f := Fragment{"csrf_token": "x", "description": "d"}
	out := f.Without("csrf_token")
	assert.Equal(t, Fragment{"description": "d"}, out)
	assert.Len(t, f, 2)
}

func TestDraft_Clone(t *testing.T) {
	q := 10.0
	draft := Draft{
		LicenceID: "L1",
		DateRange: &DateRange{StartDate: MustParseDate("2021-01-01")},
		ChargeElements: []ChargeElement{{
			ChargePurpose: ChargePurpose{ID: "c1"},
			ChargePurposes: []ChargePurpose{
				{ID: "p1", AuthorisedAnnualQuantity: &q},
			},
		}},
	}

	clone := draft.Clone()
	clone.DateRange.StartDate = MustParseDate("2022-01-01")
	*clone.ChargeElements[0].ChargePurposes[0].AuthorisedAnnualQuantity = 99
	clone.ChargeElements[0].ChargePurposes[0].Description = "changed"

	assert.Equal(t, "2021-01-01", draft.DateRange.StartDate.String())
	assert.Equal(t, 10.0, *draft.ChargeElements[0].ChargePurposes[0].AuthorisedAnnualQuantity)
	assert.Empty(t, draft.ChargeElements[0].ChargePurposes[0].Description)
}

func TestDraft_FindElement(t *testing.T) {
	draft := Draft{ChargeElements: []ChargeElement{
		{ChargePurpose: ChargePurpose{ID: "a"}},
		{ChargePurpose: ChargePurpose{ID: "b"}, ChargePurposes: []ChargePurpose{{ID: "p"}}},
	}}

	e, ok := draft.FindElement("b")
	require.True(t, ok)
	_, ok = e.FindPurpose("p")
	assert.True(t, ok)

	_, ok = draft.FindElement("missing")
	assert.False(t, ok)
}

func TestDraft_EmptyJSON(t *testing.T) {
	raw, err := json.Marshal(Draft{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestDraft_EmptyChargeElementsSerialiseAsList(t *testing.T) {
	d := Draft{LicenceID: "lic-1", Scheme: SchemeSROC, ChargeElements: []ChargeElement{}, RestartFlow: true}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"chargeElements":[]`)

	var back Draft
	require.NoError(t, json.Unmarshal(data, &back))
	assert.NotNil(t, back.ChargeElements)
	assert.Empty(t, back.ChargeElements)
}
