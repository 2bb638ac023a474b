package mapper

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/charge-information/internal/application/navigation"
	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

func testReference() Reference {
	return Reference{
		Today:            chargeversion.MustParseDate("2023-06-15"),
		LicenceStartDate: chargeversion.MustParseDate("2019-04-01"),
		ChangeReasons: []chargeversion.ChangeReason{
			{ID: "r1", Description: "New licence", Type: "new_chargeable_charge_version"},
		},
		Purposes: []port.PurposeOption{
			{
				Primary:   &chargeversion.Purpose{ID: "pp1", Code: "A", Name: "Agriculture"},
				Secondary: &chargeversion.Purpose{ID: "ps1", Code: "AGR", Name: "General Agriculture"},
				Use: chargeversion.PurposeUse{
					Purpose:         chargeversion.Purpose{ID: "pu1", Code: "400", Name: "Spray Irrigation - Direct"},
					LossFactor:      chargeversion.LossHigh,
					IsTwoPartTariff: true,
				},
			},
		},
		SupportedSources: []port.SupportedSource{{ID: "ss1", Name: "Candover"}},
		BillingAccounts:  []chargeversion.BillingAccount{{ID: "ba1", AccountNumber: "A12345678A"}},
	}
}

func values(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Add(kv[i], kv[i+1])
	}
	return v
}

func TestRegistry_FallsBackToPassthrough(t *testing.T) {
	m := ChargeElementMappers.For(navigation.StepSeason)

	f, err := m(values("season", "summer", "csrf_token", "abc", "_csrf", "def"), Reference{})
	require.NoError(t, err)
	assert.Equal(t, chargeversion.Fragment{"season": "summer"}, f)
}

func TestPassthrough_RepeatedValues(t *testing.T) {
	f, err := Passthrough(values("tags", "a", "tags", "b"), Reference{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f["tags"])
}

func TestForFlow(t *testing.T) {
	for _, flow := range []navigation.Flow{navigation.FlowChargeElement, navigation.FlowChargeCategory, navigation.FlowChargePurpose} {
		r, err := ForFlow(flow)
		require.NoError(t, err)
		for step := range r {
			g, err := navigation.For(flow)
			require.NoError(t, err)
			assert.True(t, g.Has(step), "mapper for %s is not a step of %s", step, flow)
		}
	}

	_, err := ForFlow(navigation.FlowChargeInformation)
	assert.ErrorIs(t, err, navigation.ErrUnknownFlow)
}

func TestPurpose(t *testing.T) {
	f, err := Purpose(values("purpose", "pu1"), testReference())
	require.NoError(t, err)

	e, err := f.ApplyTo(chargeversion.ChargeElement{})
	require.NoError(t, err)
	require.NotNil(t, e.PurposeUse)
	assert.Equal(t, "Spray Irrigation - Direct", e.PurposeUse.Name)
	assert.True(t, e.IsTwoPartTariff())
	assert.Equal(t, "Agriculture", e.PurposePrimary.Name)
	assert.Equal(t, "General Agriculture", e.PurposeSecondary.Name)

	_, err = Purpose(values("purpose", "missing"), testReference())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAbstraction(t *testing.T) {
	f, err := Abstraction(values("startDate", "1-4", "endDate", "31-10"), Reference{})
	require.NoError(t, err)
	assert.Equal(t, chargeversion.AbstractionPeriod{StartDay: 1, StartMonth: 4, EndDay: 31, EndMonth: 10}, f["abstractionPeriod"])

	tests := []struct {
		name  string
		input url.Values
	}{
		{"missing separator", values("startDate", "14", "endDate", "31-10")},
		{"not a number", values("startDate", "1-4", "endDate", "x-10")},
		{"impossible day", values("startDate", "31-4", "endDate", "31-10")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Abstraction(tt.input, Reference{})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestTimeLimit(t *testing.T) {
	t.Run("declined clears the period", func(t *testing.T) {
		f, err := TimeLimit(values("timeLimitedPeriod", "no"), Reference{})
		require.NoError(t, err)
		v, ok := f["timeLimitedPeriod"]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("both dates", func(t *testing.T) {
		f, err := TimeLimit(values("timeLimitedPeriod", "yes", "startDate", "2021-04-01", "endDate", "2025-03-31"), Reference{})
		require.NoError(t, err)
		period := f["timeLimitedPeriod"].(chargeversion.TimeLimitedPeriod)
		assert.Equal(t, "2025-03-31", period.EndDate.String())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := TimeLimit(values("timeLimitedPeriod", "yes", "startDate", "2025-04-01", "endDate", "2021-03-31"), Reference{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestSource(t *testing.T) {
	tests := []struct {
		source string
		eiuc   string
	}{
		{chargeversion.SourceTidal, chargeversion.SourceTidal},
		{chargeversion.SourceUnsupported, chargeversion.EiucSourceOther},
		{chargeversion.SourceKielder, chargeversion.EiucSourceOther},
		{chargeversion.SourceNonTidal, chargeversion.EiucSourceOther},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			f, err := Source(values("source", tt.source), Reference{})
			require.NoError(t, err)
			assert.Equal(t, tt.eiuc, f["eiucSource"])
			assert.Equal(t, tt.source, f["source"])
		})
	}
}

func TestQuantities(t *testing.T) {
	f, err := Quantities(values("authorisedAnnualQuantity", "40", "billableAnnualQuantity", ""), Reference{})
	require.NoError(t, err)
	assert.Equal(t, 40.0, f["authorisedAnnualQuantity"])
	assert.Nil(t, f["billableAnnualQuantity"])

	f, err = Quantities(values("authorisedAnnualQuantity", "40", "billableAnnualQuantity", "30.5"), Reference{})
	require.NoError(t, err)
	assert.Equal(t, 30.5, f["billableAnnualQuantity"])

	_, err = Quantities(values("authorisedAnnualQuantity", "lots"), Reference{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdjustments(t *testing.T) {
	input := values(
		"adjustments", AdjustmentAggregate,
		"adjustments", AdjustmentS127,
		"adjustments", AdjustmentWinter,
		"aggregateFactor", "0.5",
		"chargeFactor", "0.9",
	)

	f, err := Adjustments(input, Reference{})
	require.NoError(t, err)
	adj := f["adjustments"].(chargeversion.Adjustments)

	require.NotNil(t, adj.Aggregate)
	assert.True(t, adj.Aggregate.Equal(decimal.RequireFromString("0.5")))
	assert.Nil(t, adj.Charge, "unchecked factor ignores its posted value")
	assert.Nil(t, adj.S126)
	assert.True(t, adj.S127)
	assert.False(t, adj.S130)
	assert.True(t, adj.Winter)

	_, err = Adjustments(values("adjustments", AdjustmentCharge, "chargeFactor", "-1"), Reference{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCategoryAnswers(t *testing.T) {
	t.Run("no adjustments clears them", func(t *testing.T) {
		f, err := AdjustmentsApply(values("adjustmentsApply", "false"), Reference{})
		require.NoError(t, err)
		assert.Equal(t, false, f["isAdjustments"])
		assert.Equal(t, chargeversion.Adjustments{}, f["adjustments"])
	})

	t.Run("no additional charges clears later answers", func(t *testing.T) {
		e := chargeversion.ChargeElement{SupportedSourceName: "Candover", SupportedSourceID: "ss1"}
		f, err := AdditionalChargesApply(values("additionalChargesApply", "no"), Reference{})
		require.NoError(t, err)
		e, err = f.ApplyTo(e)
		require.NoError(t, err)
		assert.Empty(t, e.SupportedSourceName)
		require.NotNil(t, e.IsAdditionalCharges)
		assert.False(t, *e.IsAdditionalCharges)
	})

	t.Run("supported source name", func(t *testing.T) {
		f, err := SupportedSourceName(values("supportedSourceId", "ss1"), testReference())
		require.NoError(t, err)
		assert.Equal(t, "Candover", f["supportedSourceName"])

		_, err = SupportedSourceName(values("supportedSourceId", "nope"), testReference())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unanswered radio", func(t *testing.T) {
		_, err := IsSupplyPublicWater(url.Values{}, Reference{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("volume", func(t *testing.T) {
		f, err := Volume(values("volume", "150"), Reference{})
		require.NoError(t, err)
		assert.Equal(t, 150.0, f["volume"])

		_, err = Volume(values("volume", "0"), Reference{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestChargeInformationSteps(t *testing.T) {
	ref := testReference()

	reason, err := Reason(values("reason", "r1"), ref)
	require.NoError(t, err)
	assert.Equal(t, "New licence", reason.Description)

	tests := []struct {
		name  string
		input url.Values
		want  string
	}{
		{"today", values("startDate", StartDateToday), "2023-06-15"},
		{"licence start", values("startDate", StartDateLicenceStart), "2019-04-01"},
		{"custom", values("startDate", StartDateCustom, "customDate", "2022-04-01"), "2022-04-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := StartDate(tt.input, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}

	_, err = StartDate(values("startDate", StartDateCustom, "customDate", "1/4/2022"), ref)
	assert.ErrorIs(t, err, ErrInvalidInput)

	account, err := BillingAccount(values("billingAccountId", "ba1"), ref)
	require.NoError(t, err)
	assert.Equal(t, "A12345678A", account.AccountNumber)

	use, err := UseAbstractionData(values("useAbstractionData", "yes"))
	require.NoError(t, err)
	assert.True(t, use)

	assert.Equal(t, "check the quantities", Note(values("note", "  check the quantities\x00 ")))
}
