package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

func float(f float64) *float64 { return &f }

func TestCheck(t *testing.T) {
	summerPeriod := &chargeversion.AbstractionPeriod{StartDay: 1, StartMonth: 4, EndDay: 31, EndMonth: 10}

	tests := []struct {
		name    string
		purpose chargeversion.ChargePurpose
		want    []string
	}{
		{
			name:    "summer period with summer season",
			purpose: chargeversion.ChargePurpose{AbstractionPeriod: summerPeriod, Season: chargeversion.SeasonSummer},
		},
		{
			name:    "summer period with winter season",
			purpose: chargeversion.ChargePurpose{AbstractionPeriod: summerPeriod, Season: chargeversion.SeasonWinter},
			want:    []string{WarningSeason},
		},
		{
			name:    "billable over authorised",
			purpose: chargeversion.ChargePurpose{AuthorisedAnnualQuantity: float(40), BillableAnnualQuantity: float(50)},
			want:    []string{WarningQuantity},
		},
		{
			name:    "billable within authorised",
			purpose: chargeversion.ChargePurpose{AuthorisedAnnualQuantity: float(40), BillableAnnualQuantity: float(30)},
		},
		{
			name:    "billable equal to authorised",
			purpose: chargeversion.ChargePurpose{AuthorisedAnnualQuantity: float(40), BillableAnnualQuantity: float(40)},
		},
		{
			name: "loss differs from purpose default",
			purpose: chargeversion.ChargePurpose{
				PurposeUse: &chargeversion.PurposeUse{LossFactor: chargeversion.LossHigh},
				Loss:       chargeversion.LossLow,
			},
			want: []string{WarningLoss},
		},
		{
			name: "every rule fails in order",
			purpose: chargeversion.ChargePurpose{
				AbstractionPeriod:        summerPeriod,
				Season:                   chargeversion.SeasonAllYear,
				PurposeUse:               &chargeversion.PurposeUse{LossFactor: chargeversion.LossHigh},
				Loss:                     chargeversion.LossMedium,
				AuthorisedAnnualQuantity: float(1),
				BillableAnnualQuantity:   float(2),
			},
			want: []string{WarningSeason, WarningLoss, WarningQuantity},
		},
		{
			name:    "unanswered questions raise nothing",
			purpose: chargeversion.ChargePurpose{BillableAnnualQuantity: float(50)},
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Check(tt.purpose))
		})
	}
}

func TestValidate_AlcsAndSrocDrafts(t *testing.T) {
	over := chargeversion.ChargePurpose{ID: "x", AuthorisedAnnualQuantity: float(40), BillableAnnualQuantity: float(50)}
	fine := chargeversion.ChargePurpose{ID: "y", AuthorisedAnnualQuantity: float(40), BillableAnnualQuantity: float(30)}

	alcs := chargeversion.Draft{
		Scheme: chargeversion.SchemeALCS,
		ChargeElements: []chargeversion.ChargeElement{
			{ChargePurpose: over},
			{ChargePurpose: fine},
		},
	}
	report := New().Validate(alcs)
	require.Len(t, report, 1)
	assert.Equal(t, "x", report[0].ElementID)
	assert.Empty(t, report[0].CategoryID)

	sroc := chargeversion.Draft{
		Scheme: chargeversion.SchemeSROC,
		ChargeElements: []chargeversion.ChargeElement{{
			ChargePurpose:  chargeversion.ChargePurpose{ID: "c1"},
			Scheme:         chargeversion.SchemeSROC,
			ChargePurposes: []chargeversion.ChargePurpose{fine, over},
		}},
	}
	report = New().Validate(sroc)
	require.Len(t, report, 1)
	assert.Equal(t, "x", report[0].ElementID)
	assert.Equal(t, "c1", report[0].CategoryID)
	assert.Equal(t, 1, Count(report))
}

func TestValidate_DoesNotTouchDraft(t *testing.T) {
	d := chargeversion.Draft{
		Scheme: chargeversion.SchemeALCS,
		ChargeElements: []chargeversion.ChargeElement{{
			ChargePurpose: chargeversion.ChargePurpose{ID: "x", AuthorisedAnnualQuantity: float(1), BillableAnnualQuantity: float(2)},
		}},
	}
	before := d.Clone()

	_ = New().Validate(d)
	assert.Equal(t, before, d)
}

func TestNew_CustomRules(t *testing.T) {
	v := New(Rule{Name: "described", Warning: "No description", Check: func(p chargeversion.ChargePurpose) bool {
		return p.Description != ""
	}})

	assert.Equal(t, []string{"No description"}, v.Check(chargeversion.ChargePurpose{}))
	assert.Empty(t, v.Check(chargeversion.ChargePurpose{Description: "spray"}))
}

func TestTally(t *testing.T) {
	report := []ElementWarnings{
		{ElementID: "e1", Warnings: []string{WarningSeason, WarningQuantity}},
		{ElementID: "e2", Warnings: []string{WarningSeason}},
	}

	got := New().Tally(report)
	assert.Equal(t, map[string]int{"season": 2, "quantity": 1}, got)
	assert.Equal(t, 3, Count(report))
}
