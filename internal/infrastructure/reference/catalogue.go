// Package reference serves lookup data and licence records from a YAML catalogue.
package reference

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/internal/domain/entity"
	"github.com/garyjia/charge-information/pkg/utils"
)

type categoryRecord struct {
	chargeversion.ChargeCategoryRef `yaml:",inline"`

	Source            string  `yaml:"source"`
	Loss              string  `yaml:"loss"`
	WaterAvailability string  `yaml:"water_availability"`
	WaterModel        string  `yaml:"water_model"`
	MinVolume         float64 `yaml:"min_volume"`
	MaxVolume         float64 `yaml:"max_volume"`
}

// matches reports whether the query falls in the category. Empty record
// fields match anything; volume is in (min, max], with max zero meaning unbounded.
func (c categoryRecord) matches(q port.CategoryQuery) bool {
	if !matchField(c.Source, q.Source) || !matchField(c.Loss, q.Loss) ||
		!matchField(c.WaterAvailability, q.WaterAvailability) || !matchField(c.WaterModel, q.WaterModel) {
		return false
	}
	if q.Volume <= c.MinVolume {
		return false
	}
	return c.MaxVolume == 0 || q.Volume <= c.MaxVolume
}

func matchField(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

type defaultChargeRecord struct {
	PurposeUseID             string   `yaml:"purpose_use_id"`
	Description              string   `yaml:"description"`
	AbstractionPeriod        string   `yaml:"abstraction_period"`
	AuthorisedAnnualQuantity *float64 `yaml:"authorised_annual_quantity"`
	BillableAnnualQuantity   *float64 `yaml:"billable_annual_quantity"`
}

type licenceRecord struct {
	entity.Licence `yaml:",inline"`

	StartDate       string                         `yaml:"start_date"`
	EndDate         string                         `yaml:"end_date"`
	BillingAccounts []chargeversion.BillingAccount `yaml:"billing_accounts"`
	DefaultCharges  []defaultChargeRecord          `yaml:"default_charges"`
}

type document struct {
	ChangeReasons    []chargeversion.ChangeReason `yaml:"change_reasons"`
	Purposes         []port.PurposeOption         `yaml:"purposes"`
	SupportedSources []port.SupportedSource       `yaml:"supported_sources"`
	ChargeCategories []categoryRecord             `yaml:"charge_categories"`
	Licences         []licenceRecord              `yaml:"licences"`
}

// Catalogue is an in-memory reference data set. It is read-only after loading.
type Catalogue struct {
	doc      document
	licences map[string]*licenceRecord
	purposes map[string]port.PurposeOption
}

// Load reads a catalogue file
func Load(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference catalogue: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalogue and checks its cross references
func Parse(data []byte) (*Catalogue, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse reference catalogue: %w", err)
	}

	c := &Catalogue{
		doc:      doc,
		licences: make(map[string]*licenceRecord, len(doc.Licences)),
		purposes: make(map[string]port.PurposeOption, len(doc.Purposes)),
	}

	for _, p := range doc.Purposes {
		c.purposes[p.Use.ID] = p
	}

	for i := range doc.Licences {
		rec := &doc.Licences[i]
		if rec.ID == "" {
			return nil, fmt.Errorf("licence %d has no id", i)
		}
		if rec.LicenceRef != "" {
			if err := utils.ValidateLicenceRef(rec.LicenceRef); err != nil {
				return nil, fmt.Errorf("licence %s: %w", rec.ID, err)
			}
		}
		for _, ba := range rec.BillingAccounts {
			if ba.AccountNumber == "" {
				continue
			}
			if err := utils.ValidateAccountNumber(ba.AccountNumber); err != nil {
				return nil, fmt.Errorf("licence %s: %w", rec.ID, err)
			}
		}
		start, err := parseOptionalDate(rec.StartDate)
		if err != nil {
			return nil, fmt.Errorf("licence %s: %w", rec.ID, err)
		}
		rec.Licence.StartDate = start
		if rec.EndDate != "" {
			end, err := chargeversion.ParseDate(rec.EndDate)
			if err != nil {
				return nil, fmt.Errorf("licence %s: %w", rec.ID, err)
			}
			rec.Licence.EndDate = &end
		}
		for _, dc := range rec.DefaultCharges {
			if _, ok := c.purposes[dc.PurposeUseID]; !ok {
				return nil, fmt.Errorf("licence %s: unknown purpose use %q", rec.ID, dc.PurposeUseID)
			}
			if _, err := parsePeriod(dc.AbstractionPeriod); err != nil {
				return nil, fmt.Errorf("licence %s: %w", rec.ID, err)
			}
		}
		c.licences[rec.ID] = rec
	}

	return c, nil
}

// ChangeReasons returns the change reasons of a type; an empty type returns all of them
func (c *Catalogue) ChangeReasons(ctx context.Context, reasonType string) ([]chargeversion.ChangeReason, error) {
	var out []chargeversion.ChangeReason
	for _, r := range c.doc.ChangeReasons {
		if reasonType == "" || r.Type == reasonType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *Catalogue) Purposes(ctx context.Context) ([]port.PurposeOption, error) {
	return append([]port.PurposeOption(nil), c.doc.Purposes...), nil
}

func (c *Catalogue) SupportedSources(ctx context.Context) ([]port.SupportedSource, error) {
	return append([]port.SupportedSource(nil), c.doc.SupportedSources...), nil
}

// ChargeCategory returns the first category matching the query
func (c *Catalogue) ChargeCategory(ctx context.Context, q port.CategoryQuery) (*chargeversion.ChargeCategoryRef, error) {
	for _, rec := range c.doc.ChargeCategories {
		if rec.matches(q) {
			ref := rec.ChargeCategoryRef
			return &ref, nil
		}
	}
	return nil, fmt.Errorf("charge category for %+v: %w", q, port.ErrNotFound)
}

func (c *Catalogue) GetLicence(ctx context.Context, licenceID string) (*entity.Licence, error) {
	rec, ok := c.licences[licenceID]
	if !ok {
		return nil, fmt.Errorf("licence %s: %w", licenceID, port.ErrNotFound)
	}
	l := rec.Licence
	return &l, nil
}

// DefaultChargeFacts builds a charge purpose per default charge of the licence
func (c *Catalogue) DefaultChargeFacts(ctx context.Context, licenceID string) ([]chargeversion.ChargePurpose, error) {
	rec, ok := c.licences[licenceID]
	if !ok {
		return nil, fmt.Errorf("licence %s: %w", licenceID, port.ErrNotFound)
	}

	out := make([]chargeversion.ChargePurpose, 0, len(rec.DefaultCharges))
	for _, dc := range rec.DefaultCharges {
		opt := c.purposes[dc.PurposeUseID]
		period, _ := parsePeriod(dc.AbstractionPeriod)
		use := opt.Use

		out = append(out, chargeversion.ChargePurpose{
			PurposePrimary:           clonePurpose(opt.Primary),
			PurposeSecondary:         clonePurpose(opt.Secondary),
			PurposeUse:               &use,
			Description:              dc.Description,
			AbstractionPeriod:        period,
			AuthorisedAnnualQuantity: cloneFloat(dc.AuthorisedAnnualQuantity),
			BillableAnnualQuantity:   cloneFloat(dc.BillableAnnualQuantity),
		})
	}
	return out, nil
}

func (c *Catalogue) BillingAccounts(ctx context.Context, licenceID string) ([]chargeversion.BillingAccount, error) {
	rec, ok := c.licences[licenceID]
	if !ok {
		return nil, fmt.Errorf("licence %s: %w", licenceID, port.ErrNotFound)
	}
	return append([]chargeversion.BillingAccount(nil), rec.BillingAccounts...), nil
}

func parseOptionalDate(s string) (chargeversion.Date, error) {
	if s == "" {
		return chargeversion.Date{}, nil
	}
	return chargeversion.ParseDate(s)
}

// parsePeriod parses "D-M/D-M", e.g. "1-4/31-10"
func parsePeriod(s string) (*chargeversion.AbstractionPeriod, error) {
	if s == "" {
		return nil, nil
	}
	var p chargeversion.AbstractionPeriod
	if _, err := fmt.Sscanf(s, "%d-%d/%d-%d", &p.StartDay, &p.StartMonth, &p.EndDay, &p.EndMonth); err != nil {
		return nil, fmt.Errorf("invalid abstraction period %q: %w", s, err)
	}
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid abstraction period %q", s)
	}
	return &p, nil
}

func clonePurpose(p *chargeversion.Purpose) *chargeversion.Purpose {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

var (
	_ port.ReferenceData  = (*Catalogue)(nil)
	_ port.LicenceService = (*Catalogue)(nil)
)
