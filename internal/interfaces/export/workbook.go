// Package export renders a charge information summary as an xlsx workbook.
package export

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/application/service"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/internal/observability/metrics"
)

// Sheet names
const (
	SheetSummary  = "Summary"
	SheetElements = "Elements"
)

// ContentType is the media type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var elementHeaders = []string{
	"Element", "Category", "Purpose", "Description", "Abstraction period", "Season",
	"Loss", "Authorised (Ml)", "Billable (Ml)", "Source", "Volume (Ml)", "Charge reference", "Warnings",
}

// Exporter writes check answers workbooks to file storage
type Exporter struct {
	storage port.FileStorage
	logger  *zap.Logger
	now     func() time.Time
}

// NewExporter creates a new Exporter
func NewExporter(storage port.FileStorage, logger *zap.Logger) *Exporter {
	return &Exporter{storage: storage, logger: logger, now: time.Now}
}

// Export renders the summary, stores it and returns its storage path and content
func (e *Exporter) Export(ctx context.Context, check *service.CheckAnswers) (string, []byte, error) {
	content, err := e.render(check)
	if err == nil {
		p := e.pathFor(check)
		if err = e.storage.Save(ctx, p, content); err == nil {
			metrics.IncExport(nil)
			e.logger.Info("Check answers exported",
				zap.String("licence_id", check.Draft.LicenceID),
				zap.String("path", p),
				zap.Int("element_count", len(check.Draft.ChargeElements)))
			return p, content, nil
		}
	}

	metrics.IncExport(err)
	e.logger.Error("Failed to export check answers", zap.String("licence_id", check.Draft.LicenceID), zap.Error(err))
	return "", nil, err
}

func (e *Exporter) pathFor(check *service.CheckAnswers) string {
	name := "draft"
	if check.Draft.WorkflowID != "" {
		name = check.Draft.WorkflowID
	}
	stamp := e.now().UTC().Format("20060102T150405")
	return path.Join("exports", check.Draft.LicenceID, fmt.Sprintf("%s-%s.xlsx", name, stamp))
}

// render builds the workbook without storing it
func (e *Exporter) render(check *service.CheckAnswers) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetElements); err != nil {
		return nil, fmt.Errorf("failed to add elements sheet: %w", err)
	}

	if err := fillSummary(f, check); err != nil {
		return nil, fmt.Errorf("failed to fill summary: %w", err)
	}
	if err := fillElements(f, check); err != nil {
		return nil, fmt.Errorf("failed to fill elements: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func fillSummary(f *excelize.File, check *service.CheckAnswers) error {
	d := check.Draft

	rows := [][2]any{
		{"Licence", d.LicenceID},
		{"Status", string(d.Status)},
		{"Scheme", strings.ToUpper(string(d.Scheme))},
		{"Reason", ""},
		{"Start date", ""},
		{"End date", ""},
		{"Billing account", ""},
		{"Note", ""},
		{"Warnings", check.WarningCount},
	}
	if check.Licence != nil {
		rows[0][1] = check.Licence.LicenceRef
	}
	if d.ChangeReason != nil {
		rows[3][1] = d.ChangeReason.Description
	}
	if d.DateRange != nil {
		rows[4][1] = d.DateRange.StartDate.String()
		if d.DateRange.EndDate != nil {
			rows[5][1] = d.DateRange.EndDate.String()
		}
	}
	if d.BillingAccount != nil {
		rows[6][1] = d.BillingAccount.AccountNumber
	}
	if d.Note != nil {
		rows[7][1] = d.Note.Text
	}

	for i, r := range rows {
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", i+1), &[]any{r[0], r[1]}); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "B", 24)
}

func fillElements(f *excelize.File, check *service.CheckAnswers) error {
	if err := f.SetSheetRow(SheetElements, "A1", &elementHeaders); err != nil {
		return err
	}

	warnings := make(map[string]string, len(check.Warnings))
	for _, w := range check.Warnings {
		warnings[w.ElementID] = strings.Join(w.Warnings, "; ")
	}

	row := 2
	write := func(values []any) error {
		err := f.SetSheetRow(SheetElements, fmt.Sprintf("A%d", row), &values)
		row++
		return err
	}

	for _, e := range check.Draft.ChargeElements {
		if e.Scheme != chargeversion.SchemeSROC {
			if err := write(purposeRow(e.ID, "", e.ChargePurpose, e.Source, nil, "", warnings[e.ID])); err != nil {
				return err
			}
			continue
		}

		reference := ""
		if e.ChargeCategory != nil {
			reference = e.ChargeCategory.Reference
		}
		if err := write(purposeRow("", e.ID, chargeversion.ChargePurpose{Description: e.Description, Loss: e.Loss}, e.Source, e.Volume, reference, "")); err != nil {
			return err
		}
		for _, p := range e.ChargePurposes {
			if err := write(purposeRow(p.ID, e.ID, p, "", nil, "", warnings[p.ID])); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(SheetElements, "A", "M", 18)
}

func purposeRow(id, categoryID string, p chargeversion.ChargePurpose, source string, volume *float64, reference, warnings string) []any {
	purpose := ""
	if p.PurposeUse != nil {
		purpose = p.PurposeUse.Name
	}
	period := ""
	if a := p.AbstractionPeriod; a != nil {
		period = fmt.Sprintf("%d/%d to %d/%d", a.StartDay, a.StartMonth, a.EndDay, a.EndMonth)
	}

	return []any{
		id, categoryID, purpose, p.Description, period, p.Season, p.Loss,
		floatCell(p.AuthorisedAnnualQuantity), floatCell(p.BillableAnnualQuantity),
		source, floatCell(volume), reference, warnings,
	}
}

// floatCell leaves unanswered quantities blank rather than zero
func floatCell(f *float64) any {
	if f == nil {
		return ""
	}
	return *f
}
