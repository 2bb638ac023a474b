package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/charge-information/internal/application/service"
	"github.com/garyjia/charge-information/internal/application/validation"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/internal/domain/entity"
)

type memoryStorage struct {
	files   map[string][]byte
	saveErr error
}

func (m *memoryStorage) Save(ctx context.Context, path string, content []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.files[path] = content
	return nil
}

func (m *memoryStorage) Read(ctx context.Context, path string) ([]byte, error) {
	return m.files[path], nil
}

func (m *memoryStorage) Exists(ctx context.Context, path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *memoryStorage) Delete(ctx context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func (m *memoryStorage) GetFullPath(relativePath string) string {
	return relativePath
}

func float(f float64) *float64 { return &f }

func sampleCheck() *service.CheckAnswers {
	start := chargeversion.MustParseDate("2023-04-01")
	return &service.CheckAnswers{
		Licence: &entity.Licence{ID: "lic-1", LicenceRef: "01/123"},
		Draft: chargeversion.Draft{
			LicenceID:      "lic-1",
			WorkflowID:     "wf-1",
			Scheme:         chargeversion.SchemeSROC,
			Status:         chargeversion.StatusReview,
			ChangeReason:   &chargeversion.ChangeReason{ID: "r1", Description: "New licence"},
			DateRange:      &chargeversion.DateRange{StartDate: start},
			BillingAccount: &chargeversion.BillingAccount{ID: "ba-1", AccountNumber: "A12345678A"},
			ChargeElements: []chargeversion.ChargeElement{{
				ChargePurpose:  chargeversion.ChargePurpose{ID: "cat-1", Description: "Spray"},
				Scheme:         chargeversion.SchemeSROC,
				Source:         chargeversion.SourceNonTidal,
				Volume:         float(20),
				ChargeCategory: &chargeversion.ChargeCategoryRef{ID: "cc-small", Reference: "2.2.1"},
				ChargePurposes: []chargeversion.ChargePurpose{{
					ID:                       "p-1",
					PurposeUse:               &chargeversion.PurposeUse{Purpose: chargeversion.Purpose{Name: "Spray Irrigation"}},
					AbstractionPeriod:        &chargeversion.AbstractionPeriod{StartDay: 1, StartMonth: 4, EndDay: 31, EndMonth: 10},
					AuthorisedAnnualQuantity: float(100),
					BillableAnnualQuantity:   float(150),
				}},
			}},
		},
		Warnings:     []validation.ElementWarnings{{ElementID: "p-1", CategoryID: "cat-1", Warnings: []string{validation.WarningQuantity}}},
		WarningCount: 1,
	}
}

func TestExporter_Export(t *testing.T) {
	store := &memoryStorage{files: map[string][]byte{}}
	e := NewExporter(store, zap.NewNop())
	e.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }

	p, content, err := e.Export(context.Background(), sampleCheck())
	require.NoError(t, err)
	assert.Equal(t, "exports/lic-1/wf-1-20240501T093000.xlsx", p)
	assert.Equal(t, content, store.files[p])

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetElements}, f.GetSheetList())

	licence, _ := f.GetCellValue(SheetSummary, "B1")
	assert.Equal(t, "01/123", licence)
	scheme, _ := f.GetCellValue(SheetSummary, "B3")
	assert.Equal(t, "SROC", scheme)
	startDate, _ := f.GetCellValue(SheetSummary, "B5")
	assert.Equal(t, "2023-04-01", startDate)

	rows, err := f.GetRows(SheetElements)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Element", rows[0][0])
	assert.Equal(t, "cat-1", rows[1][1])
	assert.Equal(t, "2.2.1", rows[1][11])
	assert.Equal(t, "p-1", rows[2][0])
	assert.Equal(t, "Spray Irrigation", rows[2][2])
	assert.Equal(t, "1/4 to 31/10", rows[2][4])
	assert.Equal(t, validation.WarningQuantity, rows[2][12])
}

func TestExporter_DraftWithoutWorkflow(t *testing.T) {
	store := &memoryStorage{files: map[string][]byte{}}
	e := NewExporter(store, zap.NewNop())
	e.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }

	check := &service.CheckAnswers{Draft: chargeversion.Draft{LicenceID: "lic-2"}}
	p, _, err := e.Export(context.Background(), check)
	require.NoError(t, err)
	assert.Equal(t, "exports/lic-2/draft-20240501T093000.xlsx", p)
}

func TestExporter_StorageFailure(t *testing.T) {
	boom := errors.New("disk full")
	e := NewExporter(&memoryStorage{files: map[string][]byte{}, saveErr: boom}, zap.NewNop())

	_, _, err := e.Export(context.Background(), sampleCheck())
	assert.ErrorIs(t, err, boom)
}
