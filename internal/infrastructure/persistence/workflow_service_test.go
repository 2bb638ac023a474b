package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/internal/domain/entity"
	"github.com/garyjia/charge-information/internal/infrastructure/persistence/repository"
	"github.com/garyjia/charge-information/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/charge-information/migrations"
	"github.com/garyjia/charge-information/pkg/database"
)

func newTestService(t *testing.T) *WorkflowService {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "workflows.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrator(db, logger).RunMigrationsFS(migrations.FS))

	sqlDB := sqlite.NewDB(db.DB, logger)
	svc := NewWorkflowService(
		sqlDB,
		repository.NewWorkflowRepository(db.DB, logger),
		repository.NewChargeVersionRepository(db.DB, logger),
		logger,
	)

	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return svc
}

func submittedDraft() chargeversion.Draft {
	return chargeversion.Draft{
		LicenceID:      "lic-1",
		Scheme:         chargeversion.SchemeALCS,
		DateRange:      &chargeversion.DateRange{StartDate: chargeversion.MustParseDate("2021-06-01")},
		ChangeReason:   &chargeversion.ChangeReason{ID: "reason-1"},
		BillingAccount: &chargeversion.BillingAccount{ID: "ba-1"},
		ChargeElements: []chargeversion.ChargeElement{
			{ChargePurpose: chargeversion.ChargePurpose{ID: "e1", Loss: chargeversion.LossLow}, Source: chargeversion.SourceUnsupported},
		},
	}
}

func TestWorkflowService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	wf, err := svc.CreateWorkflow(ctx, "lic-1", submittedDraft(), "clerk@example.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", wf.ID)
	assert.Equal(t, chargeversion.StatusReview, wf.Status)
	assert.Equal(t, wf.ID, wf.ChargeVersion.WorkflowID)

	got, err := svc.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, "clerk@example.com", got.CreatedBy)
	assert.Equal(t, chargeversion.StatusReview, got.ChargeVersion.Status)

	_, err = svc.GetWorkflow(ctx, "missing")
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestWorkflowService_PatchWorkflow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	wf, err := svc.CreateWorkflow(ctx, "lic-1", submittedDraft(), "clerk")
	require.NoError(t, err)

	status := chargeversion.StatusChangesRequested
	comments := "wrong billing account"
	require.NoError(t, svc.PatchWorkflow(ctx, wf.ID, entity.WorkflowPatch{
		Status:           &status,
		ApproverComments: &comments,
	}))

	got, err := svc.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, status, got.Status)
	assert.Equal(t, comments, got.ApproverComments)
	assert.Equal(t, comments, got.ChargeVersion.ApproverComments)
	assert.Len(t, got.ChargeVersion.ChargeElements, 1, "untouched fields are kept")

	err = svc.PatchWorkflow(ctx, "missing", entity.WorkflowPatch{Status: &status})
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestWorkflowService_PatchReplacesPayload(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	wf, err := svc.CreateWorkflow(ctx, "lic-1", submittedDraft(), "clerk")
	require.NoError(t, err)

	edited := submittedDraft()
	edited.ChargeElements = nil
	require.NoError(t, svc.PatchWorkflow(ctx, wf.ID, entity.WorkflowPatch{ChargeVersion: &edited}))

	got, err := svc.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ChargeVersion.ChargeElements)
	assert.Equal(t, wf.ID, got.ChargeVersion.WorkflowID)
}

func TestWorkflowService_CreateChargeVersionFromWorkflow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	wf, err := svc.CreateWorkflow(ctx, "lic-1", submittedDraft(), "clerk")
	require.NoError(t, err)

	cv, err := svc.CreateChargeVersionFromWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, "id-2", cv.ID)
	assert.Equal(t, chargeversion.StatusCurrent, cv.Status)
	assert.Equal(t, "2021-06-01", cv.StartDate.String())
	assert.Equal(t, "reason-1", cv.ChangeReasonID)
	assert.Equal(t, "ba-1", cv.BillingAccountID)
	require.Len(t, cv.ChargeElements, 1)

	stored, err := svc.chargeVersions.GetByWorkflowID(ctx, wf.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, cv.ID, stored.ID)

	_, err = svc.CreateChargeVersionFromWorkflow(ctx, wf.ID)
	assert.ErrorIs(t, err, ErrChargeVersionExists)
}

func TestWorkflowService_CreateChargeVersionRequiresStartDate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	d := submittedDraft()
	d.DateRange = nil
	wf, err := svc.CreateWorkflow(ctx, "lic-1", d, "clerk")
	require.NoError(t, err)

	_, err = svc.CreateChargeVersionFromWorkflow(ctx, wf.ID)
	assert.ErrorIs(t, err, ErrIncompleteDraft)

	_, err = svc.CreateChargeVersionFromWorkflow(ctx, "missing")
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestWorkflowService_DeleteWorkflow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	wf, err := svc.CreateWorkflow(ctx, "lic-1", submittedDraft(), "clerk")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteWorkflow(ctx, wf.ID))

	_, err = svc.GetWorkflow(ctx, wf.ID)
	assert.ErrorIs(t, err, port.ErrNotFound)
}
