// Package persistence implements the workflow service on top of the sqlite repositories.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/internal/domain/entity"
)

// WorkflowService stores charge version workflows and turns approved ones into charge versions
type WorkflowService struct {
	tx             port.TransactionManager
	workflows      port.WorkflowRepository
	chargeVersions port.ChargeVersionRepository
	logger         *zap.Logger
	newID          func() string
	now            func() time.Time
}

// NewWorkflowService creates a workflow service
func NewWorkflowService(
	tx port.TransactionManager,
	workflows port.WorkflowRepository,
	chargeVersions port.ChargeVersionRepository,
	logger *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		tx:             tx,
		workflows:      workflows,
		chargeVersions: chargeVersions,
		logger:         logger,
		newID:          uuid.NewString,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// CreateWorkflow records a submitted draft in review
func (s *WorkflowService) CreateWorkflow(ctx context.Context, licenceID string, draft chargeversion.Draft, createdBy string) (*entity.ChargeVersionWorkflow, error) {
	now := s.now()
	wf := &entity.ChargeVersionWorkflow{
		ID:            s.newID(),
		LicenceID:     licenceID,
		Status:        chargeversion.StatusReview,
		ChargeVersion: draft.Clone(),
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	wf.ChargeVersion.WorkflowID = wf.ID
	wf.ChargeVersion.Status = wf.Status

	if err := s.workflows.Create(ctx, wf); err != nil {
		return nil, err
	}

	s.logger.Info("Workflow created",
		zap.String("workflow_id", wf.ID),
		zap.String("licence_id", licenceID),
		zap.String("created_by", createdBy))
	return wf, nil
}

// GetWorkflow returns the workflow or port.ErrNotFound
func (s *WorkflowService) GetWorkflow(ctx context.Context, id string) (*entity.ChargeVersionWorkflow, error) {
	wf, err := s.workflows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, fmt.Errorf("workflow %s: %w", id, port.ErrNotFound)
	}
	return wf, nil
}

// PatchWorkflow applies the non-nil fields of patch
func (s *WorkflowService) PatchWorkflow(ctx context.Context, id string, patch entity.WorkflowPatch) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		wf, err := s.GetWorkflow(ctx, id)
		if err != nil {
			return err
		}

		if patch.ChargeVersion != nil {
			wf.ChargeVersion = patch.ChargeVersion.Clone()
			wf.ChargeVersion.WorkflowID = wf.ID
		}
		if patch.Status != nil {
			wf.Status = *patch.Status
			wf.ChargeVersion.Status = wf.Status
		}
		if patch.ApproverComments != nil {
			wf.ApproverComments = *patch.ApproverComments
			wf.ChargeVersion.ApproverComments = wf.ApproverComments
		}

		return s.workflows.Update(ctx, wf)
	})
}

// DeleteWorkflow removes a pending workflow
func (s *WorkflowService) DeleteWorkflow(ctx context.Context, id string) error {
	if err := s.workflows.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Workflow deleted", zap.String("workflow_id", id))
	return nil
}

// CreateChargeVersionFromWorkflow persists the workflow's payload as a current charge version.
// A workflow produces at most one charge version.
func (s *WorkflowService) CreateChargeVersionFromWorkflow(ctx context.Context, id string) (*entity.ChargeVersion, error) {
	var created *entity.ChargeVersion

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		wf, err := s.GetWorkflow(ctx, id)
		if err != nil {
			return err
		}

		existing, err := s.chargeVersions.GetByWorkflowID(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("workflow %s: %w", id, ErrChargeVersionExists)
		}

		cv, err := s.toChargeVersion(wf)
		if err != nil {
			return err
		}
		if err := s.chargeVersions.Create(ctx, cv); err != nil {
			return err
		}

		created = cv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Charge version created",
		zap.String("charge_version_id", created.ID),
		zap.String("workflow_id", id),
		zap.String("licence_id", created.LicenceID))
	return created, nil
}

func (s *WorkflowService) toChargeVersion(wf *entity.ChargeVersionWorkflow) (*entity.ChargeVersion, error) {
	d := wf.ChargeVersion
	if d.DateRange == nil || d.DateRange.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: no start date", ErrIncompleteDraft)
	}

	cv := &entity.ChargeVersion{
		ID:             s.newID(),
		LicenceID:      wf.LicenceID,
		WorkflowID:     wf.ID,
		Scheme:         d.Scheme,
		StartDate:      d.DateRange.StartDate,
		EndDate:        d.DateRange.EndDate,
		Status:         chargeversion.StatusCurrent,
		ChargeElements: make([]chargeversion.ChargeElement, 0, len(d.ChargeElements)),
		CreatedAt:      s.now(),
	}
	if d.ChangeReason != nil {
		cv.ChangeReasonID = d.ChangeReason.ID
	}
	if d.BillingAccount != nil {
		cv.BillingAccountID = d.BillingAccount.ID
	}
	for _, e := range d.ChargeElements {
		cv.ChargeElements = append(cv.ChargeElements, e.Clone())
	}

	return cv, nil
}

var _ port.WorkflowService = (*WorkflowService)(nil)
