package port

import (
	"context"

	"github.com/garyjia/charge-information/internal/domain/entity"
)

// WorkflowRepository defines persistence operations for ChargeVersionWorkflow
type WorkflowRepository interface {
	Create(ctx context.Context, wf *entity.ChargeVersionWorkflow) error
	GetByID(ctx context.Context, id string) (*entity.ChargeVersionWorkflow, error)
	ListByLicenceID(ctx context.Context, licenceID string) ([]*entity.ChargeVersionWorkflow, error)
	Update(ctx context.Context, wf *entity.ChargeVersionWorkflow) error
	Delete(ctx context.Context, id string) error
}

// HistoryRepository defines persistence operations for WorkflowHistory
type HistoryRepository interface {
	Create(ctx context.Context, history *entity.WorkflowHistory) error
	GetByWorkflowID(ctx context.Context, workflowID string) ([]*entity.WorkflowHistory, error)
}

// ChargeVersionRepository defines persistence operations for approved ChargeVersion records
type ChargeVersionRepository interface {
	Create(ctx context.Context, cv *entity.ChargeVersion) error
	GetByWorkflowID(ctx context.Context, workflowID string) (*entity.ChargeVersion, error)
	ListByLicenceID(ctx context.Context, licenceID string) ([]*entity.ChargeVersion, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
