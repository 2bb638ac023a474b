package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/entity"
	"github.com/garyjia/charge-information/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// WorkflowRepository implements port.WorkflowRepository
type WorkflowRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWorkflowRepository creates a new workflow repository
func NewWorkflowRepository(db *sql.DB, logger *zap.Logger) port.WorkflowRepository {
	return &WorkflowRepository{
		db:     db,
		logger: logger,
	}
}

const workflowColumns = `id, licence_id, status, approver_comments, charge_version,
			created_by, created_at, updated_at`

// Create inserts a workflow. CreatedAt and UpdatedAt are set when zero.
func (r *WorkflowRepository) Create(ctx context.Context, wf *entity.ChargeVersionWorkflow) error {
	payload, err := json.Marshal(wf.ChargeVersion)
	if err != nil {
		return fmt.Errorf("failed to encode charge version: %w", err)
	}

	now := time.Now().UTC()
	if wf.CreatedAt.IsZero() {
		wf.CreatedAt = now
	}
	if wf.UpdatedAt.IsZero() {
		wf.UpdatedAt = wf.CreatedAt
	}

	query := `
		INSERT INTO charge_version_workflows (` + workflowColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		wf.ID,
		wf.LicenceID,
		wf.Status,
		wf.ApproverComments,
		string(payload),
		wf.CreatedBy,
		wf.CreatedAt,
		wf.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create workflow", zap.String("licence_id", wf.LicenceID), zap.Error(err))
		return fmt.Errorf("failed to create workflow: %w", err)
	}

	return nil
}

// GetByID retrieves a workflow, returning nil when it does not exist
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*entity.ChargeVersionWorkflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM charge_version_workflows WHERE id = ?`

	wf, err := scanWorkflow(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get workflow by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	return wf, nil
}

// ListByLicenceID returns the licence's workflows, oldest first
func (r *WorkflowRepository) ListByLicenceID(ctx context.Context, licenceID string) ([]*entity.ChargeVersionWorkflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM charge_version_workflows
		WHERE licence_id = ?
		ORDER BY created_at ASC
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, licenceID)
	if err != nil {
		r.logger.Error("Failed to list workflows", zap.String("licence_id", licenceID), zap.Error(err))
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []*entity.ChargeVersionWorkflow
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}
		workflows = append(workflows, wf)
	}

	return workflows, rows.Err()
}

// Update writes status, comments and payload back, stamping UpdatedAt
func (r *WorkflowRepository) Update(ctx context.Context, wf *entity.ChargeVersionWorkflow) error {
	payload, err := json.Marshal(wf.ChargeVersion)
	if err != nil {
		return fmt.Errorf("failed to encode charge version: %w", err)
	}

	wf.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE charge_version_workflows
		SET status = ?, approver_comments = ?, charge_version = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		wf.Status,
		wf.ApproverComments,
		string(payload),
		wf.UpdatedAt,
		wf.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update workflow", zap.String("id", wf.ID), zap.Error(err))
		return fmt.Errorf("failed to update workflow: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("workflow %s: %w", wf.ID, port.ErrNotFound)
	}

	return nil
}

// Delete removes a workflow; deleting a missing workflow is not an error
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM charge_version_workflows WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete workflow", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete workflow: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*entity.ChargeVersionWorkflow, error) {
	var wf entity.ChargeVersionWorkflow
	var payload string

	err := row.Scan(
		&wf.ID,
		&wf.LicenceID,
		&wf.Status,
		&wf.ApproverComments,
		&payload,
		&wf.CreatedBy,
		&wf.CreatedAt,
		&wf.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(payload), &wf.ChargeVersion); err != nil {
		return nil, fmt.Errorf("failed to decode charge version: %w", err)
	}

	return &wf, nil
}

var _ port.WorkflowRepository = (*WorkflowRepository)(nil)
