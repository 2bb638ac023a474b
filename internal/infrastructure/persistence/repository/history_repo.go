package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/entity"
	"github.com/garyjia/charge-information/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// HistoryRepository implements port.HistoryRepository
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new history record
func (r *HistoryRepository) Create(ctx context.Context, history *entity.WorkflowHistory) error {
	if history.Timestamp.IsZero() {
		history.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO workflow_history (
			workflow_id, licence_id, actor, previous_status, new_status,
			action_type, action_data, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		history.WorkflowID,
		history.LicenceID,
		history.Actor,
		history.PreviousStatus,
		history.NewStatus,
		history.ActionType,
		history.ActionData,
		history.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create history record", zap.Error(err))
		return fmt.Errorf("failed to create history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	history.ID = id
	return nil
}

// GetByWorkflowID retrieves all history records for a workflow in insertion order
func (r *HistoryRepository) GetByWorkflowID(ctx context.Context, workflowID string) ([]*entity.WorkflowHistory, error) {
	query := `
		SELECT id, workflow_id, licence_id, actor, previous_status, new_status,
			action_type, action_data, timestamp
		FROM workflow_history
		WHERE workflow_id = ?
		ORDER BY id ASC
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, workflowID)
	if err != nil {
		r.logger.Error("Failed to get history by workflow ID", zap.String("workflow_id", workflowID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []*entity.WorkflowHistory
	for rows.Next() {
		var record entity.WorkflowHistory
		err := rows.Scan(
			&record.ID,
			&record.WorkflowID,
			&record.LicenceID,
			&record.Actor,
			&record.PreviousStatus,
			&record.NewStatus,
			&record.ActionType,
			&record.ActionData,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

var _ port.HistoryRepository = (*HistoryRepository)(nil)
