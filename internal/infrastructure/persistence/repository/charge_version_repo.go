package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/internal/domain/entity"
	"github.com/garyjia/charge-information/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ChargeVersionRepository implements port.ChargeVersionRepository
type ChargeVersionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewChargeVersionRepository creates a new charge version repository
func NewChargeVersionRepository(db *sql.DB, logger *zap.Logger) port.ChargeVersionRepository {
	return &ChargeVersionRepository{
		db:     db,
		logger: logger,
	}
}

const chargeVersionColumns = `id, licence_id, workflow_id, scheme, start_date, end_date, status,
			change_reason_id, billing_account_id, charge_elements, created_at`

// Create inserts an approved charge version
func (r *ChargeVersionRepository) Create(ctx context.Context, cv *entity.ChargeVersion) error {
	elements, err := json.Marshal(cv.ChargeElements)
	if err != nil {
		return fmt.Errorf("failed to encode charge elements: %w", err)
	}

	if cv.CreatedAt.IsZero() {
		cv.CreatedAt = time.Now().UTC()
	}

	var endDate sql.NullString
	if cv.EndDate != nil {
		endDate = sql.NullString{String: cv.EndDate.String(), Valid: true}
	}

	query := `
		INSERT INTO charge_versions (` + chargeVersionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		cv.ID,
		cv.LicenceID,
		cv.WorkflowID,
		cv.Scheme,
		cv.StartDate.String(),
		endDate,
		cv.Status,
		cv.ChangeReasonID,
		cv.BillingAccountID,
		string(elements),
		cv.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create charge version",
			zap.String("licence_id", cv.LicenceID),
			zap.String("workflow_id", cv.WorkflowID),
			zap.Error(err))
		return fmt.Errorf("failed to create charge version: %w", err)
	}

	return nil
}

// GetByWorkflowID returns the charge version created from a workflow, or nil
func (r *ChargeVersionRepository) GetByWorkflowID(ctx context.Context, workflowID string) (*entity.ChargeVersion, error) {
	query := `SELECT ` + chargeVersionColumns + ` FROM charge_versions WHERE workflow_id = ?`

	cv, err := scanChargeVersion(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, workflowID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get charge version", zap.String("workflow_id", workflowID), zap.Error(err))
		return nil, fmt.Errorf("failed to get charge version: %w", err)
	}

	return cv, nil
}

// ListByLicenceID returns the licence's charge versions ordered by start date
func (r *ChargeVersionRepository) ListByLicenceID(ctx context.Context, licenceID string) ([]*entity.ChargeVersion, error) {
	query := `
		SELECT ` + chargeVersionColumns + `
		FROM charge_versions
		WHERE licence_id = ?
		ORDER BY start_date ASC, created_at ASC
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, licenceID)
	if err != nil {
		r.logger.Error("Failed to list charge versions", zap.String("licence_id", licenceID), zap.Error(err))
		return nil, fmt.Errorf("failed to list charge versions: %w", err)
	}
	defer rows.Close()

	var versions []*entity.ChargeVersion
	for rows.Next() {
		cv, err := scanChargeVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan charge version: %w", err)
		}
		versions = append(versions, cv)
	}

	return versions, rows.Err()
}

func scanChargeVersion(row rowScanner) (*entity.ChargeVersion, error) {
	var cv entity.ChargeVersion
	var startDate, elements string
	var endDate sql.NullString

	err := row.Scan(
		&cv.ID,
		&cv.LicenceID,
		&cv.WorkflowID,
		&cv.Scheme,
		&startDate,
		&endDate,
		&cv.Status,
		&cv.ChangeReasonID,
		&cv.BillingAccountID,
		&elements,
		&cv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cv.StartDate, err = chargeversion.ParseDate(startDate); err != nil {
		return nil, err
	}
	if endDate.Valid {
		d, err := chargeversion.ParseDate(endDate.String)
		if err != nil {
			return nil, err
		}
		cv.EndDate = &d
	}
	if err := json.Unmarshal([]byte(elements), &cv.ChargeElements); err != nil {
		return nil, fmt.Errorf("failed to decode charge elements: %w", err)
	}

	return &cv, nil
}

var _ port.ChargeVersionRepository = (*ChargeVersionRepository)(nil)
