package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/pkg/database"
	"github.com/Ridadata/procurement-pipeline/pkg/errors"
)

// RunAnomaly is a persisted anomaly row tied to a run. Position is the
// zero-based index of the anomaly in the run's report.
type RunAnomaly struct {
	ID        string          `db:"id" json:"id"`
	RunID     string          `db:"run_id" json:"run_id"`
	Position  int             `db:"position" json:"position"`
	Stage     domain.Stage    `db:"stage" json:"stage"`
	SKU       *string         `db:"sku" json:"sku,omitempty"`
	Severity  domain.Severity `db:"severity" json:"severity"`
	Message   string          `db:"message" json:"message"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// RunRepository handles run history persistence
type RunRepository struct {
	db *database.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *database.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create records the start of a run. The run begins in status running and is
// finalized by Complete or Fail.
func (r *RunRepository) Create(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.Status = domain.RunStatusRunning

	query := `
		INSERT INTO pipeline_runs (id, business_date, status)
		VALUES ($1, $2, $3)
		RETURNING started_at
	`

	err := r.db.QueryRowxContext(ctx, query, run.ID, run.BusinessDate, run.Status).
		Scan(&run.StartedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// Complete finalizes a successful run. The run row update, the order lines,
// and the anomalies commit in one transaction so a crash never leaves a
// completed run without its output, or output without its run.
func (r *RunRepository) Complete(ctx context.Context, run *domain.Run, lines []domain.SupplierOrderLine, summaries []domain.SupplierSummary, anomalies []domain.Anomaly) error {
	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE pipeline_runs SET
				status = $2, order_lines = $3, warning_count = $4,
				output_file = $5, finished_at = NOW()
			WHERE id = $1
			RETURNING finished_at
		`
		var finishedAt time.Time
		err := tx.QueryRowxContext(ctx, query,
			run.ID, domain.RunStatusCompleted, len(lines), run.WarningCount, run.OutputFile,
		).Scan(&finishedAt)
		if err != nil {
			return err
		}
		run.Status = domain.RunStatusCompleted
		run.OrderLines = len(lines)
		run.FinishedAt = &finishedAt

		if err := insertOrderLines(ctx, tx, run.ID, lines); err != nil {
			return err
		}
		if err := insertSummaries(ctx, tx, run.ID, summaries); err != nil {
			return err
		}
		return insertAnomalies(ctx, tx, run.ID, anomalies)
	})
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// Fail finalizes a failed run, keeping the anomalies gathered before the
// abort for triage.
func (r *RunRepository) Fail(ctx context.Context, run *domain.Run, errorCode, message string, anomalies []domain.Anomaly) error {
	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE pipeline_runs SET
				status = $2, error_code = $3, error_message = $4, finished_at = NOW()
			WHERE id = $1
			RETURNING finished_at
		`
		var finishedAt time.Time
		err := tx.QueryRowxContext(ctx, query,
			run.ID, domain.RunStatusFailed, errorCode, message,
		).Scan(&finishedAt)
		if err != nil {
			return err
		}
		run.Status = domain.RunStatusFailed
		run.ErrorCode = &errorCode
		run.ErrorMessage = &message
		run.FinishedAt = &finishedAt

		return insertAnomalies(ctx, tx, run.ID, anomalies)
	})
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// HasCompleted reports whether a completed run already published output for
// the business date. A partial unique index backs this check against races.
func (r *RunRepository) HasCompleted(ctx context.Context, businessDate string) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM pipeline_runs
		WHERE business_date = $1 AND status = $2
	`
	if err := r.db.GetContext(ctx, &count, query, businessDate, domain.RunStatusCompleted); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByID gets a run by ID
func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	var run domain.Run
	query := `SELECT * FROM pipeline_runs WHERE id = $1`
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("run")
		}
		return nil, err
	}
	return &run, nil
}

// List lists recent runs, newest first
func (r *RunRepository) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	var runs []*domain.Run
	query := `
		SELECT * FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, err
	}
	return runs, nil
}

// ListAnomalies lists a run's anomalies in report order. The persisted
// position carries the order; timestamps cannot, since a run's anomalies all
// commit in one transaction and share the same created_at.
func (r *RunRepository) ListAnomalies(ctx context.Context, runID string) ([]*RunAnomaly, error) {
	var anomalies []*RunAnomaly
	query := `
		SELECT * FROM run_anomalies
		WHERE run_id = $1
		ORDER BY position
	`
	if err := r.db.SelectContext(ctx, &anomalies, query, runID); err != nil {
		return nil, err
	}
	return anomalies, nil
}

// ListOrderLines lists a run's published order lines in output order.
func (r *RunRepository) ListOrderLines(ctx context.Context, runID string) ([]domain.SupplierOrderLine, error) {
	var lines []domain.SupplierOrderLine
	query := `
		SELECT supplier_code, supplier_name, sku, product_name,
		       net_demand, case_size, order_quantity
		FROM supplier_order_lines
		WHERE run_id = $1
		ORDER BY supplier_code, sku
	`
	if err := r.db.SelectContext(ctx, &lines, query, runID); err != nil {
		return nil, err
	}
	return lines, nil
}

// ListSummaries lists a run's per-supplier summaries in supplier code order.
func (r *RunRepository) ListSummaries(ctx context.Context, runID string) ([]domain.SupplierSummary, error) {
	var summaries []domain.SupplierSummary
	query := `
		SELECT supplier_code, supplier_name, line_count, total_units, demand_value
		FROM run_supplier_summaries
		WHERE run_id = $1
		ORDER BY supplier_code
	`
	if err := r.db.SelectContext(ctx, &summaries, query, runID); err != nil {
		return nil, err
	}
	return summaries, nil
}

func insertOrderLines(ctx context.Context, tx *sqlx.Tx, runID string, lines []domain.SupplierOrderLine) error {
	query := `
		INSERT INTO supplier_order_lines (
			id, run_id, supplier_code, supplier_name, sku, product_name,
			net_demand, case_size, order_quantity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, line := range lines {
		_, err := tx.ExecContext(ctx, query,
			uuid.New().String(), runID, line.SupplierCode, line.SupplierName,
			line.SKU, line.ProductName, line.NetDemand, line.CaseSize, line.OrderQuantity,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func insertSummaries(ctx context.Context, tx *sqlx.Tx, runID string, summaries []domain.SupplierSummary) error {
	query := `
		INSERT INTO run_supplier_summaries (
			run_id, supplier_code, supplier_name, line_count, total_units, demand_value
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, s := range summaries {
		_, err := tx.ExecContext(ctx, query,
			runID, s.SupplierCode, s.SupplierName, s.LineCount, s.TotalUnits, s.DemandValue,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func insertAnomalies(ctx context.Context, tx *sqlx.Tx, runID string, anomalies []domain.Anomaly) error {
	query := `
		INSERT INTO run_anomalies (id, run_id, position, stage, sku, severity, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, a := range anomalies {
		var sku *string
		if a.SKU != "" {
			sku = &a.SKU
		}
		_, err := tx.ExecContext(ctx, query,
			uuid.New().String(), runID, i, a.Stage, sku, a.Severity, a.Message,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
