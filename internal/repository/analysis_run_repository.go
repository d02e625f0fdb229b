package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nakul-26/timetable-precheck-api/internal/models"
)

// AnalysisRunRepository persists feasibility run summaries.
type AnalysisRunRepository struct {
	db *sqlx.DB
}

// NewAnalysisRunRepository constructs the repository.
func NewAnalysisRunRepository(db *sqlx.DB) *AnalysisRunRepository {
	return &AnalysisRunRepository{db: db}
}

// Insert stores a new run row with generated defaults.
func (r *AnalysisRunRepository) Insert(ctx context.Context, run *models.AnalysisRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.RequestedAt.IsZero() {
		run.RequestedAt = time.Now().UTC()
	}
	const query = `INSERT INTO feasibility_runs (id, requested_at, ok, errors, warnings, total_classes, total_teachers, report)
VALUES (:id, :requested_at, :ok, :errors, :warnings, :total_classes, :total_teachers, :report)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}
	return nil
}

// GetByID returns a stored run including its full report payload.
func (r *AnalysisRunRepository) GetByID(ctx context.Context, id string) (*models.AnalysisRun, error) {
	const query = `SELECT id, requested_at, ok, errors, warnings, total_classes, total_teachers, report
FROM feasibility_runs WHERE id = $1`
	var run models.AnalysisRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, fmt.Errorf("get analysis run: %w", err)
	}
	return &run, nil
}

// List returns the most recent runs, newest first, without report payloads.
func (r *AnalysisRunRepository) List(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, requested_at, ok, errors, warnings, total_classes, total_teachers, '{}'::jsonb AS report
FROM feasibility_runs ORDER BY requested_at DESC LIMIT $1`
	var runs []models.AnalysisRun
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	return runs, nil
}
