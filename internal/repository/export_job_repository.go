package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nakul-26/timetable-precheck-api/internal/models"
	appErrors "github.com/nakul-26/timetable-precheck-api/pkg/errors"
)

// ExportJobRepository holds export jobs in memory. Export results are
// short-lived artifacts, so process-local storage with TTL eviction is
// sufficient; nothing survives a restart by design.
type ExportJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*models.ExportJob
}

// NewExportJobRepository constructs the in-memory store.
func NewExportJobRepository() *ExportJobRepository {
	return &ExportJobRepository{jobs: make(map[string]*models.ExportJob)}
}

// Create registers a new job with generated defaults.
func (r *ExportJobRepository) Create(_ context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ExportStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

// GetByID returns a copy of the stored job.
func (r *ExportJobRepository) GetByID(_ context.Context, id string) (*models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

// UpdateExportJobParams defines the mutable fields of a job.
type UpdateExportJobParams struct {
	Status       *models.ExportStatus
	Progress     *int
	ResultURL    *string
	ErrorMessage *string
	FinishedAt   *time.Time
}

// Update applies the provided changes to a stored job.
func (r *ExportJobRepository) Update(_ context.Context, id string, params UpdateExportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return appErrors.ErrNotFound
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

// DeleteFinishedBefore evicts terminal jobs finished before the cutoff and
// returns the removed jobs so callers can clean up their artifacts.
func (r *ExportJobRepository) DeleteFinishedBefore(_ context.Context, cutoff time.Time) []models.ExportJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []models.ExportJob
	for id, job := range r.jobs {
		if job.Status != models.ExportStatusFinished && job.Status != models.ExportStatusFailed {
			continue
		}
		if job.FinishedAt == nil || job.FinishedAt.After(cutoff) {
			continue
		}
		removed = append(removed, *job)
		delete(r.jobs, id)
	}
	return removed
}
