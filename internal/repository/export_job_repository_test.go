package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakul-26/timetable-precheck-api/internal/models"
	appErrors "github.com/nakul-26/timetable-precheck-api/pkg/errors"
)

func TestExportJobRepositoryCreateAssignsDefaults(t *testing.T) {
	repo := NewExportJobRepository()
	job := &models.ExportJob{Format: models.ExportFormatCSV}

	require.NoError(t, repo.Create(context.Background(), job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	assert.False(t, job.CreatedAt.IsZero())

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, stored.ID)
}

func TestExportJobRepositoryGetReturnsCopy(t *testing.T) {
	repo := NewExportJobRepository()
	job := &models.ExportJob{Format: models.ExportFormatPDF}
	require.NoError(t, repo.Create(context.Background(), job))

	first, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	first.Status = models.ExportStatusFailed

	second, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, second.Status)
}

func TestExportJobRepositoryGetMissing(t *testing.T) {
	repo := NewExportJobRepository()

	_, err := repo.GetByID(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportJobRepositoryUpdate(t *testing.T) {
	repo := NewExportJobRepository()
	job := &models.ExportJob{Format: models.ExportFormatCSV}
	require.NoError(t, repo.Create(context.Background(), job))

	finished := models.ExportStatusFinished
	progress := 100
	url := "/api/v1/timetable/export/token"
	now := time.Now().UTC()
	require.NoError(t, repo.Update(context.Background(), job.ID, UpdateExportJobParams{
		Status:     &finished,
		Progress:   &progress,
		ResultURL:  &url,
		FinishedAt: &now,
	}))

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, stored.Status)
	assert.Equal(t, 100, stored.Progress)
	require.NotNil(t, stored.ResultURL)
	assert.Equal(t, url, *stored.ResultURL)
	require.NotNil(t, stored.FinishedAt)

	// A partial update leaves the other fields alone.
	queued := models.ExportStatusQueued
	require.NoError(t, repo.Update(context.Background(), job.ID, UpdateExportJobParams{Status: &queued}))
	stored, err = repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, stored.Status)
	assert.Equal(t, 100, stored.Progress)

	err = repo.Update(context.Background(), "nope", UpdateExportJobParams{Status: &queued})
	require.Error(t, err)
}

func TestExportJobRepositoryDeleteFinishedBefore(t *testing.T) {
	repo := NewExportJobRepository()
	ctx := context.Background()

	oldTime := time.Now().UTC().Add(-2 * time.Hour)
	recent := time.Now().UTC()

	expired := &models.ExportJob{Format: models.ExportFormatCSV, Status: models.ExportStatusFinished, FinishedAt: &oldTime}
	fresh := &models.ExportJob{Format: models.ExportFormatCSV, Status: models.ExportStatusFinished, FinishedAt: &recent}
	running := &models.ExportJob{Format: models.ExportFormatCSV, Status: models.ExportStatusProcessing}
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, fresh))
	require.NoError(t, repo.Create(ctx, running))

	removed := repo.DeleteFinishedBefore(ctx, time.Now().UTC().Add(-time.Hour))
	require.Len(t, removed, 1)
	assert.Equal(t, expired.ID, removed[0].ID)

	_, err := repo.GetByID(ctx, expired.ID)
	require.Error(t, err)
	_, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, running.ID)
	require.NoError(t, err)
}
