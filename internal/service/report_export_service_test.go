package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
	"github.com/nakul-26/timetable-precheck-api/internal/models"
	"github.com/nakul-26/timetable-precheck-api/internal/repository"
	appErrors "github.com/nakul-26/timetable-precheck-api/pkg/errors"
	"github.com/nakul-26/timetable-precheck-api/pkg/jobs"
)

type fakeResolver struct {
	report *dto.FeasibilityReport
	err    error
}

func (f *fakeResolver) ReportForExport(_ context.Context, _ dto.ExportReportRequest) (*dto.FeasibilityReport, error) {
	return f.report, f.err
}

type fakeQueue struct {
	enqueued []jobs.Job
	err      error
}

func (f *fakeQueue) Enqueue(job jobs.Job) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, job)
	return nil
}

type failingGenerator struct{}

func (failingGenerator) Generate(_ context.Context, _ *models.ExportJob) (*ExportResult, error) {
	return nil, errors.New("render exploded")
}

func TestReportExportServiceCreateJob(t *testing.T) {
	repo := repository.NewExportJobRepository()
	queue := &fakeQueue{}
	resolver := &fakeResolver{report: &dto.FeasibilityReport{OK: true}}
	svc := NewReportExportService(repo, resolver, queue, testExportService(t), nil, ReportExportConfig{})

	resp, err := svc.CreateJob(context.Background(), dto.ExportReportRequest{Format: "CSV"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, string(models.ExportStatusQueued), resp.Status)
	assert.Zero(t, resp.Progress)

	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, resp.ID, queue.enqueued[0].ID)
	assert.Equal(t, "csv", queue.enqueued[0].Type)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatCSV, stored.Format)
	assert.NotEmpty(t, stored.Report)
}

func TestReportExportServiceCreateJobRejectsFormat(t *testing.T) {
	svc := NewReportExportService(repository.NewExportJobRepository(), &fakeResolver{}, &fakeQueue{}, testExportService(t), nil, ReportExportConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ExportReportRequest{Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportExportServiceCreateJobResolverError(t *testing.T) {
	resolver := &fakeResolver{err: appErrors.ErrNotFound}
	svc := NewReportExportService(repository.NewExportJobRepository(), resolver, &fakeQueue{}, testExportService(t), nil, ReportExportConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ExportReportRequest{Format: "pdf", RunID: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportExportServiceCreateJobEnqueueFailureMarksJob(t *testing.T) {
	repo := repository.NewExportJobRepository()
	queue := &fakeQueue{err: errors.New("queue full")}
	resolver := &fakeResolver{report: &dto.FeasibilityReport{OK: true}}
	svc := NewReportExportService(repo, resolver, queue, testExportService(t), nil, ReportExportConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ExportReportRequest{Format: "csv"})
	require.Error(t, err)

	// The job record survives as failed so its state is observable.
	removed := repo.DeleteFinishedBefore(context.Background(), time.Now().UTC().Add(time.Minute))
	require.Len(t, removed, 1)
	assert.Equal(t, models.ExportStatusFailed, removed[0].Status)
}

func TestExportWorkerHandleSuccess(t *testing.T) {
	repo := repository.NewExportJobRepository()
	exporter := testExportService(t)
	worker := NewExportWorker(repo, exporter, nil, 3, nil)

	job := &models.ExportJob{Format: models.ExportFormatCSV, Report: sampleReportSnapshot(t)}
	require.NoError(t, repo.Create(context.Background(), job))

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 1}))

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, stored.Status)
	assert.Equal(t, 100, stored.Progress)
	require.NotNil(t, stored.ResultURL)
	assert.Contains(t, *stored.ResultURL, "/timetable/export/")
	require.NotNil(t, stored.FinishedAt)
}

func TestExportWorkerHandleRequeuesOnFailure(t *testing.T) {
	repo := repository.NewExportJobRepository()
	worker := NewExportWorker(repo, failingGenerator{}, nil, 3, nil)

	job := &models.ExportJob{Format: models.ExportFormatCSV, Report: sampleReportSnapshot(t)}
	require.NoError(t, repo.Create(context.Background(), job))

	err := worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 1})
	require.Error(t, err)

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, stored.Status)
	assert.Zero(t, stored.Progress)
	require.NotNil(t, stored.ErrorMessage)
	assert.Contains(t, *stored.ErrorMessage, "render exploded")
}

func TestExportWorkerHandleFailsAfterMaxRetries(t *testing.T) {
	repo := repository.NewExportJobRepository()
	worker := NewExportWorker(repo, failingGenerator{}, nil, 3, nil)

	job := &models.ExportJob{Format: models.ExportFormatCSV, Report: sampleReportSnapshot(t)}
	require.NoError(t, repo.Create(context.Background(), job))

	err := worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 3})
	require.Error(t, err)

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, stored.Status)
	assert.Equal(t, 100, stored.Progress)
	require.NotNil(t, stored.FinishedAt)
}

func TestReportExportServiceStatusAndDownload(t *testing.T) {
	repo := repository.NewExportJobRepository()
	exporter := testExportService(t)
	svc := NewReportExportService(repo, &fakeResolver{}, &fakeQueue{}, exporter, nil, ReportExportConfig{})
	worker := NewExportWorker(repo, exporter, nil, 3, nil)

	job := &models.ExportJob{Format: models.ExportFormatCSV, Report: sampleReportSnapshot(t)}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 1}))

	status, err := svc.GetStatus(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.ExportStatusFinished), status.Status)
	require.NotNil(t, status.ResultURL)

	token := extractToken(*status.ResultURL)
	require.NotEmpty(t, token)

	download, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer download.File.Close() //nolint:errcheck
	assert.Equal(t, models.ExportFormatCSV, download.Format)
	assert.Contains(t, download.Filename, ".csv")
}

func TestReportExportServiceDownloadNotReady(t *testing.T) {
	repo := repository.NewExportJobRepository()
	exporter := testExportService(t)
	svc := NewReportExportService(repo, &fakeResolver{}, &fakeQueue{}, exporter, nil, ReportExportConfig{})

	job := &models.ExportJob{Format: models.ExportFormatCSV, Report: sampleReportSnapshot(t)}
	require.NoError(t, repo.Create(context.Background(), job))

	// Generate a valid token but leave the job queued without a result URL.
	result, err := exporter.Generate(context.Background(), job)
	require.NoError(t, err)

	_, err = svc.ResolveDownload(context.Background(), result.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestReportExportServiceDownloadBadToken(t *testing.T) {
	svc := NewReportExportService(repository.NewExportJobRepository(), &fakeResolver{}, &fakeQueue{}, testExportService(t), nil, ReportExportConfig{})

	_, err := svc.ResolveDownload(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestReportExportServiceCleanupExpired(t *testing.T) {
	repo := repository.NewExportJobRepository()
	exporter := testExportService(t)
	svc := NewReportExportService(repo, &fakeResolver{}, &fakeQueue{}, exporter, nil, ReportExportConfig{ResultTTL: time.Hour})
	worker := NewExportWorker(repo, exporter, nil, 3, nil)

	job := &models.ExportJob{Format: models.ExportFormatCSV, Report: sampleReportSnapshot(t)}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 1}))

	// Age the job past the retention window.
	old := time.Now().UTC().Add(-2 * time.Hour)
	finished := models.ExportStatusFinished
	require.NoError(t, repo.Update(context.Background(), job.ID, repository.UpdateExportJobParams{
		Status:     &finished,
		FinishedAt: &old,
	}))

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	token := extractToken(*stored.ResultURL)
	_, relPath, _, err := exporter.ParseToken(token, true)
	require.NoError(t, err)

	svc.cleanupExpired(context.Background())

	_, err = repo.GetByID(context.Background(), job.ID)
	require.Error(t, err)
	_, err = exporter.Open(relPath)
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc", extractToken("/api/v1/timetable/export/abc"))
	assert.Equal(t, "", extractToken(""))
}
