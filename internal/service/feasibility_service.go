package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
	"github.com/nakul-26/timetable-precheck-api/internal/models"
	appErrors "github.com/nakul-26/timetable-precheck-api/pkg/errors"
)

type analysisRunStore interface {
	Insert(ctx context.Context, run *models.AnalysisRun) error
	GetByID(ctx context.Context, id string) (*models.AnalysisRun, error)
	List(ctx context.Context, limit int) ([]models.AnalysisRun, error)
}

// FeasibilityConfig tunes the analysis service.
type FeasibilityConfig struct {
	CacheTTL     time.Duration
	RunListLimit int
}

// FeasibilityService wraps the analysis with validation, caching, metrics,
// and best-effort run recording. The analysis itself is stateless, so the
// service is safe for concurrent use.
type FeasibilityService struct {
	validator *validator.Validate
	logger    *zap.Logger
	cache     *CacheService
	metrics   *MetricsService
	runs      analysisRunStore
	cfg       FeasibilityConfig
}

// NewFeasibilityService constructs the service. The run store may be nil when
// run history is disabled.
func NewFeasibilityService(validate *validator.Validate, logger *zap.Logger, cache *CacheService, metrics *MetricsService, runs analysisRunStore, cfg FeasibilityConfig) *FeasibilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	if cfg.RunListLimit <= 0 {
		cfg.RunListLimit = 20
	}
	return &FeasibilityService{
		validator: validate,
		logger:    logger,
		cache:     cache,
		metrics:   metrics,
		runs:      runs,
		cfg:       cfg,
	}
}

// Analyze runs one feasibility analysis. Identical requests are served from
// cache; every fresh analysis is recorded to run history when available.
func (s *FeasibilityService) Analyze(ctx context.Context, req dto.AnalyzeTimetableRequest) (*dto.FeasibilityReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid analysis payload")
	}

	key, keyErr := requestCacheKey(req)
	if keyErr == nil {
		var cached dto.FeasibilityReport
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	start := time.Now()
	report := analyzeFeasibility(req)
	elapsed := time.Since(start)

	s.metrics.ObserveAnalysis(report.OK, report.Summary.Errors, report.Summary.Warnings, elapsed)
	s.logger.Info("feasibility analysis completed",
		zap.Bool("ok", report.OK),
		zap.Int("errors", report.Summary.Errors),
		zap.Int("warnings", report.Summary.Warnings),
		zap.Int("classes", report.Summary.TotalClasses),
		zap.Duration("duration", elapsed))

	if keyErr == nil {
		_ = s.cache.Set(ctx, key, report, s.cfg.CacheTTL)
	}
	s.recordRun(ctx, &report)

	return &report, nil
}

// ListRuns returns recent run summaries, newest first.
func (s *FeasibilityService) ListRuns(ctx context.Context, limit int) ([]dto.AnalysisRunSummary, error) {
	if s.runs == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "run history is disabled")
	}
	if limit <= 0 || limit > s.cfg.RunListLimit {
		limit = s.cfg.RunListLimit
	}
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list analysis runs")
	}
	summaries := make([]dto.AnalysisRunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, dto.AnalysisRunSummary{
			ID:            run.ID,
			RequestedAt:   run.RequestedAt,
			OK:            run.OK,
			Errors:        run.Errors,
			Warnings:      run.Warnings,
			TotalClasses:  run.TotalClasses,
			TotalTeachers: run.TotalTeachers,
		})
	}
	return summaries, nil
}

// GetRunReport loads a stored run's full report.
func (s *FeasibilityService) GetRunReport(ctx context.Context, id string) (*dto.FeasibilityReport, error) {
	if s.runs == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "run history is disabled")
	}
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load analysis run")
	}
	var report dto.FeasibilityReport
	if err := json.Unmarshal(run.Report, &report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored report is unreadable")
	}
	return &report, nil
}

// ReportForExport resolves the report an export job should render: a stored
// run when runId is given, otherwise a fresh analysis of the inline request.
func (s *FeasibilityService) ReportForExport(ctx context.Context, req dto.ExportReportRequest) (*dto.FeasibilityReport, error) {
	if req.RunID != "" {
		return s.GetRunReport(ctx, req.RunID)
	}
	if req.Request == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "either runId or request is required")
	}
	return s.Analyze(ctx, *req.Request)
}

func (s *FeasibilityService) recordRun(ctx context.Context, report *dto.FeasibilityReport) {
	if s.runs == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn("failed to marshal report for run history", zap.Error(err))
		return
	}
	run := &models.AnalysisRun{
		RequestedAt:   time.Now().UTC(),
		OK:            report.OK,
		Errors:        report.Summary.Errors,
		Warnings:      report.Summary.Warnings,
		TotalClasses:  report.Summary.TotalClasses,
		TotalTeachers: report.Summary.TotalTeachers,
		Report:        payload,
	}
	if err := s.runs.Insert(ctx, run); err != nil {
		s.logger.Warn("failed to record analysis run", zap.Error(err))
	}
}

// requestCacheKey hashes the canonical JSON encoding of a request. Map keys
// are sorted by the encoder, so equivalent requests share a key.
func requestCacheKey(req dto.AnalyzeTimetableRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return "feasibility:report:" + hex.EncodeToString(sum[:]), nil
}
