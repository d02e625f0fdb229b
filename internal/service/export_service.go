package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
	"github.com/nakul-26/timetable-precheck-api/internal/models"
	"github.com/nakul-26/timetable-precheck-api/pkg/export"
	"github.com/nakul-26/timetable-precheck-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, summary []string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders feasibility reports into downloadable files.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		storage: store,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate renders the job's report snapshot and stores the resulting file.
func (s *ExportService) Generate(_ context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	var report dto.FeasibilityReport
	if err := json.Unmarshal(job.Report, &report); err != nil {
		return nil, fmt.Errorf("decode report snapshot: %w", err)
	}

	dataset := buildFindingsDataset(&report)
	title := "Timetable Feasibility Report"

	var payload []byte
	var err error
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title, reportSummaryLines(&report))
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("feasibility_%s.%s", time.Now().UTC().Format("20060102_150405"), job.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	signedURL := fmt.Sprintf("%s/timetable/export/%s", prefix, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func buildFindingsDataset(report *dto.FeasibilityReport) export.Dataset {
	rows := make([]map[string]string, 0, len(report.Warnings))
	for i, w := range report.Warnings {
		rows = append(rows, map[string]string{
			"#":        fmt.Sprintf("%d", i+1),
			"Severity": string(w.Severity),
			"Type":     string(w.Type),
			"Message":  w.Message,
		})
	}
	return export.Dataset{
		Headers: []string{"#", "Severity", "Type", "Message"},
		Rows:    rows,
	}
}

func reportSummaryLines(report *dto.FeasibilityReport) []string {
	verdict := "FEASIBLE"
	if !report.OK {
		verdict = "NOT FEASIBLE"
	}
	sched := report.Summary.Schedule
	return []string{
		fmt.Sprintf("Verdict: %s (%d errors, %d warnings)", verdict, report.Summary.Errors, report.Summary.Warnings),
		fmt.Sprintf("Schedule: %d days x %d hours, %d usable slots per day", sched.DaysPerWeek, sched.HoursPerDay, sched.UsableSlotsPerDay),
		fmt.Sprintf("Entities: %d classes, %d teachers, %d subjects, %d combos, %d fixed slots",
			report.Summary.TotalClasses, report.Summary.TotalTeachers, report.Summary.TotalSubjects,
			report.Summary.TotalCombos, report.Summary.TotalFixedSlots),
		fmt.Sprintf("Hours: %d required vs %d capacity across classes",
			report.Summary.TotalClassRequiredHours, report.Summary.TotalClassCapacityHours),
	}
}
