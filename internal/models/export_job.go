package models

import (
	"encoding/json"
	"time"
)

// ExportFormat enumerates supported export renderings.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus tracks the lifecycle of an export job.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ExportJob carries one report export through the queue. The report snapshot
// is taken at creation time so the rendering never depends on run storage.
type ExportJob struct {
	ID           string
	Format       ExportFormat
	Status       ExportStatus
	Progress     int
	Report       json.RawMessage
	ResultURL    *string
	ErrorMessage *string
	CreatedAt    time.Time
	FinishedAt   *time.Time
}
