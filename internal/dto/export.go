package dto

import "time"

// AnalysisRunSummary is the stored trace of one analysis invocation.
type AnalysisRunSummary struct {
	ID            string    `json:"id"`
	RequestedAt   time.Time `json:"requestedAt"`
	OK            bool      `json:"ok"`
	Errors        int       `json:"errors"`
	Warnings      int       `json:"warnings"`
	TotalClasses  int       `json:"totalClasses"`
	TotalTeachers int       `json:"totalTeachers"`
}

// ExportReportRequest asks for a rendered copy of a feasibility report,
// either by stored run id or from an inline analysis request.
type ExportReportRequest struct {
	Format  string                   `json:"format" validate:"required,oneof=csv pdf"`
	RunID   string                   `json:"runId" validate:"omitempty"`
	Request *AnalyzeTimetableRequest `json:"request" validate:"omitempty"`
}

// ExportJobResponse acknowledges an accepted export job.
type ExportJobResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// ExportStatusResponse exposes export job state to clients.
type ExportStatusResponse struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	Progress  int     `json:"progress"`
	ResultURL *string `json:"resultUrl,omitempty"`
	Error     *string `json:"error,omitempty"`
}
