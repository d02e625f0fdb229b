package models

import (
	"encoding/json"
	"time"
)

// AnalysisRun is one stored feasibility analysis invocation, kept for
// auditability of what was checked and what the verdict was.
type AnalysisRun struct {
	ID            string          `db:"id" json:"id"`
	RequestedAt   time.Time       `db:"requested_at" json:"requestedAt"`
	OK            bool            `db:"ok" json:"ok"`
	Errors        int             `db:"errors" json:"errors"`
	Warnings      int             `db:"warnings" json:"warnings"`
	TotalClasses  int             `db:"total_classes" json:"totalClasses"`
	TotalTeachers int             `db:"total_teachers" json:"totalTeachers"`
	Report        json.RawMessage `db:"report" json:"report"`
}
