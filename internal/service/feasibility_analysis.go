package service

import (
	"fmt"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
)

// reportBuilder collects findings in discovery order and keeps the severity
// counters in sync with the list.
type reportBuilder struct {
	warnings []dto.ReportWarning
	errors   int
	warns    int
}

func (rb *reportBuilder) errorf(t dto.WarningType, format string, args ...any) {
	rb.warnings = append(rb.warnings, dto.ReportWarning{
		Severity: dto.SeverityError,
		Type:     t,
		Message:  fmt.Sprintf(format, args...),
	})
	rb.errors++
}

func (rb *reportBuilder) warnf(t dto.WarningType, format string, args ...any) {
	rb.warnings = append(rb.warnings, dto.ReportWarning{
		Severity: dto.SeverityWarning,
		Type:     t,
		Message:  fmt.Sprintf(format, args...),
	})
	rb.warns++
}

// analyzeFeasibility is the whole analysis: a pure function from one request
// to one report. It holds no state between calls and never mutates its input,
// so concurrent invocations need no coordination.
func analyzeFeasibility(req dto.AnalyzeTimetableRequest) dto.FeasibilityReport {
	m := buildModel(req)
	rb := &reportBuilder{}
	totals := newLoadTotals()

	totalRequired := 0
	totalCapacity := 0
	for _, cls := range m.Classes {
		totalRequired += processClass(m, cls, totals, rb)
		totalCapacity += classCapacity(m.Shape, cls)
	}

	checkTeacherLoads(m, totals, rb)
	checkWeeklyBalance(m, totals, totalRequired, rb)
	checkFixedSlots(m, rb)
	checkDailyMinimum(m, rb)

	breaks := make([]int, len(m.Shape.BreakList))
	copy(breaks, m.Shape.BreakList)

	return dto.FeasibilityReport{
		OK: rb.errors == 0,
		Summary: dto.ReportSummary{
			TotalClasses:    len(m.Classes),
			TotalTeachers:   len(m.Faculties),
			TotalSubjects:   len(m.Subjects),
			TotalCombos:     len(m.Combos),
			TotalFixedSlots: len(m.Fixed),
			Schedule: dto.ScheduleSummary{
				DaysPerWeek:       m.Shape.DaysPerWeek,
				HoursPerDay:       m.Shape.HoursPerDay,
				UsableSlotsPerDay: m.Shape.UsableSlotsPerDay,
				BreakHours:        breaks,
			},
			TotalClassRequiredHours: totalRequired,
			TotalClassCapacityHours: totalCapacity,
			Errors:                  rb.errors,
			Warnings:                rb.warns,
		},
		Warnings: rb.warnings,
	}
}
