package dto

// FacultyInput identifies a teacher. Load figures are computed by the
// analysis, never supplied on the entity.
type FacultyInput struct {
	ID    FlexID `json:"id"`
	AltID FlexID `json:"_id"`
	Name  string `json:"name"`
}

// SubjectInput declares a subject and its default weekly hours.
type SubjectInput struct {
	ID                 FlexID      `json:"id"`
	AltID              FlexID      `json:"_id"`
	Name               string      `json:"name"`
	WeeklyHoursDefault OptionalInt `json:"weeklyHoursDefault"`
}

// ClassInput declares a class, optional per-subject hour overrides, and the
// combos explicitly assigned to it.
type ClassInput struct {
	ID               FlexID                 `json:"id"`
	AltID            FlexID                 `json:"_id"`
	Name             string                 `json:"name"`
	DaysPerWeek      OptionalInt            `json:"daysPerWeek"`
	SubjectHours     map[string]OptionalInt `json:"subjectHours"`
	AssignedComboIDs []FlexID               `json:"assignedComboIds"`
}

// ComboInput is one feasible teaching unit: these teachers jointly teach this
// subject for the listed classes (empty class list = any class). The legacy
// single facultyId form is accepted alongside facultyIds.
type ComboInput struct {
	ID         FlexID   `json:"id"`
	AltID      FlexID   `json:"_id"`
	SubjectID  FlexID   `json:"subjectId"`
	FacultyIDs []FlexID `json:"facultyIds"`
	FacultyID  FlexID   `json:"facultyId"`
	ClassIDs   []FlexID `json:"classIds"`
}

// FixedSlotInput pins a combo to a class at a specific day/hour.
type FixedSlotInput struct {
	ClassID FlexID      `json:"classId"`
	ComboID FlexID      `json:"comboId"`
	Day     OptionalInt `json:"day"`
	Hour    OptionalInt `json:"hour"`
}

// SlotRef addresses a single day/hour cell.
type SlotRef struct {
	Day  OptionalInt `json:"day"`
	Hour OptionalInt `json:"hour"`
}

// ScheduleConfig shapes the teaching week.
type ScheduleConfig struct {
	DaysPerWeek OptionalInt   `json:"daysPerWeek"`
	HoursPerDay OptionalInt   `json:"hoursPerDay"`
	BreakHours  []OptionalInt `json:"breakHours"`
}

// TeacherAvailabilityConfig blocks slots globally or per teacher.
type TeacherAvailabilityConfig struct {
	Enabled                   OptionalBool         `json:"enabled"`
	Hard                      OptionalBool         `json:"hard"`
	GloballyUnavailableSlots  []SlotRef            `json:"globallyUnavailableSlots"`
	UnavailableSlotsByTeacher map[string][]SlotRef `json:"unavailableSlotsByTeacher"`
}

// WeeklyLoadBalanceConfig bounds per-teacher weekly load.
type WeeklyLoadBalanceConfig struct {
	Enabled       OptionalBool `json:"enabled"`
	MinWeeklyLoad OptionalInt  `json:"minWeeklyLoad"`
	MaxWeeklyLoad OptionalInt  `json:"maxWeeklyLoad"`
	HardMin       OptionalBool `json:"hardMin"`
	HardMax       OptionalBool `json:"hardMax"`
}

// ClassDailyMinimumConfig enforces a minimum daily lesson count per class.
type ClassDailyMinimumConfig struct {
	Enabled   OptionalBool `json:"enabled"`
	Hard      OptionalBool `json:"hard"`
	MinPerDay OptionalInt  `json:"minPerDay"`
}

// WeeklySubjectHoursConfig controls whether weekly subject hours are treated
// as a hard requirement. Hard unless explicitly disabled.
type WeeklySubjectHoursConfig struct {
	Hard OptionalBool `json:"hard"`
}

// ConstraintConfig nests all policy configuration. Every section is optional.
type ConstraintConfig struct {
	Schedule            *ScheduleConfig            `json:"schedule"`
	TeacherAvailability *TeacherAvailabilityConfig `json:"teacherAvailability"`
	WeeklyLoadBalance   *WeeklyLoadBalanceConfig   `json:"teacherWeeklyLoadBalance"`
	ClassDailyMinimum   *ClassDailyMinimumConfig   `json:"classDailyMinimumLoad"`
	WeeklySubjectHours  *WeeklySubjectHoursConfig  `json:"weeklySubjectHours"`
}

// AnalyzeTimetableRequest carries the full roster and constraint set for one
// feasibility analysis. Missing collections behave as empty.
type AnalyzeTimetableRequest struct {
	Faculties  []FacultyInput   `json:"faculties" validate:"omitempty,dive"`
	Subjects   []SubjectInput   `json:"subjects" validate:"omitempty,dive"`
	Classes    []ClassInput     `json:"classes" validate:"omitempty,dive"`
	Combos     []ComboInput     `json:"combos" validate:"omitempty,dive"`
	FixedSlots []FixedSlotInput `json:"fixedSlots" validate:"omitempty,dive"`
	Config     ConstraintConfig `json:"constraintConfig"`
}

// Severity classifies a finding. Errors block generation; warnings flag risk.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// WarningType enumerates the finding taxonomy.
type WarningType string

const (
	WarnMissingCoverage             WarningType = "missing_coverage"
	WarnClassOverCapacity           WarningType = "class_over_capacity"
	WarnTeacherAvailabilityOverload WarningType = "teacher_availability_forced_overload"
	WarnTeacherForcedOverload       WarningType = "teacher_forced_overload"
	WarnTeacherPotentialOverload    WarningType = "teacher_potential_overload"
	WarnWeeklyMinLoadHigh           WarningType = "weekly_min_load_high"
	WarnWeeklyMaxExceedsCapacity    WarningType = "weekly_max_exceeds_capacity"
	WarnTeacherForcedAboveHardMax   WarningType = "teacher_forced_above_hard_weekly_max"
	WarnFixedSlotInvalid            WarningType = "fixed_slot_invalid"
	WarnFixedSlotOutOfRange         WarningType = "fixed_slot_out_of_range"
	WarnFixedSlotOnBreak            WarningType = "fixed_slot_on_break"
	WarnFixedSlotClassConflict      WarningType = "fixed_slot_class_conflict"
	WarnFixedSlotUnknownCombo       WarningType = "fixed_slot_unknown_combo"
	WarnFixedSlotClassComboMismatch WarningType = "fixed_slot_class_combo_mismatch"
	WarnFixedSlotTeacherConflict    WarningType = "fixed_slot_teacher_conflict"
	WarnClassDailyMinExceedsCap     WarningType = "class_daily_min_exceeds_capacity"
	WarnClassDailyMinConflictsHours WarningType = "class_daily_min_conflicts_with_required_hours"
)

// ReportWarning is a single finding, in discovery order.
type ReportWarning struct {
	Severity Severity    `json:"severity"`
	Type     WarningType `json:"type"`
	Message  string      `json:"message"`
}

// ScheduleSummary echoes the normalized week shape.
type ScheduleSummary struct {
	DaysPerWeek       int   `json:"daysPerWeek"`
	HoursPerDay       int   `json:"hoursPerDay"`
	UsableSlotsPerDay int   `json:"usableSlotsPerDay"`
	BreakHours        []int `json:"breakHours"`
}

// ReportSummary aggregates entity counts and totals.
type ReportSummary struct {
	TotalClasses            int             `json:"totalClasses"`
	TotalTeachers           int             `json:"totalTeachers"`
	TotalSubjects           int             `json:"totalSubjects"`
	TotalCombos             int             `json:"totalCombos"`
	TotalFixedSlots         int             `json:"totalFixedSlots"`
	Schedule                ScheduleSummary `json:"schedule"`
	TotalClassRequiredHours int             `json:"totalClassRequiredHours"`
	TotalClassCapacityHours int             `json:"totalClassCapacityHours"`
	Errors                  int             `json:"errors"`
	Warnings                int             `json:"warnings"`
}

// FeasibilityReport is the complete analysis outcome. OK is true when no
// error-severity finding was recorded.
type FeasibilityReport struct {
	OK       bool            `json:"ok"`
	Summary  ReportSummary   `json:"summary"`
	Warnings []ReportWarning `json:"warnings"`
}
