package service

import (
	"sort"
	"strings"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
)

// Fallback week shape when the schedule section is absent or malformed.
const (
	defaultDaysPerWeek = 6
	defaultHoursPerDay = 8
)

// slotKey addresses one day/hour cell of the week grid.
type slotKey struct {
	Day  int
	Hour int
}

// weekShape is the normalized weekly schedule every other computation runs on.
type weekShape struct {
	DaysPerWeek       int
	HoursPerDay       int
	BreakHours        map[int]struct{}
	BreakList         []int
	UsableSlotsPerDay int
}

type facultyModel struct {
	ID   string
	Name string
}

type subjectModel struct {
	ID          string
	Name        string
	WeeklyHours int
}

type classModel struct {
	ID            string
	Name          string
	EffectiveDays int
	SubjectHours  map[string]int
	overrideOrder []string
	AssignedIDs   []string
}

type comboModel struct {
	ID         string
	SubjectID  string
	FacultyIDs []string
	ClassIDs   []string
	classSet   map[string]struct{}
}

type fixedSlotModel struct {
	ClassID string
	ComboID string
	Day     int
	Hour    int
}

type availabilityPolicy struct {
	Enabled       bool
	Hard          bool
	GlobalBlocked map[slotKey]struct{}
	ByTeacher     map[string]map[slotKey]struct{}
}

type weeklyBalancePolicy struct {
	Enabled   bool
	MinWeekly int
	MaxWeekly int
	HardMin   bool
	HardMax   bool
}

type dailyMinimumPolicy struct {
	Enabled   bool
	Hard      bool
	MinPerDay int
}

// analysisModel is the fully-defaulted view of one request. It is built once
// per invocation and read-only afterwards.
type analysisModel struct {
	Shape     weekShape
	Faculties []facultyModel
	Subjects  []subjectModel
	Classes   []classModel
	Combos    []comboModel
	Fixed     []fixedSlotModel

	subjectNames map[string]string
	facultyNames map[string]string
	comboIndex   map[string]int

	Availability           availabilityPolicy
	Balance                weeklyBalancePolicy
	DailyMin               dailyMinimumPolicy
	WeeklySubjectHoursHard bool
}

func entityID(primary, alt dto.FlexID) string {
	if id := strings.TrimSpace(primary.String()); id != "" {
		return id
	}
	return strings.TrimSpace(alt.String())
}

// buildModel collapses the loosely-shaped request into typed records with all
// defaults applied, so the analysis itself never needs fallback logic.
func buildModel(req dto.AnalyzeTimetableRequest) *analysisModel {
	m := &analysisModel{
		subjectNames: make(map[string]string),
		facultyNames: make(map[string]string),
		comboIndex:   make(map[string]int),
	}
	m.Shape = normalizeWeekShape(req.Config.Schedule)

	m.Faculties = make([]facultyModel, 0, len(req.Faculties))
	for _, f := range req.Faculties {
		id := entityID(f.ID, f.AltID)
		m.Faculties = append(m.Faculties, facultyModel{ID: id, Name: f.Name})
		if id != "" && f.Name != "" {
			m.facultyNames[id] = f.Name
		}
	}

	m.Subjects = make([]subjectModel, 0, len(req.Subjects))
	for _, s := range req.Subjects {
		id := entityID(s.ID, s.AltID)
		hours := s.WeeklyHoursDefault.Or(0)
		if hours < 0 {
			hours = 0
		}
		m.Subjects = append(m.Subjects, subjectModel{ID: id, Name: s.Name, WeeklyHours: hours})
		if id != "" {
			m.subjectNames[id] = s.Name
		}
	}

	m.Classes = make([]classModel, 0, len(req.Classes))
	for _, c := range req.Classes {
		cls := classModel{
			ID:            entityID(c.ID, c.AltID),
			Name:          c.Name,
			EffectiveDays: m.Shape.DaysPerWeek,
		}
		if override := c.DaysPerWeek.Or(0); override >= 1 {
			cls.EffectiveDays = override
		}
		if len(c.SubjectHours) > 0 {
			cls.SubjectHours = make(map[string]int, len(c.SubjectHours))
			for subjectID, hours := range c.SubjectHours {
				subjectID = strings.TrimSpace(subjectID)
				if subjectID == "" {
					continue
				}
				h := hours.Or(0)
				if h < 0 {
					h = 0
				}
				cls.SubjectHours[subjectID] = h
			}
			cls.overrideOrder = orderedOverrideKeys(cls.SubjectHours, m.Subjects)
		}
		for _, comboID := range c.AssignedComboIDs {
			if id := strings.TrimSpace(comboID.String()); id != "" {
				cls.AssignedIDs = append(cls.AssignedIDs, id)
			}
		}
		m.Classes = append(m.Classes, cls)
	}

	m.Combos = make([]comboModel, 0, len(req.Combos))
	for _, c := range req.Combos {
		cb := comboModel{
			ID:        entityID(c.ID, c.AltID),
			SubjectID: strings.TrimSpace(c.SubjectID.String()),
			classSet:  make(map[string]struct{}),
		}
		seen := make(map[string]struct{})
		appendFaculty := func(raw dto.FlexID) {
			id := strings.TrimSpace(raw.String())
			if id == "" {
				return
			}
			if _, dup := seen[id]; dup {
				return
			}
			seen[id] = struct{}{}
			cb.FacultyIDs = append(cb.FacultyIDs, id)
		}
		for _, fid := range c.FacultyIDs {
			appendFaculty(fid)
		}
		appendFaculty(c.FacultyID)
		for _, classID := range c.ClassIDs {
			id := strings.TrimSpace(classID.String())
			if id == "" {
				continue
			}
			if _, dup := cb.classSet[id]; dup {
				continue
			}
			cb.classSet[id] = struct{}{}
			cb.ClassIDs = append(cb.ClassIDs, id)
		}
		if cb.ID != "" {
			if _, dup := m.comboIndex[cb.ID]; !dup {
				m.comboIndex[cb.ID] = len(m.Combos)
			}
		}
		m.Combos = append(m.Combos, cb)
	}

	m.Fixed = make([]fixedSlotModel, 0, len(req.FixedSlots))
	for _, fs := range req.FixedSlots {
		m.Fixed = append(m.Fixed, fixedSlotModel{
			ClassID: strings.TrimSpace(fs.ClassID.String()),
			ComboID: strings.TrimSpace(fs.ComboID.String()),
			Day:     fs.Day.Or(-1),
			Hour:    fs.Hour.Or(-1),
		})
	}

	m.Availability = normalizeAvailability(req.Config.TeacherAvailability)
	m.Balance = normalizeWeeklyBalance(req.Config.WeeklyLoadBalance, teacherWeeklyCapacity(m.Shape))
	m.DailyMin = normalizeDailyMinimum(req.Config.ClassDailyMinimum)
	m.WeeklySubjectHoursHard = true
	if req.Config.WeeklySubjectHours != nil {
		m.WeeklySubjectHoursHard = req.Config.WeeklySubjectHours.Hard.Or(true)
	}

	return m
}

// orderedOverrideKeys yields subject-hour override keys in roster order first,
// then any unknown subjects alphabetically, keeping reports deterministic.
func orderedOverrideKeys(overrides map[string]int, subjects []subjectModel) []string {
	order := make([]string, 0, len(overrides))
	taken := make(map[string]struct{}, len(overrides))
	for _, s := range subjects {
		if _, ok := overrides[s.ID]; ok {
			if _, dup := taken[s.ID]; dup {
				continue
			}
			taken[s.ID] = struct{}{}
			order = append(order, s.ID)
		}
	}
	rest := make([]string, 0, len(overrides))
	for id := range overrides {
		if _, ok := taken[id]; !ok {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// subjectName resolves a display name, falling back to the raw id.
func (m *analysisModel) subjectName(id string) string {
	if name, ok := m.subjectNames[id]; ok && name != "" {
		return name
	}
	return id
}

// teacherName resolves a display name by id, falling back to the raw id.
func (m *analysisModel) teacherName(id string) string {
	if name, ok := m.facultyNames[id]; ok && name != "" {
		return name
	}
	return id
}

// className prefers the class display name over the id.
func className(cls classModel) string {
	if cls.Name != "" {
		return cls.Name
	}
	return cls.ID
}

// facultyName prefers the teacher display name over the id.
func facultyName(f facultyModel) string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}
