package service

import "github.com/nakul-26/timetable-precheck-api/internal/dto"

// loadTotals accumulates the three per-teacher load estimators across the
// whole run. Potential and forced are whole hours; estimated is fractional
// because requirements are split proportionally across combos.
type loadTotals struct {
	Potential map[string]int
	Estimated map[string]float64
	Forced    map[string]int
}

func newLoadTotals() *loadTotals {
	return &loadTotals{
		Potential: make(map[string]int),
		Estimated: make(map[string]float64),
		Forced:    make(map[string]int),
	}
}

// classRequirement is one (subject, hours) demand of a class.
type classRequirement struct {
	SubjectID string
	Hours     int
}

// classRequirements resolves what a class needs per week. If the class
// declares subject-hour overrides they define the full scope; otherwise every
// roster subject applies at its default.
func classRequirements(m *analysisModel, cls classModel) []classRequirement {
	if len(cls.SubjectHours) > 0 {
		reqs := make([]classRequirement, 0, len(cls.SubjectHours))
		for _, subjectID := range cls.overrideOrder {
			reqs = append(reqs, classRequirement{SubjectID: subjectID, Hours: cls.SubjectHours[subjectID]})
		}
		return reqs
	}
	reqs := make([]classRequirement, 0, len(m.Subjects))
	for _, s := range m.Subjects {
		reqs = append(reqs, classRequirement{SubjectID: s.ID, Hours: s.WeeklyHours})
	}
	return reqs
}

// eligibleCombos gathers the combos a class may draw on: the ones it assigns
// explicitly plus every combo that lists it (or restricts to no class at
// all). A non-empty class list that excludes the class disqualifies the combo
// even when assigned. Order is stable: assignments first, then roster order.
func eligibleCombos(m *analysisModel, cls classModel) []comboModel {
	var result []comboModel
	taken := make(map[string]struct{})

	applies := func(cb comboModel) bool {
		if len(cb.classSet) == 0 {
			return true
		}
		_, ok := cb.classSet[cls.ID]
		return ok
	}

	for _, comboID := range cls.AssignedIDs {
		idx, ok := m.comboIndex[comboID]
		if !ok {
			continue
		}
		cb := m.Combos[idx]
		if _, dup := taken[cb.ID]; dup {
			continue
		}
		if !applies(cb) {
			continue
		}
		taken[cb.ID] = struct{}{}
		result = append(result, cb)
	}
	for _, cb := range m.Combos {
		if cb.ID != "" {
			if _, dup := taken[cb.ID]; dup {
				continue
			}
		}
		if !applies(cb) {
			continue
		}
		if cb.ID != "" {
			taken[cb.ID] = struct{}{}
		}
		result = append(result, cb)
	}
	return result
}

// processClass runs the load estimators for one class and returns its total
// required hours. Accumulators in totals are shared across all classes.
func processClass(m *analysisModel, cls classModel, totals *loadTotals, rb *reportBuilder) int {
	combos := eligibleCombos(m, cls)
	classRequired := 0

	for _, req := range classRequirements(m, cls) {
		classRequired += req.Hours
		if req.Hours <= 0 {
			continue
		}

		// Eligible teachers: union across matching combos, first-seen order.
		var eligible []string
		eligibleSet := make(map[string]struct{})
		var groups [][]string
		for _, cb := range combos {
			if cb.SubjectID != req.SubjectID {
				continue
			}
			if len(cb.FacultyIDs) > 0 {
				groups = append(groups, cb.FacultyIDs)
			}
			for _, fid := range cb.FacultyIDs {
				if _, dup := eligibleSet[fid]; dup {
					continue
				}
				eligibleSet[fid] = struct{}{}
				eligible = append(eligible, fid)
			}
		}

		if len(eligible) == 0 {
			rb.errorf(dto.WarnMissingCoverage,
				"no eligible teacher covers subject %q for class %q",
				m.subjectName(req.SubjectID), className(cls))
			continue
		}

		for _, fid := range eligible {
			totals.Potential[fid] += req.Hours
		}

		if len(groups) > 0 {
			perGroup := float64(req.Hours) / float64(len(groups))
			presence := make(map[string]int)
			for _, group := range groups {
				perTeacher := perGroup / float64(len(group))
				for _, fid := range group {
					totals.Estimated[fid] += perTeacher
					presence[fid]++
				}
			}
			for _, fid := range eligible {
				if presence[fid] == len(groups) {
					totals.Forced[fid] += req.Hours
				}
			}
		} else {
			share := float64(req.Hours) / float64(len(eligible))
			for _, fid := range eligible {
				totals.Estimated[fid] += share
			}
			if len(eligible) == 1 {
				totals.Forced[eligible[0]] += req.Hours
			}
		}
	}

	capacity := classCapacity(m.Shape, cls)
	if classRequired > capacity {
		rb.errorf(dto.WarnClassOverCapacity,
			"class %q requires %d weekly hours but can host at most %d",
			className(cls), classRequired, capacity)
	}
	return classRequired
}
