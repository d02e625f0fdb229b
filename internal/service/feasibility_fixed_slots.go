package service

import "github.com/nakul-26/timetable-precheck-api/internal/dto"

// slotOwnerKey identifies one owner/day/hour cell for conflict tracking. The
// owner is a class id in one map and a teacher id in the other.
type slotOwnerKey struct {
	Owner string
	Day   int
	Hour  int
}

// checkFixedSlots validates every pinned placement against the schedule
// bounds, break hours, and mutual exclusivity per class-slot and per
// teacher-slot. Findings are appended in input order.
func checkFixedSlots(m *analysisModel, rb *reportBuilder) {
	classOwner := make(map[slotOwnerKey]string)
	teacherOwner := make(map[slotOwnerKey]string)

	for i, fs := range m.Fixed {
		if fs.ClassID == "" || fs.ComboID == "" {
			rb.warnf(dto.WarnFixedSlotInvalid,
				"fixed slot #%d is missing a class or combo reference", i+1)
			continue
		}
		if fs.Day < 0 || fs.Day >= m.Shape.DaysPerWeek || fs.Hour < 0 || fs.Hour >= m.Shape.HoursPerDay {
			rb.warnf(dto.WarnFixedSlotOutOfRange,
				"fixed slot for class %q at day %d hour %d is outside the %dx%d schedule",
				fs.ClassID, fs.Day, fs.Hour, m.Shape.DaysPerWeek, m.Shape.HoursPerDay)
			continue
		}
		if _, onBreak := m.Shape.BreakHours[fs.Hour]; onBreak {
			rb.warnf(dto.WarnFixedSlotOnBreak,
				"fixed slot for class %q at day %d hour %d falls on a break hour",
				fs.ClassID, fs.Day, fs.Hour)
		}

		classKey := slotOwnerKey{Owner: fs.ClassID, Day: fs.Day, Hour: fs.Hour}
		if owner, taken := classOwner[classKey]; taken {
			if owner != fs.ComboID {
				rb.errorf(dto.WarnFixedSlotClassConflict,
					"class %q has combos %q and %q both fixed at day %d hour %d",
					fs.ClassID, owner, fs.ComboID, fs.Day, fs.Hour)
				continue
			}
		} else {
			classOwner[classKey] = fs.ComboID
		}

		idx, known := m.comboIndex[fs.ComboID]
		if !known {
			rb.warnf(dto.WarnFixedSlotUnknownCombo,
				"fixed slot for class %q references unknown combo %q", fs.ClassID, fs.ComboID)
			continue
		}
		cb := m.Combos[idx]
		if len(cb.classSet) > 0 {
			if _, ok := cb.classSet[fs.ClassID]; !ok {
				rb.warnf(dto.WarnFixedSlotClassComboMismatch,
					"combo %q is restricted to other classes but fixed for class %q",
					fs.ComboID, fs.ClassID)
			}
		}

		for _, fid := range cb.FacultyIDs {
			teacherKey := slotOwnerKey{Owner: fid, Day: fs.Day, Hour: fs.Hour}
			if owner, taken := teacherOwner[teacherKey]; taken {
				if owner != fs.ComboID {
					rb.errorf(dto.WarnFixedSlotTeacherConflict,
						"teacher %q is fixed to combos %q and %q at day %d hour %d",
						m.teacherName(fid), owner, fs.ComboID, fs.Day, fs.Hour)
				}
				continue
			}
			teacherOwner[teacherKey] = fs.ComboID
		}
	}
}
