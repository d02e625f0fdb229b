package service

import (
	"math"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
)

// checkTeacherLoads evaluates every roster teacher's accumulated loads
// against their weekly capacity, in roster order. Teachers that appear only
// inside combos but not on the roster accumulate load without being checked.
func checkTeacherLoads(m *analysisModel, totals *loadTotals, rb *reportBuilder) {
	weekly := teacherWeeklyCapacity(m.Shape)
	for _, f := range m.Faculties {
		if f.ID == "" {
			continue
		}
		forced := totals.Forced[f.ID]
		estimated := totals.Estimated[f.ID]
		potential := totals.Potential[f.ID]

		if m.Availability.Enabled && m.Availability.Hard {
			effective := teacherEffectiveCapacity(m.Shape, m.Availability, f.ID)
			if forced > effective {
				rb.errorf(dto.WarnTeacherAvailabilityOverload,
					"teacher %q has forced load %d but only %d slots remain after unavailability",
					facultyName(f), forced, effective)
			}
		}

		if forced > weekly {
			rb.errorf(dto.WarnTeacherForcedOverload,
				"teacher %q has forced load %d exceeding weekly capacity %d",
				facultyName(f), forced, weekly)
		} else if int(math.Ceil(estimated)) > weekly {
			rb.warnf(dto.WarnTeacherPotentialOverload,
				"teacher %q has estimated load %.1f (potential up to %d) exceeding weekly capacity %d",
				facultyName(f), estimated, potential, weekly)
		}
	}
}

// checkWeeklyBalance evaluates the weekly min/max load policy. The minimum is
// an aggregate sanity check; the maximum is checked both against physical
// capacity and per teacher against forced load.
func checkWeeklyBalance(m *analysisModel, totals *loadTotals, totalRequired int, rb *reportBuilder) {
	if !m.Balance.Enabled {
		return
	}
	weekly := teacherWeeklyCapacity(m.Shape)
	teacherCount := len(m.Faculties)

	if m.Balance.HardMin && teacherCount*m.Balance.MinWeekly > totalRequired {
		rb.warnf(dto.WarnWeeklyMinLoadHigh,
			"minimum weekly load %d across %d teachers demands %d hours but classes require only %d",
			m.Balance.MinWeekly, teacherCount, teacherCount*m.Balance.MinWeekly, totalRequired)
	}

	if m.Balance.HardMax {
		if m.Balance.MaxWeekly > weekly {
			rb.warnf(dto.WarnWeeklyMaxExceedsCapacity,
				"maximum weekly load %d exceeds teacher weekly capacity %d",
				m.Balance.MaxWeekly, weekly)
		}
		for _, f := range m.Faculties {
			if f.ID == "" {
				continue
			}
			if forced := totals.Forced[f.ID]; forced > m.Balance.MaxWeekly {
				rb.errorf(dto.WarnTeacherForcedAboveHardMax,
					"teacher %q has forced load %d above the hard weekly maximum %d",
					facultyName(f), forced, m.Balance.MaxWeekly)
			}
		}
	}
}

// checkDailyMinimum evaluates the hard per-class daily floor. Required hours
// are recomputed here from the roster rather than reused from the load pass,
// so the policy stays decoupled from eligibility handling.
func checkDailyMinimum(m *analysisModel, rb *reportBuilder) {
	if !m.DailyMin.Enabled || !m.DailyMin.Hard {
		return
	}
	for _, cls := range m.Classes {
		required := 0
		if len(cls.SubjectHours) > 0 {
			for _, subjectID := range cls.overrideOrder {
				required += cls.SubjectHours[subjectID]
			}
		} else {
			for _, s := range m.Subjects {
				required += s.WeeklyHours
			}
		}

		if m.DailyMin.MinPerDay > m.Shape.UsableSlotsPerDay {
			rb.errorf(dto.WarnClassDailyMinExceedsCap,
				"class %q: daily minimum %d exceeds %d usable slots per day",
				className(cls), m.DailyMin.MinPerDay, m.Shape.UsableSlotsPerDay)
		}
		if floor := cls.EffectiveDays * m.DailyMin.MinPerDay; m.WeeklySubjectHoursHard && required < floor {
			rb.warnf(dto.WarnClassDailyMinConflictsHours,
				"class %q requires %d weekly hours, below the %d needed to reach %d per day",
				className(cls), required, floor, m.DailyMin.MinPerDay)
		}
	}
}
