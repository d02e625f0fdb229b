package service

import (
	"sort"
	"strings"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
)

// normalizeWeekShape derives the effective weekly grid. Absent or nonsensical
// values fall back to the defaults; break hours outside the day are dropped.
func normalizeWeekShape(cfg *dto.ScheduleConfig) weekShape {
	shape := weekShape{
		DaysPerWeek: defaultDaysPerWeek,
		HoursPerDay: defaultHoursPerDay,
		BreakHours:  make(map[int]struct{}),
	}
	if cfg != nil {
		if days := cfg.DaysPerWeek.Or(0); days >= 1 {
			shape.DaysPerWeek = days
		}
		if hours := cfg.HoursPerDay.Or(0); hours >= 1 {
			shape.HoursPerDay = hours
		}
		for _, raw := range cfg.BreakHours {
			hour := raw.Or(-1)
			if hour < 0 || hour >= shape.HoursPerDay {
				continue
			}
			shape.BreakHours[hour] = struct{}{}
		}
	}
	shape.BreakList = make([]int, 0, len(shape.BreakHours))
	for hour := range shape.BreakHours {
		shape.BreakList = append(shape.BreakList, hour)
	}
	sort.Ints(shape.BreakList)
	shape.UsableSlotsPerDay = shape.HoursPerDay - len(shape.BreakHours)
	if shape.UsableSlotsPerDay < 0 {
		shape.UsableSlotsPerDay = 0
	}
	return shape
}

// normalizeSlotSet canonicalizes a slot list into a deduplicated key set,
// dropping entries with a negative or missing day/hour.
func normalizeSlotSet(refs []dto.SlotRef) map[slotKey]struct{} {
	set := make(map[slotKey]struct{}, len(refs))
	for _, ref := range refs {
		day := ref.Day.Or(-1)
		hour := ref.Hour.Or(-1)
		if day < 0 || hour < 0 {
			continue
		}
		set[slotKey{Day: day, Hour: hour}] = struct{}{}
	}
	return set
}

// normalizeTeacherSlotMap canonicalizes per-teacher slot lists, dropping
// empty teacher keys.
func normalizeTeacherSlotMap(raw map[string][]dto.SlotRef) map[string]map[slotKey]struct{} {
	result := make(map[string]map[slotKey]struct{}, len(raw))
	for teacherID, refs := range raw {
		teacherID = strings.TrimSpace(teacherID)
		if teacherID == "" {
			continue
		}
		result[teacherID] = normalizeSlotSet(refs)
	}
	return result
}

func normalizeAvailability(cfg *dto.TeacherAvailabilityConfig) availabilityPolicy {
	policy := availabilityPolicy{
		GlobalBlocked: make(map[slotKey]struct{}),
		ByTeacher:     make(map[string]map[slotKey]struct{}),
	}
	if cfg == nil {
		return policy
	}
	policy.Enabled = cfg.Enabled.Or(false)
	policy.Hard = cfg.Hard.Or(false)
	policy.GlobalBlocked = normalizeSlotSet(cfg.GloballyUnavailableSlots)
	policy.ByTeacher = normalizeTeacherSlotMap(cfg.UnavailableSlotsByTeacher)
	return policy
}

func normalizeWeeklyBalance(cfg *dto.WeeklyLoadBalanceConfig, weeklyCapacity int) weeklyBalancePolicy {
	policy := weeklyBalancePolicy{MaxWeekly: weeklyCapacity}
	if cfg == nil {
		return policy
	}
	policy.Enabled = cfg.Enabled.Or(false)
	policy.MinWeekly = cfg.MinWeeklyLoad.Or(0)
	policy.MaxWeekly = cfg.MaxWeeklyLoad.Or(weeklyCapacity)
	policy.HardMin = cfg.HardMin.Or(false)
	policy.HardMax = cfg.HardMax.Or(false)
	return policy
}

func normalizeDailyMinimum(cfg *dto.ClassDailyMinimumConfig) dailyMinimumPolicy {
	policy := dailyMinimumPolicy{}
	if cfg == nil {
		return policy
	}
	policy.Enabled = cfg.Enabled.Or(false)
	policy.Hard = cfg.Hard.Or(false)
	policy.MinPerDay = cfg.MinPerDay.Or(0)
	return policy
}

// classCapacity is the number of lesson hours the class can host per week.
func classCapacity(shape weekShape, cls classModel) int {
	return cls.EffectiveDays * shape.UsableSlotsPerDay
}

// teacherWeeklyCapacity is the raw weekly slot count before blocked slots.
func teacherWeeklyCapacity(shape weekShape) int {
	return shape.DaysPerWeek * shape.UsableSlotsPerDay
}

// blockedSlotCount counts distinct in-range blocked slots for a teacher. A
// pair present in both the global and the teacher-specific set counts once.
func blockedSlotCount(shape weekShape, policy availabilityPolicy, teacherID string) int {
	inRange := func(key slotKey) bool {
		return key.Day >= 0 && key.Day < shape.DaysPerWeek && key.Hour >= 0 && key.Hour < shape.HoursPerDay
	}
	count := 0
	for key := range policy.GlobalBlocked {
		if inRange(key) {
			count++
		}
	}
	for key := range policy.ByTeacher[teacherID] {
		if !inRange(key) {
			continue
		}
		if _, dup := policy.GlobalBlocked[key]; dup {
			continue
		}
		count++
	}
	return count
}

// teacherEffectiveCapacity is the weekly capacity left after blocked slots.
func teacherEffectiveCapacity(shape weekShape, policy availabilityPolicy, teacherID string) int {
	capacity := teacherWeeklyCapacity(shape) - blockedSlotCount(shape, policy, teacherID)
	if capacity < 0 {
		return 0
	}
	return capacity
}
