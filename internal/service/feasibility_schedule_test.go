package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
)

func TestNormalizeWeekShapeDefaults(t *testing.T) {
	shape := normalizeWeekShape(nil)
	assert.Equal(t, 6, shape.DaysPerWeek)
	assert.Equal(t, 8, shape.HoursPerDay)
	assert.Equal(t, 8, shape.UsableSlotsPerDay)
	assert.Empty(t, shape.BreakList)
}

func TestNormalizeWeekShapeRejectsInvalidValues(t *testing.T) {
	shape := normalizeWeekShape(&dto.ScheduleConfig{
		DaysPerWeek: dto.Int(0),
		HoursPerDay: dto.Int(-3),
	})
	assert.Equal(t, 6, shape.DaysPerWeek)
	assert.Equal(t, 8, shape.HoursPerDay)
}

func TestNormalizeWeekShapeDedupesAndBoundsBreaks(t *testing.T) {
	shape := normalizeWeekShape(&dto.ScheduleConfig{
		DaysPerWeek: dto.Int(5),
		HoursPerDay: dto.Int(6),
		BreakHours:  []dto.OptionalInt{dto.Int(2), dto.Int(2), dto.Int(7), dto.Int(-1)},
	})
	assert.Equal(t, []int{2}, shape.BreakList)
	assert.Equal(t, 5, shape.UsableSlotsPerDay)
}

func TestNormalizeSlotSetDropsNegativeEntries(t *testing.T) {
	set := normalizeSlotSet([]dto.SlotRef{
		{Day: dto.Int(0), Hour: dto.Int(1)},
		{Day: dto.Int(0), Hour: dto.Int(1)},
		{Day: dto.Int(-1), Hour: dto.Int(1)},
		{Hour: dto.Int(1)},
	})
	assert.Len(t, set, 1)
	_, ok := set[slotKey{Day: 0, Hour: 1}]
	assert.True(t, ok)
}

func TestBlockedSlotCountDeduplicatesAcrossSources(t *testing.T) {
	shape := normalizeWeekShape(nil)
	policy := availabilityPolicy{
		GlobalBlocked: map[slotKey]struct{}{
			{Day: 0, Hour: 0}: {},
			{Day: 1, Hour: 1}: {},
		},
		ByTeacher: map[string]map[slotKey]struct{}{
			"t1": {
				{Day: 0, Hour: 0}: {},
				{Day: 2, Hour: 2}: {},
			},
		},
	}
	assert.Equal(t, 3, blockedSlotCount(shape, policy, "t1"))
	assert.Equal(t, 2, blockedSlotCount(shape, policy, "t2"))
	assert.Equal(t, 45, teacherEffectiveCapacity(shape, policy, "t1"))
}

func TestBlockedSlotCountIgnoresOutOfRangeSlots(t *testing.T) {
	shape := normalizeWeekShape(&dto.ScheduleConfig{DaysPerWeek: dto.Int(2), HoursPerDay: dto.Int(2)})
	policy := availabilityPolicy{
		GlobalBlocked: map[slotKey]struct{}{
			{Day: 9, Hour: 0}: {},
			{Day: 0, Hour: 9}: {},
			{Day: 1, Hour: 1}: {},
		},
		ByTeacher: map[string]map[slotKey]struct{}{},
	}
	assert.Equal(t, 1, blockedSlotCount(shape, policy, "t1"))
}

func TestTeacherEffectiveCapacityNeverNegative(t *testing.T) {
	shape := normalizeWeekShape(&dto.ScheduleConfig{DaysPerWeek: dto.Int(1), HoursPerDay: dto.Int(1)})
	policy := availabilityPolicy{
		GlobalBlocked: map[slotKey]struct{}{{Day: 0, Hour: 0}: {}},
		ByTeacher:     map[string]map[slotKey]struct{}{},
	}
	assert.Equal(t, 0, teacherEffectiveCapacity(shape, policy, "t1"))
}

func TestClassCapacityUsesOverrideDays(t *testing.T) {
	shape := normalizeWeekShape(&dto.ScheduleConfig{
		DaysPerWeek: dto.Int(6),
		HoursPerDay: dto.Int(6),
		BreakHours:  []dto.OptionalInt{dto.Int(0)},
	})
	cls := classModel{EffectiveDays: 4}
	assert.Equal(t, 20, classCapacity(shape, cls))
}
