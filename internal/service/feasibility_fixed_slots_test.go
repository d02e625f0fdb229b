package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
)

func fixedSlotInput(classID, comboID string, day, hour int) dto.FixedSlotInput {
	return dto.FixedSlotInput{
		ClassID: dto.FlexID(classID),
		ComboID: dto.FlexID(comboID),
		Day:     dto.Int(day),
		Hour:    dto.Int(hour),
	}
}

func fixedSlotModelFor(req dto.AnalyzeTimetableRequest) (*analysisModel, *reportBuilder) {
	return buildModel(req), &reportBuilder{}
}

func TestCheckFixedSlotsMissingReferences(t *testing.T) {
	m, rb := fixedSlotModelFor(dto.AnalyzeTimetableRequest{
		FixedSlots: []dto.FixedSlotInput{
			{Day: dto.Int(0), Hour: dto.Int(0)},
		},
	})
	checkFixedSlots(m, rb)

	require.Len(t, rb.warnings, 1)
	assert.Equal(t, dto.WarnFixedSlotInvalid, rb.warnings[0].Type)
	assert.Equal(t, dto.SeverityWarning, rb.warnings[0].Severity)
	assert.Contains(t, rb.warnings[0].Message, "#1")
}

func TestCheckFixedSlotsOutOfRange(t *testing.T) {
	m, rb := fixedSlotModelFor(dto.AnalyzeTimetableRequest{
		Combos: []dto.ComboInput{comboInput("cb1", "math", "A")},
		FixedSlots: []dto.FixedSlotInput{
			fixedSlotInput("c1", "cb1", 6, 0),
			fixedSlotInput("c1", "cb1", 0, 8),
			{ClassID: dto.FlexID("c1"), ComboID: dto.FlexID("cb1")},
		},
	})
	checkFixedSlots(m, rb)

	require.Len(t, rb.warnings, 3)
	for _, w := range rb.warnings {
		assert.Equal(t, dto.WarnFixedSlotOutOfRange, w.Type)
	}
}

func TestCheckFixedSlotsOnBreakStillOccupiesSlot(t *testing.T) {
	m, rb := fixedSlotModelFor(dto.AnalyzeTimetableRequest{
		Combos: []dto.ComboInput{
			comboInput("cb1", "math", "A"),
			comboInput("cb2", "math", "B"),
		},
		FixedSlots: []dto.FixedSlotInput{
			fixedSlotInput("c1", "cb1", 0, 2),
			fixedSlotInput("c1", "cb2", 0, 2),
		},
		Config: dto.ConstraintConfig{
			Schedule: &dto.ScheduleConfig{BreakHours: []dto.OptionalInt{dto.Int(2)}},
		},
	})
	checkFixedSlots(m, rb)

	// Both land on the break hour, and the second still collides with the first.
	require.Len(t, rb.warnings, 3)
	assert.Equal(t, dto.WarnFixedSlotOnBreak, rb.warnings[0].Type)
	assert.Equal(t, dto.WarnFixedSlotOnBreak, rb.warnings[1].Type)
	assert.Equal(t, dto.WarnFixedSlotClassConflict, rb.warnings[2].Type)
	assert.Equal(t, 1, rb.errors)
}

func TestCheckFixedSlotsClassConflict(t *testing.T) {
	m, rb := fixedSlotModelFor(dto.AnalyzeTimetableRequest{
		Combos: []dto.ComboInput{
			comboInput("cb1", "math", "A"),
			comboInput("cb2", "sci", "B"),
		},
		FixedSlots: []dto.FixedSlotInput{
			fixedSlotInput("c1", "cb1", 1, 3),
			fixedSlotInput("c1", "cb2", 1, 3),
		},
	})
	checkFixedSlots(m, rb)

	require.Equal(t, 1, rb.errors)
	assert.Equal(t, dto.WarnFixedSlotClassConflict, rb.warnings[0].Type)
	assert.Contains(t, rb.warnings[0].Message, `"cb1"`)
	assert.Contains(t, rb.warnings[0].Message, `"cb2"`)
}

func TestCheckFixedSlotsRepeatedPinIsNotAConflict(t *testing.T) {
	m, rb := fixedSlotModelFor(dto.AnalyzeTimetableRequest{
		Combos: []dto.ComboInput{comboInput("cb1", "math", "A")},
		FixedSlots: []dto.FixedSlotInput{
			fixedSlotInput("c1", "cb1", 1, 3),
			fixedSlotInput("c1", "cb1", 1, 3),
		},
	})
	checkFixedSlots(m, rb)

	assert.Empty(t, rb.warnings)
}

func TestCheckFixedSlotsUnknownCombo(t *testing.T) {
	m, rb := fixedSlotModelFor(dto.AnalyzeTimetableRequest{
		FixedSlots: []dto.FixedSlotInput{fixedSlotInput("c1", "ghost", 0, 0)},
	})
	checkFixedSlots(m, rb)

	require.Len(t, rb.warnings, 1)
	assert.Equal(t, dto.WarnFixedSlotUnknownCombo, rb.warnings[0].Type)
	assert.Zero(t, rb.errors)
}

func TestCheckFixedSlotsClassComboMismatch(t *testing.T) {
	cb := comboInput("cb1", "math", "A")
	cb.ClassIDs = []dto.FlexID{dto.FlexID("other")}

	m, rb := fixedSlotModelFor(dto.AnalyzeTimetableRequest{
		Combos:     []dto.ComboInput{cb},
		FixedSlots: []dto.FixedSlotInput{fixedSlotInput("c1", "cb1", 0, 0)},
	})
	checkFixedSlots(m, rb)

	require.Len(t, rb.warnings, 1)
	assert.Equal(t, dto.WarnFixedSlotClassComboMismatch, rb.warnings[0].Type)
	assert.Equal(t, dto.SeverityWarning, rb.warnings[0].Severity)
}

func TestCheckFixedSlotsTeacherConflictAcrossClasses(t *testing.T) {
	m, rb := fixedSlotModelFor(dto.AnalyzeTimetableRequest{
		Faculties: []dto.FacultyInput{teacherInput("A", "Alice")},
		Combos: []dto.ComboInput{
			comboInput("cb1", "math", "A"),
			comboInput("cb2", "sci", "A"),
		},
		FixedSlots: []dto.FixedSlotInput{
			fixedSlotInput("c1", "cb1", 2, 4),
			fixedSlotInput("c2", "cb2", 2, 4),
		},
	})
	checkFixedSlots(m, rb)

	require.Equal(t, 1, rb.errors)
	assert.Equal(t, dto.WarnFixedSlotTeacherConflict, rb.warnings[0].Type)
	assert.Contains(t, rb.warnings[0].Message, `"Alice"`)
}

func TestCheckFixedSlotsSameComboTwoClassesSameSlot(t *testing.T) {
	// The same combo pinned for two classes at one slot is caught on the
	// teacher axis only when a different combo claims the slot; the combo
	// occupying two classes at once is allowed through here.
	m, rb := fixedSlotModelFor(dto.AnalyzeTimetableRequest{
		Combos: []dto.ComboInput{comboInput("cb1", "math", "A")},
		FixedSlots: []dto.FixedSlotInput{
			fixedSlotInput("c1", "cb1", 2, 4),
			fixedSlotInput("c2", "cb1", 2, 4),
		},
	})
	checkFixedSlots(m, rb)

	assert.Empty(t, rb.warnings)
}
