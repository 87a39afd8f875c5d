package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// fullWeekAvailability grants every listed employee full coverage all week.
func fullWeekAvailability(employeeIDs ...string) []model.AvailabilityBlock {
	var blocks []model.AvailabilityBlock
	for _, id := range employeeIDs {
		for dow := 0; dow < 7; dow++ {
			blocks = append(blocks, model.AvailabilityBlock{
				EmployeeID: id, DayOfWeek: dow, StartMin: 0, EndMin: minutesPerDay,
				Kind: model.BlockAvailable,
			})
		}
	}
	return blocks
}

func saturdayTemplate(required int) model.ShiftTemplate {
	return model.ShiftTemplate{
		ID: "t-sat", StudioID: "s1", Label: "Mid",
		Weekdays: []int{6}, StartMin: 10 * 60, EndMin: 16 * 60,
		RequiredCount: required, Active: true,
	}
}

func TestV2Generate_WeekendPreferenceDrivesSelection(t *testing.T) {
	data := RosterData{
		Employees: []model.Employee{
			{ID: "e1", WeekendPreference: model.PreferSaturday},
			{ID: "e2"},
		},
		Availability: fullWeekAvailability("e1", "e2"),
		Templates:    []model.ShiftTemplate{saturdayTemplate(1)},
	}

	gen := &v2Generator{weights: DefaultWeights()}
	result, err := gen.Generate(data, date(2026, 3, 7), date(2026, 3, 7))
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	assert.Equal(t, "e1", result.Assignments[0].EmployeeID)
}

func TestV2Generate_RequiredCountBoundsAssignments(t *testing.T) {
	data := RosterData{
		Employees: []model.Employee{
			{ID: "e1"}, {ID: "e2"}, {ID: "e3"},
		},
		Availability: fullWeekAvailability("e1", "e2", "e3"),
		Templates:    []model.ShiftTemplate{saturdayTemplate(2)},
	}

	gen := &v2Generator{weights: DefaultWeights()}
	result, err := gen.Generate(data, date(2026, 3, 7), date(2026, 3, 7))
	require.NoError(t, err)

	assert.Len(t, result.Assignments, 2)
	require.Len(t, result.Coverage, 1)
	cov := result.Coverage[0]
	assert.Equal(t, 2, cov.ScheduledCount)
	assert.Equal(t, 0, cov.MissingCount)
	assert.Equal(t, 3, cov.CandidateCount)
}

func TestV2Generate_GapRecordedWhenNobodyAvailable(t *testing.T) {
	data := RosterData{
		Employees: []model.Employee{{ID: "e1"}, {ID: "e2"}},
		// No availability submitted at all
		Templates: []model.ShiftTemplate{saturdayTemplate(2)},
	}

	gen := &v2Generator{weights: DefaultWeights()}
	result, err := gen.Generate(data, date(2026, 3, 7), date(2026, 3, 7))
	require.NoError(t, err)

	assert.Empty(t, result.Assignments)
	require.Len(t, result.Coverage, 1)
	cov := result.Coverage[0]
	assert.Equal(t, 0, cov.ScheduledCount)
	assert.Equal(t, 2, cov.MissingCount)
	assert.Equal(t, 0, cov.CandidateCount)
	assert.Equal(t, 2, cov.RejectionSummary[ReasonAvailabilityBlocked])
}

func TestV2Generate_TieBreaksByRunningMinutesThenID(t *testing.T) {
	// Two identical employees, two shifts on separate days. After e1 gets the
	// first shift, e2's lower running minutes lifts their fairness factor for
	// the second.
	data := RosterData{
		Employees:    []model.Employee{{ID: "e1"}, {ID: "e2"}},
		Availability: fullWeekAvailability("e1", "e2"),
		Templates: []model.ShiftTemplate{{
			ID: "t-daily", StudioID: "s1", Label: "Mid",
			Weekdays: []int{1, 3}, StartMin: 10 * 60, EndMin: 16 * 60,
			RequiredCount: 1, Active: true,
		}},
	}

	gen := &v2Generator{weights: DefaultWeights()}
	result, err := gen.Generate(data, date(2026, 3, 2), date(2026, 3, 6))
	require.NoError(t, err)

	require.Len(t, result.Assignments, 2)
	assert.Equal(t, "e1", result.Assignments[0].EmployeeID)
	assert.Equal(t, "e2", result.Assignments[1].EmployeeID)
}

func TestV2Generate_AuditCoversEveryPair(t *testing.T) {
	data := RosterData{
		Employees:    []model.Employee{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}},
		Availability: fullWeekAvailability("e1", "e2"),
		Templates: []model.ShiftTemplate{{
			ID: "t-daily", StudioID: "s1", Label: "Mid",
			Weekdays: []int{0, 1, 2, 3, 4, 5, 6}, StartMin: 10 * 60, EndMin: 16 * 60,
			RequiredCount: 1, Active: true,
		}},
	}

	gen := &v2Generator{weights: DefaultWeights()}
	result, err := gen.Generate(data, date(2026, 3, 1), date(2026, 3, 7))
	require.NoError(t, err)

	require.Len(t, result.Instances, 7)
	assert.Len(t, result.Audit, 7*3)

	// e3 never submitted availability and must be rejected everywhere
	for _, rec := range result.Audit {
		if rec.EmployeeID == "e3" {
			assert.False(t, rec.Eligible)
			assert.Equal(t, ReasonAvailabilityBlocked, rec.RejectionReason)
			assert.False(t, rec.Selected)
		}
	}
}

func TestV2Generate_SelectedRecordsCarryBreakdown(t *testing.T) {
	data := RosterData{
		Employees:    []model.Employee{{ID: "e1", EmploymentType: model.FullTime}},
		Availability: fullWeekAvailability("e1"),
		Templates:    []model.ShiftTemplate{saturdayTemplate(1)},
	}

	gen := &v2Generator{weights: DefaultWeights()}
	result, err := gen.Generate(data, date(2026, 3, 7), date(2026, 3, 7))
	require.NoError(t, err)

	require.Len(t, result.Audit, 1)
	rec := result.Audit[0]
	assert.True(t, rec.Eligible)
	assert.True(t, rec.Selected)
	assert.NotEmpty(t, rec.ScoreBreakdown)
}

func TestV2Generate_Deterministic(t *testing.T) {
	hours := 16.0
	data := RosterData{
		Employees: []model.Employee{
			{ID: "e3", EmploymentType: model.FullTime, WeekendPreference: model.PreferSunday},
			{ID: "e1", EmploymentType: model.PartTime, IdealHoursWeekly: &hours},
			{ID: "e2", WeekendPreference: model.PreferSaturday},
		},
		Availability: fullWeekAvailability("e1", "e2", "e3"),
		Templates: []model.ShiftTemplate{
			{ID: "t1", StudioID: "s1", Label: "AM Open", Weekdays: []int{0, 1, 2, 3, 4, 5, 6}, StartMin: 8 * 60, EndMin: 14 * 60, RequiredCount: 1, Active: true},
			{ID: "t2", StudioID: "s1", Label: "PM Close", Weekdays: []int{0, 1, 2, 3, 4, 5, 6}, StartMin: 14 * 60, EndMin: 20 * 60, RequiredCount: 1, Active: true},
		},
	}

	gen := &v2Generator{weights: DefaultWeights()}
	first, err := gen.Generate(data, date(2026, 3, 1), date(2026, 3, 28))
	require.NoError(t, err)
	second, err := gen.Generate(data, date(2026, 3, 1), date(2026, 3, 28))
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Coverage, second.Coverage)
	assert.Equal(t, first.Audit, second.Audit)
}
