package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// allDayResolver grants availability every day of the week.
func allDayResolver(employeeIDs ...string) *AvailabilityResolver {
	var blocks []model.AvailabilityBlock
	for _, id := range employeeIDs {
		for dow := 0; dow < 7; dow++ {
			blocks = append(blocks, model.AvailabilityBlock{
				EmployeeID: id, DayOfWeek: dow, StartMin: 0, EndMin: minutesPerDay,
				Kind: model.BlockAvailable,
			})
		}
	}
	return NewAvailabilityResolver(blocks, nil, nil)
}

func instOn(d time.Time, label string, startMin, endMin int) model.ShiftInstance {
	return model.ShiftInstance{
		ID:        InstanceKey(d, label, startMin, endMin),
		Date:      d,
		DayOfWeek: int(d.Weekday()),
		Label:     label,
		StartMin:  startMin,
		EndMin:    endMin,
	}
}

func TestCheckEligibility_Eligible(t *testing.T) {
	resolver := allDayResolver("e1")
	st := newEmployeeRunState("e1")

	ok, reason := CheckEligibility(resolver, st, instOn(date(2026, 3, 2), "AM", 8*60, 14*60))
	assert.True(t, ok)
	assert.Equal(t, ReasonNone, reason)
}

func TestCheckEligibility_AvailabilityBlocked(t *testing.T) {
	resolver := NewAvailabilityResolver(nil, nil, nil)
	st := newEmployeeRunState("e1")

	ok, reason := CheckEligibility(resolver, st, instOn(date(2026, 3, 2), "AM", 8*60, 14*60))
	assert.False(t, ok)
	assert.Equal(t, ReasonAvailabilityBlocked, reason)
}

func TestCheckEligibility_ShiftTooLong(t *testing.T) {
	resolver := allDayResolver("e1")
	st := newEmployeeRunState("e1")

	// 11 hours exceeds the 10 hour cap
	ok, reason := CheckEligibility(resolver, st, instOn(date(2026, 3, 2), "Long", 8*60, 19*60))
	assert.False(t, ok)
	assert.Equal(t, ReasonShiftTooLong, reason)

	// Exactly 10 hours is allowed
	ok, _ = CheckEligibility(resolver, st, instOn(date(2026, 3, 2), "Max", 8*60, 18*60))
	assert.True(t, ok)
}

func TestCheckEligibility_OverlappingAssignment(t *testing.T) {
	resolver := allDayResolver("e1")
	st := newEmployeeRunState("e1")
	st.Add(instOn(date(2026, 3, 2), "AM", 8*60, 14*60))

	ok, reason := CheckEligibility(resolver, st, instOn(date(2026, 3, 2), "Mid", 12*60, 18*60))
	assert.False(t, ok)
	assert.Equal(t, ReasonOverlappingAssignment, reason)
}

func TestCheckEligibility_OverlapAcrossMidnight(t *testing.T) {
	resolver := allDayResolver("e1")
	st := newEmployeeRunState("e1")
	st.Add(instOn(date(2026, 3, 2), "Night", 22*60, 2*60))

	// The next day's early shift starts inside the overnight window
	ok, reason := CheckEligibility(resolver, st, instOn(date(2026, 3, 3), "Early", 60, 5*60))
	assert.False(t, ok)
	assert.Equal(t, ReasonOverlappingAssignment, reason)
}

func TestCheckEligibility_InsufficientRest(t *testing.T) {
	resolver := allDayResolver("e1")
	st := newEmployeeRunState("e1")
	st.Add(instOn(date(2026, 3, 2), "PM Close", 14*60, 22*60))

	// 22:00 to 08:00 is a 10 hour gap, under the 12 hour floor
	ok, reason := CheckEligibility(resolver, st, instOn(date(2026, 3, 3), "AM Open", 8*60, 14*60))
	assert.False(t, ok)
	assert.Equal(t, ReasonInsufficientRest, reason)

	// 22:00 to 10:00 is exactly 12 hours, which passes
	ok, _ = CheckEligibility(resolver, st, instOn(date(2026, 3, 3), "Late AM", 10*60, 14*60))
	assert.True(t, ok)
}

func TestCheckEligibility_MaxConsecutiveDays(t *testing.T) {
	resolver := allDayResolver("e1")
	st := newEmployeeRunState("e1")

	// Worked Monday through Saturday (six days)
	for d := 2; d <= 7; d++ {
		st.Add(instOn(date(2026, 3, d), "AM", 8*60, 14*60))
	}

	// A seventh consecutive day breaks the cap
	ok, reason := CheckEligibility(resolver, st, instOn(date(2026, 3, 8), "AM", 8*60, 14*60))
	assert.False(t, ok)
	assert.Equal(t, ReasonMaxConsecutiveDays, reason)

	// A day after a rest day is fine
	ok, _ = CheckEligibility(resolver, st, instOn(date(2026, 3, 9), "AM", 8*60, 14*60))
	assert.True(t, ok)
}

func TestCheckEligibility_FillingAGapExtendsTheRun(t *testing.T) {
	resolver := allDayResolver("e1")
	st := newEmployeeRunState("e1")

	// Worked the 2nd-4th and the 6th-8th with a gap on the 5th
	for _, d := range []int{2, 3, 4, 6, 7, 8} {
		st.Add(instOn(date(2026, 3, d), "AM", 8*60, 14*60))
	}

	// Filling the gap would create a seven day run
	ok, reason := CheckEligibility(resolver, st, instOn(date(2026, 3, 5), "AM", 8*60, 14*60))
	assert.False(t, ok)
	assert.Equal(t, ReasonMaxConsecutiveDays, reason)
}

func TestCheckEligibility_PrecedenceOrder(t *testing.T) {
	// An unavailable employee with an overlapping assignment reports the
	// availability reason: checks run in fixed order and the first wins.
	resolver := NewAvailabilityResolver(nil, nil, nil)
	st := newEmployeeRunState("e1")
	st.Add(instOn(date(2026, 3, 2), "AM", 8*60, 14*60))

	ok, reason := CheckEligibility(resolver, st, instOn(date(2026, 3, 2), "Mid", 12*60, 18*60))
	assert.False(t, ok)
	assert.Equal(t, ReasonAvailabilityBlocked, reason)
}

func TestRunState_AddRemove(t *testing.T) {
	st := newEmployeeRunState("e1")
	inst := instOn(date(2026, 3, 2), "AM", 8*60, 14*60)

	st.Add(inst)
	assert.Equal(t, 6*60, st.MinutesAssigned)
	assert.True(t, st.Holds(inst.ID))

	st.Remove(inst)
	assert.Equal(t, 0, st.MinutesAssigned)
	assert.False(t, st.Holds(inst.ID))
	assert.Empty(t, st.workedDays)
}

func TestRunState_RemoveKeepsSharedDays(t *testing.T) {
	st := newEmployeeRunState("e1")
	am := instOn(date(2026, 3, 2), "AM", 8*60, 12*60)
	pm := instOn(date(2026, 3, 2), "PM", 14*60, 18*60)

	st.Add(am)
	st.Add(pm)
	st.Remove(am)

	// The day is still worked through the PM shift
	assert.Equal(t, 1, st.workedDays[dayNumber(date(2026, 3, 2))])
}
