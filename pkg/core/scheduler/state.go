package scheduler

import (
	"time"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// assignedShift is one assignment held in run state, with its absolute window
// precomputed for overlap and rest checks.
type assignedShift struct {
	instanceID string
	date       time.Time
	label      string
	startMin   int
	endMin     int
	win        window
	durationM  int
}

// EmployeeRunState tracks one employee's mutable state across a generation
// run: assigned minutes, held windows, and worked calendar days. It is owned
// exclusively by the run that created it and discarded at run end; only the
// selector and the repair pass mutate it.
type EmployeeRunState struct {
	EmployeeID      string
	MinutesAssigned int

	assigned []assignedShift
	// workedDays counts assignments per calendar day (day number), including
	// the spill-over day of cross-midnight shifts.
	workedDays map[int64]int
}

func newEmployeeRunState(employeeID string) *EmployeeRunState {
	return &EmployeeRunState{
		EmployeeID: employeeID,
		workedDays: make(map[int64]int),
	}
}

// Add records an assignment of inst to this employee.
func (s *EmployeeRunState) Add(inst model.ShiftInstance) {
	w := instanceWindow(inst)
	s.assigned = append(s.assigned, assignedShift{
		instanceID: inst.ID,
		date:       inst.Date,
		label:      inst.Label,
		startMin:   inst.StartMin,
		endMin:     inst.EndMin,
		win:        w,
		durationM:  inst.DurationMin(),
	})
	s.MinutesAssigned += inst.DurationMin()
	for _, day := range instanceDays(inst) {
		s.workedDays[day]++
	}
}

// Remove undoes an assignment previously recorded with Add. Used by the
// repair pass when evaluating and applying swaps.
func (s *EmployeeRunState) Remove(inst model.ShiftInstance) {
	for i, a := range s.assigned {
		if a.instanceID == inst.ID {
			s.assigned = append(s.assigned[:i], s.assigned[i+1:]...)
			s.MinutesAssigned -= a.durationM
			for _, day := range instanceDays(inst) {
				if s.workedDays[day] <= 1 {
					delete(s.workedDays, day)
				} else {
					s.workedDays[day]--
				}
			}
			return
		}
	}
}

// Holds reports whether the employee already holds the given instance.
func (s *EmployeeRunState) Holds(instanceID string) bool {
	for _, a := range s.assigned {
		if a.instanceID == instanceID {
			return true
		}
	}
	return false
}

// overlapsAny reports whether w overlaps any held assignment window.
func (s *EmployeeRunState) overlapsAny(w window) bool {
	for _, a := range s.assigned {
		if a.win.overlaps(w) {
			return true
		}
	}
	return false
}

// minRestGap returns the smallest rest gap in minutes between w and any held
// assignment, and whether the employee holds any assignment at all.
func (s *EmployeeRunState) minRestGap(w window) (int64, bool) {
	if len(s.assigned) == 0 {
		return 0, false
	}
	min := int64(-1)
	for _, a := range s.assigned {
		gap := a.win.gapTo(w)
		if min < 0 || gap < min {
			min = gap
		}
	}
	return min, true
}

// consecutiveDaysIfAdded returns the length of the consecutive worked-day run
// that would contain inst's days if it were assigned.
func (s *EmployeeRunState) consecutiveDaysIfAdded(inst model.ShiftInstance) int {
	days := instanceDays(inst)
	worked := func(day int64) bool {
		if s.workedDays[day] > 0 {
			return true
		}
		for _, d := range days {
			if d == day {
				return true
			}
		}
		return false
	}

	count := 1
	for day := days[0] - 1; worked(day); day-- {
		count++
	}
	for day := days[0] + 1; worked(day); day++ {
		count++
	}
	return count
}

// closedPreviousDay returns the latest closing shift the employee worked on
// the calendar day before date, if any.
func (s *EmployeeRunState) closedPreviousDay(date time.Time) (assignedShift, bool) {
	prev := dayNumber(date) - 1
	var best assignedShift
	found := false
	for _, a := range s.assigned {
		if dayNumber(a.date) != prev {
			continue
		}
		if shiftType(a.label, a.startMin, a.endMin) != shiftClose {
			continue
		}
		if !found || a.win.end > best.win.end {
			best = a
			found = true
		}
	}
	return best, found
}

// instanceDays lists the calendar days an instance touches: its own date and,
// for cross-midnight shifts, the following day.
func instanceDays(inst model.ShiftInstance) []int64 {
	day := dayNumber(inst.Date)
	if inst.CrossesMidnight() {
		return []int64{day, day + 1}
	}
	return []int64{day}
}

// RunState holds per-employee state for one generation run.
type RunState map[string]*EmployeeRunState

func NewRunState(employees []model.Employee) RunState {
	rs := make(RunState, len(employees))
	for _, e := range employees {
		rs[e.ID] = newEmployeeRunState(e.ID)
	}
	return rs
}

// TotalMinutes sums assigned minutes across the roster.
func (rs RunState) TotalMinutes() int {
	total := 0
	for _, s := range rs {
		total += s.MinutesAssigned
	}
	return total
}
