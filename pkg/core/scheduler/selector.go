package scheduler

import (
	"sort"
	"time"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// v2Generator is the enhanced generation strategy: hard-constraint filtering,
// weighted soft-constraint scoring, and a post-pass repair step for hour
// targets.
type v2Generator struct {
	weights Weights
}

type scoredCandidate struct {
	employee  model.Employee
	score     float64
	breakdown map[string]float64
	minutes   int
}

// Generate runs the forward selection pass followed by the repair pass.
//
// Instances are processed in chronological order (date, then start time, then
// label). The ordering is load-bearing: it decides which employees consume
// their rest and consecutive-day budgets first, so it must stay fixed for
// reproducible runs.
func (g *v2Generator) Generate(data RosterData, monthStart, monthEnd time.Time) (*Result, error) {
	instances, err := ExpandTemplates(data.Templates, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	resolver := NewAvailabilityResolver(data.Availability, data.Unavailability, data.DateRanges)
	states := NewRunState(data.Employees)
	recorder := NewRecorder()

	employees := sortedEmployees(data.Employees)
	scoreCtx := ScoreContext{
		Weights:      g.weights,
		WeeksInRange: weeksIn(monthStart, monthEnd),
		RosterSize:   len(employees),
	}

	coverage := make([]InstanceCoverage, 0, len(instances))
	var assignments []model.Assignment

	for _, inst := range instances {
		totalMinutes := states.TotalMinutes()
		rejections := make(map[RejectionReason]int)
		var candidates []scoredCandidate

		for _, emp := range employees {
			st := states[emp.ID]
			ok, reason := CheckEligibility(resolver, st, inst)
			if !ok {
				rejections[reason]++
				recorder.Record(CandidateRecord{
					InstanceID:      inst.ID,
					EmployeeID:      emp.ID,
					Eligible:        false,
					RejectionReason: reason,
					MinutesSoFar:    st.MinutesAssigned,
				})
				continue
			}

			score, breakdown := ScoreCandidate(scoreCtx, emp, st, totalMinutes, inst)
			candidates = append(candidates, scoredCandidate{
				employee:  emp,
				score:     score,
				breakdown: breakdown,
				minutes:   st.MinutesAssigned,
			})
			recorder.Record(CandidateRecord{
				InstanceID:     inst.ID,
				EmployeeID:     emp.ID,
				Eligible:       true,
				Score:          score,
				MinutesSoFar:   st.MinutesAssigned,
				ScoreBreakdown: breakdown,
			})
		}

		sortCandidates(candidates)

		need := inst.RequiredCount
		picked := candidates
		if len(picked) > need {
			picked = picked[:need]
		}

		assignedIDs := make([]string, 0, len(picked))
		for _, c := range picked {
			states[c.employee.ID].Add(inst)
			assignments = append(assignments, model.Assignment{
				InstanceID: inst.ID,
				EmployeeID: c.employee.ID,
			})
			assignedIDs = append(assignedIDs, c.employee.ID)
			recorder.SetSelected(inst.ID, c.employee.ID, true, c.score, c.breakdown)
		}

		coverage = append(coverage, InstanceCoverage{
			Instance:         inst,
			ScheduledCount:   len(picked),
			MissingCount:     need - len(picked),
			CandidateCount:   len(candidates),
			AssignedIDs:      assignedIDs,
			RejectionSummary: rejections,
		})
	}

	g.repair(repairInput{
		employees: employees,
		instances: instances,
		states:    states,
		recorder:  recorder,
		resolver:  resolver,
		coverage:  coverage,
		scoreCtx:  scoreCtx,
	})

	// Rebuild the assignment list from final state so repair swaps are
	// reflected without bookkeeping inside the swap loop.
	assignments = assignmentsFromState(instances, states, employees)

	return &Result{
		Instances:   instances,
		Assignments: assignments,
		Coverage:    coverage,
		Audit:       recorder.All(),
	}, nil
}

// sortCandidates orders by score descending, breaking ties by lower running
// minutes and then by employee ID so selection is deterministic.
func sortCandidates(candidates []scoredCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].minutes != candidates[j].minutes {
			return candidates[i].minutes < candidates[j].minutes
		}
		return candidates[i].employee.ID < candidates[j].employee.ID
	})
}

func sortedEmployees(employees []model.Employee) []model.Employee {
	sorted := make([]model.Employee, len(employees))
	copy(sorted, employees)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return sorted
}

// assignmentsFromState lists every held (instance, employee) pair, ordered by
// instance position then employee ID.
func assignmentsFromState(instances []model.ShiftInstance, states RunState, employees []model.Employee) []model.Assignment {
	var assignments []model.Assignment
	for _, inst := range instances {
		for _, emp := range employees {
			if states[emp.ID].Holds(inst.ID) {
				assignments = append(assignments, model.Assignment{
					InstanceID: inst.ID,
					EmployeeID: emp.ID,
				})
			}
		}
	}
	return assignments
}
