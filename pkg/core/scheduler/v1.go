package scheduler

import (
	"sort"
	"time"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// v1Generator is the legacy generation strategy kept behind the same
// interface: availability filtering plus a one-shift-per-day rule, fairness
// ordering by least assigned minutes, no scoring and no repair pass.
type v1Generator struct{}

func (g *v1Generator) Generate(data RosterData, monthStart, monthEnd time.Time) (*Result, error) {
	instances, err := ExpandTemplates(data.Templates, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	resolver := NewAvailabilityResolver(data.Availability, data.Unavailability, data.DateRanges)
	states := NewRunState(data.Employees)
	recorder := NewRecorder()
	employees := sortedEmployees(data.Employees)

	assignedDays := make(map[string]map[int64]bool, len(employees))
	for _, emp := range employees {
		assignedDays[emp.ID] = make(map[int64]bool)
	}

	coverage := make([]InstanceCoverage, 0, len(instances))
	var assignments []model.Assignment

	for _, inst := range instances {
		day := dayNumber(inst.Date)
		rejections := make(map[RejectionReason]int)
		var eligible []string

		for _, emp := range employees {
			st := states[emp.ID]
			reason := ReasonNone
			switch {
			case assignedDays[emp.ID][day]:
				reason = ReasonAlreadyAssignedThatDay
			default:
				if v := resolver.Resolve(emp.ID, inst); v == VerdictBlocked || v == VerdictNotSpecified {
					reason = ReasonAvailabilityBlocked
				}
			}

			if reason != ReasonNone {
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

			eligible = append(eligible, emp.ID)
			recorder.Record(CandidateRecord{
				InstanceID:   inst.ID,
				EmployeeID:   emp.ID,
				Eligible:     true,
				MinutesSoFar: st.MinutesAssigned,
			})
		}

		// Fairness: least assigned minutes first, employee ID as tie-break.
		sort.Slice(eligible, func(i, j int) bool {
			mi, mj := states[eligible[i]].MinutesAssigned, states[eligible[j]].MinutesAssigned
			if mi != mj {
				return mi < mj
			}
			return eligible[i] < eligible[j]
		})

		need := inst.RequiredCount
		picked := eligible
		if len(picked) > need {
			picked = picked[:need]
		}

		assignedIDs := make([]string, 0, len(picked))
		for _, id := range picked {
			states[id].Add(inst)
			assignedDays[id][day] = true
			assignments = append(assignments, model.Assignment{
				InstanceID: inst.ID,
				EmployeeID: id,
			})
			assignedIDs = append(assignedIDs, id)
			recorder.SetSelected(inst.ID, id, true, 0, nil)
		}

		coverage = append(coverage, InstanceCoverage{
			Instance:         inst,
			ScheduledCount:   len(picked),
			MissingCount:     need - len(picked),
			CandidateCount:   len(eligible),
			AssignedIDs:      assignedIDs,
			RejectionSummary: rejections,
		})
	}

	return &Result{
		Instances:   instances,
		Assignments: assignments,
		Coverage:    coverage,
		Audit:       recorder.All(),
	}, nil
}
