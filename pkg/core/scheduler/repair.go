package scheduler

import (
	"math"
	"sort"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

type repairInput struct {
	employees []model.Employee
	instances []model.ShiftInstance
	states    RunState
	recorder  *Recorder
	resolver  *AvailabilityResolver
	coverage  []InstanceCoverage
	scoreCtx  ScoreContext
}

// repair is the bounded local-improvement pass. For every employee whose
// final hours fall short of their weekly target, it looks for one swap: a
// shift the employee was eligible for but not selected on, currently held by
// an employee over their own target. The first improving swap per shortfall
// employee is applied greedily; hard constraints are re-checked against
// current state before any swap, so the pass can only preserve compliance.
// It is best-effort and may fix none, some, or all shortfalls.
func (g *v2Generator) repair(in repairInput) {
	targetMinutes := make(map[string]int)
	byID := make(map[string]model.Employee, len(in.employees))
	for _, emp := range in.employees {
		byID[emp.ID] = emp
		if target, ok := hourTargetFor(emp); ok {
			targetMinutes[emp.ID] = int(target * in.scoreCtx.WeeksInRange * 60)
		}
	}

	type shortfall struct {
		employeeID string
		deficit    int
	}
	var shortfalls []shortfall
	for id, target := range targetMinutes {
		if assigned := in.states[id].MinutesAssigned; assigned < target {
			shortfalls = append(shortfalls, shortfall{employeeID: id, deficit: target - assigned})
		}
	}
	sort.Slice(shortfalls, func(i, j int) bool {
		if shortfalls[i].deficit != shortfalls[j].deficit {
			return shortfalls[i].deficit > shortfalls[j].deficit
		}
		return shortfalls[i].employeeID < shortfalls[j].employeeID
	})

	instIdx := make(map[string]int, len(in.instances))
	for i, inst := range in.instances {
		instIdx[inst.ID] = i
	}

	for _, sf := range shortfalls {
		taker := in.states[sf.employeeID]

		for _, inst := range in.instances {
			rec, ok := in.recorder.Get(inst.ID, sf.employeeID)
			if !ok || !rec.Eligible || rec.Selected {
				continue
			}

			donorID, ok := g.findDonor(in, inst, targetMinutes, sf.employeeID)
			if !ok {
				continue
			}

			// Re-validate against current state: the forward pass verdict may
			// be stale after later assignments.
			if ok, _ := CheckEligibility(in.resolver, taker, inst); !ok {
				continue
			}
			if !improves(taker.MinutesAssigned, inst.DurationMin(), targetMinutes[sf.employeeID]) {
				continue
			}

			donor := in.states[donorID]
			donor.Remove(inst)
			taker.Add(inst)

			// Re-run the affected audit entries.
			if donorRec, ok := in.recorder.Get(inst.ID, donorID); ok {
				in.recorder.SetSelected(inst.ID, donorID, false, donorRec.Score, nil)
			}
			score, breakdown := ScoreCandidate(in.scoreCtx, byID[sf.employeeID], taker, in.states.TotalMinutes(), inst)
			in.recorder.SetSelected(inst.ID, sf.employeeID, true, score, breakdown)

			if i, ok := instIdx[inst.ID]; ok {
				replaceAssigned(&in.coverage[i], donorID, sf.employeeID)
			}
			break
		}
	}
}

// findDonor picks the current assignee of inst who is furthest over their own
// hour target and would not end up worse off by giving the shift away. Ties
// break by employee ID.
func (g *v2Generator) findDonor(in repairInput, inst model.ShiftInstance, targetMinutes map[string]int, takerID string) (string, bool) {
	bestID := ""
	bestSurplus := 0
	for id, st := range in.states {
		if id == takerID || !st.Holds(inst.ID) {
			continue
		}
		target, hasTarget := targetMinutes[id]
		if !hasTarget {
			continue
		}
		surplus := st.MinutesAssigned - target
		if surplus <= 0 {
			continue
		}
		// Giving the shift away must not push the donor further from target
		// than they already are.
		after := st.MinutesAssigned - inst.DurationMin()
		if distance(after, target) > distance(st.MinutesAssigned, target) {
			continue
		}
		if bestID == "" || surplus > bestSurplus || (surplus == bestSurplus && id < bestID) {
			bestID = id
			bestSurplus = surplus
		}
	}
	return bestID, bestID != ""
}

// improves reports whether adding durationMin brings assigned minutes closer
// to the target.
func improves(assigned, durationMin, target int) bool {
	return distance(assigned+durationMin, target) < distance(assigned, target)
}

func distance(assigned, target int) int {
	return int(math.Abs(float64(assigned - target)))
}

// replaceAssigned swaps one employee ID for another in an instance's coverage
// row. Scheduled and missing counts are unchanged: repair only exchanges who
// holds a slot, never how many slots are filled.
func replaceAssigned(cov *InstanceCoverage, oldID, newID string) {
	for i, id := range cov.AssignedIDs {
		if id == oldID {
			cov.AssignedIDs[i] = newID
			return
		}
	}
}
