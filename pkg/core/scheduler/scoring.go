package scheduler

import (
	"math"
	"strings"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// Weights are the soft-constraint weights applied to normalized factor values.
// Each factor is normalized to [0,1] before weighting; penalty factors carry
// negative weights so their contribution subtracts from the score. Values are
// configuration, loaded from the config file with these defaults.
type Weights struct {
	WeekendPreference  float64 `yaml:"weekendPreference"`
	HourTarget         float64 `yaml:"hourTarget"`
	Fairness           float64 `yaml:"fairness"`
	ClopenPenalty      float64 `yaml:"clopenPenalty"`
	ConsecutivePenalty float64 `yaml:"consecutivePenalty"`
}

// DefaultWeights returns the stock weight table. Weekend preference dominates,
// then hour targets, then load balancing; the two penalties are negative.
func DefaultWeights() Weights {
	return Weights{
		WeekendPreference:  3.0,
		HourTarget:         2.0,
		Fairness:           1.5,
		ClopenPenalty:      -1.0,
		ConsecutivePenalty: -0.75,
	}
}

// FullTimeWeeklyHours is the weekly hour floor targeted for full-time
// employees.
const FullTimeWeeklyHours = 30.0

// clopenComfortMin is the rest gap under which a close-then-open pairing is
// penalized even though the hard 12h minimum is met.
const clopenComfortMin = 16 * 60

// Score breakdown factor names, as persisted in the audit details.
const (
	FactorWeekendPreference = "weekend_preference"
	FactorHourTarget        = "hour_target"
	FactorFairness          = "fairness"
	FactorClopen            = "clopen"
	FactorConsecutiveDays   = "consecutive_days"
)

type shiftKind int

const (
	shiftMid shiftKind = iota
	shiftOpen
	shiftClose
)

// shiftType classifies a shift as opening, closing, or mid-day from its label
// pattern, falling back to its time window.
func shiftType(label string, startMin, endMin int) shiftKind {
	upper := strings.ToUpper(label)
	if strings.Contains(upper, "AM") {
		return shiftOpen
	}
	if strings.Contains(upper, "PM") {
		return shiftClose
	}
	if startMin < 6*60 {
		return shiftOpen
	}
	if endMin >= 20*60 {
		return shiftClose
	}
	return shiftMid
}

// ScoreContext carries the run-level inputs scoring needs beyond per-employee
// state: the weight table, the length of the scheduling range in weeks, and a
// live view of the roster for the fairness average.
type ScoreContext struct {
	Weights Weights
	// WeeksInRange converts running month hours into weekly hours.
	WeeksInRange float64
	// RosterSize divides total assigned minutes into the roster average.
	RosterSize int
}

// hourTargetFor returns the employee's weekly hour target, if they have one.
func hourTargetFor(emp model.Employee) (float64, bool) {
	switch emp.EmploymentType {
	case model.FullTime:
		return FullTimeWeeklyHours, true
	case model.PartTime:
		if emp.IdealHoursWeekly != nil {
			return *emp.IdealHoursWeekly, true
		}
	}
	return 0, false
}

// ScoreCandidate computes the weighted soft-constraint score for assigning
// inst to an eligible employee, together with the per-factor breakdown
// (weighted contributions keyed by factor name). Factors that do not apply —
// weekend preference on a weekday, hour target with no target set — are left
// out of the breakdown entirely rather than recorded as zero.
func ScoreCandidate(ctx ScoreContext, emp model.Employee, st *EmployeeRunState, totalRosterMinutes int, inst model.ShiftInstance) (float64, map[string]float64) {
	breakdown := make(map[string]float64)
	score := 0.0
	// Factors are summed in this fixed textual order so identical inputs
	// always produce the bit-identical score.
	add := func(factor string, value float64) {
		breakdown[factor] = value
		score += value
	}

	if isWeekend(inst.DayOfWeek) {
		factor := 0.0
		switch {
		case emp.WeekendPreference == model.PreferEither:
			factor = 1.0
		case emp.WeekendPreference == model.PreferSaturday && isSaturday(inst.DayOfWeek):
			factor = 1.0
		case emp.WeekendPreference == model.PreferSunday && isSunday(inst.DayOfWeek):
			factor = 1.0
		}
		add(FactorWeekendPreference, factor*ctx.Weights.WeekendPreference)
	}

	if target, ok := hourTargetFor(emp); ok && target > 0 && ctx.WeeksInRange > 0 {
		hoursAfter := float64(st.MinutesAssigned+inst.DurationMin()) / 60.0
		weeklyAfter := hoursAfter / ctx.WeeksInRange
		distance := math.Abs(weeklyAfter-target) / target
		factor := 1.0 - math.Min(distance, 1.0)
		add(FactorHourTarget, factor*ctx.Weights.HourTarget)
	}

	add(FactorFairness, fairnessFactor(st.MinutesAssigned, totalRosterMinutes, ctx.RosterSize)*ctx.Weights.Fairness)

	if shiftType(inst.Label, inst.StartMin, inst.EndMin) == shiftOpen {
		if prev, ok := st.closedPreviousDay(inst.Date); ok {
			gap := instanceWindow(inst).gapTo(prev.win)
			if gap < clopenComfortMin {
				add(FactorClopen, 1.0*ctx.Weights.ClopenPenalty)
			}
		}
	}

	if run := st.consecutiveDaysIfAdded(inst); run > 1 {
		factor := math.Min(float64(run-1)/float64(MaxConsecutiveDays-1), 1.0)
		add(FactorConsecutiveDays, factor*ctx.Weights.ConsecutivePenalty)
	}

	return score, breakdown
}

// fairnessFactor scores inversely to the employee's share of assigned hours:
// an employee with no hours scores 1, one at the roster average scores 0.5,
// and one at or beyond twice the average scores 0.
func fairnessFactor(mine, total, rosterSize int) float64 {
	if rosterSize == 0 || total == 0 {
		return 0.5
	}
	avg := float64(total) / float64(rosterSize)
	if avg == 0 {
		return 0.5
	}
	return math.Max(0, math.Min(1, 1.0-float64(mine)/(2*avg)))
}
