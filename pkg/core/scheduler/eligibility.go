package scheduler

import (
	"github.com/lcmartin/studioshift/pkg/core/model"
)

// Hard-constraint limits. These are operational rules, not tunables;
// the scoring weights live in configuration instead.
const (
	MaxShiftLengthMin  = 10 * 60
	MinRestMin         = 12 * 60
	MaxConsecutiveDays = 6
)

// RejectionReason explains why an employee was ineligible for a shift.
type RejectionReason string

const (
	ReasonNone                  RejectionReason = ""
	ReasonAvailabilityBlocked   RejectionReason = "availability_blocked"
	ReasonShiftTooLong          RejectionReason = "shift_too_long"
	ReasonOverlappingAssignment RejectionReason = "overlapping_assignment"
	ReasonInsufficientRest      RejectionReason = "insufficient_rest"
	ReasonMaxConsecutiveDays    RejectionReason = "max_consecutive_days"

	// Legacy reason used only by the v1 generator's one-shift-per-day rule.
	ReasonAlreadyAssignedThatDay RejectionReason = "already_assigned_that_day"
)

// CheckEligibility applies the hard constraints for assigning inst to the
// employee whose current run state is st. Constraints are evaluated in a fixed
// precedence order and the first violation wins, so audit records stay
// comparable across runs.
func CheckEligibility(resolver *AvailabilityResolver, st *EmployeeRunState, inst model.ShiftInstance) (bool, RejectionReason) {
	verdict := resolver.Resolve(st.EmployeeID, inst)
	if verdict == VerdictBlocked || verdict == VerdictNotSpecified {
		return false, ReasonAvailabilityBlocked
	}

	if inst.DurationMin() > MaxShiftLengthMin {
		return false, ReasonShiftTooLong
	}

	w := instanceWindow(inst)
	if st.overlapsAny(w) {
		return false, ReasonOverlappingAssignment
	}

	if gap, any := st.minRestGap(w); any && gap < MinRestMin {
		return false, ReasonInsufficientRest
	}

	if st.consecutiveDaysIfAdded(inst) > MaxConsecutiveDays {
		return false, ReasonMaxConsecutiveDays
	}

	return true, ReasonNone
}
