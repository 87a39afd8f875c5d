package scheduler

import (
	"sort"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// Verdict is the resolver's tri-state answer for one (employee, instance) pair.
type Verdict int

const (
	// VerdictBlocked means PTO, time off, or an explicit unavailability block
	// overlaps the instance window.
	VerdictBlocked Verdict = iota
	// VerdictNotSpecified means no availability block covers the window.
	// Treated the same as blocked: omission means the employee did not
	// volunteer that time.
	VerdictNotSpecified
	VerdictAvailable
	VerdictPreferred
)

func (v Verdict) String() string {
	switch v {
	case VerdictBlocked:
		return "blocked"
	case VerdictNotSpecified:
		return "not_specified"
	case VerdictAvailable:
		return "available"
	case VerdictPreferred:
		return "preferred"
	}
	return "unknown"
}

// AvailabilityResolver answers availability verdicts from pre-indexed weekly
// blocks and date-range blocks. Build once per run; Resolve is pure and safe
// for concurrent use.
type AvailabilityResolver struct {
	// Merged, sorted coverage spans per employee per weekday. coverage holds
	// the union of available and preferred blocks; preferred holds preferred
	// blocks only.
	coverage  map[string]map[int][]span
	preferred map[string]map[int][]span
	unavail   map[string]map[int][]span
	// Absolute blocked windows from PTO and time-off ranges.
	ranges map[string][]window
}

func NewAvailabilityResolver(
	avail []model.AvailabilityBlock,
	unavail []model.UnavailabilityBlock,
	dateRanges []model.DateRangeBlock,
) *AvailabilityResolver {
	r := &AvailabilityResolver{
		coverage:  make(map[string]map[int][]span),
		preferred: make(map[string]map[int][]span),
		unavail:   make(map[string]map[int][]span),
		ranges:    make(map[string][]window),
	}

	for _, b := range avail {
		addSpan(r.coverage, b.EmployeeID, b.DayOfWeek, span{b.StartMin, b.EndMin})
		if b.Kind == model.BlockPreferred {
			addSpan(r.preferred, b.EmployeeID, b.DayOfWeek, span{b.StartMin, b.EndMin})
		}
	}
	for _, b := range unavail {
		addSpan(r.unavail, b.EmployeeID, b.DayOfWeek, span{b.StartMin, b.EndMin})
	}
	for _, b := range dateRanges {
		start := dayNumber(b.StartDate) * minutesPerDay
		end := (dayNumber(b.EndDate) + 1) * minutesPerDay // inclusive end date
		r.ranges[b.EmployeeID] = append(r.ranges[b.EmployeeID], window{start, end})
	}

	for _, byDow := range r.coverage {
		for dow := range byDow {
			byDow[dow] = mergeSpans(byDow[dow])
		}
	}
	for _, byDow := range r.preferred {
		for dow := range byDow {
			byDow[dow] = mergeSpans(byDow[dow])
		}
	}

	return r
}

// Resolve computes the verdict for one employee and one shift instance.
// Unavailability and date-range blocks win over any availability block on the
// same window; submission-time conflict checks should prevent most such
// contradictions, but the engine defends against them anyway. Weekly blocks
// are tested against the instance split at midnight; date-range blocks are
// tested against the single absolute window.
func (r *AvailabilityResolver) Resolve(employeeID string, inst model.ShiftInstance) Verdict {
	w := instanceWindow(inst)
	for _, blocked := range r.ranges[employeeID] {
		if w.overlaps(blocked) {
			return VerdictBlocked
		}
	}

	spans := weeklySpans(inst)
	for _, ds := range spans {
		for _, u := range r.unavail[employeeID][ds.dayOfWeek] {
			if ds.span.startMin < u.endMin && u.startMin < ds.span.endMin {
				return VerdictBlocked
			}
		}
	}

	for _, ds := range spans {
		if !covered(r.coverage[employeeID][ds.dayOfWeek], ds.span) {
			return VerdictNotSpecified
		}
	}

	for _, ds := range spans {
		if !covered(r.preferred[employeeID][ds.dayOfWeek], ds.span) {
			return VerdictAvailable
		}
	}
	return VerdictPreferred
}

func addSpan(m map[string]map[int][]span, employeeID string, dow int, s span) {
	byDow, ok := m[employeeID]
	if !ok {
		byDow = make(map[int][]span)
		m[employeeID] = byDow
	}
	byDow[dow] = append(byDow[dow], s)
}

// mergeSpans collapses overlapping and touching spans into a sorted minimal
// set, giving union semantics to overlapping blocks.
func mergeSpans(spans []span) []span {
	if len(spans) <= 1 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].startMin < spans[j].startMin })
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.startMin <= last.endMin {
			if s.endMin > last.endMin {
				last.endMin = s.endMin
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// covered reports whether target is fully contained in the merged span set.
func covered(merged []span, target span) bool {
	for _, s := range merged {
		if s.startMin <= target.startMin && s.endMin >= target.endMin {
			return true
		}
	}
	return false
}
