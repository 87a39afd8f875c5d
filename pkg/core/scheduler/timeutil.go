package scheduler

import (
	"fmt"
	"time"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

const minutesPerDay = 24 * 60

// span is a weekly time window in minutes since midnight on one day of week.
type span struct {
	startMin int
	endMin   int
}

// window is an absolute time interval measured in minutes since the Unix
// epoch. All overlap and rest arithmetic happens on windows so cross-midnight
// shifts need no special casing once converted.
type window struct {
	start int64
	end   int64
}

func (w window) overlaps(o window) bool {
	return w.start < o.end && o.start < w.end
}

// gapTo returns the rest gap in minutes between two non-overlapping windows.
// Returns 0 when the windows overlap.
func (w window) gapTo(o window) int64 {
	if o.start >= w.end {
		return o.start - w.end
	}
	if w.start >= o.end {
		return w.start - o.end
	}
	return 0
}

// dayNumber returns the calendar day index of d (days since the Unix epoch).
func dayNumber(d time.Time) int64 {
	return d.Unix() / (24 * 60 * 60)
}

// instanceWindow converts a shift instance into an absolute window. A window
// that crosses midnight extends into the following calendar day.
func instanceWindow(inst model.ShiftInstance) window {
	base := dayNumber(inst.Date) * minutesPerDay
	start := base + int64(inst.StartMin)
	return window{start: start, end: start + int64(inst.DurationMin())}
}

// daySpan is one weekly sub-interval of a shift instance, used to test the
// instance against recurring weekly blocks.
type daySpan struct {
	dayOfWeek int
	span      span
}

// weeklySpans splits an instance into at most two weekly sub-intervals: the
// pre-midnight part on the instance's own weekday and, for cross-midnight
// shifts, the post-midnight part on the next weekday.
func weeklySpans(inst model.ShiftInstance) []daySpan {
	if !inst.CrossesMidnight() {
		return []daySpan{{dayOfWeek: inst.DayOfWeek, span: span{inst.StartMin, inst.EndMin}}}
	}
	return []daySpan{
		{dayOfWeek: inst.DayOfWeek, span: span{inst.StartMin, minutesPerDay}},
		{dayOfWeek: (inst.DayOfWeek + 1) % 7, span: span{0, inst.EndMin}},
	}
}

// ParseHHMM parses a clock time in "HH:MM" form into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hh*60 + mm, nil
}

// FormatMin renders minutes since midnight as "HH:MM".
func FormatMin(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func isWeekend(dayOfWeek int) bool {
	return dayOfWeek == 0 || dayOfWeek == 6
}

func isSaturday(dayOfWeek int) bool { return dayOfWeek == 6 }

func isSunday(dayOfWeek int) bool { return dayOfWeek == 0 }
