package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// rruleWeekdays maps the roster day-of-week convention (0=Sunday .. 6=Saturday)
// onto rrule weekdays.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// InstanceKey is the natural key of a shift instance within a run. Label alone
// is not guaranteed unique, so the key carries the full time window.
func InstanceKey(date time.Time, label string, startMin, endMin int) string {
	return fmt.Sprintf("%s|%s|%s-%s", date.Format("2006-01-02"), label, FormatMin(startMin), FormatMin(endMin))
}

// ExpandTemplates expands shift templates across [rangeStart, rangeEnd]
// inclusive, emitting one shift instance per matching date per active
// template. Each template's weekday pattern is compiled to a weekly recurrence
// rule and evaluated over the range. Results are sorted chronologically by
// date, then start time, then label; this ordering is what the selector
// consumes and must stay stable for reproducible runs.
func ExpandTemplates(templates []model.ShiftTemplate, rangeStart, rangeEnd time.Time) ([]model.ShiftInstance, error) {
	if rangeEnd.Before(rangeStart) {
		return nil, fmt.Errorf("invalid date range: end %s before start %s",
			rangeEnd.Format("2006-01-02"), rangeStart.Format("2006-01-02"))
	}

	start := time.Date(rangeStart.Year(), rangeStart.Month(), rangeStart.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(rangeEnd.Year(), rangeEnd.Month(), rangeEnd.Day(), 0, 0, 0, 0, time.UTC)

	var instances []model.ShiftInstance
	for _, tpl := range templates {
		if !tpl.Active {
			continue
		}

		weekdays := make([]rrule.Weekday, 0, len(tpl.Weekdays))
		for _, dow := range tpl.Weekdays {
			if dow < 0 || dow > 6 {
				return nil, fmt.Errorf("template %q: day of week %d out of range", tpl.Label, dow)
			}
			weekdays = append(weekdays, rruleWeekdays[dow])
		}
		if len(weekdays) == 0 {
			continue
		}

		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: weekdays,
			Dtstart:   start,
		})
		if err != nil {
			return nil, fmt.Errorf("template %q: building recurrence: %w", tpl.Label, err)
		}

		for _, date := range rule.Between(start, end, true) {
			instances = append(instances, model.ShiftInstance{
				ID:            InstanceKey(date, tpl.Label, tpl.StartMin, tpl.EndMin),
				StudioID:      tpl.StudioID,
				Date:          date,
				DayOfWeek:     int(date.Weekday()),
				Label:         tpl.Label,
				StartMin:      tpl.StartMin,
				EndMin:        tpl.EndMin,
				RequiredCount: tpl.RequiredCount,
			})
		}
	}

	sort.Slice(instances, func(i, j int) bool {
		if !instances[i].Date.Equal(instances[j].Date) {
			return instances[i].Date.Before(instances[j].Date)
		}
		if instances[i].StartMin != instances[j].StartMin {
			return instances[i].StartMin < instances[j].StartMin
		}
		return instances[i].Label < instances[j].Label
	})

	return instances, nil
}
