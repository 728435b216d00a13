package triage

import (
	"strings"
	"time"

	"flowpilot/core/domain"
)

// DisplayDateLayout renders resolved deadlines, e.g. "Friday, October 23".
const DisplayDateLayout = "Monday, January 2"

// defaultDaysUntil is assumed for phrases the resolver does not understand.
const defaultDaysUntil = 1

// laterWeekdays are checked after Monday, in calendar order.
var laterWeekdays = []time.Weekday{
	time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// ResolveDeadline pins a deadline phrase to a date relative to now.
// Unknown phrases (including "Not specified" and bare words captured by
// "before ...") pass through unchanged with a one-day horizon.
func ResolveDeadline(phrase string, now time.Time) domain.ResolvedDeadline {
	p := strings.ToLower(phrase)

	switch {
	case strings.Contains(p, "tomorrow"):
		return resolvedIn(now, 1)
	case strings.Contains(p, "today"):
		return resolvedIn(now, 0)
	case strings.Contains(p, "next monday"), strings.Contains(p, "monday"):
		return resolvedIn(now, DaysUntilWeekday(now, time.Monday))
	}

	for _, wd := range laterWeekdays {
		if strings.Contains(p, strings.ToLower(wd.String())) {
			return resolvedIn(now, DaysUntilWeekday(now, wd))
		}
	}

	if strings.Contains(p, "end of week") || strings.Contains(p, "eow") {
		return resolvedIn(now, DaysUntilWeekday(now, time.Friday))
	}

	return domain.ResolvedDeadline{
		DisplayDate: phrase,
		DaysUntil:   defaultDaysUntil,
	}
}

// DaysUntilWeekday returns the offset in days to the next target weekday.
// A zero offset rolls forward a full week.
func DaysUntilWeekday(now time.Time, target time.Weekday) int {
	days := (int(target) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return days
}

func resolvedIn(now time.Time, days int) domain.ResolvedDeadline {
	date := now.AddDate(0, 0, days)
	return domain.ResolvedDeadline{
		DisplayDate: date.Format(DisplayDateLayout),
		DaysUntil:   days,
		Date:        &date,
	}
}
