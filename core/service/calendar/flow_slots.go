package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"flowpilot/core/domain"
)

// SlotLayout is the wire layout of a meeting slot ("09:00 AM").
const SlotLayout = "03:04 PM"

// WorkdaySlots is the hourly grid suggestions are drawn from.
var WorkdaySlots = []string{
	"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "01:00 PM",
	"02:00 PM", "03:00 PM", "04:00 PM", "05:00 PM",
}

const maxSuggestions = 3

var slotInputLayouts = []string{SlotLayout, "3:04 PM", "03:04PM", "3:04PM", "3 PM", "3PM", "15:04"}

// NormalizeSlot parses a loosely formatted time of day into SlotLayout.
func NormalizeSlot(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range slotInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(SlotLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized time %q", raw)
}

// NormalizeDate validates a YYYY-MM-DD date.
func NormalizeDate(raw string) (time.Time, error) {
	return time.Parse(domain.CalendarDateLayout, strings.TrimSpace(raw))
}

func slotMinutes(slot string) int {
	t, err := time.Parse(SlotLayout, slot)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// suggestSlots picks up to three free grid slots closest to the requested
// one on the same day, then fills from the next day's grid.
func suggestSlots(date time.Time, slot string, events []*domain.CalendarEvent) []domain.SlotSuggestion {
	day := date.Format(domain.CalendarDateLayout)
	requested := slotMinutes(slot)

	type candidate struct {
		slot string
		diff int
	}
	var sameDay []candidate
	for _, s := range WorkdaySlots {
		if s == slot || occupied(events, day, s) {
			continue
		}
		sameDay = append(sameDay, candidate{slot: s, diff: slotMinutes(s) - requested})
	}
	sort.SliceStable(sameDay, func(i, j int) bool {
		ai, aj := abs(sameDay[i].diff), abs(sameDay[j].diff)
		if ai != aj {
			return ai < aj
		}
		return sameDay[i].diff > sameDay[j].diff
	})

	suggestions := make([]domain.SlotSuggestion, 0, maxSuggestions)
	for _, c := range sameDay {
		if len(suggestions) == maxSuggestions {
			return suggestions
		}
		suggestions = append(suggestions, domain.SlotSuggestion{
			Time:       c.slot,
			Reason:     proximityReason(c.diff),
			Confidence: proximityConfidence(c.diff),
			Date:       day,
		})
	}

	next := date.AddDate(0, 0, 1).Format(domain.CalendarDateLayout)
	for _, s := range WorkdaySlots {
		if len(suggestions) == maxSuggestions {
			break
		}
		if occupied(events, next, s) {
			continue
		}
		suggestions = append(suggestions, domain.SlotSuggestion{
			Time:       s,
			Reason:     "Next available day",
			Confidence: domain.ConfidenceLow,
			Date:       next,
		})
	}
	return suggestions
}

func occupied(events []*domain.CalendarEvent, date, slot string) bool {
	for _, e := range events {
		if e.SameSlot(date, slot) {
			return true
		}
	}
	return false
}

func proximityReason(diffMinutes int) string {
	n, unit := abs(diffMinutes)/60, "hour"
	if n == 0 {
		n, unit = abs(diffMinutes), "minute"
	}
	if n != 1 {
		unit += "s"
	}
	if diffMinutes > 0 {
		return fmt.Sprintf("Free %d %s after requested time", n, unit)
	}
	return fmt.Sprintf("Free %d %s before requested time", n, unit)
}

func proximityConfidence(diffMinutes int) domain.SuggestionConfidence {
	switch d := abs(diffMinutes); {
	case d <= 60:
		return domain.ConfidenceHigh
	case d <= 120:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
