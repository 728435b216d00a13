package domain

import (
	"strings"
	"time"
)

// =============================================================================
// Calendar Event - 데모용 로컬 캘린더 (외부 연동 없음)
// =============================================================================

type CalendarEventStatus string

const (
	CalendarEventScheduled CalendarEventStatus = "scheduled"
	CalendarEventCancelled CalendarEventStatus = "cancelled"
)

// CalendarEvent is a meeting on the local calendar.
// Date is YYYY-MM-DD and Time one of the hourly slots ("09:00 AM").
type CalendarEvent struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Date      string              `json:"date"`
	Time      string              `json:"time"`
	Attendees []string            `json:"attendees"`
	Status    CalendarEventStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// SameSlot reports whether the event occupies date and slot.
func (e *CalendarEvent) SameSlot(date, slot string) bool {
	return e.Status != CalendarEventCancelled &&
		e.Date == date &&
		strings.EqualFold(strings.TrimSpace(e.Time), strings.TrimSpace(slot))
}

// CalendarDateLayout is the wire layout of CalendarEvent.Date.
const CalendarDateLayout = "2006-01-02"

// DefaultMeetingDuration is reported for every conflicting meeting.
const DefaultMeetingDuration = "1 hour"

// =============================================================================
// Conflict Detection
// =============================================================================

type SuggestionConfidence string

const (
	ConfidenceHigh   SuggestionConfidence = "high"
	ConfidenceMedium SuggestionConfidence = "medium"
	ConfidenceLow    SuggestionConfidence = "low"
)

// Conflict is an existing event that occupies the requested slot.
type Conflict struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
	Type     string `json:"type"`
}

// SlotSuggestion is a free alternative slot.
type SlotSuggestion struct {
	Time       string               `json:"time"`
	Reason     string               `json:"reason"`
	Confidence SuggestionConfidence `json:"confidence"`
	Date       string               `json:"date,omitempty"`
}

// ConflictReport is the result of checking one date/slot.
type ConflictReport struct {
	Date          string           `json:"date"`
	Time          string           `json:"time"`
	HasConflicts  bool             `json:"has_conflicts"`
	Conflicts     []Conflict       `json:"conflicts"`
	Suggestions   []SlotSuggestion `json:"suggestions"`
	ConflictCount int              `json:"conflict_count"`
}
