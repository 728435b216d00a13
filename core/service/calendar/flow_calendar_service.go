// Package calendar books meetings on the local calendar and detects slot
// conflicts.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/in"
	"flowpilot/core/port/out"
	"flowpilot/pkg/apperr"
	"flowpilot/pkg/logger"

	"github.com/google/uuid"
)

// Service implements in.CalendarService
type Service struct {
	store    out.CalendarStore
	audit    in.AuditService
	agents   in.AgentService
	activity out.ActivityPort
	now      func() time.Time
}

// NewService creates a new CalendarService. activity may be nil.
func NewService(store out.CalendarStore, audit in.AuditService, agents in.AgentService, activity out.ActivityPort) in.CalendarService {
	return NewServiceWithClock(store, audit, agents, activity, time.Now)
}

func NewServiceWithClock(
	store out.CalendarStore,
	audit in.AuditService,
	agents in.AgentService,
	activity out.ActivityPort,
	now func() time.Time,
) in.CalendarService {
	return &Service{store: store, audit: audit, agents: agents, activity: activity, now: now}
}

// CreateEvent books the meeting. A taken slot does not block booking; the
// conflict report is returned alongside the event instead.
func (s *Service) CreateEvent(ctx context.Context, req *in.CreateEventRequest) (resp *in.CreateEventResponse, err error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.MissingField("title")
	}
	date, slot, err := s.parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	s.agents.Begin(ctx, domain.AgentKeyCalendar)
	defer func() { s.agents.Finish(ctx, domain.AgentKeyCalendar, err) }()

	events, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	report := buildReport(date, slot, events)

	attendees := req.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	event := &domain.CalendarEvent{
		ID:        uuid.New().String(),
		Title:     title,
		Date:      date.Format(domain.CalendarDateLayout),
		Time:      slot,
		Attendees: attendees,
		Status:    domain.CalendarEventScheduled,
		CreatedAt: s.now(),
	}
	if err = s.store.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	details := fmt.Sprintf("%s on %s at %s", event.Title, event.Date, event.Time)
	if report.HasConflicts {
		details += fmt.Sprintf(" (%d conflict(s))", report.ConflictCount)
	}
	s.audit.Log(ctx, domain.AgentCalendar, "Scheduled meeting", details)
	s.broadcast(ctx, event)

	resp = &in.CreateEventResponse{Event: event}
	if report.HasConflicts {
		resp.ConflictWarning = report
	}
	return resp, nil
}

func (s *Service) ListEvents(ctx context.Context) ([]*domain.CalendarEvent, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.CalendarEvent{}
	}
	return events, nil
}

func (s *Service) DetectConflicts(ctx context.Context, date, slot string) (*domain.ConflictReport, error) {
	day, normalized, err := s.parseSlot(date, slot)
	if err != nil {
		return nil, err
	}
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	report := buildReport(day, normalized, events)
	s.audit.Log(ctx, domain.AgentCalendar, "Checked conflicts",
		fmt.Sprintf("%s %s: %d conflict(s)", report.Date, report.Time, report.ConflictCount))
	return report, nil
}

// parseSlot validates the date and time. A blank date means today.
func (s *Service) parseSlot(rawDate, rawTime string) (time.Time, string, error) {
	var date time.Time
	if strings.TrimSpace(rawDate) == "" {
		now := s.now()
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		d, err := NormalizeDate(rawDate)
		if err != nil {
			return time.Time{}, "", apperr.InvalidInput("date", "expected YYYY-MM-DD")
		}
		date = d
	}

	if strings.TrimSpace(rawTime) == "" {
		return time.Time{}, "", apperr.MissingField("time")
	}
	slot, err := NormalizeSlot(rawTime)
	if err != nil {
		return time.Time{}, "", apperr.InvalidInput("time", "expected a time such as 09:00 AM")
	}
	return date, slot, nil
}

func (s *Service) broadcast(ctx context.Context, event *domain.CalendarEvent) {
	if s.activity == nil {
		return
	}
	e := &domain.ActivityEvent{Type: domain.ActivityEventScheduled, Data: event, Timestamp: s.now()}
	if err := s.activity.Broadcast(ctx, e); err != nil {
		logger.WithContext(ctx).WithError(err).Debug("[Calendar] event broadcast failed")
	}
}

func buildReport(date time.Time, slot string, events []*domain.CalendarEvent) *domain.ConflictReport {
	day := date.Format(domain.CalendarDateLayout)
	report := &domain.ConflictReport{
		Date:        day,
		Time:        slot,
		Conflicts:   []domain.Conflict{},
		Suggestions: []domain.SlotSuggestion{},
	}
	for _, e := range events {
		if !e.SameSlot(day, slot) {
			continue
		}
		report.Conflicts = append(report.Conflicts, domain.Conflict{
			ID:       e.ID,
			Title:    e.Title,
			Time:     e.Time,
			Duration: domain.DefaultMeetingDuration,
			Type:     "meeting",
		})
	}
	report.ConflictCount = len(report.Conflicts)
	report.HasConflicts = report.ConflictCount > 0
	if report.HasConflicts {
		report.Suggestions = suggestSlots(date, slot, events)
	}
	return report
}
