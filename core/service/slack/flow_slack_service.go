// Package slack simulates a Slack workspace: messages are stored locally and
// "@FlowPilot" commands drive the calendar and task workflows.
package slack

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/in"
	"flowpilot/core/port/out"
	"flowpilot/core/service/calendar"
	"flowpilot/core/service/triage"
	"flowpilot/pkg/apperr"
	"flowpilot/pkg/logger"

	"github.com/google/uuid"
)

const (
	statusSent      = "sent"
	statusProcessed = "processed"
)

// Service implements in.SlackService
type Service struct {
	store    out.SlackStore
	calendar in.CalendarService
	workflow in.WorkflowService
	audit    in.AuditService
	activity out.ActivityPort
	now      func() time.Time
}

// NewService creates a new SlackService. activity may be nil.
func NewService(
	store out.SlackStore,
	calendar in.CalendarService,
	workflow in.WorkflowService,
	audit in.AuditService,
	activity out.ActivityPort,
) in.SlackService {
	return NewServiceWithClock(store, calendar, workflow, audit, activity, time.Now)
}

func NewServiceWithClock(
	store out.SlackStore,
	calendar in.CalendarService,
	workflow in.WorkflowService,
	audit in.AuditService,
	activity out.ActivityPort,
	now func() time.Time,
) in.SlackService {
	return &Service{
		store:    store,
		calendar: calendar,
		workflow: workflow,
		audit:    audit,
		activity: activity,
		now:      now,
	}
}

// =============================================================================
// Messages
// =============================================================================

func (s *Service) SendMessage(ctx context.Context, req *in.SlackMessageRequest) (*domain.SlackMessage, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, apperr.MissingField("message")
	}
	action := domain.SlackActionMessage
	if IsCommand(text) {
		action = domain.SlackActionCommand
	}
	msg, err := s.post(ctx, req.Channel, text, action, statusSent)
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, domain.AgentOrchestrator, "Posted Slack message", fmt.Sprintf("%s: %s", msg.Channel, msg.Message))
	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context) ([]*domain.SlackMessage, error) {
	msgs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slack messages: %w", err)
	}
	if msgs == nil {
		msgs = []*domain.SlackMessage{}
	}
	return msgs, nil
}

func (s *Service) post(ctx context.Context, channel, text string, action domain.SlackAction, status string) (*domain.SlackMessage, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = domain.DefaultSlackChannel
	}
	msg := &domain.SlackMessage{
		ID:        uuid.New().String(),
		Channel:   channel,
		Message:   text,
		Action:    action,
		Status:    status,
		CreatedAt: s.now(),
	}
	if err := s.store.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("append slack message: %w", err)
	}

	if s.activity != nil {
		event := &domain.ActivityEvent{Type: domain.ActivitySlackMessage, Data: msg, Timestamp: s.now()}
		if err := s.activity.Broadcast(ctx, event); err != nil {
			logger.WithContext(ctx).WithError(err).Debug("[Slack] message broadcast failed")
		}
	}
	return msg, nil
}

// =============================================================================
// Commands
// =============================================================================

// HandleCommand runs a "@FlowPilot ..." command and records it in the
// channel with the action it resolved to.
func (s *Service) HandleCommand(ctx context.Context, req *in.SlackMessageRequest) (*domain.SlackCommandResult, error) {
	body := stripMention(req.Message)
	if body == "" && strings.TrimSpace(req.Message) == "" {
		return nil, apperr.MissingField("message")
	}

	var (
		result *domain.SlackCommandResult
		err    error
	)
	switch classify(body) {
	case cmdSchedule:
		result, err = s.schedule(ctx, body)
	case cmdUrgentTask:
		result, err = s.createTask(ctx, body, true)
	case cmdCreateTask:
		result, err = s.createTask(ctx, body, false)
	case cmdCalendarQuery:
		result, err = s.calendarQuery(ctx, body)
	default:
		result = &domain.SlackCommandResult{Text: HelpText, Action: domain.SlackActionHelp}
	}
	if err != nil {
		return nil, err
	}

	msg, err := s.post(ctx, req.Channel, strings.TrimSpace(req.Message), result.Action, statusProcessed)
	if err != nil {
		return nil, err
	}
	result.Message = msg
	s.audit.Log(ctx, domain.AgentOrchestrator, "Handled Slack command", fmt.Sprintf("%s: %s", result.Action, body))
	return result, nil
}

func (s *Service) schedule(ctx context.Context, body string) (*domain.SlackCommandResult, error) {
	date := s.commandDate(body)
	slot := meetingSlot(body)
	if slot == "" {
		slot = defaultMeetingSlot
	}

	resp, err := s.calendar.CreateEvent(ctx, &in.CreateEventRequest{
		Title: meetingTitle(body),
		Date:  date.Format(domain.CalendarDateLayout),
		Time:  slot,
	})
	if err != nil {
		return nil, err
	}

	event := resp.Event
	text := fmt.Sprintf("Scheduled %q for %s at %s.", event.Title, date.Format(triage.DisplayDateLayout), event.Time)
	if resp.ConflictWarning != nil {
		text += fmt.Sprintf(" Heads up: this overlaps %d existing event(s).", resp.ConflictWarning.ConflictCount)
		if len(resp.ConflictWarning.Suggestions) > 0 {
			text += " Free alternative: " + resp.ConflictWarning.Suggestions[0].Time + "."
		}
	}
	return &domain.SlackCommandResult{Text: text, Action: domain.SlackActionSchedule, Event: event}, nil
}

func (s *Service) createTask(ctx context.Context, body string, urgent bool) (*domain.SlackCommandResult, error) {
	email := taskEmail(body)
	manual := false
	analysis := s.workflow.Analyze(ctx, &in.AnalyzeRequest{EmailText: email, Autonomous: &manual})
	if analysis.Priority == domain.PriorityUnknown {
		return nil, apperr.Internal(analysis.DraftReply)
	}

	priority := analysis.Priority
	if urgent {
		priority = domain.PriorityHigh
	}
	title := taskDescription(body)
	if title == "" {
		title = analysis.Task
	}
	task, err := s.workflow.Approve(ctx, &in.ApproveRequest{
		Task:       title,
		Deadline:   analysis.Deadline,
		Priority:   priority,
		Reminder:   analysis.Reminder,
		DraftReply: analysis.DraftReply,
		EmailText:  email,
	})
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Created task #%d: %s (Priority: %s, Deadline: %s)", task.ID, task.Task, task.Priority, task.Deadline)
	return &domain.SlackCommandResult{Text: text, Action: domain.SlackActionTask, Task: task}, nil
}

func (s *Service) calendarQuery(ctx context.Context, body string) (*domain.SlackCommandResult, error) {
	date := s.commandDate(body)
	day := date.Format(domain.CalendarDateLayout)

	all, err := s.calendar.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	events := []domain.CalendarEvent{}
	for _, e := range all {
		if e.Date == day && e.Status != domain.CalendarEventCancelled {
			events = append(events, *e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return slotOrder(events[i].Time) < slotOrder(events[j].Time)
	})

	display := date.Format(triage.DisplayDateLayout)
	var text string
	if len(events) == 0 {
		text = fmt.Sprintf("No meetings on %s.", display)
	} else {
		lines := make([]string, len(events))
		for i, e := range events {
			lines[i] = fmt.Sprintf("• %s %s", e.Time, e.Title)
		}
		text = fmt.Sprintf("You have %d meeting(s) on %s:\n%s", len(events), display, strings.Join(lines, "\n"))
	}
	return &domain.SlackCommandResult{Text: text, Action: domain.SlackActionCalendar, Events: events}, nil
}

// commandDate resolves day words in the command; anything else means today.
func (s *Service) commandDate(body string) time.Time {
	now := s.now()
	resolved := triage.ResolveDeadline(body, now)
	if resolved.Date != nil {
		return *resolved.Date
	}
	return now
}

func slotOrder(slot string) string {
	normalized, err := calendar.NormalizeSlot(slot)
	if err != nil {
		return slot
	}
	t, _ := time.Parse(calendar.SlotLayout, normalized)
	return t.Format("15:04")
}
