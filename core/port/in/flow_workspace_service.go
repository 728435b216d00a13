package in

import (
	"context"
	"time"

	"flowpilot/core/domain"
)

// =============================================================================
// Tasks
// =============================================================================

type TaskService interface {
	List(ctx context.Context) (*domain.TaskList, error)
	Get(ctx context.Context, id int64) (*domain.Task, error)
	Complete(ctx context.Context, id int64) (*domain.Task, error)
}

// =============================================================================
// Calendar
// =============================================================================

type CalendarService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*CreateEventResponse, error)
	ListEvents(ctx context.Context) ([]*domain.CalendarEvent, error)
	DetectConflicts(ctx context.Context, date, slot string) (*domain.ConflictReport, error)
}

type CreateEventRequest struct {
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Attendees []string `json:"attendees"`
}

// CreateEventResponse carries the conflict check made before booking.
// The event is booked even when the slot is taken.
type CreateEventResponse struct {
	Event           *domain.CalendarEvent  `json:"event"`
	ConflictWarning *domain.ConflictReport `json:"conflict_warning,omitempty"`
}

// =============================================================================
// Slack
// =============================================================================

type SlackService interface {
	SendMessage(ctx context.Context, req *SlackMessageRequest) (*domain.SlackMessage, error)
	ListMessages(ctx context.Context) ([]*domain.SlackMessage, error)
	HandleCommand(ctx context.Context, req *SlackMessageRequest) (*domain.SlackCommandResult, error)
}

type SlackMessageRequest struct {
	Channel string `json:"channel"`
	Message string `json:"message"`
}

// =============================================================================
// Safety
// =============================================================================

type SafetyService interface {
	ScanContent(ctx context.Context, content string) *domain.SafetyScan
	CheckTask(ctx context.Context, taskID int64) (*domain.TaskSafety, error)
}

// =============================================================================
// Metrics / Audit / Agents
// =============================================================================

type MetricsService interface {
	Record(ctx context.Context, counter domain.MetricCounter) error
	Dashboard(ctx context.Context) (*domain.MetricsDashboard, error)
	Reset(ctx context.Context) error
	// ObserveAnalysis feeds the analysis latency percentiles.
	ObserveAnalysis(d time.Duration)
}

type AuditService interface {
	Log(ctx context.Context, agent domain.AgentName, action, details string)
	List(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
	Clear(ctx context.Context) error
}

type AgentService interface {
	Begin(ctx context.Context, key domain.AgentKey)
	Finish(ctx context.Context, key domain.AgentKey, err error)
	Board() *domain.AgentBoard
}
