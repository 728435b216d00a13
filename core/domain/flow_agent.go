package domain

import "time"

// AgentKey identifies an agent on the status board.
type AgentKey string

const (
	AgentKeyEmail    AgentKey = "email_agent"
	AgentKeyDecision AgentKey = "decision_agent"
	AgentKeyCalendar AgentKey = "calendar_agent"
	AgentKeyTask     AgentKey = "task_agent"
)

// AllAgentKeys in workflow order.
var AllAgentKeys = []AgentKey{AgentKeyEmail, AgentKeyDecision, AgentKeyCalendar, AgentKeyTask}

type AgentState string

const (
	AgentIdle       AgentState = "idle"
	AgentProcessing AgentState = "processing"
	AgentCompleted  AgentState = "completed"
	AgentError      AgentState = "error"
)

// AgentStatus is the last known state of one agent.
type AgentStatus struct {
	Status  AgentState `json:"status"`
	LastRun *time.Time `json:"last_run"`
	Runs    int64      `json:"runs"`
}

// AgentBoard is the /agent/status payload.
type AgentBoard struct {
	Agents      map[AgentKey]AgentStatus `json:"agents"`
	ActiveAgent AgentKey                 `json:"active_agent,omitempty"`
}

// =============================================================================
// Activity Event - SSE로 프론트엔드에 전송되는 이벤트
// =============================================================================

type ActivityType string

const (
	ActivityConnected      ActivityType = "connected"
	ActivityEmailAnalyzed  ActivityType = "email.analyzed"
	ActivityTaskCreated    ActivityType = "task.created"
	ActivityTaskCompleted  ActivityType = "task.completed"
	ActivityEventScheduled ActivityType = "calendar.event_created"
	ActivitySlackMessage   ActivityType = "slack.message"
	ActivityAgentStatus    ActivityType = "agent.status"
	ActivityMetricsReset   ActivityType = "metrics.reset"
)

// ActivityEvent is pushed to every activity stream subscriber.
type ActivityEvent struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Seq       int64        `json:"seq"`
	Data      any          `json:"data,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}
