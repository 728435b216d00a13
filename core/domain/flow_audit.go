package domain

import "time"

// Agent names recorded in the audit log and status board.
type AgentName string

const (
	AgentEmail        AgentName = "Email Agent"
	AgentDecision     AgentName = "Decision Agent"
	AgentCalendar     AgentName = "Calendar Agent"
	AgentTask         AgentName = "Task Agent"
	AgentOrchestrator AgentName = "Orchestrator"
	AgentSafety       AgentName = "Safety Agent"
)

// AuditEntry is one line of the agent activity log.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Agent     AgentName `json:"agent"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}
