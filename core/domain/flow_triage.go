package domain

import "time"

// Priority is the triage priority of an email-derived task.
type Priority string

const (
	PriorityHigh    Priority = "High"
	PriorityMedium  Priority = "Medium"
	PriorityLow     Priority = "Low"
	PriorityUnknown Priority = "Unknown" // error sentinel only
)

// IsValid reports whether p is one of High, Medium or Low.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// DeadlineNotSpecified is the deadline phrase when no pattern matches.
const DeadlineNotSpecified = "Not specified"

// ExtractedTask is the raw output of the task extractor.
type ExtractedTask struct {
	Task           string   `json:"task"`
	DeadlinePhrase string   `json:"deadline"`
	BasePriority   Priority `json:"base_priority"`
}

// ResolvedDeadline is a deadline phrase pinned to a calendar date.
// Date is nil when the phrase could not be resolved and was passed through.
type ResolvedDeadline struct {
	DisplayDate string     `json:"display_date"`
	DaysUntil   int        `json:"days_until"`
	Date        *time.Time `json:"date,omitempty"`
}

// =============================================================================
// Priority Score Breakdown
// =============================================================================

// CategoryScores holds the per-category scores of the weighted scorer.
type CategoryScores struct {
	Urgency    int `json:"urgency_score"`
	Importance int `json:"importance_score"`
	Deadline   int `json:"deadline_score"`
	Sender     int `json:"sender_score"`
	Keyword    int `json:"keyword_score"`
}

// Total returns the sum of all category scores.
func (s CategoryScores) Total() int {
	return s.Urgency + s.Importance + s.Deadline + s.Sender + s.Keyword
}

// ScoreBreakdown is the transparent result of the weighted priority scorer.
type ScoreBreakdown struct {
	Scores              CategoryScores `json:"scores"`
	Reasons             []string       `json:"reasons"`
	TotalScore          int            `json:"total_score"`
	Level               Priority       `json:"priority_level"`
	IsLowPriority       bool           `json:"is_low_priority"`
	DecisionExplanation string         `json:"decision_explanation"`
}

// =============================================================================
// Analysis Result
// =============================================================================

// Analysis is the full outcome of running one email through the workflow.
type Analysis struct {
	Task             string     `json:"task"`
	Deadline         string     `json:"deadline"`
	Priority         Priority   `json:"priority"`
	DraftReply       string     `json:"draftReply"`
	Reminder         string     `json:"reminder,omitempty"`
	ResolvedDeadline string     `json:"resolvedDeadline,omitempty"`
	DaysUntil        *int       `json:"daysUntil,omitempty"`
	BasePriority     Priority   `json:"basePriority,omitempty"`
	RuleApplied      string     `json:"ruleApplied,omitempty"`
	TaskID           *int64     `json:"taskId,omitempty"`
	Autonomous       bool       `json:"autonomous"`
	SafetyBlocked    bool       `json:"safetyBlocked,omitempty"`
	AnalyzedAt       *time.Time `json:"analyzedAt,omitempty"`
}

// NewEmptyInputAnalysis is returned without invoking the engine for blank input.
func NewEmptyInputAnalysis() *Analysis {
	return &Analysis{
		Task:       "Error",
		Deadline:   "Unknown",
		Priority:   PriorityUnknown,
		DraftReply: "Please provide an email to analyze",
	}
}

// NewFailedAnalysis converts any analysis failure into the uniform error payload.
func NewFailedAnalysis(reason string) *Analysis {
	return &Analysis{
		Task:       "Error",
		Deadline:   "Unknown",
		Priority:   PriorityUnknown,
		DraftReply: "Server error: " + reason,
	}
}
