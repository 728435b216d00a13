package in

import (
	"context"

	"flowpilot/core/domain"
)

// WorkflowService runs emails through the Email and Decision agents.
type WorkflowService interface {
	// Analyze never fails on content: blank input and internal failures are
	// reported through the Analysis error sentinels.
	Analyze(ctx context.Context, req *AnalyzeRequest) *domain.Analysis
	AnalyzeBatch(ctx context.Context, req *BatchAnalyzeRequest) (*BatchAnalyzeResponse, error)
	Score(ctx context.Context, req *ScoreRequest) (*domain.ScoreBreakdown, error)
	Approve(ctx context.Context, req *ApproveRequest) (*domain.Task, error)
}

type AnalyzeRequest struct {
	EmailText string `json:"emailText"`
	// Autonomous overrides the configured default when set.
	Autonomous *bool `json:"autonomous,omitempty"`
}

type BatchAnalyzeRequest struct {
	Emails []string `json:"emails"`
}

// BatchAnalyzeResponse keeps results in request order.
type BatchAnalyzeResponse struct {
	Results []*domain.Analysis `json:"results"`
	Count   int                `json:"count"`
	Failed  int                `json:"failed"`
}

// ScoreRequest asks for a priority breakdown. Refresh drops any cached
// result first.
type ScoreRequest struct {
	EmailText string `json:"emailText"`
	Refresh   bool   `json:"refresh,omitempty"`
}

// ApproveRequest stores a reviewed analysis as a task.
type ApproveRequest struct {
	Task       string          `json:"task"`
	Deadline   string          `json:"deadline"`
	Priority   domain.Priority `json:"priority"`
	Reminder   string          `json:"reminder,omitempty"`
	DraftReply string          `json:"draftReply,omitempty"`
	EmailText  string          `json:"emailText,omitempty"`
}
