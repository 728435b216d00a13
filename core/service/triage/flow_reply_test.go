package triage

import (
	"strings"
	"testing"

	"flowpilot/core/domain"
)

func TestDraftReply(t *testing.T) {
	tests := []struct {
		name     string
		task     string
		priority domain.Priority
		deadline string
		contains []string
	}{
		{
			name:     "high",
			task:     "review the q3 report urgently by friday.",
			priority: domain.PriorityHigh,
			deadline: "Friday",
			contains: []string{"request to review the q3 report urgently by friday.\n", "handled immediately"},
		},
		{
			name:     "low",
			task:     "FYI, the meeting notes are attached",
			priority: domain.PriorityLow,
			deadline: domain.DeadlineNotSpecified,
			contains: []string{"fyi, the meeting notes are attached", "earliest convenience"},
		},
		{
			name:     "medium with deadline",
			task:     "send the invoice by tomorrow?",
			priority: domain.PriorityMedium,
			deadline: "Tomorrow",
			contains: []string{"completed by Tomorrow"},
		},
		{
			name:     "meeting",
			task:     "Schedule a meeting with the team.",
			priority: domain.PriorityMedium,
			deadline: domain.DeadlineNotSpecified,
			contains: []string{"happy to schedule a meeting with the team.", "check my calendar"},
		},
		{
			name:     "review",
			task:     "Review the contract.",
			priority: domain.PriorityMedium,
			deadline: "",
			contains: []string{"I will review the contract and share my feedback"},
		},
		{
			name:     "fallback",
			task:     "call bob",
			priority: domain.PriorityMedium,
			deadline: "Unknown",
			contains: []string{"request to call bob", "as soon as possible"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DraftReply(tt.task, tt.priority, tt.deadline)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("reply %q does not contain %q", got, want)
				}
			}
			if !strings.HasSuffix(got, "Best regards") {
				t.Errorf("reply missing sign-off: %q", got)
			}
		})
	}
}

func TestBuildReminder(t *testing.T) {
	tests := []struct {
		name     string
		priority domain.Priority
		resolved domain.ResolvedDeadline
		want     string
	}{
		{"due today", domain.PriorityHigh, domain.ResolvedDeadline{DisplayDate: "Friday, October 16", DaysUntil: 0}, "Due today - complete before end of day"},
		{"high", domain.PriorityHigh, domain.ResolvedDeadline{DisplayDate: "Friday, October 23", DaysUntil: 7}, "High priority - follow up within 2 hours (due Friday, October 23)"},
		{"low", domain.PriorityLow, domain.ResolvedDeadline{DisplayDate: "March 15", DaysUntil: 1}, "Low priority - revisit by March 15"},
		{"medium", domain.PriorityMedium, domain.ResolvedDeadline{DisplayDate: "Monday, October 19", DaysUntil: 3}, "Reminder set for Monday, October 19 (3 day(s) left)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildReminder(tt.priority, tt.resolved); got != tt.want {
				t.Errorf("BuildReminder = %q, want %q", got, tt.want)
			}
		})
	}
}
