package triage

import (
	"fmt"
	"strings"

	"flowpilot/core/domain"
)

const replySignOff = "\n\nBest regards"

// replyBranch is one template of the drafter; branches are tried in order.
type replyBranch struct {
	when   func(task string, priority domain.Priority, deadline string) bool
	render func(task, deadline string) string
}

var replyBranches = []replyBranch{
	{
		when: func(_ string, p domain.Priority, _ string) bool { return p == domain.PriorityHigh },
		render: func(task, _ string) string {
			return fmt.Sprintf("Thank you for your email.\n\nI have received your request to %s.\n\n"+
				"I will ensure this is handled immediately.\n\n"+
				"I appreciate your patience and will prioritize this accordingly.", task)
		},
	},
	{
		when: func(_ string, p domain.Priority, _ string) bool { return p == domain.PriorityLow },
		render: func(task, _ string) string {
			return fmt.Sprintf("Thank you for your email.\n\nI have received your request to %s.\n\n"+
				"I will ensure this is handled at my earliest convenience.\n\n"+
				"Please let me know if you need any additional information.", task)
		},
	},
	{
		when: func(_ string, p domain.Priority, deadline string) bool {
			return p == domain.PriorityMedium && hasDeadline(deadline)
		},
		render: func(task, deadline string) string {
			return fmt.Sprintf("Thank you for your email.\n\nI have received your request to %s.\n\n"+
				"I will make sure this is completed by %s.\n\n"+
				"Please let me know if you need any additional information.", task, deadline)
		},
	},
	{
		when: func(task string, _ domain.Priority, _ string) bool {
			return strings.Contains(task, "meeting") || strings.Contains(task, "schedule")
		},
		render: func(task, _ string) string {
			return fmt.Sprintf("Thank you for reaching out.\n\nI would be happy to %s. "+
				"I will check my calendar and send over a few times that work.", task)
		},
	},
	{
		when: func(task string, _ domain.Priority, _ string) bool {
			return strings.Contains(task, "review") || strings.Contains(task, "approve")
		},
		render: func(task, _ string) string {
			return fmt.Sprintf("Thank you for sending this over.\n\nI will %s and share my feedback "+
				"as soon as possible.", task)
		},
	},
}

// DraftReply fills the first matching response template.
func DraftReply(task string, priority domain.Priority, deadline string) string {
	normalized := strings.TrimRight(strings.ToLower(strings.TrimSpace(task)), ".")
	for _, branch := range replyBranches {
		if branch.when(normalized, priority, deadline) {
			return branch.render(normalized, deadline) + replySignOff
		}
	}
	return fmt.Sprintf("Thank you for your email.\n\nI have received your request to %s.\n\n"+
		"I will ensure this is handled as soon as possible.\n\n"+
		"Please let me know if you need any additional information.", normalized) + replySignOff
}

// BuildReminder describes when the task should be followed up.
func BuildReminder(priority domain.Priority, resolved domain.ResolvedDeadline) string {
	switch {
	case resolved.DaysUntil == 0:
		return "Due today - complete before end of day"
	case priority == domain.PriorityHigh:
		return fmt.Sprintf("High priority - follow up within 2 hours (due %s)", resolved.DisplayDate)
	case priority == domain.PriorityLow:
		return fmt.Sprintf("Low priority - revisit by %s", resolved.DisplayDate)
	default:
		return fmt.Sprintf("Reminder set for %s (%d day(s) left)", resolved.DisplayDate, resolved.DaysUntil)
	}
}

func hasDeadline(deadline string) bool {
	d := strings.TrimSpace(deadline)
	return d != "" && d != domain.DeadlineNotSpecified && d != "Unknown"
}
