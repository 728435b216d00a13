// Package safety scans email content for fraud and data-leak risks and
// flags stored tasks that should be double-checked before acting.
package safety

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/in"
	"flowpilot/core/port/out"
	"flowpilot/core/service/triage"
	"flowpilot/pkg/apperr"
)

// Warning types reported by CheckTask.
const (
	WarningHighPriority     = "High Priority"
	WarningMissingDeadline  = "Missing Deadline"
	WarningImminentDeadline = "Imminent Deadline"
	WarningRiskyContent     = "Risky Content"
	WarningApproval         = "Approval Required"
)

// Service implements in.SafetyService
type Service struct {
	tasks out.TaskStore
	now   func() time.Time
}

// NewService creates a new SafetyService
func NewService(tasks out.TaskStore) in.SafetyService {
	return NewServiceWithClock(tasks, time.Now)
}

func NewServiceWithClock(tasks out.TaskStore, now func() time.Time) in.SafetyService {
	return &Service{tasks: tasks, now: now}
}

func (s *Service) ScanContent(ctx context.Context, content string) *domain.SafetyScan {
	return Scan(content)
}

func (s *Service) CheckTask(ctx context.Context, taskID int64) (*domain.TaskSafety, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil, apperr.NotFound("task")
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", taskID, err)
	}

	warnings := TaskWarnings(task, s.now())
	result := &domain.TaskSafety{TaskID: task.ID, IsSafe: true, Warnings: warnings}
	for _, w := range warnings {
		if w.Severity.Blocking() {
			result.IsSafe = false
			break
		}
	}
	return result, nil
}

// TaskWarnings lists the reasons to double-check task as of now.
func TaskWarnings(task *domain.Task, now time.Time) []domain.TaskWarning {
	warnings := []domain.TaskWarning{}

	if task.Priority == domain.PriorityHigh {
		warnings = append(warnings, domain.TaskWarning{
			Type:     WarningHighPriority,
			Severity: domain.RiskMedium,
			Message:  "High priority task: verify the request before acting",
		})
	}

	deadline := strings.TrimSpace(task.Deadline)
	if deadline == "" || strings.EqualFold(deadline, domain.DeadlineNotSpecified) {
		warnings = append(warnings, domain.TaskWarning{
			Type:     WarningMissingDeadline,
			Severity: domain.RiskLow,
			Message:  "No deadline specified; confirm timing with the sender",
		})
	} else if !task.IsCompleted() {
		resolved := triage.ResolveDeadline(deadline, now)
		if resolved.Date != nil && resolved.DaysUntil <= 1 {
			warnings = append(warnings, domain.TaskWarning{
				Type:     WarningImminentDeadline,
				Severity: domain.RiskHigh,
				Message:  fmt.Sprintf("Deadline is %s (%s)", resolved.DisplayDate, daysLabel(resolved.DaysUntil)),
			})
		}
	}

	scan := Scan(task.Task + "\n" + task.SourceEmail)
	if !scan.IsSafe {
		severity := domain.RiskHigh
		if scan.DangerousCount > 0 {
			severity = domain.RiskCritical
		}
		warnings = append(warnings, domain.TaskWarning{
			Type:     WarningRiskyContent,
			Severity: severity,
			Message:  fmt.Sprintf("Source content risk score %d (%s)", scan.RiskScore, scan.RiskLabel),
		})
	}
	if scan.NeedsApproval {
		warnings = append(warnings, domain.TaskWarning{
			Type:     WarningApproval,
			Severity: domain.RiskMedium,
			Message:  "Request mentions an approval or budget sign-off",
		})
	}
	return warnings
}

func daysLabel(days int) string {
	switch days {
	case 0:
		return "due today"
	case 1:
		return "1 day away"
	default:
		return fmt.Sprintf("%d days away", days)
	}
}
