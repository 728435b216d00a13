package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/in"
	"flowpilot/core/port/out"
	"flowpilot/pkg/apperr"
	"flowpilot/pkg/logger"
)

// Service implements in.TaskService
type Service struct {
	store    out.TaskStore
	audit    in.AuditService
	activity out.ActivityPort
	now      func() time.Time
}

// NewService creates a new TaskService. activity may be nil.
func NewService(store out.TaskStore, audit in.AuditService, activity out.ActivityPort) in.TaskService {
	return NewServiceWithClock(store, audit, activity, time.Now)
}

func NewServiceWithClock(store out.TaskStore, audit in.AuditService, activity out.ActivityPort, now func() time.Time) in.TaskService {
	return &Service{store: store, audit: audit, activity: activity, now: now}
}

func (s *Service) List(ctx context.Context) (*domain.TaskList, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return domain.NewTaskList(tasks), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.store.Get(ctx, id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil, apperr.NotFound("task")
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}

// Complete marks the task complete. Completing a completed task is a no-op
// that returns the stored task.
func (s *Service) Complete(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return task, nil
	}

	task.Complete(s.now())
	if err := s.store.Update(ctx, task); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, apperr.NotFound("task")
		}
		return nil, fmt.Errorf("complete task %d: %w", id, err)
	}

	s.audit.Log(ctx, domain.AgentTask, "Completed task", fmt.Sprintf("#%d %s", task.ID, task.Task))
	if s.activity != nil {
		event := &domain.ActivityEvent{Type: domain.ActivityTaskCompleted, Data: task, Timestamp: s.now()}
		if err := s.activity.Broadcast(ctx, event); err != nil {
			logger.WithContext(ctx).WithError(err).Debug("[Task] completion broadcast failed")
		}
	}
	return task, nil
}
