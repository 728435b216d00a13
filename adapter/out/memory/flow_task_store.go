// Package memory implements the store ports with mutex-guarded slices.
// Values are copied in and out so callers never share state with the store.
package memory

import (
	"context"
	"sync"

	"flowpilot/core/domain"
	"flowpilot/core/port/out"
)

type TaskStore struct {
	mu     sync.RWMutex
	tasks  []*domain.Task
	lastID int64
}

func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

var _ out.TaskStore = (*TaskStore)(nil)

func (s *TaskStore) NextID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	return s.lastID, nil
}

func (s *TaskStore) Append(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, cloneTask(task))
	if task.ID > s.lastID {
		s.lastID = task.ID
	}
	return nil
}

func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		result[i] = cloneTask(t)
	}
	return result, nil
}

func (s *TaskStore) Get(ctx context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneTask(s.tasks[i]), nil
	}
	return nil, domain.ErrTaskNotFound
}

func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(task.ID)
	if i < 0 {
		return domain.ErrTaskNotFound
	}
	s.tasks[i] = cloneTask(task)
	return nil
}

// indexOf expects the lock held.
func (s *TaskStore) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}
