package domain

import (
	"errors"
	"time"
)

// TaskStatus is the lifecycle state of a stored task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

var ErrTaskNotFound = errors.New("task not found")

// Task is an analysed email that was approved (by a human or autonomously)
// into the task list.
type Task struct {
	ID          int64      `json:"id"`
	Task        string     `json:"task"`
	Deadline    string     `json:"deadline"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	Reminder    string     `json:"reminder"`
	DraftReply  string     `json:"draft_reply,omitempty"`
	SourceEmail string     `json:"source_email,omitempty"`
	Autonomous  bool       `json:"autonomous"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsCompleted reports whether the task has been marked complete.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// Complete marks the task complete at now. Completing twice keeps the
// first completion time.
func (t *Task) Complete(now time.Time) {
	if t.IsCompleted() {
		return
	}
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
}

// TaskList is the task dashboard payload.
type TaskList struct {
	Tasks     []*Task `json:"tasks"`
	Total     int     `json:"total"`
	Pending   int     `json:"pending"`
	Completed int     `json:"completed"`
}

// NewTaskList counts pending and completed tasks.
func NewTaskList(tasks []*Task) *TaskList {
	if tasks == nil {
		tasks = []*Task{}
	}
	list := &TaskList{Tasks: tasks, Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted() {
			list.Completed++
		} else {
			list.Pending++
		}
	}
	return list
}
