package out

import (
	"context"
	"time"

	"flowpilot/core/domain"
)

// Stores are individually synchronized. No operation spans two stores, so a
// request that writes a task and an audit entry is not atomic.

// TaskStore - 승인된 태스크 저장소
type TaskStore interface {
	// NextID reserves the next sequential task ID.
	NextID(ctx context.Context) (int64, error)
	Append(ctx context.Context, task *domain.Task) error
	// List returns tasks in insertion order.
	List(ctx context.Context) ([]*domain.Task, error)
	// Get returns domain.ErrTaskNotFound for unknown IDs.
	Get(ctx context.Context, id int64) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
}

// AuditStore keeps a bounded, newest-first agent activity log.
type AuditStore interface {
	// Append assigns entry.ID.
	Append(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
	Clear(ctx context.Context) error
}

type CalendarStore interface {
	Append(ctx context.Context, event *domain.CalendarEvent) error
	List(ctx context.Context) ([]*domain.CalendarEvent, error)
}

type SlackStore interface {
	Append(ctx context.Context, msg *domain.SlackMessage) error
	List(ctx context.Context) ([]*domain.SlackMessage, error)
}

// MetricsStore holds the productivity counters.
type MetricsStore interface {
	Incr(ctx context.Context, counter domain.MetricCounter, delta int64) (int64, error)
	// Snapshot returns every counter; missing counters read as zero.
	Snapshot(ctx context.Context) (map[domain.MetricCounter]int64, error)
	Reset(ctx context.Context) error
}

// ScoreCache memoizes scorer output by content hash.
type ScoreCache interface {
	Get(ctx context.Context, key string) (*domain.ScoreBreakdown, bool, error)
	Set(ctx context.Context, key string, score *domain.ScoreBreakdown, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// HealthChecker is implemented by backends that can be probed for readiness.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
