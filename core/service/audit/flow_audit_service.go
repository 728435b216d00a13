package audit

import (
	"context"
	"fmt"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/in"
	"flowpilot/core/port/out"
	"flowpilot/pkg/logger"
)

// Service implements in.AuditService
type Service struct {
	store out.AuditStore
	now   func() time.Time
}

// NewService creates a new AuditService
func NewService(store out.AuditStore) in.AuditService {
	return NewServiceWithClock(store, time.Now)
}

// NewServiceWithClock is NewService with an injected clock.
func NewServiceWithClock(store out.AuditStore, now func() time.Time) in.AuditService {
	return &Service{store: store, now: now}
}

// Log appends an entry. A failed write is logged and dropped so that the
// audit trail never fails the request that produced it.
func (s *Service) Log(ctx context.Context, agent domain.AgentName, action, details string) {
	entry := &domain.AuditEntry{
		Timestamp: s.now(),
		Agent:     agent,
		Action:    action,
		Details:   details,
	}
	if err := s.store.Append(ctx, entry); err != nil {
		logger.WithContext(ctx).WithError(err).
			Warn("[Audit] failed to record %s/%s", agent, action)
	}
}

func (s *Service) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	entries, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	if entries == nil {
		entries = []*domain.AuditEntry{}
	}
	return entries, nil
}

func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear audit: %w", err)
	}
	return nil
}
