package memory

import (
	"context"
	"sync"

	"flowpilot/core/domain"
	"flowpilot/core/port/out"
)

// =============================================================================
// Audit Store
// =============================================================================

// AuditStore keeps at most maxEntries entries, newest first.
type AuditStore struct {
	mu         sync.RWMutex
	entries    []*domain.AuditEntry
	lastID     int64
	maxEntries int
}

func NewAuditStore(maxEntries int) *AuditStore {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &AuditStore{maxEntries: maxEntries}
}

var _ out.AuditStore = (*AuditStore)(nil)

func (s *AuditStore) Append(ctx context.Context, entry *domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	entry.ID = s.lastID
	stored := *entry

	s.entries = append([]*domain.AuditEntry{&stored}, s.entries...)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	return nil
}

// List returns up to limit newest entries; limit <= 0 returns all.
func (s *AuditStore) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]*domain.AuditEntry, n)
	for i := 0; i < n; i++ {
		e := *s.entries[i]
		result[i] = &e
	}
	return result, nil
}

// Clear drops every entry. IDs keep increasing.
func (s *AuditStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// =============================================================================
// Calendar / Slack Stores
// =============================================================================

type CalendarStore struct {
	mu     sync.RWMutex
	events []domain.CalendarEvent
}

func NewCalendarStore() *CalendarStore {
	return &CalendarStore{}
}

var _ out.CalendarStore = (*CalendarStore)(nil)

func (s *CalendarStore) Append(ctx context.Context, event *domain.CalendarEvent) error {
	e := *event
	e.Attendees = append([]string(nil), event.Attendees...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *CalendarStore) List(ctx context.Context) ([]*domain.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.CalendarEvent, len(s.events))
	for i := range s.events {
		e := s.events[i]
		e.Attendees = append([]string(nil), e.Attendees...)
		result[i] = &e
	}
	return result, nil
}

type SlackStore struct {
	mu       sync.RWMutex
	messages []domain.SlackMessage
}

func NewSlackStore() *SlackStore {
	return &SlackStore{}
}

var _ out.SlackStore = (*SlackStore)(nil)

func (s *SlackStore) Append(ctx context.Context, msg *domain.SlackMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *SlackStore) List(ctx context.Context) ([]*domain.SlackMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.SlackMessage, len(s.messages))
	for i := range s.messages {
		m := s.messages[i]
		result[i] = &m
	}
	return result, nil
}
