// Package agent tracks the state of the four workflow agents.
package agent

import (
	"context"
	"sync"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/in"
	"flowpilot/core/port/out"
	"flowpilot/pkg/logger"
)

// Service implements in.AgentService
type Service struct {
	mu       sync.RWMutex
	agents   map[domain.AgentKey]domain.AgentStatus
	active   domain.AgentKey
	activity out.ActivityPort
	now      func() time.Time
}

// NewService creates a new AgentService. activity may be nil.
func NewService(activity out.ActivityPort) in.AgentService {
	return NewServiceWithClock(activity, time.Now)
}

func NewServiceWithClock(activity out.ActivityPort, now func() time.Time) in.AgentService {
	agents := make(map[domain.AgentKey]domain.AgentStatus, len(domain.AllAgentKeys))
	for _, key := range domain.AllAgentKeys {
		agents[key] = domain.AgentStatus{Status: domain.AgentIdle}
	}
	return &Service{agents: agents, activity: activity, now: now}
}

// Begin marks the agent as processing.
func (s *Service) Begin(ctx context.Context, key domain.AgentKey) {
	s.mu.Lock()
	st := s.agents[key]
	st.Status = domain.AgentProcessing
	s.agents[key] = st
	s.active = key
	s.mu.Unlock()

	s.publish(ctx, key, st)
}

// Finish records the run outcome. err == nil means completed.
func (s *Service) Finish(ctx context.Context, key domain.AgentKey, err error) {
	now := s.now()

	s.mu.Lock()
	st := s.agents[key]
	st.Status = domain.AgentCompleted
	if err != nil {
		st.Status = domain.AgentError
	}
	st.LastRun = &now
	st.Runs++
	s.agents[key] = st
	if s.active == key {
		s.active = ""
	}
	s.mu.Unlock()

	s.publish(ctx, key, st)
}

func (s *Service) Board() *domain.AgentBoard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents := make(map[domain.AgentKey]domain.AgentStatus, len(s.agents))
	for k, v := range s.agents {
		if v.LastRun != nil {
			t := *v.LastRun
			v.LastRun = &t
		}
		agents[k] = v
	}
	return &domain.AgentBoard{Agents: agents, ActiveAgent: s.active}
}

func (s *Service) publish(ctx context.Context, key domain.AgentKey, st domain.AgentStatus) {
	if s.activity == nil {
		return
	}
	event := &domain.ActivityEvent{
		Type:      domain.ActivityAgentStatus,
		Data:      map[string]any{"agent": key, "status": st.Status},
		Timestamp: s.now(),
	}
	if err := s.activity.Broadcast(ctx, event); err != nil {
		logger.WithContext(ctx).WithError(err).Debug("[Agent] status broadcast failed")
	}
}
