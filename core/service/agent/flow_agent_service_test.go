package agent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"flowpilot/core/domain"
)

type recordingActivity struct {
	mu     sync.Mutex
	events []*domain.ActivityEvent
}

func (r *recordingActivity) Subscribe(string) <-chan *domain.ActivityEvent   { return nil }
func (r *recordingActivity) Unsubscribe(string, <-chan *domain.ActivityEvent) {}
func (r *recordingActivity) ConnectedCount() int                             { return 0 }
func (r *recordingActivity) Broadcast(_ context.Context, e *domain.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	activity := &recordingActivity{}
	svc := NewServiceWithClock(activity, func() time.Time { return at })

	board := svc.Board()
	for _, key := range domain.AllAgentKeys {
		if board.Agents[key].Status != domain.AgentIdle || board.Agents[key].LastRun != nil {
			t.Errorf("%s: initial status %+v", key, board.Agents[key])
		}
	}

	svc.Begin(ctx, domain.AgentKeyEmail)
	if b := svc.Board(); b.ActiveAgent != domain.AgentKeyEmail || b.Agents[domain.AgentKeyEmail].Status != domain.AgentProcessing {
		t.Errorf("after Begin: %+v", b)
	}

	svc.Finish(ctx, domain.AgentKeyEmail, nil)
	svc.Begin(ctx, domain.AgentKeyDecision)
	svc.Finish(ctx, domain.AgentKeyDecision, errors.New("boom"))

	b := svc.Board()
	if b.ActiveAgent != "" {
		t.Errorf("active agent = %q", b.ActiveAgent)
	}
	email := b.Agents[domain.AgentKeyEmail]
	if email.Status != domain.AgentCompleted || email.Runs != 1 || !email.LastRun.Equal(at) {
		t.Errorf("email agent = %+v", email)
	}
	if b.Agents[domain.AgentKeyDecision].Status != domain.AgentError {
		t.Errorf("decision agent = %+v", b.Agents[domain.AgentKeyDecision])
	}
	if len(activity.events) != 4 {
		t.Errorf("expected 4 status events, got %d", len(activity.events))
	}
}

func TestService_BoardIsACopy(t *testing.T) {
	svc := NewService(nil)
	svc.Finish(context.Background(), domain.AgentKeyTask, nil)

	b := svc.Board()
	b.Agents[domain.AgentKeyTask] = domain.AgentStatus{Status: domain.AgentError}

	if svc.Board().Agents[domain.AgentKeyTask].Status != domain.AgentCompleted {
		t.Error("board mutation leaked into service state")
	}
}
