package out

import (
	"context"

	"flowpilot/core/domain"
)

// ActivityPort - 실시간 활동 피드 푸시
type ActivityPort interface {
	// Subscribe registers a client channel.
	Subscribe(clientID string) <-chan *domain.ActivityEvent

	// Unsubscribe closes the client channel.
	Unsubscribe(clientID string, ch <-chan *domain.ActivityEvent)

	// Broadcast sends an event to every connected client. Slow clients drop events.
	Broadcast(ctx context.Context, event *domain.ActivityEvent) error

	ConnectedCount() int
}
