// Package realtime fans workflow activity out to Server-Sent Events clients.
package realtime

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/out"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	clientBuffer       = 64
	defaultHistorySize = 50
)

// =============================================================================
// Activity Hub - ActivityPort 구현
// =============================================================================

// ActivityHub implements out.ActivityPort. Every event goes to every client.
type ActivityHub struct {
	mu      sync.RWMutex
	clients map[string]chan *domain.ActivityEvent
	log     zerolog.Logger

	// deliverMu orders sequence assignment, history and fan-out.
	deliverMu sync.Mutex

	historyMu   sync.Mutex
	history     []*domain.ActivityEvent
	historySize int

	seq     int64
	sent    int64
	dropped int64
}

// NewActivityHub creates a hub that remembers the last historySize events.
func NewActivityHub(log zerolog.Logger, historySize int) *ActivityHub {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &ActivityHub{
		clients:     make(map[string]chan *domain.ActivityEvent),
		log:         log.With().Str("component", "activity_hub").Logger(),
		historySize: historySize,
	}
}

var _ out.ActivityPort = (*ActivityHub)(nil)

func (h *ActivityHub) Subscribe(clientID string) <-chan *domain.ActivityEvent {
	ch := make(chan *domain.ActivityEvent, clientBuffer)

	h.mu.Lock()
	if old, ok := h.clients[clientID]; ok {
		close(old)
	}
	h.clients[clientID] = ch
	total := len(h.clients)
	h.mu.Unlock()

	h.log.Debug().Str("client_id", clientID).Int("clients", total).Msg("client subscribed")
	return ch
}

// Unsubscribe closes ch if it is still the client's current channel.
func (h *ActivityHub) Unsubscribe(clientID string, ch <-chan *domain.ActivityEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.clients[clientID]
	if !ok || (<-chan *domain.ActivityEvent)(current) != ch {
		return
	}
	delete(h.clients, clientID)
	close(current)

	h.log.Debug().Str("client_id", clientID).Msg("client unsubscribed")
}

// Broadcast stamps the event (ID, sequence, timestamp) and delivers it.
// Clients whose buffer is full miss the event.
func (h *ActivityHub) Broadcast(ctx context.Context, event *domain.ActivityEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.Seq = atomic.AddInt64(&h.seq, 1)
	h.remember(event)

	for clientID, ch := range h.clients {
		select {
		case ch <- event:
			atomic.AddInt64(&h.sent, 1)
		default:
			atomic.AddInt64(&h.dropped, 1)
			h.log.Warn().
				Str("client_id", clientID).
				Str("event_type", string(event.Type)).
				Int64("seq", event.Seq).
				Msg("dropped event due to full buffer")
		}
	}
	return nil
}

func (h *ActivityHub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Recent returns the remembered events, oldest first.
func (h *ActivityHub) Recent() []*domain.ActivityEvent {
	h.historyMu.Lock()
	defer h.historyMu.Unlock()
	return append([]*domain.ActivityEvent(nil), h.history...)
}

func (h *ActivityHub) remember(event *domain.ActivityEvent) {
	h.historyMu.Lock()
	defer h.historyMu.Unlock()
	if len(h.history) == h.historySize {
		h.history = append(h.history[:0], h.history[1:]...)
	}
	h.history = append(h.history, event)
}

// Stats returns delivery counters.
func (h *ActivityHub) Stats() HubStats {
	return HubStats{
		Clients: h.ConnectedCount(),
		Sent:    atomic.LoadInt64(&h.sent),
		Dropped: atomic.LoadInt64(&h.dropped),
		LastSeq: atomic.LoadInt64(&h.seq),
	}
}

// HubStats holds activity hub metrics.
type HubStats struct {
	Clients int   `json:"clients"`
	Sent    int64 `json:"sent"`
	Dropped int64 `json:"dropped"`
	LastSeq int64 `json:"last_seq"`
}

// =============================================================================
// Activity Client - HTTP Handler 연결용
// =============================================================================

// Client is one open activity stream.
type Client struct {
	ID        string
	Events    <-chan *domain.ActivityEvent
	Heartbeat time.Duration
	hub       *ActivityHub
	once      sync.Once
}

// Connect subscribes a new client with a generated ID.
func (h *ActivityHub) Connect(heartbeat time.Duration) *Client {
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	id := uuid.New().String()
	return &Client{ID: id, Events: h.Subscribe(id), Heartbeat: heartbeat, hub: h}
}

// Attach connects a client and returns the remembered events. The
// subscription comes first, so an event broadcast in between shows up in
// the backlog, the live channel or both; callers skip live events whose
// Seq is not above the last backlog Seq.
func (h *ActivityHub) Attach(heartbeat time.Duration) (*Client, []*domain.ActivityEvent) {
	client := h.Connect(heartbeat)
	return client, h.Recent()
}

// Close unsubscribes the client. Safe to call more than once.
func (c *Client) Close() {
	c.once.Do(func() { c.hub.Unsubscribe(c.ID, c.Events) })
}

// =============================================================================
// Event Serialization
// =============================================================================

// SerializeEvent renders the SSE data payload of an event.
func SerializeEvent(event *domain.ActivityEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Shutdown disconnects every client so open streams return.
func (h *ActivityHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.clients {
		close(ch)
		delete(h.clients, id)
	}
	h.log.Info().Msg("activity hub shut down")
}
