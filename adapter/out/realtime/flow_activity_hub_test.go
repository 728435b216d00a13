package realtime

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"flowpilot/core/domain"

	"github.com/rs/zerolog"
)

func TestActivityHub_BroadcastStampsAndDelivers(t *testing.T) {
	hub := NewActivityHub(zerolog.Nop(), 10)
	ctx := context.Background()

	a := hub.Subscribe("a")
	b := hub.Subscribe("b")
	if hub.ConnectedCount() != 2 {
		t.Fatalf("ConnectedCount = %d", hub.ConnectedCount())
	}

	for i := 0; i < 3; i++ {
		if err := hub.Broadcast(ctx, &domain.ActivityEvent{Type: domain.ActivityTaskCreated}); err != nil {
			t.Fatal(err)
		}
	}

	for _, ch := range []<-chan *domain.ActivityEvent{a, b} {
		for want := int64(1); want <= 3; want++ {
			e := <-ch
			if e.Seq != want {
				t.Errorf("Seq = %d, want %d", e.Seq, want)
			}
			if e.ID == "" || e.Timestamp.IsZero() {
				t.Errorf("event not stamped: %+v", e)
			}
		}
	}

	stats := hub.Stats()
	if stats.Sent != 6 || stats.Dropped != 0 || stats.LastSeq != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestActivityHub_FullBufferDrops(t *testing.T) {
	hub := NewActivityHub(zerolog.Nop(), 1)
	ctx := context.Background()
	hub.Subscribe("slow")

	for i := 0; i < clientBuffer+5; i++ {
		_ = hub.Broadcast(ctx, &domain.ActivityEvent{Type: domain.ActivityEmailAnalyzed})
	}

	stats := hub.Stats()
	if stats.Sent != clientBuffer || stats.Dropped != 5 {
		t.Errorf("sent=%d dropped=%d", stats.Sent, stats.Dropped)
	}
}

func TestActivityHub_UnsubscribeClosesCurrentChannelOnly(t *testing.T) {
	hub := NewActivityHub(zerolog.Nop(), 10)

	first := hub.Subscribe("c")
	second := hub.Subscribe("c")

	if _, ok := <-first; ok {
		t.Error("resubscribe should close the previous channel")
	}

	hub.Unsubscribe("c", first)
	if hub.ConnectedCount() != 1 {
		t.Fatal("stale unsubscribe removed the live channel")
	}

	hub.Unsubscribe("c", second)
	if _, ok := <-second; ok {
		t.Error("expected closed channel")
	}
	if hub.ConnectedCount() != 0 {
		t.Errorf("ConnectedCount = %d", hub.ConnectedCount())
	}
}

func TestActivityHub_RecentIsBounded(t *testing.T) {
	hub := NewActivityHub(zerolog.Nop(), 2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = hub.Broadcast(ctx, &domain.ActivityEvent{Type: domain.ActivityTaskCreated})
	}

	recent := hub.Recent()
	if len(recent) != 2 || recent[0].Seq != 4 || recent[1].Seq != 5 {
		t.Errorf("unexpected history %+v", recent)
	}
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	hub := NewActivityHub(zerolog.Nop(), 0)
	client := hub.Connect(0)

	if client.Heartbeat <= 0 {
		t.Error("expected default heartbeat")
	}
	client.Close()
	client.Close()
	if hub.ConnectedCount() != 0 {
		t.Error("client still connected")
	}
}

func TestSerializeEvent(t *testing.T) {
	data, err := SerializeEvent(&domain.ActivityEvent{ID: "x", Type: domain.ActivityTaskCompleted, Seq: 7})
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"seq":7`) || !strings.Contains(s, `"type":"task.completed"`) {
		t.Errorf("unexpected payload %s", s)
	}
}

func TestActivityHub_AttachKeepsEveryEvent(t *testing.T) {
	hub := NewActivityHub(zerolog.Nop(), 100)
	ctx := context.Background()
	const total = 40

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < total; i++ {
			_ = hub.Broadcast(ctx, &domain.ActivityEvent{Type: domain.ActivityTaskCreated})
		}
	}()
	client, backlog := hub.Attach(time.Second)
	<-done
	client.Close()

	seen := make(map[int64]int)
	var lastSeq int64
	for _, e := range backlog {
		seen[e.Seq]++
		lastSeq = e.Seq
	}
	for e := range client.Events {
		if e.Seq <= lastSeq {
			continue
		}
		seen[e.Seq]++
	}
	for seq := int64(1); seq <= total; seq++ {
		if seen[seq] != 1 {
			t.Errorf("event seq %d seen %d times", seq, seen[seq])
		}
	}
}

func TestActivityHub_ConcurrentBroadcastsStayOrdered(t *testing.T) {
	hub := NewActivityHub(zerolog.Nop(), 100)
	ch := hub.Subscribe("a")
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_ = hub.Broadcast(ctx, &domain.ActivityEvent{Type: domain.ActivityAgentStatus})
			}
		}()
	}
	wg.Wait()

	for want := int64(1); want <= 40; want++ {
		if e := <-ch; e.Seq != want {
			t.Fatalf("delivered Seq = %d, want %d", e.Seq, want)
		}
	}
	for i, e := range hub.Recent() {
		if e.Seq != int64(i+1) {
			t.Fatalf("history[%d].Seq = %d", i, e.Seq)
		}
	}
}
