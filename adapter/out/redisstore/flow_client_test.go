package redisstore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"flowpilot/core/domain"
	"flowpilot/pkg/apperr"

	"github.com/redis/go-redis/v9"
)

func unreachableClient() *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	return newClient(rdb, "test:", 2)
}

func TestClient_Key(t *testing.T) {
	c := unreachableClient()
	defer c.Close()

	if got := c.key("tasks", "seq"); got != "test:tasks:seq" {
		t.Errorf("key = %q", got)
	}
	if got := c.key("audit"); got != "test:audit" {
		t.Errorf("key = %q", got)
	}
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	c := unreachableClient()
	defer c.Close()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		err := c.Ping(ctx)
		if apperr.AsAppError(err).Code != apperr.CodeStoreError {
			t.Fatalf("attempt %d: expected store error, got %v", i+1, err)
		}
	}

	err := c.Ping(ctx)
	if apperr.GetHTTPStatus(err) != 503 {
		t.Fatalf("expected open breaker (503), got %v", err)
	}
	if c.BreakerState() != "open" {
		t.Errorf("BreakerState = %s, want open", c.BreakerState())
	}
}

func TestClient_MissDoesNotTripBreaker(t *testing.T) {
	c := unreachableClient()
	defer c.Close()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		err := c.exec(ctx, "miss", func() error { return redis.Nil })
		if !errors.Is(err, redis.Nil) {
			t.Fatalf("expected redis.Nil, got %v", err)
		}
	}
	if c.BreakerState() != "closed" {
		t.Errorf("BreakerState = %s, want closed", c.BreakerState())
	}
}

// TestStores_Live runs against a real server when REDIS_TEST_URL is set.
func TestStores_Live(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()

	prefix := "flowpilot-test-" + time.Now().Format("150405.000000") + ":"
	c, err := NewClient(ctx, Config{URL: url, KeyPrefix: prefix})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		keys, _ := c.rdb.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			c.rdb.Del(ctx, keys...)
		}
		c.Close()
	}()

	tasks := NewTaskStore(c)
	id, err := tasks.NextID(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := tasks.Append(ctx, &domain.Task{ID: id, Task: "review the doc", Status: domain.TaskStatusPending}); err != nil {
		t.Fatal(err)
	}
	got, err := tasks.Get(ctx, id)
	if err != nil || got.Task != "review the doc" {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if _, err := tasks.Get(ctx, id+100); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}

	audit := NewAuditStore(c, 2)
	for i := 0; i < 3; i++ {
		if err := audit.Append(ctx, &domain.AuditEntry{Agent: domain.AgentEmail, Action: "extract"}); err != nil {
			t.Fatal(err)
		}
	}
	entries, _ := audit.List(ctx, 0)
	if len(entries) != 2 || entries[0].ID != 3 {
		t.Errorf("unexpected audit entries %+v", entries)
	}

	m := NewMetricsStore(c)
	if _, err := m.Incr(ctx, domain.MetricEmailsProcessed, 2); err != nil {
		t.Fatal(err)
	}
	snap, _ := m.Snapshot(ctx)
	if snap[domain.MetricEmailsProcessed] != 2 || snap[domain.MetricHumanApprovals] != 0 {
		t.Errorf("unexpected snapshot %v", snap)
	}

	sc := NewScoreCache(c)
	_ = sc.Set(ctx, "abc", &domain.ScoreBreakdown{TotalScore: 42, Reasons: []string{}}, time.Minute)
	score, ok, err := sc.Get(ctx, "abc")
	if err != nil || !ok || score.TotalScore != 42 {
		t.Errorf("score cache Get = %+v, %v, %v", score, ok, err)
	}
	if err := sc.Delete(ctx, "abc"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := sc.Get(ctx, "abc"); ok {
		t.Error("score still cached after Delete")
	}
}
