package cache

import (
	"testing"
	"time"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be present")
	}
	c.Set("c", 3, 0) // evicts b, the least recently used

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRU_TTL(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	c := NewLRU[string](10).WithClock(func() time.Time { return now })

	c.Set("k", "v", time.Minute)
	c.Set("forever", "v", 0)

	now = now.Add(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected k before expiry")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("expected k to expire")
	}
	if _, ok := c.Get("forever"); !ok {
		t.Error("zero ttl entries must not expire")
	}

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Items != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestLRU_OverwriteRefreshes(t *testing.T) {
	c := NewLRU[int](2)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("a", 10, 0) // a becomes most recent
	c.Set("c", 3, 0)  // evicts b

	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) = %d, want 10", v)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}
}
