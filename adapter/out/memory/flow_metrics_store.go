package memory

import (
	"context"
	"sync"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/out"
	"flowpilot/pkg/cache"
)

type MetricsStore struct {
	mu       sync.Mutex
	counters map[domain.MetricCounter]int64
}

func NewMetricsStore() *MetricsStore {
	return &MetricsStore{counters: make(map[domain.MetricCounter]int64)}
}

var _ out.MetricsStore = (*MetricsStore)(nil)

func (s *MetricsStore) Incr(ctx context.Context, counter domain.MetricCounter, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[counter] += delta
	return s.counters[counter], nil
}

func (s *MetricsStore) Snapshot(ctx context.Context) (map[domain.MetricCounter]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[domain.MetricCounter]int64, len(domain.AllMetricCounters))
	for _, c := range domain.AllMetricCounters {
		snap[c] = s.counters[c]
	}
	return snap, nil
}

func (s *MetricsStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[domain.MetricCounter]int64)
	return nil
}

// =============================================================================
// Score Cache
// =============================================================================

// ScoreCache is an LRU-backed out.ScoreCache.
type ScoreCache struct {
	lru *cache.LRU[domain.ScoreBreakdown]
}

func NewScoreCache(maxItems int) *ScoreCache {
	return &ScoreCache{lru: cache.NewLRU[domain.ScoreBreakdown](maxItems)}
}

var _ out.ScoreCache = (*ScoreCache)(nil)

// WithClock sets the time source used for entry expiry.
func (c *ScoreCache) WithClock(now func() time.Time) *ScoreCache {
	c.lru.WithClock(now)
	return c
}

func (c *ScoreCache) Get(ctx context.Context, key string) (*domain.ScoreBreakdown, bool, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	v.Reasons = append([]string{}, v.Reasons...)
	return &v, true, nil
}

func (c *ScoreCache) Set(ctx context.Context, key string, score *domain.ScoreBreakdown, ttl time.Duration) error {
	v := *score
	v.Reasons = append([]string{}, score.Reasons...)
	c.lru.Set(key, v, ttl)
	return nil
}

func (c *ScoreCache) Delete(ctx context.Context, key string) error {
	c.lru.Delete(key)
	return nil
}

func (c *ScoreCache) Stats() cache.Stats {
	return c.lru.Stats()
}
