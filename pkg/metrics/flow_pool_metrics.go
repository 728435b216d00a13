package metrics

import "github.com/redis/go-redis/v9"

// =============================================================================
// Store Pool Monitor
// =============================================================================

// StorePoolStats is a snapshot of the Redis connection pool.
type StorePoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
	PoolSize   int    `json:"pool_size"`
}

// ReadStorePool converts go-redis pool counters.
func ReadStorePool(stats *redis.PoolStats, poolSize int) StorePoolStats {
	if stats == nil {
		return StorePoolStats{PoolSize: poolSize}
	}
	return StorePoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
		PoolSize:   poolSize,
	}
}

type PoolHealthStatus string

const (
	PoolHealthy   PoolHealthStatus = "healthy"
	PoolDegraded  PoolHealthStatus = "degraded"
	PoolUnhealthy PoolHealthStatus = "unhealthy"
)

// PoolHealth is the assessment reported by /ready.
type PoolHealth struct {
	Status      PoolHealthStatus `json:"status"`
	Utilization float64          `json:"utilization"`
	Message     string           `json:"message,omitempty"`
}

// AssessStorePool grades pool utilization and timeouts.
func AssessStorePool(stats StorePoolStats) PoolHealth {
	if stats.PoolSize <= 0 {
		return PoolHealth{Status: PoolHealthy, Message: "unbounded pool"}
	}

	inUse := int(stats.TotalConns) - int(stats.IdleConns)
	if inUse < 0 {
		inUse = 0
	}
	utilization := float64(inUse) / float64(stats.PoolSize)

	health := PoolHealth{Status: PoolHealthy, Utilization: utilization, Message: "pool operating normally"}
	switch {
	case utilization >= 0.95:
		health.Status = PoolUnhealthy
		health.Message = "pool nearly exhausted"
	case utilization >= 0.80:
		health.Status = PoolDegraded
		health.Message = "high pool utilization"
	}

	if stats.Timeouts > 0 && health.Status == PoolHealthy {
		health.Status = PoolDegraded
		health.Message = "connection wait timeouts observed"
	}
	return health
}
