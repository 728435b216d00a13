// Package redisstore implements the store ports on Redis so several
// server instances can share one workspace.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flowpilot/pkg/apperr"
	"flowpilot/pkg/cache"
	"flowpilot/pkg/logger"
	"flowpilot/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// Config for the Redis backend.
type Config struct {
	URL       string
	KeyPrefix string
}

// Client is the shared Redis connection plus its circuit breaker.
type Client struct {
	rdb      *redis.Client
	prefix   string
	cb       *gobreaker.CircuitBreaker
	json     *cache.RedisCache
	poolSize int
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return newClient(rdb, cfg.KeyPrefix, opts.PoolSize), nil
}

func newClient(rdb *redis.Client, prefix string, poolSize int) *Client {
	if prefix == "" {
		prefix = "flowpilot:"
	}

	settings := gobreaker.Settings{
		Name:        "redis-store",
		MaxRequests: 3,                // half-open probes
		Interval:    60 * time.Second, // closed-state counter reset
		Timeout:     15 * time.Second, // open-state duration
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithField("component", "redisstore").
				Warn("[CircuitBreaker] %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &Client{
		rdb:      rdb,
		prefix:   prefix,
		cb:       gobreaker.NewCircuitBreaker(settings),
		json:     cache.NewRedisCache(rdb, prefix),
		poolSize: poolSize,
	}
}

// key namespaces a store key.
func (c *Client) key(parts ...string) string {
	k := c.prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}

// exec runs fn behind the circuit breaker. redis.Nil is a result, not a
// failure, and does not count against the breaker.
func (c *Client) exec(ctx context.Context, operation string, fn func() error) error {
	var miss bool
	_, err := c.cb.Execute(func() (interface{}, error) {
		err := fn()
		if errors.Is(err, redis.Nil) {
			miss = true
			return nil, nil
		}
		return nil, err
	})

	switch {
	case err == nil && miss:
		return redis.Nil
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperr.Unavailable("redis", err)
	default:
		logger.WithContext(ctx).WithField("component", "redisstore").WithError(err).
			Error("redis %s failed", operation)
		return apperr.StoreError(operation, err)
	}
}

// Ping implements out.HealthChecker.
func (c *Client) Ping(ctx context.Context) error {
	return c.exec(ctx, "ping", func() error {
		return c.rdb.Ping(ctx).Err()
	})
}

// PoolHealth reports connection pool utilization.
func (c *Client) PoolHealth() metrics.PoolHealth {
	return metrics.AssessStorePool(metrics.ReadStorePool(c.rdb.PoolStats(), c.poolSize))
}

// BreakerState is the current circuit state name.
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
