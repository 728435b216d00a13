package redisstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/out"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// =============================================================================
// Task Store
// =============================================================================

// TaskStore keeps tasks in a hash keyed by ID plus a list preserving
// insertion order.
type TaskStore struct{ c *Client }

func NewTaskStore(c *Client) *TaskStore { return &TaskStore{c: c} }

var _ out.TaskStore = (*TaskStore)(nil)

func (s *TaskStore) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := s.c.exec(ctx, "next task id", func() (err error) {
		id, err = s.c.rdb.Incr(ctx, s.c.key("tasks", "seq")).Result()
		return err
	})
	return id, err
}

func (s *TaskStore) Append(ctx context.Context, task *domain.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	field := strconv.FormatInt(task.ID, 10)
	return s.c.exec(ctx, "append task", func() error {
		_, err := s.c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.c.key("tasks"), field, data)
			pipe.RPush(ctx, s.c.key("tasks", "order"), field)
			return nil
		})
		return err
	})
}

func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	var raw []interface{}
	err := s.c.exec(ctx, "list tasks", func() error {
		ids, err := s.c.rdb.LRange(ctx, s.c.key("tasks", "order"), 0, -1).Result()
		if err != nil || len(ids) == 0 {
			return err
		}
		raw, err = s.c.rdb.HMGet(ctx, s.c.key("tasks"), ids...).Result()
		return err
	})
	if err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var t domain.Task
		if err := json.Unmarshal([]byte(str), &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}
	return tasks, nil
}

func (s *TaskStore) Get(ctx context.Context, id int64) (*domain.Task, error) {
	var data []byte
	err := s.c.exec(ctx, "get task", func() (err error) {
		data, err = s.c.rdb.HGet(ctx, s.c.key("tasks"), strconv.FormatInt(id, 10)).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	var t domain.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	field := strconv.FormatInt(task.ID, 10)

	var exists bool
	err = s.c.exec(ctx, "update task", func() (err error) {
		exists, err = s.c.rdb.HExists(ctx, s.c.key("tasks"), field).Result()
		if err != nil || !exists {
			return err
		}
		return s.c.rdb.HSet(ctx, s.c.key("tasks"), field, data).Err()
	})
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrTaskNotFound
	}
	return nil
}

// =============================================================================
// Audit Store
// =============================================================================

// AuditStore is a capped list, newest first (LPUSH + LTRIM).
type AuditStore struct {
	c          *Client
	maxEntries int64
}

func NewAuditStore(c *Client, maxEntries int) *AuditStore {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &AuditStore{c: c, maxEntries: int64(maxEntries)}
}

var _ out.AuditStore = (*AuditStore)(nil)

func (s *AuditStore) Append(ctx context.Context, entry *domain.AuditEntry) error {
	return s.c.exec(ctx, "append audit", func() error {
		id, err := s.c.rdb.Incr(ctx, s.c.key("audit", "seq")).Result()
		if err != nil {
			return err
		}
		entry.ID = id
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		_, err = s.c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LPush(ctx, s.c.key("audit"), data)
			pipe.LTrim(ctx, s.c.key("audit"), 0, s.maxEntries-1)
			return nil
		})
		return err
	})
}

func (s *AuditStore) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	var raw []string
	err := s.c.exec(ctx, "list audit", func() (err error) {
		raw, err = s.c.rdb.LRange(ctx, s.c.key("audit"), 0, stop).Result()
		return err
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.AuditEntry](raw)
}

func (s *AuditStore) Clear(ctx context.Context) error {
	return s.c.exec(ctx, "clear audit", func() error {
		return s.c.rdb.Del(ctx, s.c.key("audit")).Err()
	})
}

// =============================================================================
// Calendar / Slack Stores
// =============================================================================

// listStore appends JSON values to one Redis list.
type listStore[T any] struct {
	c    *Client
	name string
}

func (s listStore[T]) push(ctx context.Context, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.c.exec(ctx, "append "+s.name, func() error {
		return s.c.rdb.RPush(ctx, s.c.key(s.name), data).Err()
	})
}

func (s listStore[T]) all(ctx context.Context) ([]*T, error) {
	var raw []string
	err := s.c.exec(ctx, "list "+s.name, func() (err error) {
		raw, err = s.c.rdb.LRange(ctx, s.c.key(s.name), 0, -1).Result()
		return err
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[T](raw)
}

type CalendarStore struct{ listStore[domain.CalendarEvent] }

func NewCalendarStore(c *Client) *CalendarStore {
	return &CalendarStore{listStore[domain.CalendarEvent]{c: c, name: "calendar"}}
}

var _ out.CalendarStore = (*CalendarStore)(nil)

func (s *CalendarStore) Append(ctx context.Context, e *domain.CalendarEvent) error {
	return s.push(ctx, e)
}

func (s *CalendarStore) List(ctx context.Context) ([]*domain.CalendarEvent, error) {
	return s.all(ctx)
}

type SlackStore struct{ listStore[domain.SlackMessage] }

func NewSlackStore(c *Client) *SlackStore {
	return &SlackStore{listStore[domain.SlackMessage]{c: c, name: "slack"}}
}

var _ out.SlackStore = (*SlackStore)(nil)

func (s *SlackStore) Append(ctx context.Context, m *domain.SlackMessage) error {
	return s.push(ctx, m)
}

func (s *SlackStore) List(ctx context.Context) ([]*domain.SlackMessage, error) {
	return s.all(ctx)
}

// =============================================================================
// Metrics Store / Score Cache
// =============================================================================

// MetricsStore keeps counters as fields of one hash (HINCRBY).
type MetricsStore struct{ c *Client }

func NewMetricsStore(c *Client) *MetricsStore { return &MetricsStore{c: c} }

var _ out.MetricsStore = (*MetricsStore)(nil)

func (s *MetricsStore) Incr(ctx context.Context, counter domain.MetricCounter, delta int64) (int64, error) {
	var v int64
	err := s.c.exec(ctx, "incr metric", func() (err error) {
		v, err = s.c.rdb.HIncrBy(ctx, s.c.key("metrics"), string(counter), delta).Result()
		return err
	})
	return v, err
}

func (s *MetricsStore) Snapshot(ctx context.Context) (map[domain.MetricCounter]int64, error) {
	var raw map[string]string
	err := s.c.exec(ctx, "snapshot metrics", func() (err error) {
		raw, err = s.c.rdb.HGetAll(ctx, s.c.key("metrics")).Result()
		return err
	})
	if err != nil {
		return nil, err
	}

	snap := make(map[domain.MetricCounter]int64, len(domain.AllMetricCounters))
	for _, c := range domain.AllMetricCounters {
		if v, ok := raw[string(c)]; ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, err
			}
			snap[c] = n
		} else {
			snap[c] = 0
		}
	}
	return snap, nil
}

func (s *MetricsStore) Reset(ctx context.Context) error {
	return s.c.exec(ctx, "reset metrics", func() error {
		return s.c.rdb.Del(ctx, s.c.key("metrics")).Err()
	})
}

type ScoreCache struct{ c *Client }

func NewScoreCache(c *Client) *ScoreCache { return &ScoreCache{c: c} }

var _ out.ScoreCache = (*ScoreCache)(nil)

func (s *ScoreCache) Get(ctx context.Context, key string) (*domain.ScoreBreakdown, bool, error) {
	var (
		score domain.ScoreBreakdown
		found bool
	)
	err := s.c.exec(ctx, "get score", func() (err error) {
		found, err = s.c.json.GetJSON(ctx, "score:"+key, &score)
		return err
	})
	if err != nil || !found {
		return nil, false, err
	}
	return &score, true, nil
}

func (s *ScoreCache) Set(ctx context.Context, key string, score *domain.ScoreBreakdown, ttl time.Duration) error {
	return s.c.exec(ctx, "set score", func() error {
		return s.c.json.SetJSON(ctx, "score:"+key, score, ttl)
	})
}

func (s *ScoreCache) Delete(ctx context.Context, key string) error {
	return s.c.exec(ctx, "delete score", func() error {
		return s.c.json.Delete(ctx, "score:"+key)
	})
}

func decodeAll[T any](raw []string) ([]*T, error) {
	result := make([]*T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal([]byte(r), &v); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	return result, nil
}
