package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"flowpilot/adapter/out/memory"
	"flowpilot/adapter/out/realtime"
	"flowpilot/adapter/out/redisstore"
	"flowpilot/config"
	"flowpilot/core/port/in"
	"flowpilot/core/port/out"
	"flowpilot/core/service/agent"
	"flowpilot/core/service/audit"
	"flowpilot/core/service/calendar"
	"flowpilot/core/service/metrics"
	"flowpilot/core/service/safety"
	"flowpilot/core/service/slack"
	"flowpilot/core/service/task"
	"flowpilot/core/service/workflow"
	"flowpilot/pkg/logger"
	pkgmetrics "flowpilot/pkg/metrics"

	"github.com/rs/zerolog"
)

const latencyWindow = 1000

// stores groups one backend's implementations of the store ports.
type stores struct {
	tasks    out.TaskStore
	audit    out.AuditStore
	calendar out.CalendarStore
	slack    out.SlackStore
	metrics  out.MetricsStore
	scores   out.ScoreCache
}

type Dependencies struct {
	Config *config.Config
	Log    zerolog.Logger

	// Backend
	Redis       *redisstore.Client
	ActivityHub *realtime.ActivityHub
	Routes      *pkgmetrics.LatencyRegistry

	// Services
	AuditService    in.AuditService
	AgentService    in.AgentService
	MetricsService  in.MetricsService
	SafetyService   in.SafetyService
	TaskService     in.TaskService
	CalendarService in.CalendarService
	WorkflowService in.WorkflowService
	SlackService    in.SlackService
}

// NewDependencies wires stores and services for cfg. The returned cleanup
// closes the activity hub and the Redis connection.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	return NewDependenciesWithClock(ctx, cfg, time.Now)
}

func NewDependenciesWithClock(ctx context.Context, cfg *config.Config, now func() time.Time) (*Dependencies, func(), error) {
	deps := &Dependencies{
		Config: cfg,
		Log:    newZerolog(cfg),
		Routes: pkgmetrics.NewLatencyRegistry(latencyWindow),
	}

	var s stores
	switch cfg.StoreBackend {
	case config.StoreRedis:
		client, err := redisstore.NewClient(ctx, redisstore.Config{URL: cfg.RedisURL, KeyPrefix: cfg.RedisKeyPrefix})
		if err != nil {
			return nil, nil, fmt.Errorf("redis store: %w", err)
		}
		deps.Redis = client
		s = stores{
			tasks:    redisstore.NewTaskStore(client),
			audit:    redisstore.NewAuditStore(client, cfg.AuditMaxEntries),
			calendar: redisstore.NewCalendarStore(client),
			slack:    redisstore.NewSlackStore(client),
			metrics:  redisstore.NewMetricsStore(client),
			scores:   redisstore.NewScoreCache(client),
		}
		logger.Info("[Bootstrap] Using Redis store (prefix %s)", cfg.RedisKeyPrefix)
	default:
		s = stores{
			tasks:    memory.NewTaskStore(),
			audit:    memory.NewAuditStore(cfg.AuditMaxEntries),
			calendar: memory.NewCalendarStore(),
			slack:    memory.NewSlackStore(),
			metrics:  memory.NewMetricsStore(),
			scores:   memory.NewScoreCache(cfg.ScoreCacheMaxEntries).WithClock(now),
		}
		logger.Info("[Bootstrap] Using in-memory store")
	}

	deps.ActivityHub = realtime.NewActivityHub(deps.Log, cfg.ActivityHistory)
	activity := deps.ActivityHub

	deps.AuditService = audit.NewServiceWithClock(s.audit, now)
	deps.AgentService = agent.NewServiceWithClock(activity, now)
	deps.MetricsService = metrics.NewService(s.metrics,
		metrics.WithClock(now),
		metrics.WithRouteLatency(deps.Routes),
		metrics.WithActivity(activity),
	)
	deps.SafetyService = safety.NewServiceWithClock(s.tasks, now)
	deps.TaskService = task.NewServiceWithClock(s.tasks, deps.AuditService, activity, now)
	deps.CalendarService = calendar.NewServiceWithClock(s.calendar, deps.AuditService, deps.AgentService, activity, now)

	deps.WorkflowService = workflow.NewService(workflow.Deps{
		Tasks:    s.tasks,
		Scores:   s.scores,
		Activity: activity,
		Metrics:  deps.MetricsService,
		Audit:    deps.AuditService,
		Agents:   deps.AgentService,
		Safety:   deps.SafetyService,
		Log:      deps.Log,
		Now:      now,
	}, workflow.Config{
		AutonomousDefault: cfg.AutonomousDefault,
		ScoreCacheTTL:     cfg.ScoreCacheTTL,
		BatchWorkers:      cfg.BatchWorkers,
		BatchMaxEmails:    cfg.BatchMaxEmails,
	})

	deps.SlackService = slack.NewServiceWithClock(
		s.slack,
		deps.CalendarService,
		deps.WorkflowService,
		deps.AuditService,
		activity,
		now,
	)

	cleanup := func() {
		deps.ActivityHub.Shutdown()
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				logger.WithError(err).Warn("[Bootstrap] Failed to close Redis")
			}
		}
	}

	return deps, cleanup, nil
}

// newZerolog builds the component logger used by the activity hub and the
// batch analyzer. Development gets console output.
func newZerolog(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var zlog zerolog.Logger
	if cfg.IsDevelopment() {
		zlog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		zlog = zerolog.New(os.Stdout)
	}
	return zlog.Level(level).With().Timestamp().Logger()
}
