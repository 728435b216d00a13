// Package metrics derives the productivity dashboard from the raw counters.
package metrics

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/in"
	"flowpilot/core/port/out"
	"flowpilot/pkg/logger"
	pkgmetrics "flowpilot/pkg/metrics"
)

// Service implements in.MetricsService
type Service struct {
	store    out.MetricsStore
	analysis *pkgmetrics.LatencyTracker
	routes   *pkgmetrics.LatencyRegistry
	activity out.ActivityPort
	now      func() time.Time

	mu      sync.RWMutex
	startAt time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRouteLatency exposes per-route HTTP latency on the dashboard.
func WithRouteLatency(r *pkgmetrics.LatencyRegistry) Option {
	return func(s *Service) { s.routes = r }
}

// WithActivity publishes a metrics.reset event on Reset.
func WithActivity(a out.ActivityPort) Option {
	return func(s *Service) { s.activity = a }
}

// NewService creates a new MetricsService
func NewService(store out.MetricsStore, opts ...Option) in.MetricsService {
	s := &Service{
		store:    store,
		analysis: pkgmetrics.NewLatencyTracker(0),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startAt = s.now()
	return s
}

func (s *Service) Record(ctx context.Context, counter domain.MetricCounter) error {
	if _, err := s.store.Incr(ctx, counter, 1); err != nil {
		return fmt.Errorf("record %s: %w", counter, err)
	}
	return nil
}

func (s *Service) ObserveAnalysis(d time.Duration) {
	s.analysis.Record(d)
}

func (s *Service) Dashboard(ctx context.Context) (*domain.MetricsDashboard, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics snapshot: %w", err)
	}

	s.mu.RLock()
	uptime := s.now().Sub(s.startAt)
	s.mu.RUnlock()

	m := Productivity(snap, uptime)
	dashboard := &domain.MetricsDashboard{
		Metrics:           m,
		EnterpriseMetrics: Enterprise(m),
		AnalysisLatency:   summarize(s.analysis.Stats()),
	}

	if s.routes != nil {
		all := s.routes.AllStats()
		dashboard.RouteLatency = make(map[string]domain.LatencySummary, len(all))
		for route, stats := range all {
			if stats.Count == 0 {
				continue
			}
			dashboard.RouteLatency[route] = summarize(stats)
		}
	}
	return dashboard, nil
}

// Reset zeroes the counters, the latency windows and the uptime clock.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset metrics: %w", err)
	}
	s.analysis.Reset()
	if s.routes != nil {
		s.routes.Reset()
	}

	s.mu.Lock()
	s.startAt = s.now()
	s.mu.Unlock()

	if s.activity != nil {
		event := &domain.ActivityEvent{Type: domain.ActivityMetricsReset, Timestamp: s.now()}
		if err := s.activity.Broadcast(ctx, event); err != nil {
			logger.WithContext(ctx).WithError(err).Debug("[Metrics] reset broadcast failed")
		}
	}
	return nil
}

// =============================================================================
// Derived Metrics
// =============================================================================

// Productivity turns raw counters into the dashboard counter block.
func Productivity(snap map[domain.MetricCounter]int64, uptime time.Duration) domain.ProductivityMetrics {
	m := domain.ProductivityMetrics{
		TotalEmailsProcessed:   snap[domain.MetricEmailsProcessed],
		TotalTasksCreated:      snap[domain.MetricTasksCreated],
		TotalTasksCompleted:    snap[domain.MetricTasksCompleted],
		TotalMeetingsScheduled: snap[domain.MetricMeetingsScheduled],
		TotalSlackMessages:     snap[domain.MetricSlackMessages],
		AutonomousApprovals:    snap[domain.MetricAutonomousApprovals],
		HumanApprovals:         snap[domain.MetricHumanApprovals],
		UptimeHours:            round1(uptime.Hours()),
	}

	m.TimeSavedMinutes = m.TotalEmailsProcessed*domain.MinutesSavedPerEmail +
		m.TotalMeetingsScheduled*domain.MinutesSavedPerMeeting +
		m.TotalSlackMessages*domain.MinutesSavedPerSlack +
		m.TotalTasksCreated*domain.MinutesSavedPerTask
	m.TimeSavedHours = round1(float64(m.TimeSavedMinutes) / 60)
	m.EfficiencyScore = efficiencyScore(m)
	return m
}

// efficiencyScore weighs completion (50%), automation (30%) and the share
// of processed emails that became tasks (20%).
func efficiencyScore(m domain.ProductivityMetrics) int {
	if m.TotalEmailsProcessed == 0 && m.TotalTasksCreated == 0 {
		return 0
	}
	completion := ratio(m.TotalTasksCompleted, m.TotalTasksCreated)
	automation := ratio(m.AutonomousApprovals, m.AutonomousApprovals+m.HumanApprovals)
	conversion := ratio(m.TotalTasksCreated, m.TotalEmailsProcessed)

	score := int(math.Round(100 * (0.5*completion + 0.3*automation + 0.2*conversion)))
	if score > 100 {
		score = 100
	}
	return score
}

// Enterprise derives the business indicators from the counter block.
func Enterprise(m domain.ProductivityMetrics) domain.EnterpriseMetrics {
	days := m.UptimeHours / 24
	if days < 1 {
		days = 1
	}
	hours := m.UptimeHours
	if hours < 1 {
		hours = 1
	}

	return domain.EnterpriseMetrics{
		ROIIndicator:        roiIndicator(m.TimeSavedHours),
		AutomationRate:      fmt.Sprintf("%.0f%%", 100*ratio(m.AutonomousApprovals, m.AutonomousApprovals+m.HumanApprovals)),
		TasksPerDay:         round1(float64(m.TotalTasksCreated) / days),
		EmailProcessingRate: round1(float64(m.TotalEmailsProcessed) / hours),
	}
}

func roiIndicator(hoursSaved float64) string {
	switch {
	case hoursSaved >= 10:
		return "Excellent"
	case hoursSaved >= 1:
		return "High"
	case hoursSaved > 0:
		return "Positive"
	default:
		return "Pending"
	}
}

func summarize(s pkgmetrics.LatencyStats) domain.LatencySummary {
	return domain.LatencySummary{
		Count: s.Count,
		AvgMs: pkgmetrics.Millis(s.Avg),
		P50Ms: pkgmetrics.Millis(s.P50),
		P95Ms: pkgmetrics.Millis(s.P95),
		P99Ms: pkgmetrics.Millis(s.P99),
		MaxMs: pkgmetrics.Millis(s.Max),
	}
}

func ratio(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	r := float64(part) / float64(whole)
	if r > 1 {
		return 1
	}
	return r
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
