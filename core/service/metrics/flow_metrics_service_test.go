package metrics

import (
	"context"
	"testing"
	"time"

	"flowpilot/adapter/out/memory"
	"flowpilot/core/domain"
	pkgmetrics "flowpilot/pkg/metrics"
)

func TestProductivity(t *testing.T) {
	snap := map[domain.MetricCounter]int64{
		domain.MetricEmailsProcessed:     4,
		domain.MetricTasksCreated:        2,
		domain.MetricTasksCompleted:      1,
		domain.MetricMeetingsScheduled:   1,
		domain.MetricSlackMessages:       3,
		domain.MetricAutonomousApprovals: 1,
		domain.MetricHumanApprovals:      1,
	}

	m := Productivity(snap, 2*time.Hour)
	if m.TimeSavedMinutes != 47 {
		t.Errorf("TimeSavedMinutes = %d, want 47", m.TimeSavedMinutes)
	}
	if m.TimeSavedHours != 0.8 {
		t.Errorf("TimeSavedHours = %v, want 0.8", m.TimeSavedHours)
	}
	if m.EfficiencyScore != 50 {
		t.Errorf("EfficiencyScore = %d, want 50", m.EfficiencyScore)
	}
	if m.UptimeHours != 2 {
		t.Errorf("UptimeHours = %v", m.UptimeHours)
	}

	e := Enterprise(m)
	want := domain.EnterpriseMetrics{
		ROIIndicator:        "Positive",
		AutomationRate:      "50%",
		TasksPerDay:         2,
		EmailProcessingRate: 2,
	}
	if e != want {
		t.Errorf("Enterprise = %+v, want %+v", e, want)
	}
}

func TestProductivity_Empty(t *testing.T) {
	m := Productivity(map[domain.MetricCounter]int64{}, 0)
	if m.EfficiencyScore != 0 || m.TimeSavedMinutes != 0 {
		t.Errorf("unexpected %+v", m)
	}
	e := Enterprise(m)
	if e.AutomationRate != "0%" || e.ROIIndicator != "Pending" {
		t.Errorf("unexpected %+v", e)
	}
}

func TestRoiIndicator(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "Pending"},
		{0.1, "Positive"},
		{1, "High"},
		{12.5, "Excellent"},
	}
	for _, tt := range tests {
		if got := roiIndicator(tt.hours); got != tt.want {
			t.Errorf("roiIndicator(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestService_DashboardAndReset(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	routes := pkgmetrics.NewLatencyRegistry(10)

	svc := NewService(memory.NewMetricsStore(), WithClock(clock), WithRouteLatency(routes))

	for i := 0; i < 3; i++ {
		if err := svc.Record(ctx, domain.MetricEmailsProcessed); err != nil {
			t.Fatal(err)
		}
	}
	svc.ObserveAnalysis(2 * time.Millisecond)
	routes.Record("POST /analyze", 4*time.Millisecond)
	now = now.Add(90 * time.Minute)

	d, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.Metrics.TotalEmailsProcessed != 3 || d.Metrics.UptimeHours != 1.5 {
		t.Errorf("metrics = %+v", d.Metrics)
	}
	if d.AnalysisLatency.Count != 1 || d.AnalysisLatency.MaxMs != 2 {
		t.Errorf("analysis latency = %+v", d.AnalysisLatency)
	}
	if d.RouteLatency["POST /analyze"].Count != 1 {
		t.Errorf("route latency = %+v", d.RouteLatency)
	}

	if err := svc.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	d, _ = svc.Dashboard(ctx)
	if d.Metrics.TotalEmailsProcessed != 0 || d.Metrics.UptimeHours != 0 || d.AnalysisLatency.Count != 0 {
		t.Errorf("after reset = %+v / %+v", d.Metrics, d.AnalysisLatency)
	}
	if len(d.RouteLatency) != 0 {
		t.Errorf("route latency not reset: %+v", d.RouteLatency)
	}
}
