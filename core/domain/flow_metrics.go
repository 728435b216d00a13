package domain

// MetricCounter names a productivity counter.
type MetricCounter string

const (
	MetricEmailsProcessed     MetricCounter = "emails_processed"
	MetricTasksCreated        MetricCounter = "tasks_created"
	MetricTasksCompleted      MetricCounter = "tasks_completed"
	MetricMeetingsScheduled   MetricCounter = "meetings_scheduled"
	MetricSlackMessages       MetricCounter = "slack_messages"
	MetricAutonomousApprovals MetricCounter = "autonomous_approvals"
	MetricHumanApprovals      MetricCounter = "human_approvals"
)

// AllMetricCounters lists every counter, in dashboard order.
var AllMetricCounters = []MetricCounter{
	MetricEmailsProcessed,
	MetricTasksCreated,
	MetricTasksCompleted,
	MetricMeetingsScheduled,
	MetricSlackMessages,
	MetricAutonomousApprovals,
	MetricHumanApprovals,
}

// Minutes of manual work each automated action is assumed to save.
const (
	MinutesSavedPerEmail   = 5
	MinutesSavedPerMeeting = 15
	MinutesSavedPerSlack   = 2
	MinutesSavedPerTask    = 3
)

// ProductivityMetrics is the counter block of the dashboard.
type ProductivityMetrics struct {
	TotalEmailsProcessed   int64   `json:"total_emails_processed"`
	TotalTasksCreated      int64   `json:"total_tasks_created"`
	TotalTasksCompleted    int64   `json:"total_tasks_completed"`
	TotalMeetingsScheduled int64   `json:"total_meetings_scheduled"`
	TotalSlackMessages     int64   `json:"total_slack_messages"`
	AutonomousApprovals    int64   `json:"autonomous_approvals"`
	HumanApprovals         int64   `json:"human_approvals"`
	TimeSavedMinutes       int64   `json:"time_saved_minutes"`
	TimeSavedHours         float64 `json:"time_saved_hours"`
	EfficiencyScore        int     `json:"efficiency_score"`
	UptimeHours            float64 `json:"uptime_hours"`
}

// EnterpriseMetrics are derived business indicators.
type EnterpriseMetrics struct {
	ROIIndicator        string  `json:"roi_indicator"`
	AutomationRate      string  `json:"automation_rate"`
	TasksPerDay         float64 `json:"tasks_per_day"`
	EmailProcessingRate float64 `json:"email_processing_rate"`
}

// LatencySummary is a latency distribution in milliseconds.
type LatencySummary struct {
	Count int64   `json:"count"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
	MaxMs float64 `json:"max_ms"`
}

// MetricsDashboard is the /metrics/dashboard payload.
type MetricsDashboard struct {
	Metrics           ProductivityMetrics       `json:"metrics"`
	EnterpriseMetrics EnterpriseMetrics         `json:"enterprise_metrics"`
	AnalysisLatency   LatencySummary            `json:"analysis_latency"`
	RouteLatency      map[string]LatencySummary `json:"route_latency,omitempty"`
}
