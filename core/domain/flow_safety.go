package domain

// RiskLevel grades a single safety check.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Weight is the contribution of the level to the 0..100 risk score.
func (r RiskLevel) Weight() int {
	switch r {
	case RiskCritical:
		return 30
	case RiskHigh:
		return 20
	case RiskMedium:
		return 10
	default:
		return 0
	}
}

// Blocking reports whether the level makes content unsafe.
func (r RiskLevel) Blocking() bool {
	return r == RiskHigh || r == RiskCritical
}

// SafetyCheck is the outcome of one content scan category.
type SafetyCheck struct {
	Category  string    `json:"category"`
	Passed    bool      `json:"passed"`
	Details   string    `json:"details"`
	RiskLevel RiskLevel `json:"risk_level"`
	Reason    string    `json:"reason,omitempty"`
}

// SafetyScan is the full content scan result.
type SafetyScan struct {
	Checks         []SafetyCheck `json:"checks"`
	RiskScore      int           `json:"risk_score"`
	RiskLabel      string        `json:"risk_label"`
	IsSafe         bool          `json:"is_safe"`
	HighRiskCount  int           `json:"high_risk_count"`
	ContentScanned int           `json:"content_scanned"`
	PIICount       int           `json:"pii_count"`
	SensitiveCount int           `json:"sensitive_count"`
	DangerousCount int           `json:"dangerous_count"`
	ExternalCount  int           `json:"external_count"`
	NeedsApproval  bool          `json:"needs_approval"`
}

// TaskWarning is a reason to double-check a stored task before acting on it.
type TaskWarning struct {
	Type     string    `json:"type"`
	Severity RiskLevel `json:"severity"`
	Message  string    `json:"message"`
}

// TaskSafety is the /safety/check payload.
type TaskSafety struct {
	TaskID   int64         `json:"task_id"`
	IsSafe   bool          `json:"is_safe"`
	Warnings []TaskWarning `json:"warnings"`
}
