package safety

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"flowpilot/core/domain"
)

// Check categories, in scan order.
const (
	CategoryPII       = "PII Detection"
	CategorySensitive = "Sensitive Content"
	CategoryDangerous = "Dangerous Actions"
	CategoryExternal  = "External Recipients"
	CategoryApproval  = "Approval Workflow"
)

type labeledPattern struct {
	label string
	re    *regexp.Regexp
}

var (
	piiPatterns = []labeledPattern{
		{"SSN", regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`)},
		{"Credit Card", regexp.MustCompile(`\b\d{4}-?\d{4}-?\d{4}-?\d{4}\b`)},
		{"Phone Number", regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)},
	}

	sensitiveKeywords = []string{
		"password", "secret", "confidential", "private key", "api key", "token",
		"auth", "credential", "otp", "one-time", "verify", "bank", "account",
		"routing", "social security",
	}

	dangerousPatterns = []labeledPattern{
		{"Wire Transfer Request", regexp.MustCompile(`(?i)wire transfer`)},
		{"Gift Card Purchase", regexp.MustCompile(`(?i)gift card`)},
		{"Urgent Payment", regexp.MustCompile(`(?i)urgent.*payment`)},
		{"Suspicious Link", regexp.MustCompile(`(?i)click.*link`)},
		{"Payment Update Request", regexp.MustCompile(`(?i)update.*payment`)},
	}

	externalDomains = []struct{ domain, label string }{
		{"@gmail.com", "Gmail"},
		{"@yahoo.com", "Yahoo"},
		{"@hotmail.com", "Hotmail"},
		{"@outlook.com", "Outlook"},
	}

	approvalPatterns = []labeledPattern{
		{"Requires Approval", regexp.MustCompile(`(?i)approve`)},
		{"Requires Authorization", regexp.MustCompile(`(?i)authorize`)},
		{"Budget Request", regexp.MustCompile(`(?i)budget.*\$\d+`)},
	}
)

// Scan runs every content check and aggregates the risk score.
func Scan(content string) *domain.SafetyScan {
	lower := strings.ToLower(content)

	pii := matchLabels(content, piiPatterns)
	sensitive := containedTerms(lower, sensitiveKeywords)
	dangerous := matchLabels(content, dangerousPatterns)
	external := externalLabels(lower)
	approvals := matchLabels(content, approvalPatterns)

	checks := []domain.SafetyCheck{
		piiCheck(pii),
		sensitiveCheck(sensitive),
		dangerousCheck(dangerous),
		externalCheck(external),
		approvalCheck(approvals),
	}

	scan := &domain.SafetyScan{
		Checks:         checks,
		IsSafe:         true,
		ContentScanned: utf8.RuneCountInString(content),
		PIICount:       len(pii),
		SensitiveCount: len(sensitive),
		DangerousCount: len(dangerous),
		ExternalCount:  len(external),
		NeedsApproval:  len(approvals) > 0,
	}
	for _, c := range checks {
		scan.RiskScore += c.RiskLevel.Weight()
		if c.RiskLevel.Blocking() {
			scan.IsSafe = false
			scan.HighRiskCount++
		}
	}
	if scan.RiskScore > 100 {
		scan.RiskScore = 100
	}
	scan.RiskLabel = RiskLabel(scan.RiskScore)
	return scan
}

// RiskLabel buckets a 0..100 risk score.
func RiskLabel(score int) string {
	switch {
	case score >= 70:
		return "HIGH"
	case score >= 40:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// =============================================================================
// Individual checks
// =============================================================================

func piiCheck(found []string) domain.SafetyCheck {
	if len(found) == 0 {
		return domain.SafetyCheck{
			Category: CategoryPII, Passed: true, RiskLevel: domain.RiskLow,
			Details: "No personal data detected",
			Reason:  "No sensitive personal data found",
		}
	}
	return domain.SafetyCheck{
		Category: CategoryPII, RiskLevel: domain.RiskHigh,
		Details: "Found: " + strings.Join(found, ", "),
		Reason:  fmt.Sprintf("Contains %d type(s) of personally identifiable information", len(found)),
	}
}

func sensitiveCheck(found []string) domain.SafetyCheck {
	if len(found) == 0 {
		return domain.SafetyCheck{
			Category: CategorySensitive, Passed: true, RiskLevel: domain.RiskLow,
			Details: "No sensitive keywords",
			Reason:  "No sensitive keywords detected",
		}
	}
	level := domain.RiskMedium
	if len(found) > 2 {
		level = domain.RiskHigh
	}
	preview := found
	suffix := ""
	if len(preview) > 3 {
		preview, suffix = preview[:3], "..."
	}
	return domain.SafetyCheck{
		Category: CategorySensitive, RiskLevel: level,
		Details: "Found: " + strings.Join(found, ", "),
		Reason:  fmt.Sprintf("Contains %d sensitive keyword(s): %s%s", len(found), strings.Join(preview, ", "), suffix),
	}
}

func dangerousCheck(found []string) domain.SafetyCheck {
	if len(found) == 0 {
		return domain.SafetyCheck{
			Category: CategoryDangerous, Passed: true, RiskLevel: domain.RiskLow,
			Details: "No dangerous patterns",
			Reason:  "No dangerous patterns found",
		}
	}
	return domain.SafetyCheck{
		Category: CategoryDangerous, RiskLevel: domain.RiskCritical,
		Details: "Detected: " + strings.Join(found, ", "),
		Reason:  "Contains potentially fraudulent request(s): " + strings.Join(found, ", "),
	}
}

func externalCheck(found []string) domain.SafetyCheck {
	if len(found) == 0 {
		return domain.SafetyCheck{
			Category: CategoryExternal, Passed: true, RiskLevel: domain.RiskLow,
			Details: "Internal only",
			Reason:  "Internal communication only",
		}
	}
	return domain.SafetyCheck{
		Category: CategoryExternal, RiskLevel: domain.RiskMedium,
		Details: "External domains: " + strings.Join(found, ", "),
		Reason:  "Email involves external domain(s): " + strings.Join(found, ", "),
	}
}

func approvalCheck(found []string) domain.SafetyCheck {
	if len(found) == 0 {
		return domain.SafetyCheck{
			Category: CategoryApproval, Passed: true, RiskLevel: domain.RiskLow,
			Details: "Auto-approval OK",
			Reason:  "No approval requirements detected",
		}
	}
	return domain.SafetyCheck{
		Category: CategoryApproval, RiskLevel: domain.RiskMedium,
		Details: "Required: " + strings.Join(found, ", "),
		Reason:  fmt.Sprintf("Request requires %d type(s) of approval", len(found)),
	}
}

// =============================================================================
// Matching helpers
// =============================================================================

func matchLabels(content string, patterns []labeledPattern) []string {
	var found []string
	for _, p := range patterns {
		if p.re.MatchString(content) {
			found = append(found, p.label)
		}
	}
	return found
}

// containedTerms is plain substring containment: "auth" also matches "author".
func containedTerms(lower string, terms []string) []string {
	var found []string
	for _, term := range terms {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

func externalLabels(lower string) []string {
	var found []string
	for _, d := range externalDomains {
		if strings.Contains(lower, d.domain) {
			found = append(found, d.label)
		}
	}
	return found
}
