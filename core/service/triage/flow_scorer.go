package triage

import (
	"fmt"
	"regexp"
	"strings"

	"flowpilot/core/domain"
)

// senderScanLen limits the VIP scan to the opening of the mail.
const senderScanLen = 200

// deadlineCapture grabs the clause following "by", "due" or "deadline".
var deadlineCapture = regexp.MustCompile(`\b(?:by|due|deadline)\b[:\s]+(?:is\s+|on\s+)?([^.!?\n]+)`)

// deadlineTier is one step of the deadline scoring ladder.
type deadlineTier struct {
	label string
	score int
	match func(clause string) bool
}

var deadlineTiers = []deadlineTier{
	{"today", DeadlineScoreToday, func(c string) bool { return strings.Contains(c, "today") }},
	{"tomorrow", DeadlineScoreTomorrow, func(c string) bool { return strings.Contains(c, "tomorrow") }},
	{"this week", DeadlineScoreWeekday, func(c string) bool {
		_, ok := firstContained(c, Weekdays)
		return ok
	}},
	{"next week", DeadlineScoreNextWeek, func(c string) bool { return strings.Contains(c, "next week") }},
}

// ScorePriority computes a weighted, explainable priority score for raw
// email text. It shares no state or call path with ExtractTask.
func ScorePriority(emailText string) domain.ScoreBreakdown {
	lower := strings.ToLower(emailText)

	var (
		scores  domain.CategoryScores
		reasons []string
	)

	scores.Urgency, reasons = scoreTerms(lower, UrgencyTerms, "Urgency keyword", reasons)
	scores.Importance, reasons = scoreTerms(lower, ImportanceTerms, "Importance keyword", reasons)
	scores.Keyword, reasons = scoreTerms(lower, ActionKeywordTerms, "Action keyword", reasons)

	if score, reason, ok := scoreDeadline(lower); ok {
		scores.Deadline = score
		reasons = append(reasons, reason)
	}

	if pattern, ok := firstContained(headRunes(lower, senderScanLen), VIPPatterns); ok {
		scores.Sender = SenderScoreVIP
		reasons = append(reasons, fmt.Sprintf("VIP sender detected: %q (+%d)", strings.TrimSpace(pattern), SenderScoreVIP))
	}

	// Informational mail is discounted after all additive scoring.
	indicator, isLow := firstContained(lower, LowPriorityIndicators)
	if isLow {
		scores.Urgency = floorZero(scores.Urgency - LowPriorityUrgencyPenalty)
		scores.Importance = floorZero(scores.Importance - LowPriorityImportancePenalty)
		reasons = append(reasons, fmt.Sprintf("Low-priority indicator %q (-%d urgency, -%d importance)",
			indicator, LowPriorityUrgencyPenalty, LowPriorityImportancePenalty))
	}

	total := scores.Total()
	level := LevelForScore(total)

	if reasons == nil {
		reasons = []string{}
	}

	return domain.ScoreBreakdown{
		Scores:              scores,
		Reasons:             reasons,
		TotalScore:          total,
		Level:               level,
		IsLowPriority:       isLow,
		DecisionExplanation: explainDecision(level, total, scores, isLow),
	}
}

// LevelForScore maps a total score onto a priority level.
func LevelForScore(total int) domain.Priority {
	switch {
	case total >= LevelHighThreshold:
		return domain.PriorityHigh
	case total >= LevelMediumThreshold:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// scoreTerms returns the maximum weight among matched terms and appends
// one reason per match.
func scoreTerms(lower string, terms []WeightedTerm, label string, reasons []string) (int, []string) {
	best := 0
	for _, t := range terms {
		if !strings.Contains(lower, t.Term) {
			continue
		}
		reasons = append(reasons, fmt.Sprintf("%s %q (+%d)", label, t.Term, t.Weight))
		if t.Weight > best {
			best = t.Weight
		}
	}
	return best, reasons
}

func scoreDeadline(lower string) (int, string, bool) {
	m := deadlineCapture.FindStringSubmatch(lower)
	if m == nil {
		return 0, "", false
	}
	clause := strings.TrimSpace(m[1])
	for _, tier := range deadlineTiers {
		if tier.match(clause) {
			return tier.score, fmt.Sprintf("Deadline %s: %q (+%d)", tier.label, clause, tier.score), true
		}
	}
	return 0, "", false
}

func explainDecision(level domain.Priority, total int, s domain.CategoryScores, isLow bool) string {
	factors := make([]string, 0, 5)
	for _, f := range []struct {
		name  string
		value int
	}{
		{"urgency", s.Urgency},
		{"importance", s.Importance},
		{"deadline", s.Deadline},
		{"sender", s.Sender},
		{"keywords", s.Keyword},
	} {
		if f.value > 0 {
			factors = append(factors, fmt.Sprintf("%s %d", f.name, f.value))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s priority with a total score of %d", level, total)
	if len(factors) == 0 {
		b.WriteString(": no priority signals found")
	} else {
		b.WriteString(" from ")
		b.WriteString(strings.Join(factors, ", "))
	}
	if isLow {
		b.WriteString("; informational content lowered urgency and importance")
	}
	b.WriteString(".")
	return b.String()
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
