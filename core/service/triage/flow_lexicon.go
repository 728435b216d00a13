// Package triage implements the deterministic email triage engine:
// task/deadline/priority extraction, deadline resolution, priority rules,
// weighted priority scoring and reply drafting.
//
// Every function in this package is pure. Tables are ordered and the order
// is part of the contract: the first entry that matches wins.
package triage

import "strings"

// =============================================================================
// Extraction Tables
// =============================================================================

// ActionVerbs are scanned in order; the first verb with a clause wins.
var ActionVerbs = []string{
	"review", "check", "approve", "update", "create", "fix", "submit", "send",
	"confirm", "verify", "complete", "finish", "provide", "prepare", "arrange",
	"schedule", "organize", "delegate", "analyze", "evaluate", "assess",
}

// UrgentKeywords raise the base priority to High and drive the first
// priority rule.
var UrgentKeywords = []string{
	"urgent", "asap", "immediately", "critical", "emergency", "today", "now", "rush",
}

// LowPriorityPhrases lower the base priority to Low, overriding UrgentKeywords.
var LowPriorityPhrases = []string{
	"when possible", "at your leisure", "whenever", "optional", "no rush",
}

// FYIPhrases mark informational mail for the priority rule engine.
var FYIPhrases = []string{
	"for your information", "just letting you know", "heads up",
}

// =============================================================================
// Scoring Tables
// =============================================================================

// WeightedTerm is a trigger phrase with its score contribution.
type WeightedTerm struct {
	Term   string
	Weight int
}

// UrgencyTerms score how time-critical the mail is (max 40).
var UrgencyTerms = []WeightedTerm{
	{"critical", 40},
	{"emergency", 40},
	{"asap", 35},
	{"immediately", 35},
	{"urgent", 30},
	{"right away", 30},
	{"time-sensitive", 25},
	{"time sensitive", 25},
	{"high priority", 25},
	{"quickly", 15},
	{"soon", 10},
}

// ImportanceTerms score business impact (max 30).
var ImportanceTerms = []WeightedTerm{
	{"legal", 30},
	{"compliance", 30},
	{"contract", 25},
	{"revenue", 25},
	{"executive", 25},
	{"board meeting", 25},
	{"crucial", 25},
	{"important", 20},
	{"client", 20},
	{"customer", 20},
	{"budget", 20},
	{"essential", 20},
	{"deadline", 15},
	{"project", 10},
}

// ActionKeywordTerms score explicit requests for action (max 15).
var ActionKeywordTerms = []WeightedTerm{
	{"action required", 15},
	{"approval", 12},
	{"approve", 12},
	{"sign off", 12},
	{"decision", 10},
	{"please review", 10},
	{"review", 8},
	{"respond", 8},
	{"confirm", 8},
	{"feedback", 5},
}

// VIPPatterns identify a high-status sender in the opening of the mail.
var VIPPatterns = []string{
	"ceo", "cto", "cfo", "coo", "president", "vice president", "founder",
	"chairman", "board member", "director", "head of", "vp ",
}

// LowPriorityIndicators are FYI-class phrases for the scorer.
var LowPriorityIndicators = []string{
	"fyi", "for your information", "no action needed", "no action required",
	"just letting you know", "heads up", "no rush", "when you get a chance",
	"at your leisure", "newsletter",
}

// Weekdays in calendar order, lowercase.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

const (
	DeadlineScoreToday    = 50
	DeadlineScoreTomorrow = 45
	DeadlineScoreWeekday  = 30
	DeadlineScoreNextWeek = 15

	SenderScoreVIP = 20

	LowPriorityUrgencyPenalty    = 30
	LowPriorityImportancePenalty = 20

	LevelHighThreshold   = 70
	LevelMediumThreshold = 40
)

// =============================================================================
// Helpers
// =============================================================================

// firstContained returns the first entry of terms contained in text.
func firstContained(text string, terms []string) (string, bool) {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return term, true
		}
	}
	return "", false
}

// headRunes returns at most n leading runes of s.
func headRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
