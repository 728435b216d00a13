package triage

import (
	"strings"

	"flowpilot/core/domain"
)

// Rule names reported alongside the final priority.
const (
	RuleUrgentKeyword    = "urgent_keyword"
	RuleImminentDeadline = "imminent_deadline"
	RuleFYI              = "fyi"
	RuleStaleDeadline    = "stale_deadline"
	RuleBasePriority     = "base_priority"
)

// fyiHeadLen is how far into the text the "fyi" marker is looked for.
const fyiHeadLen = 20

// staleAfterDays is the horizon beyond which non-High work drops to Low.
const staleAfterDays = 7

type ruleInput struct {
	base     domain.Priority
	lower    string
	resolved domain.ResolvedDeadline
}

// priorityRule is one (predicate, result) pair of the override cascade.
type priorityRule struct {
	name   string
	when   func(in ruleInput) bool
	result domain.Priority
}

// priorityRules are evaluated in order; the first match decides.
var priorityRules = []priorityRule{
	{
		// Re-scans the extractor's keyword list on purpose: an urgent keyword
		// wins even when a low-priority phrase lowered the base priority.
		name: RuleUrgentKeyword,
		when: func(in ruleInput) bool {
			_, ok := firstContained(in.lower, UrgentKeywords)
			return ok
		},
		result: domain.PriorityHigh,
	},
	{
		name: RuleImminentDeadline,
		when: func(in ruleInput) bool {
			return in.resolved.DaysUntil == 0 ||
				(in.resolved.DaysUntil == 1 && strings.Contains(in.lower, "today"))
		},
		result: domain.PriorityHigh,
	},
	{
		name: RuleFYI,
		when: func(in ruleInput) bool {
			if strings.HasPrefix(in.lower, "fyi") || strings.Contains(headRunes(in.lower, fyiHeadLen), "fyi") {
				return true
			}
			_, ok := firstContained(in.lower, FYIPhrases)
			return ok
		},
		result: domain.PriorityLow,
	},
	{
		name: RuleStaleDeadline,
		when: func(in ruleInput) bool {
			return in.resolved.DaysUntil > staleAfterDays && in.base != domain.PriorityHigh
		},
		result: domain.PriorityLow,
	},
}

// ApplyPriorityRules returns the final priority after rule overrides.
func ApplyPriorityRules(base domain.Priority, emailText string, resolved domain.ResolvedDeadline) domain.Priority {
	priority, _ := EvaluatePriorityRules(base, emailText, resolved)
	return priority
}

// EvaluatePriorityRules is ApplyPriorityRules that also names the rule that
// decided the outcome (RuleBasePriority when none fired).
func EvaluatePriorityRules(base domain.Priority, emailText string, resolved domain.ResolvedDeadline) (domain.Priority, string) {
	in := ruleInput{
		base:     base,
		lower:    strings.ToLower(emailText),
		resolved: resolved,
	}
	for _, rule := range priorityRules {
		if rule.when(in) {
			return rule.result, rule.name
		}
	}
	return base, RuleBasePriority
}
