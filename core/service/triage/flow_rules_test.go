package triage

import (
	"testing"

	"flowpilot/core/domain"
)

func TestEvaluatePriorityRules(t *testing.T) {
	inDays := func(d int) domain.ResolvedDeadline {
		return domain.ResolvedDeadline{DisplayDate: "x", DaysUntil: d}
	}

	tests := []struct {
		name     string
		base     domain.Priority
		text     string
		resolved domain.ResolvedDeadline
		want     domain.Priority
		wantRule string
	}{
		{"urgent keyword beats low base", domain.PriorityLow, "This is urgent, no rush though.", inDays(5), domain.PriorityHigh, RuleUrgentKeyword},
		{"due today", domain.PriorityMedium, "Please send the file.", inDays(0), domain.PriorityHigh, RuleImminentDeadline},
		{"fyi prefix", domain.PriorityMedium, "FYI, notes attached.", inDays(1), domain.PriorityLow, RuleFYI},
		{"fyi near the start", domain.PriorityMedium, "Hello all - fyi the doc is ready", inDays(3), domain.PriorityLow, RuleFYI},
		{"fyi phrase", domain.PriorityMedium, "Hi team, heads up that the office is closed.", inDays(3), domain.PriorityLow, RuleFYI},
		{"fyi late in text is ignored", domain.PriorityMedium, "Please send the file to the team, fyi.", inDays(3), domain.PriorityMedium, RuleBasePriority},
		{"far deadline lowers medium", domain.PriorityMedium, "Please send the file.", inDays(8), domain.PriorityLow, RuleStaleDeadline},
		{"far deadline keeps high", domain.PriorityHigh, "Please send the file.", inDays(8), domain.PriorityHigh, RuleBasePriority},
		{"exactly a week is not stale", domain.PriorityMedium, "Please send the file.", inDays(7), domain.PriorityMedium, RuleBasePriority},
		{"no rule fires", domain.PriorityMedium, "Please send the file.", inDays(3), domain.PriorityMedium, RuleBasePriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := EvaluatePriorityRules(tt.base, tt.text, tt.resolved)
			if got != tt.want {
				t.Errorf("priority = %s, want %s", got, tt.want)
			}
			if rule != tt.wantRule {
				t.Errorf("rule = %s, want %s", rule, tt.wantRule)
			}
			if applied := ApplyPriorityRules(tt.base, tt.text, tt.resolved); applied != got {
				t.Errorf("ApplyPriorityRules = %s, EvaluatePriorityRules = %s", applied, got)
			}
		})
	}
}

func TestApplyPriorityRules_UrgentKeywordAlwaysHigh(t *testing.T) {
	bases := []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow}

	for _, kw := range UrgentKeywords {
		for _, base := range bases {
			text := "FYI, for your information: " + kw + ", no rush."
			got := ApplyPriorityRules(base, text, domain.ResolvedDeadline{DaysUntil: 30})
			if got != domain.PriorityHigh {
				t.Errorf("keyword %q with base %s: got %s, want High", kw, base, got)
			}
		}
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantPriority domain.Priority
		wantDays     int
	}{
		{"urgent review by friday", "Please review the Q3 report urgently by Friday.", domain.PriorityHigh, 7},
		{"fyi notes", "FYI, the meeting notes are attached.", domain.PriorityLow, 1},
		{"plain request by tomorrow", "Can you send the invoice by tomorrow?", domain.PriorityMedium, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extracted := ExtractTask(tt.text)
			resolved := ResolveDeadline(extracted.DeadlinePhrase, friday)
			got := ApplyPriorityRules(extracted.BasePriority, tt.text, resolved)

			if got != tt.wantPriority {
				t.Errorf("priority = %s, want %s", got, tt.wantPriority)
			}
			if resolved.DaysUntil != tt.wantDays {
				t.Errorf("DaysUntil = %d, want %d", resolved.DaysUntil, tt.wantDays)
			}
		})
	}
}
