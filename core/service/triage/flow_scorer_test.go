package triage

import (
	"strings"
	"testing"

	"flowpilot/core/domain"
)

func TestScorePriority(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      domain.CategoryScores
		wantTotal int
		wantLevel domain.Priority
		wantLow   bool
	}{
		{
			name:      "urgent and critical due today",
			text:      "This is urgent and critical, needed by today.",
			want:      domain.CategoryScores{Urgency: 40, Deadline: 50},
			wantTotal: 90,
			wantLevel: domain.PriorityHigh,
		},
		{
			name:      "vip sender asking for contract review",
			text:      "Message from the CEO: please review the contract by Friday.",
			want:      domain.CategoryScores{Importance: 25, Deadline: 30, Sender: 20, Keyword: 10},
			wantTotal: 85,
			wantLevel: domain.PriorityHigh,
		},
		{
			name:      "important client work due tomorrow",
			text:      "Important client update needed by tomorrow.",
			want:      domain.CategoryScores{Importance: 20, Deadline: 45},
			wantTotal: 65,
			wantLevel: domain.PriorityMedium,
		},
		{
			name:      "fyi cancels urgency and importance",
			text:      "FYI: the urgent budget numbers are in.",
			want:      domain.CategoryScores{},
			wantTotal: 0,
			wantLevel: domain.PriorityLow,
			wantLow:   true,
		},
		{
			name:      "first matching deadline tier wins",
			text:      "The report is due tomorrow or today at the latest.",
			want:      domain.CategoryScores{Deadline: 50},
			wantTotal: 50,
			wantLevel: domain.PriorityMedium,
		},
		{
			name:      "next week",
			text:      "Let's finish by next week.",
			want:      domain.CategoryScores{Deadline: 15},
			wantTotal: 15,
			wantLevel: domain.PriorityLow,
		},
		{
			name:      "vip outside the opening is ignored",
			text:      strings.Repeat("lorem ", 40) + "from the ceo",
			want:      domain.CategoryScores{},
			wantTotal: 0,
			wantLevel: domain.PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScorePriority(tt.text)
			if got.Scores != tt.want {
				t.Errorf("Scores = %+v, want %+v", got.Scores, tt.want)
			}
			if got.TotalScore != tt.wantTotal {
				t.Errorf("TotalScore = %d, want %d", got.TotalScore, tt.wantTotal)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %s, want %s", got.Level, tt.wantLevel)
			}
			if got.IsLowPriority != tt.wantLow {
				t.Errorf("IsLowPriority = %v, want %v", got.IsLowPriority, tt.wantLow)
			}
			if got.TotalScore != got.Scores.Total() {
				t.Errorf("total %d does not equal sum of categories %d", got.TotalScore, got.Scores.Total())
			}
		})
	}
}

func TestScorePriority_Reasons(t *testing.T) {
	got := ScorePriority("This is urgent and critical, needed by today.")

	want := []string{
		`Urgency keyword "critical" (+40)`,
		`Urgency keyword "urgent" (+30)`,
		`Deadline today: "today" (+50)`,
	}
	if len(got.Reasons) != len(want) {
		t.Fatalf("Reasons = %v, want %v", got.Reasons, want)
	}
	for i := range want {
		if got.Reasons[i] != want[i] {
			t.Errorf("Reasons[%d] = %q, want %q", i, got.Reasons[i], want[i])
		}
	}

	wantExplanation := "High priority with a total score of 90 from urgency 40, deadline 50."
	if got.DecisionExplanation != wantExplanation {
		t.Errorf("DecisionExplanation = %q, want %q", got.DecisionExplanation, wantExplanation)
	}
}

func TestScorePriority_Empty(t *testing.T) {
	got := ScorePriority("")

	if got.Reasons == nil || len(got.Reasons) != 0 {
		t.Errorf("expected empty non-nil reasons, got %#v", got.Reasons)
	}
	if got.Level != domain.PriorityLow || got.TotalScore != 0 {
		t.Errorf("expected Low/0, got %s/%d", got.Level, got.TotalScore)
	}
	if !strings.Contains(got.DecisionExplanation, "no priority signals") {
		t.Errorf("unexpected explanation %q", got.DecisionExplanation)
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		total int
		want  domain.Priority
	}{
		{0, domain.PriorityLow},
		{39, domain.PriorityLow},
		{40, domain.PriorityMedium},
		{69, domain.PriorityMedium},
		{70, domain.PriorityHigh},
		{175, domain.PriorityHigh},
	}

	for _, tt := range tests {
		if got := LevelForScore(tt.total); got != tt.want {
			t.Errorf("LevelForScore(%d) = %s, want %s", tt.total, got, tt.want)
		}
	}
}
