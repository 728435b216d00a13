package triage

import (
	"reflect"
	"strings"
	"testing"

	"flowpilot/core/domain"
)

func TestExtractTask(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantTask     string
		wantDeadline string
		wantPriority domain.Priority
	}{
		{
			name:         "action verb clause with weekday deadline",
			text:         "Please review the Q3 report urgently by Friday.",
			wantTask:     "review the q3 report urgently by friday.",
			wantDeadline: "Friday",
			wantPriority: domain.PriorityHigh,
		},
		{
			name:         "fyi falls back to first sentence",
			text:         "FYI, the meeting notes are attached.",
			wantTask:     "FYI, the meeting notes are attached",
			wantDeadline: domain.DeadlineNotSpecified,
			wantPriority: domain.PriorityMedium,
		},
		{
			name:         "verb list order beats text order",
			text:         "Send me the file. Then review the doc.",
			wantTask:     "review the doc.",
			wantDeadline: domain.DeadlineNotSpecified,
			wantPriority: domain.PriorityMedium,
		},
		{
			name:         "verb without terminator falls back",
			text:         "review the doc",
			wantTask:     "review the doc",
			wantDeadline: domain.DeadlineNotSpecified,
			wantPriority: domain.PriorityMedium,
		},
		{
			name:         "low priority phrase overwrites urgent keyword",
			text:         "This is urgent but honestly no rush.",
			wantTask:     "This is urgent but honestly no rush",
			wantDeadline: domain.DeadlineNotSpecified,
			wantPriority: domain.PriorityLow,
		},
		{
			name:         "by month day",
			text:         "Submit the form by March 15.",
			wantTask:     "submit the form by march 15.",
			wantDeadline: "March 15",
			wantPriority: domain.PriorityMedium,
		},
		{
			name:         "deadline is slash date",
			text:         "The deadline is 3/20 for the audit.",
			wantTask:     "The deadline is 3/20 for the audit",
			wantDeadline: "3/20",
			wantPriority: domain.PriorityMedium,
		},
		{
			name:         "before bare word",
			text:         "Please finish the slides before Thursday.",
			wantTask:     "finish the slides before thursday.",
			wantDeadline: "Thursday",
			wantPriority: domain.PriorityMedium,
		},
		{
			name:         "by relative term",
			text:         "Can you send the invoice by tomorrow?",
			wantTask:     "send the invoice by tomorrow?",
			wantDeadline: "Tomorrow",
			wantPriority: domain.PriorityMedium,
		},
		{
			name:         "by end of week",
			text:         "Please prepare the summary by end of week!",
			wantTask:     "prepare the summary by end of week!",
			wantDeadline: "End Of Week",
			wantPriority: domain.PriorityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTask(tt.text)
			if got.Task != tt.wantTask {
				t.Errorf("Task = %q, want %q", got.Task, tt.wantTask)
			}
			if got.DeadlinePhrase != tt.wantDeadline {
				t.Errorf("DeadlinePhrase = %q, want %q", got.DeadlinePhrase, tt.wantDeadline)
			}
			if got.BasePriority != tt.wantPriority {
				t.Errorf("BasePriority = %s, want %s", got.BasePriority, tt.wantPriority)
			}
		})
	}
}

func TestExtractTask_FallbackTruncated(t *testing.T) {
	long := strings.Repeat("x", 150)
	got := ExtractTask(long + ". Second sentence here.")

	if len(got.Task) != fallbackTaskMaxLen {
		t.Fatalf("expected fallback task of %d chars, got %d", fallbackTaskMaxLen, len(got.Task))
	}
	if got.Task != strings.Repeat("x", 100) {
		t.Errorf("unexpected fallback task %q", got.Task)
	}
}

func TestExtractTask_Idempotent(t *testing.T) {
	text := "Hi, please confirm the venue ASAP and arrange catering by Monday."

	first := ExtractTask(text)
	second := ExtractTask(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not idempotent: %+v vs %+v", first, second)
	}
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Hello there. How are you?", "Hello there"},
		{"  padded sentence  . rest", "padded sentence"},
		{"no period at all", "no period at all"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FirstSentence(tt.text); got != tt.want {
			t.Errorf("FirstSentence(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"friday":      "Friday",
		"next week":   "Next Week",
		"march 15":    "March 15",
		"3/15":        "3/15",
		"end of week": "End Of Week",
		"3rd":         "3Rd",
	}

	for in, want := range tests {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
