package workflow

import (
	"context"
	"fmt"
	"testing"

	"flowpilot/core/domain"
	"flowpilot/core/port/in"
	"flowpilot/pkg/apperr"
)

func TestAnalyzeBatch_PreservesOrder(t *testing.T) {
	f := newFixture(t, Config{BatchWorkers: 3, BatchMaxEmails: 10})

	emails := []string{
		"Please review the Q3 report urgently by Friday.",
		"",
		"FYI, the meeting notes are attached.",
		"Can you send the invoice by tomorrow?",
	}
	resp, err := f.svc.AnalyzeBatch(context.Background(), &in.BatchAnalyzeRequest{Emails: emails})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Count != 4 || resp.Failed != 1 || len(resp.Results) != 4 {
		t.Fatalf("resp = %+v", resp)
	}

	want := []domain.Priority{domain.PriorityHigh, domain.PriorityUnknown, domain.PriorityLow, domain.PriorityMedium}
	for i, p := range want {
		if resp.Results[i].Priority != p {
			t.Errorf("result %d priority = %s, want %s", i, resp.Results[i].Priority, p)
		}
	}
	if f.counter(t, domain.MetricEmailsProcessed) != 3 {
		t.Errorf("emails_processed = %d", f.counter(t, domain.MetricEmailsProcessed))
	}
}

func TestAnalyzeBatch_ManyEmails(t *testing.T) {
	f := newFixture(t, Config{BatchWorkers: 4, BatchMaxEmails: 50})

	emails := make([]string, 40)
	for i := range emails {
		emails[i] = fmt.Sprintf("Please review document %d by Monday.", i)
	}
	resp, err := f.svc.AnalyzeBatch(context.Background(), &in.BatchAnalyzeRequest{Emails: emails})
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range resp.Results {
		want := fmt.Sprintf("review document %d by monday.", i)
		if r == nil || r.Task != want {
			t.Fatalf("result %d = %+v, want task %q", i, r, want)
		}
	}
}

func TestAnalyzeBatch_Validation(t *testing.T) {
	f := newFixture(t, Config{BatchMaxEmails: 2})
	tests := []struct {
		name   string
		emails []string
	}{
		{"empty", nil},
		{"too many", []string{"a.", "b.", "c."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AnalyzeBatch(context.Background(), &in.BatchAnalyzeRequest{Emails: tt.emails})
			if apperr.GetHTTPStatus(err) != 400 {
				t.Errorf("expected 400, got %v", err)
			}
		})
	}
}
