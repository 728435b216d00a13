package bootstrap

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flowpilot/config"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:          "test",
		LogLevel:             "error",
		StoreBackend:         config.StoreMemory,
		BatchWorkers:         2,
		BatchMaxEmails:       5,
		ScoreCacheTTL:        time.Minute,
		ScoreCacheMaxEntries: 100,
		AuditMaxEntries:      100,
		SSEHeartbeat:         time.Second,
		ActivityHistory:      20,
		RateLimitPerMin:      1000,
		MaxBodyBytes:         64 * 1024,
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	friday := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	deps, cleanup, err := NewDependenciesWithClock(context.Background(), testConfig(), func() time.Time { return friday })
	if err != nil {
		t.Fatal(err)
	}
	app, stop := NewApp(deps)
	t.Cleanup(func() {
		stop()
		cleanup()
	})
	return app
}

// call sends a request and decodes the JSON object it answers with.
func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func TestAPI_AnalyzeApproveComplete(t *testing.T) {
	app := newTestApp(t)

	status, analysis := call(t, app, "POST", "/analyze", `{"emailText":"Please send the quarterly report by tomorrow."}`)
	if status != 200 || analysis["task"] == "Error" || analysis["priority"] == "" {
		t.Fatalf("analyze: %d %v", status, analysis)
	}

	_, empty := call(t, app, "POST", "/analyze", `{"emailText":"   "}`)
	if empty["task"] != "Error" || empty["draftReply"] != "Please provide an email to analyze" {
		t.Errorf("unexpected empty-input analysis %v", empty)
	}

	status, approved := call(t, app, "POST", "/task/approve", `{"task":"Send quarterly report","deadline":"tomorrow","priority":"High"}`)
	if status != 200 || approved["success"] != true {
		t.Fatalf("approve: %d %v", status, approved)
	}
	task := approved["task"].(map[string]any)
	if task["id"] != float64(1) || task["status"] != "pending" {
		t.Errorf("unexpected task %v", task)
	}

	status, _ = call(t, app, "POST", "/task/approve", `{"task":"x","priority":"Urgent"}`)
	if status != 400 {
		t.Errorf("invalid priority status = %d", status)
	}

	status, score := call(t, app, "POST", "/priority/score", `{"emailText":"This is urgent and critical, needed by today."}`)
	if status != 200 || score["success"] != true || score["total_score"] != float64(90) || score["priority_level"] != "High" {
		t.Errorf("score: %d %v", status, score)
	}

	_, list := call(t, app, "GET", "/tasks", "")
	if list["total"] != float64(1) || list["pending"] != float64(1) {
		t.Errorf("unexpected task list %v", list)
	}

	status, _ = call(t, app, "POST", "/task/1/complete", "")
	if status != 200 {
		t.Fatalf("complete status = %d", status)
	}
	_, list = call(t, app, "GET", "/tasks", "")
	if list["completed"] != float64(1) || list["pending"] != float64(0) {
		t.Errorf("unexpected task list after completion %v", list)
	}

	status, missing := call(t, app, "POST", "/task/99/complete", "")
	if status != 404 || missing["error"].(map[string]any)["code"] != "NOT_FOUND" {
		t.Errorf("missing task: %d %v", status, missing)
	}

	_, audit := call(t, app, "GET", "/audit", "")
	logs := audit["logs"].([]any)
	found := false
	for _, l := range logs {
		e := l.(map[string]any)
		if e["agent"] == "Orchestrator" && e["action"] == "Completion requested" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected orchestrator audit entry in %v", logs)
	}
}

func TestAPI_CalendarConflicts(t *testing.T) {
	app := newTestApp(t)

	event := `{"title":"Standup","date":"2026-10-16","time":"10:00 AM","attendees":["ana@example.com"]}`
	status, first := call(t, app, "POST", "/calendar/event", event)
	if status != 200 || first["success"] != true {
		t.Fatalf("create: %d %v", status, first)
	}
	if _, ok := first["conflict_warning"]; ok {
		t.Errorf("unexpected conflict on empty calendar: %v", first)
	}

	_, second := call(t, app, "POST", "/calendar/event", event)
	warning, ok := second["conflict_warning"].(map[string]any)
	if !ok || warning["has_conflicts"] != true {
		t.Errorf("expected conflict warning, got %v", second)
	}

	status, report := call(t, app, "GET", "/conflict/detect?date=2026-10-16&time=10:00%20AM", "")
	if status != 200 || report["success"] != true || report["has_conflicts"] != true || report["conflict_count"] != float64(2) {
		t.Errorf("detect: %d %v", status, report)
	}
	if len(report["suggestions"].([]any)) != 3 {
		t.Errorf("expected 3 suggestions, got %v", report["suggestions"])
	}

	status, _ = call(t, app, "GET", "/conflict/detect?time=10:00%20AM", "")
	if status != 400 {
		t.Errorf("missing date status = %d", status)
	}

	_, events := call(t, app, "GET", "/calendar/events", "")
	if events["count"] != float64(2) {
		t.Errorf("unexpected events %v", events)
	}
}

func TestAPI_MetricsAndSafety(t *testing.T) {
	app := newTestApp(t)

	call(t, app, "POST", "/task/approve", `{"task":"Wire transfer to vendor","deadline":"Not specified","priority":"High"}`)
	call(t, app, "POST", "/metrics/record-meeting", "")
	call(t, app, "POST", "/metrics/record-slack", "")

	_, dash := call(t, app, "GET", "/metrics/dashboard", "")
	if dash["success"] != true {
		t.Errorf("dashboard missing success flag: %v", dash)
	}
	m := dash["metrics"].(map[string]any)
	if m["total_tasks_created"] != float64(1) || m["total_meetings_scheduled"] != float64(1) || m["total_slack_messages"] != float64(1) {
		t.Errorf("unexpected metrics %v", m)
	}

	status, check := call(t, app, "GET", "/safety/check?task_id=1", "")
	if status != 200 || check["success"] != true || check["is_safe"] != false {
		t.Fatalf("safety check: %d %v", status, check)
	}
	types := map[string]bool{}
	for _, w := range check["warnings"].([]any) {
		types[w.(map[string]any)["type"].(string)] = true
	}
	if !types["High Priority"] || !types["Missing Deadline"] || !types["Risky Content"] {
		t.Errorf("unexpected warnings %v", check["warnings"])
	}

	status, _ = call(t, app, "GET", "/safety/check", "")
	if status != 400 {
		t.Errorf("missing task_id status = %d", status)
	}

	_, scan := call(t, app, "POST", "/safety/scan", `{"content":"My SSN is 123-45-6789"}`)
	data := scan["data"].(map[string]any)
	if data["pii_count"].(float64) < 1 {
		t.Errorf("expected PII match, got %v", data)
	}

	call(t, app, "POST", "/metrics/reset", "")
	_, dash = call(t, app, "GET", "/metrics/dashboard", "")
	if dash["metrics"].(map[string]any)["total_tasks_created"] != float64(0) {
		t.Errorf("reset did not clear counters: %v", dash["metrics"])
	}
}

func TestAPI_SlackAndStatus(t *testing.T) {
	app := newTestApp(t)

	status, sent := call(t, app, "POST", "/slack/message", `{"channel":"general","message":"hello team"}`)
	if status != 200 || sent["success"] != true {
		t.Fatalf("send: %d %v", status, sent)
	}

	_, help := call(t, app, "POST", "/slack/command", `{"channel":"general","message":"@FlowPilot what can you do"}`)
	if help["action"] != "help" || !strings.Contains(help["text"].(string), "@FlowPilot schedule") {
		t.Errorf("unexpected help reply %v", help)
	}

	_, msgs := call(t, app, "GET", "/slack/messages", "")
	if msgs["count"].(float64) < 2 {
		t.Errorf("expected stored messages, got %v", msgs)
	}

	_, board := call(t, app, "GET", "/agent/status", "")
	agents := board["agents"].(map[string]any)
	if _, ok := agents["email_agent"]; !ok {
		t.Errorf("unexpected board %v", board)
	}

	status, health := call(t, app, "GET", "/health", "")
	if status != 200 || health["status"] != "ok" {
		t.Errorf("health: %d %v", status, health)
	}
	status, ready := call(t, app, "GET", "/ready", "")
	if status != 200 || ready["status"] != "ready" {
		t.Errorf("ready: %d %v", status, ready)
	}

	_, recent := call(t, app, "GET", "/events/recent", "")
	if recent["count"].(float64) < 1 {
		t.Errorf("expected recorded activity, got %v", recent)
	}
}

func TestAPI_RejectsNonJSONBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/analyze", strings.NewReader("emailText=hi"))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 415 {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}
