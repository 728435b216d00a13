// Package workflow runs emails through the agent pipeline: the Email Agent
// extracts the task, the Decision Agent settles its priority, and the Task
// Agent stores approved results.
package workflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/in"
	"flowpilot/core/port/out"
	"flowpilot/core/service/triage"
	"flowpilot/pkg/apperr"
	"flowpilot/pkg/logger"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Config holds workflow tuning knobs.
type Config struct {
	AutonomousDefault bool
	ScoreCacheTTL     time.Duration
	BatchWorkers      int
	BatchMaxEmails    int
}

// DefaultConfig returns default workflow configuration.
func DefaultConfig() Config {
	return Config{
		ScoreCacheTTL:  30 * time.Minute,
		BatchWorkers:   4,
		BatchMaxEmails: 50,
	}
}

// Deps are the collaborators of the workflow. Activity may be nil.
type Deps struct {
	Tasks    out.TaskStore
	Scores   out.ScoreCache
	Activity out.ActivityPort
	Metrics  in.MetricsService
	Audit    in.AuditService
	Agents   in.AgentService
	Safety   in.SafetyService
	Log      zerolog.Logger
	Now      func() time.Time
}

// Service implements in.WorkflowService
type Service struct {
	Deps
	cfg   Config
	group singleflight.Group
}

// NewService creates a new WorkflowService
func NewService(deps Deps, cfg Config) in.WorkflowService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = DefaultConfig().BatchWorkers
	}
	if cfg.BatchMaxEmails <= 0 {
		cfg.BatchMaxEmails = DefaultConfig().BatchMaxEmails
	}
	deps.Log = deps.Log.With().Str("component", "workflow").Logger()
	return &Service{Deps: deps, cfg: cfg}
}

// =============================================================================
// Analyze
// =============================================================================

// Analyze never returns an error: blank input and failures (including
// panics) come back as the Analysis error sentinels.
func (s *Service) Analyze(ctx context.Context, req *in.AnalyzeRequest) (result *domain.Analysis) {
	text := strings.TrimSpace(req.EmailText)
	if text == "" {
		return domain.NewEmptyInputAnalysis()
	}

	autonomous := s.cfg.AutonomousDefault
	if req.Autonomous != nil {
		autonomous = *req.Autonomous
	}

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.WithContext(ctx).WithField("stack", string(debug.Stack())).
				Error("[Workflow] analysis panicked: %v", r)
			result = domain.NewFailedAnalysis(fmt.Sprint(r))
		}
	}()

	analysis, err := s.analyze(ctx, req.EmailText, autonomous)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Error("[Workflow] analysis failed")
		return domain.NewFailedAnalysis(err.Error())
	}
	s.Metrics.ObserveAnalysis(time.Since(started))
	return analysis
}

func (s *Service) analyze(ctx context.Context, emailText string, autonomous bool) (*domain.Analysis, error) {
	now := s.Now()

	// Email Agent
	s.Agents.Begin(ctx, domain.AgentKeyEmail)
	extracted := triage.ExtractTask(emailText)
	s.Audit.Log(ctx, domain.AgentEmail, "Extracted task",
		fmt.Sprintf("%s (deadline: %s)", extracted.Task, extracted.DeadlinePhrase))
	s.Agents.Finish(ctx, domain.AgentKeyEmail, nil)

	// Decision Agent
	s.Agents.Begin(ctx, domain.AgentKeyDecision)
	resolved := triage.ResolveDeadline(extracted.DeadlinePhrase, now)
	priority, rule := triage.EvaluatePriorityRules(extracted.BasePriority, emailText, resolved)
	s.Audit.Log(ctx, domain.AgentDecision, "Assigned priority",
		fmt.Sprintf("%s via %s (base %s)", priority, rule, extracted.BasePriority))
	s.Agents.Finish(ctx, domain.AgentKeyDecision, nil)

	daysUntil := resolved.DaysUntil
	analysis := &domain.Analysis{
		Task:         extracted.Task,
		Deadline:     extracted.DeadlinePhrase,
		Priority:     priority,
		DraftReply:   triage.DraftReply(extracted.Task, priority, extracted.DeadlinePhrase),
		Reminder:     triage.BuildReminder(priority, resolved),
		DaysUntil:    &daysUntil,
		BasePriority: extracted.BasePriority,
		RuleApplied:  rule,
		AnalyzedAt:   &now,
	}
	if resolved.Date != nil {
		analysis.ResolvedDeadline = resolved.DisplayDate
	}

	if err := s.Metrics.Record(ctx, domain.MetricEmailsProcessed); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("[Workflow] failed to count processed email")
	}

	if autonomous {
		if err := s.approveAutonomously(ctx, emailText, analysis); err != nil {
			return nil, err
		}
	}

	s.broadcast(ctx, domain.ActivityEmailAnalyzed, analysis)
	return analysis, nil
}

// approveAutonomously stores the task without human review unless the
// content scan finds high or critical risk.
func (s *Service) approveAutonomously(ctx context.Context, emailText string, analysis *domain.Analysis) error {
	scan := s.Safety.ScanContent(ctx, emailText)
	if !scan.IsSafe {
		analysis.SafetyBlocked = true
		s.Audit.Log(ctx, domain.AgentSafety, "Blocked autonomous approval",
			fmt.Sprintf("risk score %d (%s)", scan.RiskScore, scan.RiskLabel))
		return nil
	}

	task, err := s.storeTask(ctx, &domain.Task{
		Task:        analysis.Task,
		Deadline:    analysis.Deadline,
		Priority:    analysis.Priority,
		Reminder:    analysis.Reminder,
		DraftReply:  analysis.DraftReply,
		SourceEmail: emailText,
		Autonomous:  true,
	})
	if err != nil {
		return err
	}
	analysis.TaskID = &task.ID
	analysis.Autonomous = true
	return nil
}

// =============================================================================
// Approve
// =============================================================================

func (s *Service) Approve(ctx context.Context, req *in.ApproveRequest) (*domain.Task, error) {
	taskText := strings.TrimSpace(req.Task)
	if taskText == "" {
		return nil, apperr.MissingField("task")
	}
	if !req.Priority.IsValid() {
		return nil, apperr.InvalidInput("priority", "must be High, Medium or Low")
	}

	deadline := strings.TrimSpace(req.Deadline)
	if deadline == "" {
		deadline = domain.DeadlineNotSpecified
	}
	reminder := req.Reminder
	if reminder == "" {
		reminder = triage.BuildReminder(req.Priority, triage.ResolveDeadline(deadline, s.Now()))
	}

	return s.storeTask(ctx, &domain.Task{
		Task:        taskText,
		Deadline:    deadline,
		Priority:    req.Priority,
		Reminder:    reminder,
		DraftReply:  req.DraftReply,
		SourceEmail: req.EmailText,
	})
}

func (s *Service) storeTask(ctx context.Context, task *domain.Task) (_ *domain.Task, err error) {
	s.Agents.Begin(ctx, domain.AgentKeyTask)
	defer func() { s.Agents.Finish(ctx, domain.AgentKeyTask, err) }()

	id, err := s.Tasks.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reserve task id: %w", err)
	}
	task.ID = id
	task.Status = domain.TaskStatusPending
	task.CreatedAt = s.Now()

	if err = s.Tasks.Append(ctx, task); err != nil {
		return nil, fmt.Errorf("store task: %w", err)
	}

	approvals := domain.MetricHumanApprovals
	mode := "human"
	if task.Autonomous {
		approvals = domain.MetricAutonomousApprovals
		mode = "autonomous"
	}
	for _, counter := range []domain.MetricCounter{domain.MetricTasksCreated, approvals} {
		if rerr := s.Metrics.Record(ctx, counter); rerr != nil {
			logger.WithContext(ctx).WithError(rerr).Warn("[Workflow] failed to count %s", counter)
		}
	}

	s.Audit.Log(ctx, domain.AgentTask, "Created task",
		fmt.Sprintf("#%d %s (%s, %s approval)", task.ID, task.Task, task.Priority, mode))
	s.broadcast(ctx, domain.ActivityTaskCreated, task)
	return task, nil
}

// =============================================================================
// Score
// =============================================================================

// Score runs the weighted scorer. Results are cached by content hash and
// concurrent requests for the same text share one computation.
func (s *Service) Score(ctx context.Context, req *in.ScoreRequest) (*domain.ScoreBreakdown, error) {
	text := strings.TrimSpace(req.EmailText)
	if text == "" {
		return nil, apperr.MissingField("emailText")
	}
	key := ContentKey(text)

	if req.Refresh {
		if err := s.Scores.Delete(ctx, key); err != nil {
			logger.WithContext(ctx).WithError(err).Warn("[Workflow] score cache delete failed")
		}
	} else if cached, ok, err := s.Scores.Get(ctx, key); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("[Workflow] score cache read failed")
	} else if ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		score := triage.ScorePriority(text)
		if err := s.Scores.Set(ctx, key, &score, s.cfg.ScoreCacheTTL); err != nil {
			logger.WithContext(ctx).WithError(err).Warn("[Workflow] score cache write failed")
		}
		s.Audit.Log(ctx, domain.AgentDecision, "Scored priority",
			fmt.Sprintf("%d (%s)", score.TotalScore, score.Level))
		return score, nil
	})
	if err != nil {
		return nil, err
	}

	score := v.(domain.ScoreBreakdown)
	score.Reasons = append([]string{}, score.Reasons...)
	return &score, nil
}

// ContentKey is the score cache key of an email body.
func ContentKey(emailText string) string {
	sum := sha256.Sum256([]byte(emailText))
	return hex.EncodeToString(sum[:])
}

func (s *Service) broadcast(ctx context.Context, typ domain.ActivityType, data any) {
	if s.Activity == nil {
		return
	}
	event := &domain.ActivityEvent{Type: typ, Data: data, Timestamp: s.Now()}
	if err := s.Activity.Broadcast(ctx, event); err != nil {
		logger.WithContext(ctx).WithError(err).Debug("[Workflow] %s broadcast failed", typ)
	}
}
