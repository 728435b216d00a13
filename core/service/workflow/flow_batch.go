package workflow

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"flowpilot/core/domain"
	"flowpilot/core/port/in"
	"flowpilot/pkg/apperr"

	"github.com/go-pkgz/pool"
)

// =============================================================================
// go-pkgz/pool 기반 배치 분석
// =============================================================================

// batchJob is one email of a batch; index keeps the result in request order.
type batchJob struct {
	index int
	text  string
}

// batchWorker implements the pool worker interface.
type batchWorker struct {
	svc     *Service
	results []*domain.Analysis
	failed  *int64
}

// Do analyses one email. Analyze reports failures in-band, so Do never
// returns an error and the group keeps going.
func (w *batchWorker) Do(ctx context.Context, job batchJob) error {
	analysis := w.svc.Analyze(ctx, &in.AnalyzeRequest{EmailText: job.text})
	if analysis.Priority == domain.PriorityUnknown {
		atomic.AddInt64(w.failed, 1)
	}
	w.results[job.index] = analysis
	return nil
}

// AnalyzeBatch fans the emails out over a worker group and returns the
// results in request order.
func (s *Service) AnalyzeBatch(ctx context.Context, req *in.BatchAnalyzeRequest) (*in.BatchAnalyzeResponse, error) {
	n := len(req.Emails)
	if n == 0 {
		return nil, apperr.MissingField("emails")
	}
	if n > s.cfg.BatchMaxEmails {
		return nil, apperr.InvalidInput("emails", fmt.Sprintf("at most %d emails per batch", s.cfg.BatchMaxEmails))
	}

	workers := s.cfg.BatchWorkers
	if workers > n {
		workers = n
	}

	var failed int64
	worker := &batchWorker{svc: s, results: make([]*domain.Analysis, n), failed: &failed}
	group := pool.New[batchJob](workers, worker).WithContinueOnError()

	start := time.Now()
	if err := group.Go(ctx); err != nil {
		s.Log.Error().Err(err).Msg("failed to start batch pool")
		return nil, apperr.InternalWithError(err)
	}
	for i, text := range req.Emails {
		group.Submit(batchJob{index: i, text: text})
	}
	if err := group.Close(ctx); err != nil {
		s.Log.Warn().Err(err).Int("emails", n).Msg("batch pool closed with error")
		return nil, apperr.InternalWithError(err)
	}

	s.Log.Info().
		Int("emails", n).
		Int("workers", workers).
		Int64("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("batch analyzed")

	return &in.BatchAnalyzeResponse{
		Results: worker.results,
		Count:   n,
		Failed:  int(failed),
	}, nil
}
