package engine

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pthm/calgate/internal/decision"
	"github.com/pthm/calgate/internal/evidence"
	"github.com/pthm/calgate/internal/layers"
)

// PlanSubject pairs one subject with its evidence bundle.
type PlanSubject struct {
	Subject  layers.Subject
	Evidence *evidence.Bundle
}

// PlanOptions tune a batch run.
type PlanOptions struct {
	// Concurrency bounds the number of subjects evaluated in
	// parallel. Zero means one worker per subject.
	Concurrency int
	// SubjectTimeout bounds each subject's evaluation. A timed-out
	// subject surfaces as SKIPPED, never as a corrupted score.
	SubjectTimeout time.Duration
	// OnResult, if set, is called as each subject completes (from the
	// evaluating goroutine; the callback must be safe for concurrent
	// use).
	OnResult func(index int, res decision.Result)
}

// ValidatePlan evaluates all subjects concurrently. Decisions are
// independent and order-insensitive; results are returned in input
// order regardless of completion order. Cancelling one subject never
// blocks or corrupts another; only configuration-class errors abort
// the plan.
func (e *Engine) ValidatePlan(ctx context.Context, planID string, subs []PlanSubject, opts PlanOptions) (*decision.Report, error) {
	results := make([]decision.Result, len(subs))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for i, ps := range subs {
		g.Go(func() error {
			subCtx := gctx
			cancel := context.CancelFunc(func() {})
			if opts.SubjectTimeout > 0 {
				subCtx, cancel = context.WithTimeout(gctx, opts.SubjectTimeout)
			}
			defer cancel()

			res, err := e.Validate(subCtx, ps.Subject, ps.Evidence)
			switch {
			case err == nil:
			case errors.Is(err, context.DeadlineExceeded):
				res = decision.Skip(ps.Subject.MethodID, "timeout", "subject evaluation timed out")
			case errors.Is(err, context.Canceled):
				res = decision.Skip(ps.Subject.MethodID, "cancelled", "subject evaluation was cancelled")
			default:
				return err
			}

			results[i] = res
			if opts.OnResult != nil {
				opts.OnResult(i, res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return decision.BuildReport(planID, results, e.now()), nil
}
