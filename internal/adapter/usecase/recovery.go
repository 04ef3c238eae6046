package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// RecoveryMode selects what happens to tasks that never started.
type RecoveryMode string

const (
	// RecoveryResume re-dispatches pending tasks.
	RecoveryResume RecoveryMode = "resume"
	// RecoveryFail fails pending tasks out.
	RecoveryFail RecoveryMode = "fail"
)

// RecoveryReport summarises one recovery pass.
type RecoveryReport struct {
	Runs        int
	FailedPosts int
	Requeued    int
}

// Recovery finds runs left unfinished by a previous process. Tasks that were
// running when the process stopped are failed, since generation is never
// retried. Pending tasks are resumed or failed depending on the mode.
type Recovery struct {
	repo       port.Repository
	dispatcher port.GenerationDispatcher
	mode       RecoveryMode
	staleAfter time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewRecovery(repo port.Repository, dispatcher port.GenerationDispatcher, mode RecoveryMode, staleAfter time.Duration, logger *slog.Logger) *Recovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recovery{
		repo:       repo,
		dispatcher: dispatcher,
		mode:       mode,
		staleAfter: staleAfter,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Recover processes every unfinished run. It must only run while no
// generator is executing, i.e. at startup or from the sweep command.
func (r *Recovery) Recover(ctx context.Context) (RecoveryReport, error) {
	var report RecoveryReport

	runs, err := r.repo.ListUnfinishedRuns(ctx)
	if err != nil {
		return report, fmt.Errorf("list unfinished runs: %w", err)
	}
	for _, run := range runs {
		if err = ctx.Err(); err != nil {
			return report, err
		}
		report.Runs++
		logger := r.logger.With(slog.String("run_id", run.ID), slog.String("campaign_id", run.CampaignID))

		for _, id := range run.PostIDs(domain.TaskStatusRunning) {
			if failPost(ctx, r.repo, run.ID, id, "interrupted", r.now(), logger) {
				report.FailedPosts++
			}
		}

		pending := run.PostIDs(domain.TaskStatusPending)
		if len(pending) > 0 && r.mode == RecoveryFail {
			for _, id := range pending {
				if failPost(ctx, r.repo, run.ID, id, "abandoned", r.now(), logger) {
					report.FailedPosts++
				}
			}
			pending = nil
		}
		if len(pending) == 0 {
			if err = r.repo.CompleteRun(ctx, run.ID, r.now()); err != nil {
				logger.Error("complete run", slog.Any("error", err))
			}
			continue
		}

		// Reload so the ledger updates above are not overwritten.
		fresh, err := r.repo.GetRun(ctx, run.ID)
		if err != nil {
			logger.Error("reload run", slog.Any("error", err))
			continue
		}
		fresh.Status = domain.RunStatusPending
		fresh.UpdatedAt = r.now()
		if err = r.repo.SaveRun(ctx, fresh); err != nil {
			logger.Error("reset run", slog.Any("error", err))
			continue
		}
		if r.dispatch(fresh, pending, logger) {
			report.Requeued++
		}
	}

	r.logger.Info("recovery finished",
		slog.Int("runs", report.Runs),
		slog.Int("failed_posts", report.FailedPosts),
		slog.Int("requeued_runs", report.Requeued))
	return report, nil
}

// RequeuePending re-dispatches runs that have been pending for longer than
// the stale threshold, e.g. because the queue was full when they were
// created. A dispatched run is touched so that it is not queued again while
// it waits for a worker. Claiming keeps a run from executing twice.
func (r *Recovery) RequeuePending(ctx context.Context) (int, error) {
	runs, err := r.repo.ListUnfinishedRuns(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unfinished runs: %w", err)
	}
	cutoff := r.now().Add(-r.staleAfter)
	requeued := 0
	for _, run := range runs {
		if run.Status != domain.RunStatusPending || run.UpdatedAt.After(cutoff) {
			continue
		}
		logger := r.logger.With(slog.String("run_id", run.ID), slog.String("campaign_id", run.CampaignID))
		if !r.dispatch(run, run.PostIDs(domain.TaskStatusPending), logger) {
			continue
		}
		requeued++
		if err = r.repo.TouchRun(ctx, run.ID, r.now()); err != nil {
			logger.Error("touch requeued run", slog.Any("error", err))
		}
	}
	return requeued, nil
}

// Run calls RequeuePending every interval until ctx is done.
func (r *Recovery) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.RequeuePending(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error("requeue pending runs", slog.Any("error", err))
				continue
			}
			if n > 0 {
				r.logger.Info("requeued pending runs", slog.Int("runs", n))
			}
		}
	}
}

func (r *Recovery) dispatch(run domain.GenerationRun, postIDs []string, logger *slog.Logger) bool {
	err := r.dispatcher.Dispatch(port.GenerationJob{
		RunID:      run.ID,
		CampaignID: run.CampaignID,
		Params:     run.Params,
		PostIDs:    postIDs,
	})
	if err != nil {
		logger.Warn("requeue run", slog.Any("error", err))
		return false
	}
	return true
}
