package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// GeneratorConfig bounds a run's execution.
type GeneratorConfig struct {
	// PostConcurrency caps the posts generated at the same time within one
	// run. Zero means no limit.
	PostConcurrency int
	// PostTimeout bounds the provider calls of a single post.
	PostTimeout time.Duration
}

// Generator executes generation jobs. Each post moves from GENERATING to
// DRAFT or FAILED on its own; one post's failure never affects its siblings
// and nothing is retried.
type Generator struct {
	repo   port.Repository
	images port.ImageProvider
	texts  port.TextProvider
	cfg    GeneratorConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewGenerator(repo port.Repository, images port.ImageProvider, texts port.TextProvider, cfg GeneratorConfig, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		repo:   repo,
		images: images,
		texts:  texts,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Execute claims the job's run and generates its posts. A run that was
// already claimed is skipped.
func (g *Generator) Execute(ctx context.Context, job port.GenerationJob) {
	logger := g.logger.With(slog.String("run_id", job.RunID), slog.String("campaign_id", job.CampaignID))

	claimed, err := g.repo.ClaimRun(ctx, job.RunID, g.now())
	if err != nil {
		logger.Error("claim run", slog.Any("error", err))
		return
	}
	if !claimed {
		logger.Debug("run already claimed")
		return
	}

	c, err := g.repo.GetCampaign(ctx, job.CampaignID)
	if err != nil {
		logger.Error("load campaign, failing run", slog.Any("error", err))
		for _, id := range job.PostIDs {
			failPost(ctx, g.repo, job.RunID, id, "campaign unavailable", g.now(), logger)
		}
		g.complete(ctx, job.RunID, 0, len(job.PostIDs), logger)
		return
	}
	refs := g.referenceURLs(ctx, job.Params.ReferenceAssetIDs, logger)

	var grp errgroup.Group
	var succeeded, failed atomic.Int32
	if g.cfg.PostConcurrency > 0 {
		grp.SetLimit(g.cfg.PostConcurrency)
	}
	for _, postID := range job.PostIDs {
		grp.Go(func() error {
			if g.generatePost(ctx, job, c, refs, postID, logger) {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = grp.Wait()

	g.complete(ctx, job.RunID, int(succeeded.Load()), int(failed.Load()), logger)
}

func (g *Generator) complete(ctx context.Context, runID string, succeeded, failed int, logger *slog.Logger) {
	if err := g.repo.CompleteRun(ctx, runID, g.now()); err != nil {
		logger.Error("complete run", slog.Any("error", err))
	}
	logger.Info("generation run finished", slog.Int("succeeded", succeeded), slog.Int("failed", failed))
}

// generatePost produces one post and reports whether it reached DRAFT.
func (g *Generator) generatePost(ctx context.Context, job port.GenerationJob, c domain.Campaign, refs []string, postID string, logger *slog.Logger) (ok bool) {
	logger = logger.With(slog.String("post_id", postID))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("post generation panicked", slog.Any("panic", r))
			failPost(ctx, g.repo, job.RunID, postID, fmt.Sprintf("panic: %v", r), g.now(), logger)
			ok = false
		}
	}()

	post, err := g.repo.GetPost(ctx, postID)
	if err != nil {
		logger.Error("load post", slog.Any("error", err))
		g.setTask(ctx, job.RunID, postID, domain.TaskStatusFailed, err.Error(), logger)
		return false
	}
	if post.Status != domain.PostStatusGenerating {
		logger.Warn("post is not generating, skipped", slog.String("status", string(post.Status)))
		status := domain.TaskStatusFailed
		if post.Content != nil {
			status = domain.TaskStatusSucceeded
		}
		g.setTask(ctx, job.RunID, postID, status, "", logger)
		return status == domain.TaskStatusSucceeded
	}
	g.setTask(ctx, job.RunID, postID, domain.TaskStatusRunning, "", logger)

	pctx := ctx
	if g.cfg.PostTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, g.cfg.PostTimeout)
		defer cancel()
	}
	content, genErr := g.generateContent(pctx, c, job.Params, refs)

	now := g.now()
	if genErr == nil {
		genErr = post.MarkGenerated(content, now)
	}
	if genErr != nil {
		if err = post.MarkFailed(now); err != nil {
			logger.Error("mark post failed", slog.Any("error", err))
		}
	}
	if err = g.repo.SavePosts(ctx, post); err != nil {
		logger.Error("save post", slog.Any("error", err))
		g.setTask(ctx, job.RunID, postID, domain.TaskStatusFailed, err.Error(), logger)
		return false
	}

	if genErr != nil {
		logger.Warn("post generation failed", slog.Any("error", genErr))
		g.setTask(ctx, job.RunID, postID, domain.TaskStatusFailed, genErr.Error(), logger)
		return false
	}
	g.setTask(ctx, job.RunID, postID, domain.TaskStatusSucceeded, "", logger)
	return true
}

// generateContent calls the image and text providers concurrently. The
// first failure cancels the other call.
func (g *Generator) generateContent(ctx context.Context, c domain.Campaign, params domain.GenerationParams, refs []string) (domain.PostContent, error) {
	var content domain.PostContent
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(guard(func() error {
		url, err := g.images.GenerateImage(gctx, imagePrompt(c, params), params.StyleOrDefault(), refs)
		if err != nil {
			return fmt.Errorf("generate image: %w", err)
		}
		content.ImageURL = url
		return nil
	}))
	grp.Go(guard(func() error {
		caption, err := g.texts.GenerateText(gctx, captionSystemPrompt, captionPrompt(c))
		if err != nil {
			return fmt.Errorf("generate caption: %w", err)
		}
		content.Caption = caption
		return nil
	}))
	if err := grp.Wait(); err != nil {
		return domain.PostContent{}, err
	}
	return content, nil
}

func (g *Generator) referenceURLs(ctx context.Context, ids []string, logger *slog.Logger) []string {
	if len(ids) == 0 {
		return nil
	}
	assets, err := g.repo.GetAssets(ctx, ids)
	if err != nil {
		logger.Warn("load reference assets", slog.Any("error", err))
		return nil
	}
	urls := make([]string, 0, len(assets))
	for _, a := range assets {
		urls = append(urls, a.URL)
	}
	return urls
}

func (g *Generator) setTask(ctx context.Context, runID, postID string, status domain.TaskStatus, errMsg string, logger *slog.Logger) {
	if err := g.repo.UpdateTask(ctx, runID, postID, status, errMsg, g.now()); err != nil {
		logger.Error("update run ledger", slog.String("task_status", string(status)), slog.Any("error", err))
	}
}

// failPost moves a GENERATING post to FAILED and records the failure in the
// run ledger. A post that already has content is left alone and its task is
// recorded as succeeded. It reports whether the task was failed.
func failPost(ctx context.Context, repo port.Repository, runID, postID, reason string, now time.Time, logger *slog.Logger) bool {
	status := domain.TaskStatusFailed
	post, err := repo.GetPost(ctx, postID)
	switch {
	case errors.Is(err, port.ErrNotFound):
	case err != nil:
		logger.Error("load post", slog.String("post_id", postID), slog.Any("error", err))
	case post.Status == domain.PostStatusGenerating:
		if err = post.MarkFailed(now); err == nil {
			err = repo.SavePosts(ctx, post)
		}
		if err != nil {
			logger.Error("fail post", slog.String("post_id", postID), slog.Any("error", err))
		}
	case post.Content != nil:
		status, reason = domain.TaskStatusSucceeded, ""
	}
	if err = repo.UpdateTask(ctx, runID, postID, status, reason, now); err != nil {
		logger.Error("update run ledger", slog.String("post_id", postID), slog.Any("error", err))
	}
	return status == domain.TaskStatusFailed
}

// guard turns a panic in fn into an error.
func guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: panic: %v", port.ErrProvider, r)
			}
		}()
		return fn()
	}
}
