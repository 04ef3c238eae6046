package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// PlaceholderPolicy decides how many posts a run creates. With PerPlatform
// one post is created per requested platform; otherwise Count posts are
// created for the campaign's first platform.
type PlaceholderPolicy struct {
	PerPlatform bool
	Count       int
}

// CampaignUseCase creates campaigns and starts generation runs. It only
// persists placeholders and hands the run to the dispatcher, so its latency
// does not depend on the providers.
type CampaignUseCase struct {
	repo       port.Repository
	gate       port.PaymentGate
	dispatcher port.GenerationDispatcher
	policy     PlaceholderPolicy
	logger     *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewCampaignUseCase(repo port.Repository, gate port.PaymentGate, dispatcher port.GenerationDispatcher, policy PlaceholderPolicy, logger *slog.Logger) *CampaignUseCase {
	if policy.Count <= 0 {
		policy.Count = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CampaignUseCase{
		repo:       repo,
		gate:       gate,
		dispatcher: dispatcher,
		policy:     policy,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// CreateCampaign validates the input and, when generation parameters are
// present, passes them through the payment gate before anything is stored.
// A rejected payment therefore leaves no campaign or posts behind.
func (u *CampaignUseCase) CreateCampaign(ctx context.Context, in port.CreateCampaignInput) (*port.CreateCampaignResult, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.GenerationParams != nil {
		if err := u.gate.Check(ctx, *in.GenerationParams); err != nil {
			return nil, err
		}
	}

	now := u.now()
	c := domain.Campaign{
		ID:               u.newID(),
		BrandName:        strings.TrimSpace(in.BrandName),
		BrandCategory:    in.BrandCategory,
		BrandDescription: strings.TrimSpace(in.BrandDescription),
		Goal:             strings.TrimSpace(in.Goal),
		Platforms:        slices.Clone(in.Platforms),
		Status:           domain.CampaignStatusDraft,
		CreatedAt:        now,
	}
	if err := u.repo.SaveCampaign(ctx, c); err != nil {
		return nil, fmt.Errorf("save campaign: %w", err)
	}
	u.logger.Info("campaign created", slog.String("campaign_id", c.ID))

	res := &port.CreateCampaignResult{Campaign: c}
	if in.GenerationParams == nil {
		return res, nil
	}
	run, err := u.startRun(ctx, c, *in.GenerationParams, now)
	if err != nil {
		return nil, err
	}
	res.FirstRun = run
	return res, nil
}

func (u *CampaignUseCase) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	c, err := u.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GeneratePosts starts another run for an existing campaign.
func (u *CampaignUseCase) GeneratePosts(ctx context.Context, campaignID string, req port.GenerationRequest) (*port.RunSummary, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	c, err := u.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err = u.gate.Check(ctx, req); err != nil {
		return nil, err
	}
	return u.startRun(ctx, c, req, u.now())
}

func (u *CampaignUseCase) GetRun(ctx context.Context, runID string) (*domain.GenerationRun, error) {
	r, err := u.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// startRun records the run in the ledger, persists its placeholders and
// dispatches it. The ledger entry is written first so that a crash never
// leaves GENERATING posts that recovery cannot find.
func (u *CampaignUseCase) startRun(ctx context.Context, c domain.Campaign, req port.GenerationRequest, now time.Time) (*port.RunSummary, error) {
	params := req.Params()
	logger := u.logger.With(slog.String("campaign_id", c.ID))

	if len(params.ReferenceAssetIDs) > 0 {
		if err := u.repo.LinkAssets(ctx, params.ReferenceAssetIDs, c.ID); err != nil {
			logger.Warn("link reference assets", slog.Any("error", err))
		}
	}

	posts := u.placeholders(c, now)
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	run := domain.NewRun(u.newID(), c.ID, params, ids, now)
	if err := u.repo.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	if err := u.repo.SavePosts(ctx, posts...); err != nil {
		return nil, fmt.Errorf("save placeholders: %w", err)
	}

	logger = logger.With(slog.String("run_id", run.ID))
	err := u.dispatcher.Dispatch(port.GenerationJob{
		RunID:      run.ID,
		CampaignID: c.ID,
		Params:     params,
		PostIDs:    ids,
	})
	switch {
	case errors.Is(err, port.ErrQueueFull):
		logger.Warn("generation queue full, run left pending", slog.Int("posts", len(ids)))
	case err != nil:
		logger.Error("dispatch generation", slog.Any("error", err))
	default:
		logger.Info("generation dispatched", slog.Int("posts", len(ids)))
	}

	return &port.RunSummary{RunID: run.ID, Posts: posts}, nil
}

func (u *CampaignUseCase) placeholders(c domain.Campaign, now time.Time) []domain.Post {
	if u.policy.PerPlatform && len(c.Platforms) > 0 {
		posts := make([]domain.Post, 0, len(c.Platforms))
		for _, p := range c.Platforms {
			posts = append(posts, domain.NewPlaceholder(u.newID(), c.ID, p, now))
		}
		return posts
	}
	posts := make([]domain.Post, 0, u.policy.Count)
	for range u.policy.Count {
		posts = append(posts, domain.NewPlaceholder(u.newID(), c.ID, c.PrimaryPlatform(), now))
	}
	return posts
}
