package port

import (
	"context"
	"io"
	"time"

	"social-sprout/internal/core/domain"
)

// CampaignUseCase is the primary port for campaign creation and generation.
type CampaignUseCase interface {
	// CreateCampaign validates the input, runs the payment gate when
	// generation is requested, persists the campaign and its placeholders and
	// dispatches generation in the background. It never waits for providers.
	CreateCampaign(ctx context.Context, in CreateCampaignInput) (*CreateCampaignResult, error)

	// GetCampaign returns a campaign by id.
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)

	// GeneratePosts starts a new generation run for an existing campaign.
	GeneratePosts(ctx context.Context, campaignID string, req GenerationRequest) (*RunSummary, error)

	// GetRun returns the ledger entry of a run.
	GetRun(ctx context.Context, runID string) (*domain.GenerationRun, error)
}

// PostUseCase exposes the approval and scheduling lifecycle.
type PostUseCase interface {
	ApprovePost(ctx context.Context, id string, in ApprovePostInput) (*domain.Post, error)
	SchedulePost(ctx context.Context, id string, in SchedulePostInput) (*domain.Post, error)
	ListCampaignPosts(ctx context.Context, campaignID string) ([]domain.Post, error)
	Calendar(ctx context.Context, req CalendarReq) ([]CalendarEvent, error)
}

// AssetUseCase stores uploaded reference material.
type AssetUseCase interface {
	UploadAsset(ctx context.Context, in UploadAssetInput) (*domain.Asset, error)
}

// CreateCampaignInput is the body of a campaign creation request.
type CreateCampaignInput struct {
	BrandName        string             `json:"brandName" validate:"notblank"`
	BrandCategory    domain.Category    `json:"brandCategory" validate:"required,oneof=LIFESTYLE_PRODUCT CONSUMER_PRODUCT CAFE_OR_RESTAURANT SERVICE"`
	BrandDescription string             `json:"brandDescription,omitempty"`
	Goal             string             `json:"goal" validate:"notblank"`
	Platforms        []domain.Platform  `json:"platforms" validate:"required,min=1,unique,dive,oneof=INSTAGRAM FACEBOOK PINTEREST"`
	GenerationParams *GenerationRequest `json:"generationParams,omitempty" validate:"omitempty"`
}

// GenerationRequest asks for a batch of posts. Budget is in minor units; its
// floor is enforced by the payment gate, not by validation.
type GenerationRequest struct {
	Style             domain.StylePreset `json:"style,omitempty" validate:"omitempty,oneof=UGC CLEAN_STUDIO WARM_LIFESTYLE EDITORIAL MINIMAL DOCUMENTARY"`
	Budget            *int64             `json:"budget" validate:"required"`
	ReferenceAssetIDs []string           `json:"referenceAssetIds,omitempty" validate:"omitempty,dive,uuid"`
	AdditionalContext string             `json:"additionalContext,omitempty"`
	Payment           *domain.Payment    `json:"payment,omitempty"`
}

// Params converts the request into stored generation parameters.
func (r GenerationRequest) Params() domain.GenerationParams {
	var budget int64
	if r.Budget != nil {
		budget = *r.Budget
	}
	return domain.GenerationParams{
		Style:             r.Style,
		Budget:            budget,
		ReferenceAssetIDs: r.ReferenceAssetIDs,
		AdditionalContext: r.AdditionalContext,
	}
}

// CreateCampaignResult is the campaign summary plus the first run, if any.
type CreateCampaignResult struct {
	domain.Campaign
	FirstRun *RunSummary `json:"firstRun,omitempty"`
}

// RunSummary correlates the placeholders created by one orchestration call.
type RunSummary struct {
	RunID string        `json:"runId"`
	Posts []domain.Post `json:"posts"`
}

type ApprovePostInput struct {
	EditedCaption *string `json:"editedCaption,omitempty"`
}

type SchedulePostInput struct {
	ScheduledTime time.Time `json:"scheduledTime" validate:"required"`
}

// CalendarReq optionally bounds calendar events by their start time.
type CalendarReq struct {
	From *time.Time
	To   *time.Time
}

// CalendarEvent is a scheduled or posted post as shown on the calendar.
type CalendarEvent struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Start     time.Time         `json:"start"`
	Status    domain.PostStatus `json:"status"`
	Thumbnail string            `json:"thumbnail"`
	Platform  domain.Platform   `json:"platform"`
}

// UploadAssetInput is a file received by the upload endpoint.
type UploadAssetInput struct {
	CampaignID  string `validate:"omitempty,uuid"`
	Filename    string `validate:"notblank"`
	ContentType string `validate:"startswith=image/"`
	Body        io.Reader
}
