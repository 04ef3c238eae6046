package port

import (
	"context"
	"io"
	"time"

	"social-sprout/internal/core/domain"
)

// CampaignRepository persists campaigns. Saves are upserts by id.
type CampaignRepository interface {
	SaveCampaign(ctx context.Context, c domain.Campaign) error
	// GetCampaign returns ErrNotFound for unknown ids.
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
}

// PostRepository persists posts. Each post record is written atomically.
type PostRepository interface {
	// SavePosts upserts the given posts by id.
	SavePosts(ctx context.Context, posts ...domain.Post) error
	// GetPost returns ErrNotFound for unknown ids.
	GetPost(ctx context.Context, id string) (domain.Post, error)
	ListPostsByCampaign(ctx context.Context, campaignID string) ([]domain.Post, error)
	ListPostsByStatus(ctx context.Context, statuses ...domain.PostStatus) ([]domain.Post, error)
}

// AssetRepository stores metadata of uploaded reference assets.
type AssetRepository interface {
	SaveAsset(ctx context.Context, a domain.Asset) error
	// GetAssets returns the known assets among ids; unknown ids are skipped.
	GetAssets(ctx context.Context, ids []string) ([]domain.Asset, error)
	// LinkAssets sets the campaign id of every listed asset. Unknown ids are
	// ignored and repeating the call is harmless.
	LinkAssets(ctx context.Context, ids []string, campaignID string) error
}

// RunRepository is the generation run ledger.
type RunRepository interface {
	SaveRun(ctx context.Context, r domain.GenerationRun) error
	// GetRun returns ErrNotFound for unknown ids.
	GetRun(ctx context.Context, id string) (domain.GenerationRun, error)
	// ClaimRun moves a pending run to running. It reports false when the run
	// was already claimed so that a run is executed at most once.
	ClaimRun(ctx context.Context, id string, now time.Time) (bool, error)
	// TouchRun sets UpdatedAt of a pending run to now. Runs in any other
	// status are left untouched.
	TouchRun(ctx context.Context, id string, now time.Time) error
	UpdateTask(ctx context.Context, runID, postID string, status domain.TaskStatus, errMsg string, now time.Time) error
	CompleteRun(ctx context.Context, id string, now time.Time) error
	// ListUnfinishedRuns returns runs that are pending or running.
	ListUnfinishedRuns(ctx context.Context) ([]domain.GenerationRun, error)
}

// Repository is the full persistence port. Implementations must be safe
// for concurrent use.
type Repository interface {
	CampaignRepository
	PostRepository
	AssetRepository
	RunRepository
}

// BlobStore keeps uploaded bytes and returns an opaque URL for them.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
