package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSavePostsIsUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	p := domain.NewPlaceholder("p1", "c1", domain.PlatformInstagram, now)
	require.NoError(t, s.SavePosts(ctx, p))
	require.NoError(t, s.SavePosts(ctx, p))

	posts, err := s.ListPostsByCampaign(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, posts, 1)

	require.NoError(t, p.MarkGenerated(domain.PostContent{ImageURL: "img", Caption: "cap"}, now))
	require.NoError(t, s.SavePosts(ctx, p))
	require.NoError(t, s.SavePosts(ctx, p))

	got, err := s.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PostStatusDraft, got.Status)
	assert.Equal(t, "cap", got.Content.Caption)

	posts, err = s.ListPostsByCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestSaveCampaignIsUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := domain.Campaign{
		ID:        "c1",
		BrandName: "Bean There",
		Goal:      "launch",
		Platforms: []domain.Platform{domain.PlatformInstagram},
		CreatedAt: now,
	}
	require.NoError(t, s.SaveCampaign(ctx, c))

	c.Goal = "relaunch"
	c.Platforms = []domain.Platform{domain.PlatformFacebook}
	require.NoError(t, s.SaveCampaign(ctx, c))

	got, err := s.GetCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "relaunch", got.Goal)
	assert.Equal(t, []domain.Platform{domain.PlatformFacebook}, got.Platforms)
	assert.Len(t, s.campaigns, 1)
}

func TestGetPostReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	p, err := domain.NewDraft("p1", "c1", domain.PlatformFacebook, domain.PostContent{ImageURL: "img", Caption: "cap"}, now)
	require.NoError(t, err)
	require.NoError(t, s.SavePosts(ctx, p))

	got, err := s.GetPost(ctx, "p1")
	require.NoError(t, err)
	got.Content.Caption = "mutated"

	again, err := s.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "cap", again.Content.Caption)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.GetCampaign(ctx, "missing")
	assert.ErrorIs(t, err, port.ErrNotFound)
	_, err = s.GetPost(ctx, "missing")
	assert.ErrorIs(t, err, port.ErrNotFound)
	_, err = s.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, port.ErrNotFound)
	assert.ErrorIs(t, s.UpdateTask(ctx, "missing", "p", domain.TaskStatusRunning, "", now), port.ErrNotFound)
}

func TestListPostsByStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	generating := domain.NewPlaceholder("a", "c1", domain.PlatformInstagram, now)
	failed := domain.NewPlaceholder("b", "c1", domain.PlatformInstagram, now.Add(time.Second))
	require.NoError(t, failed.MarkFailed(now))
	require.NoError(t, s.SavePosts(ctx, generating, failed))

	posts, err := s.ListPostsByStatus(ctx, domain.PostStatusGenerating)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "a", posts[0].ID)

	posts, err = s.ListPostsByStatus(ctx, domain.PostStatusGenerating, domain.PostStatusFailed)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestLinkAssets(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.SaveAsset(ctx, domain.Asset{ID: "a1", URL: "u1", Type: domain.AssetTypeImage}))
	require.NoError(t, s.LinkAssets(ctx, []string{"a1", "unknown"}, "c1"))
	require.NoError(t, s.LinkAssets(ctx, []string{"a1"}, "c1"))

	assets, err := s.GetAssets(ctx, []string{"a1", "unknown"})
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "c1", assets[0].CampaignID)
}

func TestClaimRunOnce(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	run := domain.NewRun("r1", "c1", domain.GenerationParams{Budget: 100}, []string{"p1", "p2"}, now)
	require.NoError(t, s.SaveRun(ctx, run))

	var (
		wg      sync.WaitGroup
		claimed atomic.Int32
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.ClaimRun(ctx, "r1", now)
			if err == nil && ok {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), claimed.Load())

	got, err := s.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusRunning, got.Status)
}

func TestTouchRun(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.SaveRun(ctx, domain.NewRun("r1", "c1", domain.GenerationParams{Budget: 100}, []string{"p1"}, now)))

	later := now.Add(time.Hour)
	require.NoError(t, s.TouchRun(ctx, "r1", later))
	got, err := s.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, later.Equal(got.UpdatedAt))

	ok, err := s.ClaimRun(ctx, "r1", later)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.TouchRun(ctx, "r1", later.Add(time.Hour)))
	got, err = s.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusRunning, got.Status)
	assert.True(t, later.Equal(got.UpdatedAt))

	assert.ErrorIs(t, s.TouchRun(ctx, "missing", now), port.ErrNotFound)
}

func TestRunLedger(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	run := domain.NewRun("r1", "c1", domain.GenerationParams{Budget: 100}, []string{"p1", "p2"}, now)
	require.NoError(t, s.SaveRun(ctx, run))

	require.NoError(t, s.UpdateTask(ctx, "r1", "p1", domain.TaskStatusSucceeded, "", now))
	require.NoError(t, s.UpdateTask(ctx, "r1", "p2", domain.TaskStatusFailed, "boom", now))
	assert.ErrorIs(t, s.UpdateTask(ctx, "r1", "p3", domain.TaskStatusFailed, "", now), port.ErrNotFound)

	unfinished, err := s.ListUnfinishedRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, unfinished, 1)

	require.NoError(t, s.CompleteRun(ctx, "r1", now))

	got, err := s.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, got.Status)
	assert.True(t, got.Finished())
	assert.Equal(t, "boom", got.Tasks[1].Error)
	require.NotNil(t, got.CompletedAt)

	unfinished, err = s.ListUnfinishedRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, unfinished)
}
