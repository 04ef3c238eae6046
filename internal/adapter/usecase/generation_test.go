package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"social-sprout/internal/adapter/memory"
	"social-sprout/internal/adapter/provider"
	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
	"social-sprout/internal/core/port/mocks"
)

func newTestGenerator(store *memory.Store, images port.ImageProvider, texts port.TextProvider, cfg GeneratorConfig) *Generator {
	g := NewGenerator(store, images, texts, cfg, discardLogger())
	g.now = fixedClock()
	return g
}

func countByStatus(t *testing.T, store *memory.Store, campaignID string) map[domain.PostStatus]int {
	t.Helper()
	posts, err := store.ListPostsByCampaign(context.Background(), campaignID)
	require.NoError(t, err)
	counts := make(map[domain.PostStatus]int)
	for _, p := range posts {
		counts[p.Status]++
		switch p.Status {
		case domain.PostStatusDraft:
			require.NotNil(t, p.Content)
			assert.NotEmpty(t, p.Content.ImageURL)
			assert.NotEmpty(t, p.Content.Caption)
		case domain.PostStatusFailed, domain.PostStatusGenerating:
			assert.Nil(t, p.Content)
		}
	}
	return counts
}

func TestGeneratorAllSucceed(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreLibraryGoroutines)

	store := memory.NewStore()
	c, job := seedRun(store, 3, domain.GenerationParams{Budget: 100, Style: domain.StyleMinimal})
	g := newTestGenerator(store, provider.StubImageProvider{}, provider.StubTextProvider{}, GeneratorConfig{PostConcurrency: 2})

	g.Execute(context.Background(), job)

	assert.Equal(t, map[domain.PostStatus]int{domain.PostStatusDraft: 3}, countByStatus(t, store, c.ID))

	post, err := store.GetPost(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, provider.StubImageURL(domain.StyleMinimal, false), post.Content.ImageURL)

	run, err := store.GetRun(context.Background(), job.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.Len(t, run.PostIDs(domain.TaskStatusSucceeded), 3)
}

// TestGeneratorIsolatesFailures makes exactly one image call fail and checks
// that only that post ends up FAILED.
func TestGeneratorIsolatesFailures(t *testing.T) {
	store := memory.NewStore()
	c, job := seedRun(store, 3, domain.GenerationParams{Budget: 100})

	var calls atomic.Int32
	images := mocks.NewMockImageProvider(t)
	images.EXPECT().
		GenerateImage(mock.Anything, "Acme Coffee Launch the autumn menu", domain.StyleUGC, []string(nil)).
		RunAndReturn(func(context.Context, string, domain.StylePreset, []string) (string, error) {
			if calls.Add(1) == 1 {
				return "", errors.New("upstream exploded")
			}
			return "https://img.test/ok.jpg", nil
		}).
		Times(3)
	texts := mocks.NewMockTextProvider(t)
	texts.EXPECT().
		GenerateText(mock.Anything, "You are a social media manager.", "Write a caption for Acme Coffee about Launch the autumn menu").
		Return("Autumn is here.", nil)

	newTestGenerator(store, images, texts, GeneratorConfig{}).Execute(context.Background(), job)

	assert.Equal(t, map[domain.PostStatus]int{domain.PostStatusDraft: 2, domain.PostStatusFailed: 1}, countByStatus(t, store, c.ID))

	run, err := store.GetRun(context.Background(), job.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	failed := run.PostIDs(domain.TaskStatusFailed)
	require.Len(t, failed, 1)
	for _, task := range run.Tasks {
		if task.Status == domain.TaskStatusFailed {
			assert.Contains(t, task.Error, "upstream exploded")
		}
	}
}

func TestGeneratorEmptyCaptionFailsPost(t *testing.T) {
	store := memory.NewStore()
	c, job := seedRun(store, 2, domain.GenerationParams{Budget: 100})

	texts := mocks.NewMockTextProvider(t)
	texts.EXPECT().GenerateText(mock.Anything, mock.Anything, mock.Anything).Return("   ", nil)

	newTestGenerator(store, provider.StubImageProvider{}, texts, GeneratorConfig{}).Execute(context.Background(), job)

	assert.Equal(t, map[domain.PostStatus]int{domain.PostStatusFailed: 2}, countByStatus(t, store, c.ID))
}

func TestGeneratorRecoversFromProviderPanic(t *testing.T) {
	store := memory.NewStore()
	c, job := seedRun(store, 3, domain.GenerationParams{Budget: 100})

	var calls atomic.Int32
	images := mocks.NewMockImageProvider(t)
	images.EXPECT().
		GenerateImage(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, string, domain.StylePreset, []string) (string, error) {
			if calls.Add(1) == 2 {
				panic("provider bug")
			}
			return "https://img.test/ok.jpg", nil
		})

	newTestGenerator(store, images, provider.StubTextProvider{}, GeneratorConfig{}).Execute(context.Background(), job)

	assert.Equal(t, map[domain.PostStatus]int{domain.PostStatusDraft: 2, domain.PostStatusFailed: 1}, countByStatus(t, store, c.ID))
}

func TestGeneratorPostTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreLibraryGoroutines)

	store := memory.NewStore()
	c, job := seedRun(store, 2, domain.GenerationParams{Budget: 100})

	slow := provider.StubImageProvider{Latency: time.Hour}
	g := newTestGenerator(store, slow, provider.StubTextProvider{}, GeneratorConfig{PostTimeout: 20 * time.Millisecond})

	start := time.Now()
	g.Execute(context.Background(), job)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.Equal(t, map[domain.PostStatus]int{domain.PostStatusFailed: 2}, countByStatus(t, store, c.ID))
}

func TestGeneratorExecutesRunOnce(t *testing.T) {
	store := memory.NewStore()
	_, job := seedRun(store, 3, domain.GenerationParams{Budget: 100})

	images := mocks.NewMockImageProvider(t)
	images.EXPECT().
		GenerateImage(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://img.test/ok.jpg", nil).
		Times(3)

	g := newTestGenerator(store, images, provider.StubTextProvider{}, GeneratorConfig{})
	g.Execute(context.Background(), job)
	g.Execute(context.Background(), job)
}

func TestGeneratorPassesReferenceURLs(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.SaveAsset(context.Background(), domain.Asset{ID: "a-1", URL: "https://assets.test/a-1.png"}))
	_, job := seedRun(store, 1, domain.GenerationParams{
		Budget:            100,
		Style:             domain.StyleDocumentary,
		ReferenceAssetIDs: []string{"a-1", "gone"},
		AdditionalContext: "rainy window",
	})

	images := mocks.NewMockImageProvider(t)
	images.EXPECT().
		GenerateImage(mock.Anything, "Acme Coffee Launch the autumn menu rainy window", domain.StyleDocumentary, []string{"https://assets.test/a-1.png"}).
		Return("https://img.test/ref.jpg", nil).
		Once()

	newTestGenerator(store, images, provider.StubTextProvider{}, GeneratorConfig{}).Execute(context.Background(), job)

	post, err := store.GetPost(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PostStatusDraft, post.Status)
}

func TestGeneratorFailsPostsOfMissingCampaign(t *testing.T) {
	store := memory.NewStore()
	_, job := seedRun(store, 2, domain.GenerationParams{Budget: 100})
	job.CampaignID = "deleted"
	run, err := store.GetRun(context.Background(), job.RunID)
	require.NoError(t, err)
	run.CampaignID = "deleted"
	require.NoError(t, store.SaveRun(context.Background(), run))

	images := mocks.NewMockImageProvider(t)
	newTestGenerator(store, images, provider.StubTextProvider{}, GeneratorConfig{}).Execute(context.Background(), job)

	assert.Equal(t, map[domain.PostStatus]int{domain.PostStatusFailed: 2}, countByStatus(t, store, "c-1"))
	run, err = store.GetRun(context.Background(), job.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
}
