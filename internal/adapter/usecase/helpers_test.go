package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"go.uber.org/goleak"

	"social-sprout/internal/adapter/memory"
	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// ignoreLibraryGoroutines skips goroutines started by package init in the
// genai dependency chain.
var ignoreLibraryGoroutines = goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start")

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func sequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("%s-%d", prefix, n.Add(1)) }
}

func budget(v int64) *int64 { return &v }

func validInput() port.CreateCampaignInput {
	return port.CreateCampaignInput{
		BrandName:     "Acme Coffee",
		BrandCategory: domain.CategoryCafeOrRestaurant,
		Goal:          "Launch the autumn menu",
		Platforms:     []domain.Platform{domain.PlatformInstagram, domain.PlatformFacebook},
	}
}

// dispatchFunc adapts a function to port.GenerationDispatcher.
type dispatchFunc func(port.GenerationJob) error

func (f dispatchFunc) Dispatch(job port.GenerationJob) error { return f(job) }

// seedRun stores a campaign, n placeholders and a pending run for them.
func seedRun(store *memory.Store, n int, params domain.GenerationParams) (domain.Campaign, port.GenerationJob) {
	ctx := context.Background()
	c := domain.Campaign{
		ID:            "c-1",
		BrandName:     "Acme Coffee",
		BrandCategory: domain.CategoryCafeOrRestaurant,
		Goal:          "Launch the autumn menu",
		Platforms:     []domain.Platform{domain.PlatformInstagram},
		Status:        domain.CampaignStatusDraft,
		CreatedAt:     testNow,
	}
	_ = store.SaveCampaign(ctx, c)

	ids := make([]string, 0, n)
	for i := range n {
		p := domain.NewPlaceholder(fmt.Sprintf("p-%d", i+1), c.ID, domain.PlatformInstagram, testNow)
		_ = store.SavePosts(ctx, p)
		ids = append(ids, p.ID)
	}
	run := domain.NewRun("r-1", c.ID, params, ids, testNow)
	_ = store.SaveRun(ctx, run)

	return c, port.GenerationJob{RunID: run.ID, CampaignID: c.ID, Params: params, PostIDs: ids}
}
