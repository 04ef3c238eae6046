package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// Seed stores a few demo campaigns with posts spread over the lifecycle so
// that the calendar has something to show.
func Seed(ctx context.Context, repo port.Repository, now time.Time) error {
	r := rand.New(rand.NewSource(now.UnixNano()))
	categories := []domain.Category{
		domain.CategoryCafeOrRestaurant,
		domain.CategoryLifestyleProduct,
		domain.CategoryService,
	}
	platforms := []domain.Platform{domain.PlatformInstagram, domain.PlatformFacebook, domain.PlatformPinterest}

	for i := 1; i <= 3; i++ {
		c := domain.Campaign{
			ID:            uuid.NewString(),
			BrandName:     fmt.Sprintf("Demo Brand %d", i),
			BrandCategory: categories[i-1],
			Goal:          "Grow local awareness",
			Platforms:     platforms[:i],
			Status:        domain.CampaignStatusDraft,
			CreatedAt:     now,
		}
		if err := repo.SaveCampaign(ctx, c); err != nil {
			return err
		}

		posts := make([]domain.Post, 0, 6)
		for j := 1; j <= 6; j++ {
			content := domain.PostContent{
				ImageURL: fmt.Sprintf("https://picsum.photos/seed/%d-%d/800/800", i, j),
				Caption:  fmt.Sprintf("%s post %d #demo", c.BrandName, j),
			}
			p, err := domain.NewDraft(uuid.NewString(), c.ID, platforms[r.Intn(len(c.Platforms))], content, now)
			if err != nil {
				return err
			}
			// Posts 1-2 stay drafts, 3 is approved, the rest are scheduled.
			if j >= 3 {
				if err = p.Approve(nil, now); err != nil {
					return err
				}
			}
			if j >= 4 {
				at := now.Add(time.Duration(r.Intn(14*24)) * time.Hour)
				if err = p.Schedule(at, now); err != nil {
					return err
				}
			}
			posts = append(posts, p)
		}
		if err := repo.SavePosts(ctx, posts...); err != nil {
			return err
		}
	}
	return nil
}
