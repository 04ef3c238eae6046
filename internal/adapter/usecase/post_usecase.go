package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

const calendarTitleRunes = 30

// PostUseCase applies approval and scheduling events to posts and builds
// the calendar view.
type PostUseCase struct {
	repo   port.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewPostUseCase(repo port.Repository, logger *slog.Logger) *PostUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostUseCase{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ApprovePost approves a DRAFT (or already APPROVED) post. A non-empty
// edited caption replaces the generated one in the same write.
func (u *PostUseCase) ApprovePost(ctx context.Context, id string, in port.ApprovePostInput) (*domain.Post, error) {
	post, err := u.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = post.Approve(in.EditedCaption, u.now()); err != nil {
		return nil, err
	}
	if err = u.repo.SavePosts(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	u.logger.Info("post approved", slog.String("post_id", post.ID), slog.String("campaign_id", post.CampaignID))
	return &post, nil
}

// SchedulePost schedules an APPROVED post or moves the time of a SCHEDULED
// one.
func (u *PostUseCase) SchedulePost(ctx context.Context, id string, in port.SchedulePostInput) (*domain.Post, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	post, err := u.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = post.Schedule(in.ScheduledTime, u.now()); err != nil {
		return nil, err
	}
	if err = u.repo.SavePosts(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	u.logger.Info("post scheduled",
		slog.String("post_id", post.ID),
		slog.String("campaign_id", post.CampaignID),
		slog.Time("scheduled_time", *post.ScheduledTime))
	return &post, nil
}

func (u *PostUseCase) ListCampaignPosts(ctx context.Context, campaignID string) ([]domain.Post, error) {
	if _, err := u.repo.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	return u.repo.ListPostsByCampaign(ctx, campaignID)
}

// Calendar returns SCHEDULED and POSTED posts ordered by start time,
// optionally limited to starts within [From, To].
func (u *PostUseCase) Calendar(ctx context.Context, req port.CalendarReq) ([]port.CalendarEvent, error) {
	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return nil, &port.ValidationError{Fields: []port.FieldError{{Field: "from", Rule: "ltefield=to"}}}
	}
	posts, err := u.repo.ListPostsByStatus(ctx, domain.PostStatusScheduled, domain.PostStatusPosted)
	if err != nil {
		return nil, err
	}

	events := make([]port.CalendarEvent, 0, len(posts))
	for _, p := range posts {
		start := p.CreatedAt
		if p.ScheduledTime != nil {
			start = *p.ScheduledTime
		}
		if req.From != nil && start.Before(*req.From) {
			continue
		}
		if req.To != nil && start.After(*req.To) {
			continue
		}
		ev := port.CalendarEvent{
			ID:       p.ID,
			Start:    start,
			Status:   p.Status,
			Platform: p.Platform,
		}
		if p.Content != nil {
			ev.Title = calendarTitle(p.Content.Caption)
			ev.Thumbnail = p.Content.ImageURL
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

func calendarTitle(caption string) string {
	if utf8.RuneCountInString(caption) <= calendarTitleRunes {
		return caption
	}
	return string([]rune(caption)[:calendarTitleRunes]) + "..."
}
