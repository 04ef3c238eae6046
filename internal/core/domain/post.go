package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidTransition is returned when a lifecycle event is not legal
	// for the post's current status.
	ErrInvalidTransition = errors.New("invalid post status transition")
	// ErrIncompleteContent is returned when generated content is missing
	// the image or the caption.
	ErrIncompleteContent = errors.New("post content must have both image url and caption")
)

// PostStatus is a state of the post lifecycle.
type PostStatus string

const (
	PostStatusGenerating PostStatus = "GENERATING"
	PostStatusDraft      PostStatus = "DRAFT"
	PostStatusApproved   PostStatus = "APPROVED"
	PostStatusScheduled  PostStatus = "SCHEDULED"
	PostStatusPosted     PostStatus = "POSTED"
	PostStatusFailed     PostStatus = "FAILED"
)

// Terminal reports whether no further lifecycle event can move the post.
func (s PostStatus) Terminal() bool {
	return s == PostStatusPosted || s == PostStatusFailed
}

// PostContent is the generated creative. A post either carries a complete
// PostContent or none at all.
type PostContent struct {
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption"`
}

func (c PostContent) complete() bool {
	return strings.TrimSpace(c.ImageURL) != "" && strings.TrimSpace(c.Caption) != ""
}

// Post is one piece of content for a single platform.
//
// Status and Content are only changed through the lifecycle methods below so
// that "content present" and "status past GENERATING" cannot drift apart.
type Post struct {
	ID            string       `json:"id"`
	CampaignID    string       `json:"campaignId"`
	Status        PostStatus   `json:"status"`
	ScheduledTime *time.Time   `json:"scheduledTime"`
	Content       *PostContent `json:"content"`
	Platform      Platform     `json:"platform"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// NewPlaceholder returns a post awaiting generation.
func NewPlaceholder(id, campaignID string, platform Platform, now time.Time) Post {
	return Post{
		ID:         id,
		CampaignID: campaignID,
		Status:     PostStatusGenerating,
		Platform:   platform,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewDraft returns a post created directly with content, bypassing
// generation.
func NewDraft(id, campaignID string, platform Platform, content PostContent, now time.Time) (Post, error) {
	if !content.complete() {
		return Post{}, ErrIncompleteContent
	}
	return Post{
		ID:         id,
		CampaignID: campaignID,
		Status:     PostStatusDraft,
		Content:    &content,
		Platform:   platform,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// MarkGenerated records a successful generation: GENERATING -> DRAFT.
func (p *Post) MarkGenerated(content PostContent, now time.Time) error {
	if p.Status != PostStatusGenerating {
		return p.transitionError("generate")
	}
	if !content.complete() {
		return ErrIncompleteContent
	}
	p.Content = &content
	p.Status = PostStatusDraft
	p.UpdatedAt = now
	return nil
}

// MarkFailed records a failed generation: GENERATING -> FAILED. Content stays
// empty.
func (p *Post) MarkFailed(now time.Time) error {
	if p.Status != PostStatusGenerating {
		return p.transitionError("fail")
	}
	p.Status = PostStatusFailed
	p.UpdatedAt = now
	return nil
}

// Approve moves a DRAFT post to APPROVED, applying an optional caption edit
// in the same step. Re-approving an APPROVED post is allowed and only
// rewrites the caption.
func (p *Post) Approve(editedCaption *string, now time.Time) error {
	if p.Status != PostStatusDraft && p.Status != PostStatusApproved {
		return p.transitionError("approve")
	}
	if p.Content == nil {
		return ErrIncompleteContent
	}
	content := *p.Content
	if editedCaption != nil && strings.TrimSpace(*editedCaption) != "" {
		content.Caption = *editedCaption
	}
	p.Content = &content
	p.Status = PostStatusApproved
	p.UpdatedAt = now
	return nil
}

// Schedule moves an APPROVED post to SCHEDULED, or overwrites the time of an
// already scheduled post. The time is recorded as given.
func (p *Post) Schedule(at time.Time, now time.Time) error {
	if p.Status != PostStatusApproved && p.Status != PostStatusScheduled {
		return p.transitionError("schedule")
	}
	at = at.UTC()
	p.ScheduledTime = &at
	p.Status = PostStatusScheduled
	p.UpdatedAt = now
	return nil
}

func (p *Post) transitionError(event string) error {
	return fmt.Errorf("%w: cannot %s post in status %s", ErrInvalidTransition, event, p.Status)
}
