package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// Store implements port.Repository in process memory. Values are copied on
// the way in and out so callers never share slices with the store.
type Store struct {
	mu sync.RWMutex

	campaigns map[string]domain.Campaign
	posts     map[string]domain.Post
	assets    map[string]domain.Asset
	runs      map[string]domain.GenerationRun
}

func NewStore() *Store {
	return &Store{
		campaigns: make(map[string]domain.Campaign),
		posts:     make(map[string]domain.Post),
		assets:    make(map[string]domain.Asset),
		runs:      make(map[string]domain.GenerationRun),
	}
}

func (s *Store) SaveCampaign(_ context.Context, c domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.Platforms = slices.Clone(c.Platforms)
	s.campaigns[c.ID] = c
	return nil
}

func (s *Store) GetCampaign(_ context.Context, id string) (domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.campaigns[strings.TrimSpace(id)]
	if !ok {
		return domain.Campaign{}, port.ErrNotFound
	}
	c.Platforms = slices.Clone(c.Platforms)
	return c, nil
}

func (s *Store) SavePosts(_ context.Context, posts ...domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range posts {
		s.posts[p.ID] = clonePost(p)
	}
	return nil
}

func (s *Store) GetPost(_ context.Context, id string) (domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[strings.TrimSpace(id)]
	if !ok {
		return domain.Post{}, port.ErrNotFound
	}
	return clonePost(p), nil
}

func (s *Store) ListPostsByCampaign(_ context.Context, campaignID string) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]domain.Post, 0)
	for _, p := range s.posts {
		if p.CampaignID == campaignID {
			posts = append(posts, clonePost(p))
		}
	}
	sortPosts(posts)
	return posts, nil
}

func (s *Store) ListPostsByStatus(_ context.Context, statuses ...domain.PostStatus) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]domain.Post, 0)
	for _, p := range s.posts {
		if slices.Contains(statuses, p.Status) {
			posts = append(posts, clonePost(p))
		}
	}
	sortPosts(posts)
	return posts, nil
}

func (s *Store) SaveAsset(_ context.Context, a domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assets[a.ID] = a
	return nil
}

func (s *Store) GetAssets(_ context.Context, ids []string) ([]domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assets := make([]domain.Asset, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.assets[id]; ok {
			assets = append(assets, a)
		}
	}
	return assets, nil
}

func (s *Store) LinkAssets(_ context.Context, ids []string, campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		a, ok := s.assets[id]
		if !ok {
			continue
		}
		a.CampaignID = campaignID
		s.assets[id] = a
	}
	return nil
}

func (s *Store) SaveRun(_ context.Context, r domain.GenerationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[r.ID] = cloneRun(r)
	return nil
}

func (s *Store) GetRun(_ context.Context, id string) (domain.GenerationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[strings.TrimSpace(id)]
	if !ok {
		return domain.GenerationRun{}, port.ErrNotFound
	}
	return cloneRun(r), nil
}

func (s *Store) ClaimRun(_ context.Context, id string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[id]
	if !ok {
		return false, port.ErrNotFound
	}
	if r.Status != domain.RunStatusPending {
		return false, nil
	}
	r.Status = domain.RunStatusRunning
	r.UpdatedAt = now
	s.runs[id] = r
	return true, nil
}

func (s *Store) TouchRun(_ context.Context, id string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[id]
	if !ok {
		return port.ErrNotFound
	}
	if r.Status == domain.RunStatusPending {
		r.UpdatedAt = now
		s.runs[id] = r
	}
	return nil
}

func (s *Store) UpdateTask(_ context.Context, runID, postID string, status domain.TaskStatus, errMsg string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[runID]
	if !ok {
		return port.ErrNotFound
	}
	r = cloneRun(r)
	if !r.SetTask(postID, status, errMsg, now) {
		return port.ErrNotFound
	}
	s.runs[runID] = r
	return nil
}

func (s *Store) CompleteRun(_ context.Context, id string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[id]
	if !ok {
		return port.ErrNotFound
	}
	r.Status = domain.RunStatusCompleted
	r.UpdatedAt = now
	r.CompletedAt = &now
	s.runs[id] = r
	return nil
}

func (s *Store) ListUnfinishedRuns(_ context.Context) ([]domain.GenerationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.GenerationRun, 0)
	for _, r := range s.runs {
		if r.Status != domain.RunStatusCompleted {
			runs = append(runs, cloneRun(r))
		}
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})
	return runs, nil
}

func clonePost(p domain.Post) domain.Post {
	if p.Content != nil {
		c := *p.Content
		p.Content = &c
	}
	if p.ScheduledTime != nil {
		t := *p.ScheduledTime
		p.ScheduledTime = &t
	}
	return p
}

func cloneRun(r domain.GenerationRun) domain.GenerationRun {
	r.Tasks = slices.Clone(r.Tasks)
	r.Params.ReferenceAssetIDs = slices.Clone(r.Params.ReferenceAssetIDs)
	return r
}

func sortPosts(posts []domain.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
}
