package mongodb

import (
	"time"

	"social-sprout/internal/core/domain"
)

type campaignDoc struct {
	ID               string    `bson:"_id"`
	BrandName        string    `bson:"brandName"`
	BrandCategory    string    `bson:"brandCategory"`
	BrandDescription string    `bson:"brandDescription,omitempty"`
	Goal             string    `bson:"goal"`
	Platforms        []string  `bson:"platforms"`
	Status           string    `bson:"status"`
	CreatedAt        time.Time `bson:"createdAt"`
}

func toCampaignDoc(c domain.Campaign) campaignDoc {
	platforms := make([]string, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		platforms = append(platforms, string(p))
	}
	return campaignDoc{
		ID:               c.ID,
		BrandName:        c.BrandName,
		BrandCategory:    string(c.BrandCategory),
		BrandDescription: c.BrandDescription,
		Goal:             c.Goal,
		Platforms:        platforms,
		Status:           string(c.Status),
		CreatedAt:        c.CreatedAt,
	}
}

func (d campaignDoc) toDomain() domain.Campaign {
	platforms := make([]domain.Platform, 0, len(d.Platforms))
	for _, p := range d.Platforms {
		platforms = append(platforms, domain.Platform(p))
	}
	return domain.Campaign{
		ID:               d.ID,
		BrandName:        d.BrandName,
		BrandCategory:    domain.Category(d.BrandCategory),
		BrandDescription: d.BrandDescription,
		Goal:             d.Goal,
		Platforms:        platforms,
		Status:           domain.CampaignStatus(d.Status),
		CreatedAt:        d.CreatedAt.UTC(),
	}
}

// contentDoc is stored as a single sub-document so that an image and its
// caption are always written together.
type contentDoc struct {
	ImageURL string `bson:"imageUrl"`
	Caption  string `bson:"caption"`
}

type postDoc struct {
	ID            string      `bson:"_id"`
	CampaignID    string      `bson:"campaignId"`
	Status        string      `bson:"status"`
	Platform      string      `bson:"platform"`
	Content       *contentDoc `bson:"content"`
	ScheduledTime *time.Time  `bson:"scheduledTime"`
	CreatedAt     time.Time   `bson:"createdAt"`
	UpdatedAt     time.Time   `bson:"updatedAt"`
}

func toPostDoc(p domain.Post) postDoc {
	d := postDoc{
		ID:            p.ID,
		CampaignID:    p.CampaignID,
		Status:        string(p.Status),
		Platform:      string(p.Platform),
		ScheduledTime: p.ScheduledTime,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Content != nil {
		d.Content = &contentDoc{ImageURL: p.Content.ImageURL, Caption: p.Content.Caption}
	}
	return d
}

func (d postDoc) toDomain() domain.Post {
	p := domain.Post{
		ID:         d.ID,
		CampaignID: d.CampaignID,
		Status:     domain.PostStatus(d.Status),
		Platform:   domain.Platform(d.Platform),
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
	if d.Content != nil {
		p.Content = &domain.PostContent{ImageURL: d.Content.ImageURL, Caption: d.Content.Caption}
	}
	if d.ScheduledTime != nil {
		t := d.ScheduledTime.UTC()
		p.ScheduledTime = &t
	}
	return p
}

type assetDoc struct {
	ID         string    `bson:"_id"`
	CampaignID string    `bson:"campaignId,omitempty"`
	URL        string    `bson:"url"`
	Type       string    `bson:"type"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func toAssetDoc(a domain.Asset) assetDoc {
	return assetDoc{ID: a.ID, CampaignID: a.CampaignID, URL: a.URL, Type: string(a.Type), CreatedAt: a.CreatedAt}
}

func (d assetDoc) toDomain() domain.Asset {
	return domain.Asset{ID: d.ID, CampaignID: d.CampaignID, URL: d.URL, Type: domain.AssetType(d.Type), CreatedAt: d.CreatedAt.UTC()}
}

type paramsDoc struct {
	Style             string   `bson:"style,omitempty"`
	Budget            int64    `bson:"budget"`
	ReferenceAssetIDs []string `bson:"referenceAssetIds,omitempty"`
	AdditionalContext string   `bson:"additionalContext,omitempty"`
}

type taskDoc struct {
	PostID    string    `bson:"postId"`
	Status    string    `bson:"status"`
	Error     string    `bson:"error,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type runDoc struct {
	ID          string     `bson:"_id"`
	CampaignID  string     `bson:"campaignId"`
	Params      paramsDoc  `bson:"params"`
	Status      string     `bson:"status"`
	Tasks       []taskDoc  `bson:"tasks"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
	CompletedAt *time.Time `bson:"completedAt,omitempty"`
}

func toRunDoc(r domain.GenerationRun) runDoc {
	tasks := make([]taskDoc, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		tasks = append(tasks, taskDoc{PostID: t.PostID, Status: string(t.Status), Error: t.Error, UpdatedAt: t.UpdatedAt})
	}
	return runDoc{
		ID:         r.ID,
		CampaignID: r.CampaignID,
		Params: paramsDoc{
			Style:             string(r.Params.Style),
			Budget:            r.Params.Budget,
			ReferenceAssetIDs: r.Params.ReferenceAssetIDs,
			AdditionalContext: r.Params.AdditionalContext,
		},
		Status:      string(r.Status),
		Tasks:       tasks,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CompletedAt: r.CompletedAt,
	}
}

func (d runDoc) toDomain() domain.GenerationRun {
	tasks := make([]domain.GenerationTask, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		tasks = append(tasks, domain.GenerationTask{
			PostID:    t.PostID,
			Status:    domain.TaskStatus(t.Status),
			Error:     t.Error,
			UpdatedAt: t.UpdatedAt.UTC(),
		})
	}
	r := domain.GenerationRun{
		ID:         d.ID,
		CampaignID: d.CampaignID,
		Params: domain.GenerationParams{
			Style:             domain.StylePreset(d.Params.Style),
			Budget:            d.Params.Budget,
			ReferenceAssetIDs: d.Params.ReferenceAssetIDs,
			AdditionalContext: d.Params.AdditionalContext,
		},
		Status:    domain.RunStatus(d.Status),
		Tasks:     tasks,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if d.CompletedAt != nil {
		t := d.CompletedAt.UTC()
		r.CompletedAt = &t
	}
	return r
}
