package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// Repository implements port.Repository using pgxpool for PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new repository instance.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const postColumns = `id, campaign_id, status, platform, image_url, caption, scheduled_time, created_at, updated_at`

func (r *Repository) SaveCampaign(ctx context.Context, c domain.Campaign) error {
	platforms := make([]string, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		platforms = append(platforms, string(p))
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO campaigns
    (id, brand_name, brand_category, brand_description, goal, platforms, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
    brand_name = EXCLUDED.brand_name,
    brand_category = EXCLUDED.brand_category,
    brand_description = EXCLUDED.brand_description,
    goal = EXCLUDED.goal,
    platforms = EXCLUDED.platforms,
    status = EXCLUDED.status`,
		c.ID, c.BrandName, c.BrandCategory, c.BrandDescription, c.Goal, platforms, c.Status, c.CreatedAt)
	return err
}

func (r *Repository) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	var (
		c         domain.Campaign
		platforms []string
	)
	err := r.pool.QueryRow(ctx, `SELECT id, brand_name, brand_category, brand_description, goal, platforms, status, created_at
FROM campaigns WHERE id = $1`, id).
		Scan(&c.ID, &c.BrandName, &c.BrandCategory, &c.BrandDescription, &c.Goal, &platforms, &c.Status, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Campaign{}, port.ErrNotFound
	}
	if err != nil {
		return domain.Campaign{}, err
	}
	c.Platforms = make([]domain.Platform, 0, len(platforms))
	for _, p := range platforms {
		c.Platforms = append(c.Platforms, domain.Platform(p))
	}
	return c, nil
}

// SavePosts upserts all posts in one batch. Every statement writes a whole
// row, so a post never has an image without its caption.
func (r *Repository) SavePosts(ctx context.Context, posts ...domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range posts {
		var imageURL, caption *string
		if p.Content != nil {
			imageURL, caption = &p.Content.ImageURL, &p.Content.Caption
		}
		batch.Queue(`INSERT INTO posts (`+postColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
    status = EXCLUDED.status,
    platform = EXCLUDED.platform,
    image_url = EXCLUDED.image_url,
    caption = EXCLUDED.caption,
    scheduled_time = EXCLUDED.scheduled_time,
    updated_at = EXCLUDED.updated_at`,
			p.ID, p.CampaignID, p.Status, p.Platform, imageURL, caption, p.ScheduledTime, p.CreatedAt, p.UpdatedAt)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *Repository) GetPost(ctx context.Context, id string) (domain.Post, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	if err != nil {
		return domain.Post{}, err
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPost)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Post{}, port.ErrNotFound
	}
	return p, err
}

func (r *Repository) ListPostsByCampaign(ctx context.Context, campaignID string) ([]domain.Post, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE campaign_id = $1 ORDER BY created_at, id`, campaignID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanPost)
}

func (r *Repository) ListPostsByStatus(ctx context.Context, statuses ...domain.PostStatus) ([]domain.Post, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE status = ANY($1) ORDER BY created_at, id`, values)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanPost)
}

func scanPost(row pgx.CollectableRow) (domain.Post, error) {
	var (
		p                 domain.Post
		imageURL, caption *string
	)
	err := row.Scan(&p.ID, &p.CampaignID, &p.Status, &p.Platform, &imageURL, &caption, &p.ScheduledTime, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	if imageURL != nil && caption != nil {
		p.Content = &domain.PostContent{ImageURL: *imageURL, Caption: *caption}
	}
	return p, nil
}

func (r *Repository) SaveAsset(ctx context.Context, a domain.Asset) error {
	var campaignID *string
	if a.CampaignID != "" {
		campaignID = &a.CampaignID
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO assets (id, campaign_id, url, type, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET campaign_id = EXCLUDED.campaign_id, url = EXCLUDED.url, type = EXCLUDED.type`,
		a.ID, campaignID, a.URL, a.Type, a.CreatedAt)
	return err
}

func (r *Repository) GetAssets(ctx context.Context, ids []string) ([]domain.Asset, error) {
	if len(ids) == 0 {
		return []domain.Asset{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, COALESCE(campaign_id, ''), url, type, created_at
FROM assets WHERE id = ANY($1) ORDER BY array_position($1, id)`, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Asset, error) {
		var a domain.Asset
		err := row.Scan(&a.ID, &a.CampaignID, &a.URL, &a.Type, &a.CreatedAt)
		return a, err
	})
}

func (r *Repository) LinkAssets(ctx context.Context, ids []string, campaignID string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `UPDATE assets SET campaign_id = $1 WHERE id = ANY($2)`, campaignID, ids)
	return err
}

// SaveRun writes the run and replaces its tasks in one transaction.
func (r *Repository) SaveRun(ctx context.Context, run domain.GenerationRun) (err error) {
	params, err := json.Marshal(run.Params)
	if err != nil {
		return err
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `INSERT INTO generation_runs (id, campaign_id, params, status, created_at, updated_at, completed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
    params = EXCLUDED.params,
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at,
    completed_at = EXCLUDED.completed_at`,
		run.ID, run.CampaignID, params, run.Status, run.CreatedAt, run.UpdatedAt, run.CompletedAt)
	if err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM generation_tasks WHERE run_id = $1`, run.ID); err != nil {
		return err
	}
	rows := make([][]any, 0, len(run.Tasks))
	for i, t := range run.Tasks {
		rows = append(rows, []any{run.ID, t.PostID, i, string(t.Status), t.Error, t.UpdatedAt})
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"generation_tasks"},
		[]string{"run_id", "post_id", "position", "status", "error", "updated_at"},
		pgx.CopyFromRows(rows))
	return err
}

func (r *Repository) GetRun(ctx context.Context, id string) (domain.GenerationRun, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, campaign_id, params, status, created_at, updated_at, completed_at
FROM generation_runs WHERE id = $1`, id)
	if err != nil {
		return domain.GenerationRun{}, err
	}
	run, err := pgx.CollectExactlyOneRow(rows, scanRun)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GenerationRun{}, port.ErrNotFound
	}
	if err != nil {
		return domain.GenerationRun{}, err
	}
	runs := []domain.GenerationRun{run}
	if err = r.loadTasks(ctx, runs); err != nil {
		return domain.GenerationRun{}, err
	}
	return runs[0], nil
}

// ClaimRun flips the run to running only if it is still pending, so two
// workers racing for the same run cannot both win.
func (r *Repository) ClaimRun(ctx context.Context, id string, now time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE generation_runs SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		id, domain.RunStatusRunning, now, domain.RunStatusPending)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	return false, r.runExists(ctx, id)
}

func (r *Repository) TouchRun(ctx context.Context, id string, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE generation_runs SET updated_at = $2 WHERE id = $1 AND status = $3`,
		id, now, domain.RunStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.runExists(ctx, id)
}

func (r *Repository) UpdateTask(ctx context.Context, runID, postID string, status domain.TaskStatus, errMsg string, now time.Time) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var tag pgconn.CommandTag
	tag, err = tx.Exec(ctx, `UPDATE generation_tasks SET status = $3, error = $4, updated_at = $5 WHERE run_id = $1 AND post_id = $2`,
		runID, postID, status, errMsg, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	_, err = tx.Exec(ctx, `UPDATE generation_runs SET updated_at = $2 WHERE id = $1`, runID, now)
	return err
}

func (r *Repository) CompleteRun(ctx context.Context, id string, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE generation_runs SET status = $2, updated_at = $3, completed_at = $3 WHERE id = $1`,
		id, domain.RunStatusCompleted, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

func (r *Repository) ListUnfinishedRuns(ctx context.Context) ([]domain.GenerationRun, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, campaign_id, params, status, created_at, updated_at, completed_at
FROM generation_runs WHERE status <> $1 ORDER BY created_at, id`, domain.RunStatusCompleted)
	if err != nil {
		return nil, err
	}
	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, err
	}
	if err = r.loadTasks(ctx, runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *Repository) runExists(ctx context.Context, id string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM generation_runs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return port.ErrNotFound
	}
	return nil
}

// loadTasks fills the tasks of the given runs with a single query.
func (r *Repository) loadTasks(ctx context.Context, runs []domain.GenerationRun) error {
	if len(runs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(runs))
	index := make(map[string]int, len(runs))
	for i, run := range runs {
		ids = append(ids, run.ID)
		index[run.ID] = i
		runs[i].Tasks = make([]domain.GenerationTask, 0)
	}
	rows, err := r.pool.Query(ctx, `SELECT run_id, post_id, status, error, updated_at
FROM generation_tasks WHERE run_id = ANY($1) ORDER BY run_id, position`, ids)
	if err != nil {
		return err
	}
	type taskRow struct {
		runID string
		task  domain.GenerationTask
	}
	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (taskRow, error) {
		var tr taskRow
		err := row.Scan(&tr.runID, &tr.task.PostID, &tr.task.Status, &tr.task.Error, &tr.task.UpdatedAt)
		return tr, err
	})
	if err != nil {
		return err
	}
	for _, tr := range tasks {
		i := index[tr.runID]
		runs[i].Tasks = append(runs[i].Tasks, tr.task)
	}
	return nil
}

func scanRun(row pgx.CollectableRow) (domain.GenerationRun, error) {
	var (
		run    domain.GenerationRun
		params []byte
	)
	err := row.Scan(&run.ID, &run.CampaignID, &params, &run.Status, &run.CreatedAt, &run.UpdatedAt, &run.CompletedAt)
	if err != nil {
		return run, err
	}
	if err = json.Unmarshal(params, &run.Params); err != nil {
		return run, err
	}
	return run, nil
}
