package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

const (
	campaignsCollection = "campaigns"
	postsCollection     = "posts"
	assetsCollection    = "assets"
	runsCollection      = "generation_runs"
)

// Repository implements port.Repository on top of a MongoDB database. Every
// entity is one document, so single-record writes are atomic.
type Repository struct {
	campaigns *mongo.Collection
	posts     *mongo.Collection
	assets    *mongo.Collection
	runs      *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		campaigns: db.Collection(campaignsCollection),
		posts:     db.Collection(postsCollection),
		assets:    db.Collection(assetsCollection),
		runs:      db.Collection(runsCollection),
	}
}

// EnsureIndexes creates the secondary indexes the queries rely on. Creating
// an index that already exists is a no-op.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}
	if _, err := r.runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create run indexes: %w", err)
	}
	return nil
}

var byCreation = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

func upsert() *options.ReplaceOptions {
	return options.Replace().SetUpsert(true)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return port.ErrNotFound
	}
	return err
}

func (r *Repository) SaveCampaign(ctx context.Context, c domain.Campaign) error {
	_, err := r.campaigns.ReplaceOne(ctx, bson.M{"_id": c.ID}, toCampaignDoc(c), upsert())
	return err
}

func (r *Repository) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	var doc campaignDoc
	if err := r.campaigns.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return domain.Campaign{}, notFound(err)
	}
	return doc.toDomain(), nil
}

func (r *Repository) SavePosts(ctx context.Context, posts ...domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(posts))
	for _, p := range posts {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": p.ID}).
			SetReplacement(toPostDoc(p)).
			SetUpsert(true))
	}
	_, err := r.posts.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *Repository) GetPost(ctx context.Context, id string) (domain.Post, error) {
	var doc postDoc
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return domain.Post{}, notFound(err)
	}
	return doc.toDomain(), nil
}

func (r *Repository) ListPostsByCampaign(ctx context.Context, campaignID string) ([]domain.Post, error) {
	return r.findPosts(ctx, bson.M{"campaignId": campaignID})
}

func (r *Repository) ListPostsByStatus(ctx context.Context, statuses ...domain.PostStatus) ([]domain.Post, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	return r.findPosts(ctx, bson.M{"status": bson.M{"$in": values}})
}

func (r *Repository) findPosts(ctx context.Context, filter bson.M) ([]domain.Post, error) {
	cursor, err := r.posts.Find(ctx, filter, options.Find().SetSort(byCreation))
	if err != nil {
		return nil, err
	}
	var docs []postDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toDomain())
	}
	return posts, nil
}

func (r *Repository) SaveAsset(ctx context.Context, a domain.Asset) error {
	_, err := r.assets.ReplaceOne(ctx, bson.M{"_id": a.ID}, toAssetDoc(a), upsert())
	return err
}

// GetAssets returns the known assets in the order of ids.
func (r *Repository) GetAssets(ctx context.Context, ids []string) ([]domain.Asset, error) {
	if len(ids) == 0 {
		return []domain.Asset{}, nil
	}
	cursor, err := r.assets.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []assetDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	byID := make(map[string]assetDoc, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	assets := make([]domain.Asset, 0, len(docs))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			assets = append(assets, d.toDomain())
		}
	}
	return assets, nil
}

func (r *Repository) LinkAssets(ctx context.Context, ids []string, campaignID string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.assets.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"campaignId": campaignID}})
	return err
}

func (r *Repository) SaveRun(ctx context.Context, run domain.GenerationRun) error {
	_, err := r.runs.ReplaceOne(ctx, bson.M{"_id": run.ID}, toRunDoc(run), upsert())
	return err
}

func (r *Repository) GetRun(ctx context.Context, id string) (domain.GenerationRun, error) {
	var doc runDoc
	if err := r.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return domain.GenerationRun{}, notFound(err)
	}
	return doc.toDomain(), nil
}

// ClaimRun relies on the status filter of a single-document update, which
// MongoDB applies atomically.
func (r *Repository) ClaimRun(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := r.runs.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(domain.RunStatusPending)},
		bson.M{"$set": bson.M{"status": string(domain.RunStatusRunning), "updatedAt": now}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	n, err := r.runs.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, port.ErrNotFound
	}
	return false, nil
}

func (r *Repository) TouchRun(ctx context.Context, id string, now time.Time) error {
	res, err := r.runs.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(domain.RunStatusPending)},
		bson.M{"$set": bson.M{"updatedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := r.runs.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return port.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateTask(ctx context.Context, runID, postID string, status domain.TaskStatus, errMsg string, now time.Time) error {
	res, err := r.runs.UpdateOne(ctx,
		bson.M{"_id": runID, "tasks.postId": postID},
		bson.M{"$set": bson.M{
			"tasks.$.status":    string(status),
			"tasks.$.error":     errMsg,
			"tasks.$.updatedAt": now,
			"updatedAt":         now,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return port.ErrNotFound
	}
	return nil
}

func (r *Repository) CompleteRun(ctx context.Context, id string, now time.Time) error {
	res, err := r.runs.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(domain.RunStatusCompleted), "updatedAt": now, "completedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return port.ErrNotFound
	}
	return nil
}

func (r *Repository) ListUnfinishedRuns(ctx context.Context) ([]domain.GenerationRun, error) {
	cursor, err := r.runs.Find(ctx,
		bson.M{"status": bson.M{"$ne": string(domain.RunStatusCompleted)}},
		options.Find().SetSort(byCreation))
	if err != nil {
		return nil, err
	}
	var docs []runDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	runs := make([]domain.GenerationRun, 0, len(docs))
	for _, d := range docs {
		runs = append(runs, d.toDomain())
	}
	return runs, nil
}
