package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// AssetUseCase stores uploaded reference images.
type AssetUseCase struct {
	repo   port.Repository
	blobs  port.BlobStore
	logger *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewAssetUseCase(repo port.Repository, blobs port.BlobStore, logger *slog.Logger) *AssetUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetUseCase{
		repo:   repo,
		blobs:  blobs,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// UploadAsset writes the file to the blob store and records it. When a
// campaign id is given the campaign must exist.
func (u *AssetUseCase) UploadAsset(ctx context.Context, in port.UploadAssetInput) (*domain.Asset, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.CampaignID != "" {
		if _, err := u.repo.GetCampaign(ctx, in.CampaignID); err != nil {
			return nil, err
		}
	}

	id := u.newID()
	url, err := u.blobs.Put(ctx, id+extension(in.Filename), in.ContentType, in.Body)
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}
	a := domain.Asset{
		ID:         id,
		CampaignID: in.CampaignID,
		URL:        url,
		Type:       domain.AssetTypeImage,
		CreatedAt:  u.now(),
	}
	if err = u.repo.SaveAsset(ctx, a); err != nil {
		return nil, fmt.Errorf("save asset: %w", err)
	}
	u.logger.Info("asset uploaded", slog.String("asset_id", a.ID), slog.String("campaign_id", a.CampaignID))
	return &a, nil
}

// extension returns the lower-cased file extension when it is short and
// alphanumeric, otherwise "".
func extension(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
