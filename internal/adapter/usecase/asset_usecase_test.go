package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-sprout/internal/adapter/blob"
	"social-sprout/internal/adapter/memory"
	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

func newAssetUseCase(t *testing.T, store *memory.Store) (*AssetUseCase, string) {
	t.Helper()
	dir := t.TempDir()
	blobs, err := blob.NewDiskStore(dir, "http://localhost:8080/assets")
	require.NoError(t, err)
	u := NewAssetUseCase(store, blobs, discardLogger())
	u.now = fixedClock()
	u.newID = func() string { return "7d3c5a3e-2f0b-4d8e-9f6a-1b2c3d4e5f60" }
	return u, dir
}

func TestUploadAsset(t *testing.T) {
	store := memory.NewStore()
	u, dir := newAssetUseCase(t, store)

	a, err := u.UploadAsset(context.Background(), port.UploadAssetInput{
		Filename:    "Logo.PNG",
		ContentType: "image/png",
		Body:        strings.NewReader("png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/assets/7d3c5a3e-2f0b-4d8e-9f6a-1b2c3d4e5f60.png", a.URL)
	assert.Equal(t, domain.AssetTypeImage, a.Type)
	assert.Empty(t, a.CampaignID)

	data, err := os.ReadFile(filepath.Join(dir, a.ID+".png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	stored, err := store.GetAssets(context.Background(), []string{a.ID})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestUploadAssetRejectsNonImages(t *testing.T) {
	u, _ := newAssetUseCase(t, memory.NewStore())

	_, err := u.UploadAsset(context.Background(), port.UploadAssetInput{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Body:        strings.NewReader("hi"),
	})
	assert.ErrorIs(t, err, port.ErrValidation)
}

func TestUploadAssetUnknownCampaign(t *testing.T) {
	u, _ := newAssetUseCase(t, memory.NewStore())

	_, err := u.UploadAsset(context.Background(), port.UploadAssetInput{
		CampaignID:  "0e7f1d7c-1a2b-4c3d-8e9f-0a1b2c3d4e5f",
		Filename:    "a.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpg"),
	})
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", extension("photo.JPG"))
	assert.Equal(t, ".webp", extension("a.b.webp"))
	assert.Equal(t, "", extension("noext"))
	assert.Equal(t, "", extension("evil.p/ng"))
	assert.Equal(t, "", extension("weird.toolongext"))
}
