package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidKey is returned for keys that are not a plain file name.
var ErrInvalidKey = errors.New("invalid blob key")

// DiskStore writes blobs into a single directory and returns URLs below
// PublicBaseURL. The HTTP adapter serves the directory.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, publicBaseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Dir is the directory blobs are written to.
func (s *DiskStore) Dir() string { return s.dir }

// Put stores body under key. The file is written to a temporary name first
// and renamed, so readers never observe a partial file.
func (s *DiskStore) Put(ctx context.Context, key, _ string, body io.Reader) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close blob: %w", err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		return "", fmt.Errorf("rename blob: %w", err)
	}
	return s.baseURL + "/" + url.PathEscape(key), nil
}
