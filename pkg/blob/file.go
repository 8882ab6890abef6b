package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps bundles on local disk: <dir>/<id>/<filename> plus a
// meta.json sidecar.
type FileStore struct {
	dir     string
	baseURL string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &FileStore{dir: dir, baseURL: baseURL}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

// Publish writes data and returns its download URL.
func (s *FileStore) Publish(_ context.Context, filename string, data []byte) (string, error) {
	b := newBlob(filepath.Base(filename), data)
	dir := filepath.Join(s.dir, b.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, b.Filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	meta, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "meta.json"), meta, 0o644); err != nil {
		return "", fmt.Errorf("write blob metadata: %w", err)
	}
	return DownloadURL(s.baseURL, b.ID), nil
}

// Get reads the blob with the given ID.
func (s *FileStore) Get(_ context.Context, id string) (*Blob, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}
	dir := filepath.Join(s.dir, id)
	meta, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var b Blob
	if err := json.Unmarshal(meta, &b); err != nil {
		return nil, fmt.Errorf("parse blob metadata: %w", err)
	}
	if b.Data, err = os.ReadFile(filepath.Join(dir, filepath.Base(b.Filename))); err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return &b, nil
}

// Close does nothing.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
