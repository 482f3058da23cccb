// Package blob provides content-addressed storage for uploaded media.
// The rest of the application treats the returned URL as an opaque string,
// so the disk store can be swapped for a remote object store without
// touching callers.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists a named blob and returns a stable, fetchable URL for it.
type Store interface {
	Put(ctx context.Context, ext string, data []byte) (string, error)
}

// DiskStore stores blobs under a local directory served at baseURL.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore creates the storage directory if needed and returns a DiskStore.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir %s: %w", dir, err)
	}
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir returns the directory blobs are written to (for static file serving).
func (s *DiskStore) Dir() string {
	return s.dir
}

// Put writes the blob content-addressed by its SHA-256, so re-uploading the
// same bytes yields the same URL.
func (s *DiskStore) Put(_ context.Context, ext string, data []byte) (string, error) {
	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:]) + "." + strings.TrimPrefix(ext, ".")

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
			return "", fmt.Errorf("failed to write blob: %w", writeErr)
		}
	}

	return s.baseURL + "/" + name, nil
}
