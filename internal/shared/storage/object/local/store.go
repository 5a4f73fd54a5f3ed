package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"jobcompass-server/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem. Objects are served
// back through the application, so public URLs hang off the configured base.
type Store struct {
	baseDir string
	baseURL string
}

// New creates a new local object store rooted at baseDir. baseURL is the
// externally visible prefix used to mint public URLs for stored objects.
func New(baseDir, baseURL string) *Store {
	return &Store{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Put writes the reader to disk at the given storage key, overwriting any
// prior object at that key.
func (s *Store) Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	clean, err := cleanKey(storageKey)
	if err != nil {
		return 0, err
	}

	fullPath := filepath.Join(s.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}
	_ = contentType
	return written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := cleanKey(storageKey)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, object.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Exists reports whether an object is present at the storage key.
func (s *Store) Exists(ctx context.Context, storageKey string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	clean, err := cleanKey(storageKey)
	if err != nil {
		return false, err
	}

	_, statErr := os.Stat(filepath.Join(s.baseDir, clean))
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return false, nil
		}
		return false, statErr
	}
	return true, nil
}

// PublicURL returns the externally visible URL for a storage key.
func (s *Store) PublicURL(storageKey string) string {
	base := s.baseURL
	if base == "" {
		base = "http://localhost:8080/files"
	}
	return base + "/" + strings.TrimLeft(storageKey, "/")
}

// ResolveKey maps a public URL back to its storage key.
func (s *Store) ResolveKey(publicURL string) (string, bool) {
	base := s.baseURL
	if base == "" {
		base = "http://localhost:8080/files"
	}
	if !strings.HasPrefix(publicURL, base+"/") {
		return "", false
	}
	key := strings.TrimPrefix(publicURL, base+"/")
	if key == "" {
		return "", false
	}
	return key, true
}

func cleanKey(storageKey string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(storageKey))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return clean, nil
}

var _ object.ObjectStore = (*Store)(nil)
