package object

import (
	"context"
	"errors"
	"io"
	"path"
)

// ErrNotFound is returned by Open when no object exists at the storage key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for durable key-addressed binary storage
// with publicly resolvable URLs. Writes to the same key overwrite the prior
// object; there is no versioning.
type ObjectStore interface {
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Exists(ctx context.Context, storageKey string) (bool, error)
	PublicURL(storageKey string) string
	ResolveKey(publicURL string) (string, bool)
}

// ResumeKey derives the deterministic storage key for an owner's resume.
// The same owner and file name always map to the same key, so re-uploads
// are last-write-wins.
func ResumeKey(ownerID, fileName string) string {
	return path.Join("resumes", ownerID, fileName)
}
