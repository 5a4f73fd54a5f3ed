package resumes

import (
	"context"
	"time"
)

// Repo defines persistence operations for resume records.
type Repo interface {
	Upsert(ctx context.Context, r Resume) error
	SetAnalysisStatus(ctx context.Context, ownerID, fileName, status string, at time.Time) error
	GetByOwnerAndName(ctx context.Context, ownerID, fileName string) (Resume, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Resume, error)
}
