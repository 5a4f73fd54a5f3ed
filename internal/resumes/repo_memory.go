package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume // ownerID + "\x00" + fileName -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Resume),
	}
}

// Upsert stores or replaces the record for an owner and file name.
func (r *MemoryRepo) Upsert(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if res.AnalysisStatus == "" {
		res.AnalysisStatus = AnalysisPending
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[memKey(res.OwnerID, res.FileName)] = res
	return nil
}

// SetAnalysisStatus records the terminal analysis status for a resume.
func (r *MemoryRepo) SetAnalysisStatus(ctx context.Context, ownerID, fileName, status string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.data[memKey(ownerID, fileName)]
	if !ok {
		return ErrNotFound
	}
	res.AnalysisStatus = status
	res.AnalyzedAt = &at
	r.data[memKey(ownerID, fileName)] = res
	return nil
}

// GetByOwnerAndName returns the record for an owner and file name.
func (r *MemoryRepo) GetByOwnerAndName(ctx context.Context, ownerID, fileName string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.data[memKey(ownerID, fileName)]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// ListByOwner returns records for an owner, newest first, honoring limit/offset.
// Paging defaults mirror PGRepo so the dev fallback pages like production.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var out []Resume
	for _, res := range r.data {
		if res.OwnerID == ownerID {
			out = append(out, res)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Resume{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func memKey(ownerID, fileName string) string {
	return ownerID + "\x00" + fileName
}

var _ Repo = (*MemoryRepo)(nil)
