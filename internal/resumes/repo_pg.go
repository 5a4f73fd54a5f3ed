package resumes

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Upsert inserts a resume record, replacing the prior record for the same
// owner and file name. Re-uploads overwrite the stored object, so the row
// follows last-write-wins as well.
func (r *PGRepo) Upsert(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    owner_id,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    public_url,
    analysis_status,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (owner_id, file_name) DO UPDATE SET
    mime_type = EXCLUDED.mime_type,
    size_bytes = EXCLUDED.size_bytes,
    storage_key = EXCLUDED.storage_key,
    public_url = EXCLUDED.public_url,
    analysis_status = EXCLUDED.analysis_status,
    analyzed_at = NULL,
    created_at = EXCLUDED.created_at`

	status := res.AnalysisStatus
	if status == "" {
		status = AnalysisPending
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		res.ID,
		res.OwnerID,
		res.FileName,
		res.MimeType,
		res.SizeBytes,
		res.StorageKey,
		res.PublicURL,
		status,
		res.CreatedAt,
	)
	return err
}

// SetAnalysisStatus records the terminal analysis status for a resume.
func (r *PGRepo) SetAnalysisStatus(ctx context.Context, ownerID, fileName, status string, at time.Time) error {
	const query = `
UPDATE resumes
SET analysis_status = $1, analyzed_at = $2
WHERE owner_id = $3 AND file_name = $4`
	_, err := r.DB.ExecContext(ctx, query, status, at, ownerID, fileName)
	return err
}

// GetByOwnerAndName fetches the resume record for an owner and file name.
func (r *PGRepo) GetByOwnerAndName(ctx context.Context, ownerID, fileName string) (Resume, error) {
	const query = `
SELECT id, owner_id, file_name, mime_type, size_bytes, storage_key, public_url, analysis_status, analyzed_at, created_at
FROM resumes
WHERE owner_id = $1 AND file_name = $2
LIMIT 1`
	var res Resume
	var analyzedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, ownerID, fileName).Scan(
		&res.ID,
		&res.OwnerID,
		&res.FileName,
		&res.MimeType,
		&res.SizeBytes,
		&res.StorageKey,
		&res.PublicURL,
		&res.AnalysisStatus,
		&analyzedAt,
		&res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if analyzedAt.Valid {
		res.AnalyzedAt = &analyzedAt.Time
	}
	return res, nil
}

// ListByOwner lists resume records for an owner, newest first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Resume, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, owner_id, file_name, mime_type, size_bytes, storage_key, public_url, analysis_status, analyzed_at, created_at
FROM resumes
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		var res Resume
		var analyzedAt sql.NullTime
		if err := rows.Scan(
			&res.ID,
			&res.OwnerID,
			&res.FileName,
			&res.MimeType,
			&res.SizeBytes,
			&res.StorageKey,
			&res.PublicURL,
			&res.AnalysisStatus,
			&analyzedAt,
			&res.CreatedAt,
		); err != nil {
			return nil, err
		}
		if analyzedAt.Valid {
			res.AnalyzedAt = &analyzedAt.Time
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
