package generate

import (
	"context"
	"database/sql"
	"time"
)

// Repository persists generation jobs.
type Repository interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, limit int) ([]*Job, error)
	NextPendingJob(ctx context.Context) (*Job, error)
	UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error
	CompleteJob(ctx context.Context, id string, asset *Asset) error
	DeleteJob(ctx context.Context, id string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateJob(ctx context.Context, j *Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO gen_jobs (id, kind, prompt, status, media_url, thumbnail_url, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, j.ID, j.Kind, j.Prompt, j.Status, nullString(j.MediaURL), nullString(j.ThumbnailURL),
		nullString(j.Error), j.CreatedAt.Format(time.RFC3339), j.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetJob(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, prompt, status, media_url, thumbnail_url, error, created_at, updated_at
		FROM gen_jobs WHERE id = ?
	`, id)
	return scanJob(row)
}

func (r *SQLiteRepository) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, prompt, status, media_url, thumbnail_url, error, created_at, updated_at
		FROM gen_jobs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		j, err := scanJobRow(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *SQLiteRepository) NextPendingJob(ctx context.Context) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, prompt, status, media_url, thumbnail_url, error, created_at, updated_at
		FROM gen_jobs WHERE status = 'pending' ORDER BY created_at ASC LIMIT 1
	`)
	return scanJob(row)
}

func (r *SQLiteRepository) UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE gen_jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, status, nullString(errorMsg), time.Now().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) CompleteJob(ctx context.Context, id string, asset *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE gen_jobs SET status = ?, media_url = ?, thumbnail_url = ?, error = NULL, updated_at = ? WHERE id = ?
	`, StatusCompleted, asset.MediaURL, nullString(asset.ThumbnailURL), time.Now().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) DeleteJob(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM gen_jobs WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row *sql.Row) (*Job, error) {
	j, err := scanInto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return j, err
}

func scanJobRow(rows *sql.Rows) (*Job, error) {
	return scanInto(rows)
}

func scanInto(s rowScanner) (*Job, error) {
	var j Job
	var mediaURL, thumbnailURL, errMsg sql.NullString
	var createdAt, updatedAt string

	if err := s.Scan(&j.ID, &j.Kind, &j.Prompt, &j.Status, &mediaURL, &thumbnailURL, &errMsg, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	j.MediaURL = mediaURL.String
	j.ThumbnailURL = thumbnailURL.String
	j.Error = errMsg.String
	j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &j, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
