package media

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumina/iris-studio/internal/logging"
)

// Library stores imported assets under a media directory and records
// them in the catalog table.
type Library struct {
	db     *sql.DB
	dir    string
	logger *slog.Logger
}

func NewLibrary(db *sql.DB, dir string, logger *slog.Logger) *Library {
	return &Library{
		db:     db,
		dir:    dir,
		logger: logging.WithComponent(logger, "media"),
	}
}

// Import copies the reader's content into the media directory and
// catalogs it. The stored filename is the asset id plus the original
// extension, which keeps user-supplied names out of the filesystem.
func (l *Library) Import(ctx context.Context, filename string, src io.Reader) (*File, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mediaType := TypeForExtension(ext)

	id := uuid.NewString()
	path := filepath.Join(l.dir, id+ext)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create media file: %w", err)
	}

	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}

	f := &File{
		ID:        id,
		Filename:  filepath.Base(filename),
		Path:      path,
		MediaType: mediaType,
		Size:      size,
		Duration:  DefaultDuration(mediaType),
		CreatedAt: time.Now().UTC(),
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO media_files (id, filename, path, media_type, size, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.Filename, f.Path, f.MediaType, f.Size, f.Duration, f.CreatedAt.Format(time.RFC3339))
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to catalog media file: %w", err)
	}

	l.logger.Info("imported media file", "id", f.ID, "filename", f.Filename, "type", f.MediaType, "size", f.Size)
	return f, nil
}

func (l *Library) Get(ctx context.Context, id string) (*File, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, filename, path, media_type, size, duration, created_at
		FROM media_files WHERE id = ?
	`, id)
	f, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return f, err
}

func (l *Library) List(ctx context.Context) ([]*File, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, filename, path, media_type, size, duration, created_at
		FROM media_files ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Remove deletes the catalog row and the file on disk. A missing disk
// file is not an error; the catalog row is authoritative.
func (l *Library) Remove(ctx context.Context, id string) error {
	f, err := l.Get(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return nil
	}

	if _, err := l.db.ExecContext(ctx, "DELETE FROM media_files WHERE id = ?", id); err != nil {
		return err
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		l.logger.Warn("failed to remove media file from disk", "id", id, "error", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(s rowScanner) (*File, error) {
	var f File
	var createdAt string
	if err := s.Scan(&f.ID, &f.Filename, &f.Path, &f.MediaType, &f.Size, &f.Duration, &createdAt); err != nil {
		return nil, err
	}
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &f, nil
}
