package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// LessonRepo holds the stored PDF path per lesson.
type LessonRepo struct {
	db *DB
}

func NewLessonRepo(db *DB) *LessonRepo {
	return &LessonRepo{db: db}
}

// GetStoredPath returns "" with a nil error when no path is recorded.
func (r *LessonRepo) GetStoredPath(ctx context.Context, lessonID string) (string, error) {
	var path string
	err := r.db.Pool.QueryRow(ctx, `SELECT COALESCE(pdf_path,'') FROM lessons WHERE lesson_id=$1`, lessonID).Scan(&path)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get stored path: %w", wrapUnavailable(err))
	}
	return path, nil
}

func (r *LessonRepo) UpsertStoredPath(ctx context.Context, lessonID, path, sha256 string) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO lessons (lesson_id, pdf_path, sha256)
VALUES ($1, $2, NULLIF($3,''))
ON CONFLICT (lesson_id)
DO UPDATE SET
  pdf_path = EXCLUDED.pdf_path,
  sha256 = COALESCE(EXCLUDED.sha256, lessons.sha256),
  updated_at = NOW()`, lessonID, path, sha256)
	if err != nil {
		return fmt.Errorf("upsert stored path: %w", wrapUnavailable(err))
	}
	return nil
}
