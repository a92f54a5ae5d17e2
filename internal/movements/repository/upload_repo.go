package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aeromov/movements-backend/internal/movements/domain"
)

// UploadRepository keeps the audit trail of processed uploads in Postgres.
type UploadRepository struct {
	db *sql.DB
}

func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Create inserts an audit row and fills in the id and timestamp when unset.
func (r *UploadRepository) Create(ctx context.Context, rec *domain.UploadRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO uploads (id, filename, record_count, archive_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Filename, rec.RecordCount, rec.ArchiveKey, rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert upload audit row: %w", err)
	}

	return nil
}

// List returns the most recent uploads, newest first.
func (r *UploadRepository) List(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, filename, record_count, archive_key, created_at
		FROM uploads
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	uploads := []domain.UploadRecord{}
	for rows.Next() {
		var rec domain.UploadRecord
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.RecordCount, &rec.ArchiveKey, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan upload row: %w", err)
		}
		uploads = append(uploads, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}

	return uploads, nil
}

// GetByID looks up a single upload audit row.
func (r *UploadRepository) GetByID(ctx context.Context, id string) (*domain.UploadRecord, error) {
	const query = `
		SELECT id, filename, record_count, archive_key, created_at
		FROM uploads
		WHERE id = $1
	`

	var rec domain.UploadRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Filename, &rec.RecordCount, &rec.ArchiveKey, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUploadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get upload: %w", err)
	}

	return &rec, nil
}
