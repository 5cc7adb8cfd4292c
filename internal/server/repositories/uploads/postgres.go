// Package uploads stores ProvisionalUpload ledger rows in PostgreSQL.
package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sbts/internal/common"
	"github.com/dmitrijs2005/sbts/internal/dbx"
	"github.com/dmitrijs2005/sbts/internal/server/models"
)

// PostgresRepository implements the ledger over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts u with whatever status and size it carries and fills in
// u.CreatedAt from the database clock.
func (r *PostgresRepository) Create(ctx context.Context, u *models.ProvisionalUpload) error {
	query := `
		INSERT INTO provisional_uploads (id, status, size, owner)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, query, u.ID, string(u.Status), u.Size, u.Owner).Scan(&u.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}
	return nil
}

// MarkCompleted moves row id from uploading to completed and records size.
// The update only matches a row still in the uploading state; anything else
// yields common.ErrorNotFound.
func (r *PostgresRepository) MarkCompleted(ctx context.Context, id string, size int64) error {
	query := `update provisional_uploads set status='completed', size=$2 where id=$1 and status='uploading'`
	res, err := r.db.ExecContext(ctx, query, id, size)
	if err != nil {
		return fmt.Errorf("failed to mark completed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// GetCompletedForOwner returns the completed row id owned by owner and locks
// it for the rest of the transaction. A missing row, a row still uploading
// and a row owned by someone else are all reported as common.ErrorNotFound.
func (r *PostgresRepository) GetCompletedForOwner(ctx context.Context, id, owner string) (*models.ProvisionalUpload, error) {
	query := ` SELECT id, status, size, owner, created_at from provisional_uploads
		WHERE id=$1 and status='completed' and size is not null and owner=$2
		FOR UPDATE
		`

	u := &models.ProvisionalUpload{}
	var status string
	err := r.db.QueryRowContext(ctx, query, id, owner).Scan(&u.ID, &status, &u.Size, &u.Owner, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select upload: %w", err)
	}
	u.Status = models.UploadStatus(status)
	return u, nil
}

// Delete removes a completed row. Rows still uploading are never deleted.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `delete from provisional_uploads where id=$1 and status='completed'`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n != 1 {
		return common.ErrorNotFound
	}
	return nil
}

// ListStale returns uploading rows created more than olderThan ago, oldest
// first. The cutoff is taken from the database clock, the same clock that
// fills created_at.
func (r *PostgresRepository) ListStale(ctx context.Context, olderThan time.Duration) ([]*models.ProvisionalUpload, error) {
	query := ` SELECT id, status, size, owner, created_at from provisional_uploads
		WHERE status='uploading' and created_at < now() - make_interval(secs => $1)
		ORDER BY created_at
		`
	rows, err := r.db.QueryContext(ctx, query, olderThan.Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to select stale uploads: %w", err)
	}
	defer rows.Close()

	var result []*models.ProvisionalUpload
	for rows.Next() {
		var item models.ProvisionalUpload
		var status string
		if err := rows.Scan(&item.ID, &status, &item.Size, &item.Owner, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Status = models.UploadStatus(status)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
