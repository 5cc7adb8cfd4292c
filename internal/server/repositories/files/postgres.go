// Package files stores permanent File records in PostgreSQL.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sbts/internal/common"
	"github.com/dmitrijs2005/sbts/internal/dbx"
	"github.com/dmitrijs2005/sbts/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PostgresRepository implements file storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new file record. A second record with the same key is
// rejected with common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (key, name, last_modified, size, owner)
		VALUES ($1, $2, $3, $4, $5)
	`
	res, err := r.db.ExecContext(ctx, query, file.Key, file.Name, file.LastModified, file.Size, file.Owner)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// GetByKey returns the file stored under key or common.ErrorNotFound.
func (r *PostgresRepository) GetByKey(ctx context.Context, key string) (*models.File, error) {
	query := ` SELECT key, name, last_modified, size, owner from files
		WHERE key=$1
		`

	f := &models.File{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(&f.Key, &f.Name, &f.LastModified, &f.Size, &f.Owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select file: %w", err)
	}
	return f, nil
}

// List returns every file ordered by name, then last_modified, then key.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.File, error) {
	query := ` SELECT key, name, last_modified, size, owner from files
		ORDER BY name, last_modified, key
		`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		var item models.File
		if err := rows.Scan(&item.Key, &item.Name, &item.LastModified, &item.Size, &item.Owner); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
