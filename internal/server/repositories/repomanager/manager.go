package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sbts/internal/dbx"
	"github.com/dmitrijs2005/sbts/internal/server/repositories/files"
	"github.com/dmitrijs2005/sbts/internal/server/repositories/uploads"
)

// RepositoryManager hands out repositories bound to a DB handle or an open
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Uploads(db dbx.DBTX) uploads.Repository
	Files(db dbx.DBTX) files.Repository
}
