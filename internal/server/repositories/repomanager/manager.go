package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX and owns the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
