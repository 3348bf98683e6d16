package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves every caller the same in-memory
// repositories regardless of the DBTX passed in. Migrations are a no-op.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}
