package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vidtube/internal/server/migrations"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func swapGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestNewPostgresRepositoryManager_ImplementsInterface(t *testing.T) {
	var _ RepositoryManager = NewPostgresRepositoryManager()
}

func TestUsers_ReturnsPostgresRepo(t *testing.T) {
	m := NewPostgresRepositoryManager()
	repo := m.Users(newDB(t))
	if _, ok := repo.(*users.PostgresRepository); !ok {
		t.Fatalf("unexpected repository type %T", repo)
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db := newDB(t)

	swapGoose(t, func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if got != db {
			return errors.New("unexpected db")
		}
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	})

	if err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	swapGoose(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), newDB(t))
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(migrations.Migrations, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("no embedded migrations")
	}
}
