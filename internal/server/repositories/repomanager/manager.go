// Package repomanager picks a storage backend from a DSN, runs its schema
// migrations (via goose) and vends the repositories bound to it.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/credkeeper/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close() error
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// NewRepositoryManager returns the manager matching the DSN scheme:
//
//	postgres://, postgresql://  PostgreSQL through pgx
//	sqlite://<path>, file:...   SQLite
//	memory://                   in-process map, nothing persisted
func NewRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresRepositoryManager(ctx, dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return NewSQLiteRepositoryManager(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "file:"):
		return NewSQLiteRepositoryManager(ctx, dsn)
	case strings.HasPrefix(dsn, "memory://"):
		return NewMemoryRepositoryManager(), nil
	case dsn == "":
		return nil, fmt.Errorf("database dsn is empty")
	default:
		return nil, fmt.Errorf("unsupported database dsn scheme: %q", schemeOf(dsn))
	}
}

func schemeOf(dsn string) string {
	if i := strings.Index(dsn, "://"); i > 0 {
		return dsn[:i]
	}
	if i := strings.Index(dsn, ":"); i > 0 {
		return dsn[:i]
	}
	return dsn
}
