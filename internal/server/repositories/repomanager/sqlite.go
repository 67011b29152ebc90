package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/credkeeper/internal/dbx"
	"github.com/dmitrijs2005/credkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/credkeeper/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. SQLite allows a
// single writer, so the pool is capped at one connection.
type SQLiteRepositoryManager struct {
	db *sql.DB
}

// NewSQLiteRepositoryManager opens dsn, a file path or a "file:" URI.
func NewSQLiteRepositoryManager(ctx context.Context, dsn string) (*SQLiteRepositoryManager, error) {
	db, err := dbx.Open(ctx, "sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &SQLiteRepositoryManager{db: db}, nil
}

func (m *SQLiteRepositoryManager) Users() users.Repository {
	return users.NewSQLiteRepository(m.db)
}

// RunMigrations applies the embedded sqlite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, migrations.SQLiteDir)
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}
