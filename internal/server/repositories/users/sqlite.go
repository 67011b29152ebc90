package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/dbx"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository stores users in SQLite. created_at is kept as unix
// milliseconds in UTC.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, email, password_hash, biometric_key_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`

	id := newID()
	createdAt := r.now().UTC().Truncate(time.Millisecond)

	_, err := r.db.ExecContext(ctx, query, id, user.Email, user.PasswordHash, nullableArg(user.BiometricKeyHash), createdAt.UnixMilli())
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = id
	user.CreatedAt = createdAt
	return user, nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, biometric_key_hash, created_at FROM users
		 WHERE email = ?`

	return r.findOne(ctx, query, email)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, biometric_key_hash, created_at FROM users
		 WHERE id = ?`

	return r.findOne(ctx, query, id)
}

func (r *SQLiteRepository) FindAllWithBiometricKey(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, email, password_hash, biometric_key_hash, created_at FROM users
		 WHERE biometric_key_hash IS NOT NULL
		 ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanSQLiteUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanSQLiteUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var (
		bio       sql.NullString
		createdAt int64
	)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &bio, &createdAt); err != nil {
		return nil, err
	}
	user.BiometricKeyHash = nullableString(bio)
	user.CreatedAt = time.UnixMilli(createdAt).UTC()
	return user, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
