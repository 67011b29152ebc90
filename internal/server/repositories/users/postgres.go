package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/dbx"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, email, password_hash, biometric_key_hash)
         VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	id := newID()
	err := r.db.QueryRowContext(ctx, query,
		id, user.Email, user.PasswordHash, nullableArg(user.BiometricKeyHash)).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, biometric_key_hash, created_at FROM users
		 WHERE email = $1
		 `

	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, biometric_key_hash, created_at FROM users
		 WHERE id = $1
		 `

	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var bio sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &user.PasswordHash, &bio, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.BiometricKeyHash = nullableString(bio)
	return user, nil
}

func (r *PostgresRepository) FindAllWithBiometricKey(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, email, password_hash, biometric_key_hash, created_at FROM users
		 WHERE biometric_key_hash IS NOT NULL
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		var bio sql.NullString
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &bio, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		user.BiometricKeyHash = nullableString(bio)
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullableArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
