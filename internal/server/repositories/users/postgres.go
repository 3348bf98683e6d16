package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repository reacts to.
const (
	pgUniqueViolation   = "23505"
	pgInvalidTextFormat = "22P02"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, full_name, password_hash, avatar_url, cover_image_url, refresh_token, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.FullName, &u.PasswordHash,
		&u.AvatarURL, &u.CoverImageURL, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email, full_name, password_hash, avatar_url, cover_image_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.FullName, user.PasswordHash, user.AvatarURL, user.CoverImageURL,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, fmt.Errorf("create user: %w", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidTextFormat {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, username, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		 ORDER BY created_at
		 LIMIT 1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, username, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id string, token *string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, token)
	if err != nil {
		if pgCode(err) == pgInvalidTextFormat {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
