package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bluballz/chat-auth/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {

	query :=
		`INSERT INTO users (id, email, display_name, password_hash)
         VALUES ($1, $2, $3, $4)
         RETURNING created_at
         `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.DisplayName, user.PasswordHash).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {

	query :=
		`SELECT id, email, display_name, password_hash, refresh_token_hash, refresh_expires_at, created_at
         FROM users
         WHERE email = $1
         `

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*User, error) {

	query :=
		`SELECT id, email, display_name, password_hash, refresh_token_hash, refresh_expires_at, created_at
         FROM users
         WHERE refresh_token_hash = $1
         `

	return r.scanUser(r.db.QueryRowContext(ctx, query, hash))
}

// UpdateRefreshToken unconditionally overwrites the stored refresh hash and
// expiry for the user. This is the rotation point: the previous raw token no
// longer matches any stored hash afterwards. No optimistic concurrency
// check; a concurrent rotation leaves the last writer as the only winner.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, userID, hash string, expiresAt time.Time) error {

	query :=
		`UPDATE users
         SET refresh_token_hash = $1, refresh_expires_at = $2
         WHERE id = $3
         `

	if _, err := r.db.ExecContext(ctx, query, hash, expiresAt, userID); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	var refreshHash sql.NullString
	var refreshExpires sql.NullTime

	err := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash,
		&refreshHash, &refreshExpires, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	user.RefreshTokenHash = refreshHash.String
	if refreshExpires.Valid {
		t := refreshExpires.Time
		user.RefreshExpiresAt = &t
	}

	return user, nil
}
