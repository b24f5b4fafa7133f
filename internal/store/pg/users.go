package pg

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/wellbook/internal/store/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = "active"
	}
	const q = `
		INSERT INTO app_user (id, email, name, password_hash, status, created_at)
		VALUES ($1, LOWER($2), $3, $4, $5, NOW())
		RETURNING created_at`
	err := s.pool.QueryRow(ctx, q, u.ID, u.Email, u.Name, u.PasswordHash, u.Status).Scan(&u.CreatedAt)
	return mapPgErr(err)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	const q = `
		SELECT id, email, name, password_hash, status, disabled_at, created_at
		FROM app_user WHERE LOWER(email) = LOWER($1)`
	return s.scanUser(s.pool.QueryRow(ctx, q, email))
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	const q = `
		SELECT id, email, name, password_hash, status, disabled_at, created_at
		FROM app_user WHERE id = $1`
	return s.scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) scanUser(row pgx.Row) (*core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Status, &u.DisabledAt, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ─── Refresh tokens ───

func (s *Store) CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time, rotatedFrom *string) (string, error) {
	id := uuid.NewString()
	const q = `
		INSERT INTO refresh_token (id, user_id, token_hash, issued_at, expires_at, rotated_from)
		VALUES ($1, $2, $3, NOW(), $4, $5)`
	if _, err := s.pool.Exec(ctx, q, id, userID, tokenHash, expiresAt, rotatedFrom); err != nil {
		return "", mapPgErr(err)
	}
	return id, nil
}

func (s *Store) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*core.RefreshToken, error) {
	const q = `
		SELECT id, user_id, token_hash, issued_at, expires_at, rotated_from, revoked_at
		FROM refresh_token WHERE token_hash = $1`
	var t core.RefreshToken
	err := s.pool.QueryRow(ctx, q, tokenHash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.IssuedAt, &t.ExpiresAt, &t.RotatedFrom, &t.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) RevokeRefreshToken(ctx context.Context, id string) error {
	const q = `UPDATE refresh_token SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`
	_, err := s.pool.Exec(ctx, q, id)
	return err
}
