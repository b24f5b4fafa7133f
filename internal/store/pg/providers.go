package pg

import (
	"context"
	"errors"

	"github.com/dropDatabas3/wellbook/internal/store/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const providerCols = `id, business_id, user_id, name, email, phone, role, status, bio, avatar_url, created_at`

func (s *Store) CreateProvider(ctx context.Context, p *core.Provider) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = "invited"
	}
	const q = `
		INSERT INTO provider (id, business_id, user_id, name, email, phone, role, status, bio, avatar_url, created_at)
		VALUES ($1,$2,$3,$4,LOWER($5),$6,$7,$8,$9,$10,NOW())
		RETURNING created_at`
	err := s.pool.QueryRow(ctx, q,
		p.ID, p.BusinessID, p.UserID, p.Name, p.Email, p.Phone, p.Role, p.Status, p.Bio, p.AvatarURL,
	).Scan(&p.CreatedAt)
	return mapPgErr(err)
}

func (s *Store) GetProviderByID(ctx context.Context, id string) (*core.Provider, error) {
	return s.scanProvider(s.pool.QueryRow(ctx,
		`SELECT `+providerCols+` FROM provider WHERE id = $1`, id))
}

func (s *Store) GetProviderByUserID(ctx context.Context, userID string) (*core.Provider, error) {
	return s.scanProvider(s.pool.QueryRow(ctx,
		`SELECT `+providerCols+` FROM provider WHERE user_id = $1`, userID))
}

func (s *Store) GetProviderByEmail(ctx context.Context, businessID, email string) (*core.Provider, error) {
	return s.scanProvider(s.pool.QueryRow(ctx,
		`SELECT `+providerCols+` FROM provider WHERE business_id = $1 AND LOWER(email) = LOWER($2)`,
		businessID, email))
}

func (s *Store) scanProvider(row pgx.Row) (*core.Provider, error) {
	var p core.Provider
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.UserID, &p.Name, &p.Email, &p.Phone,
		&p.Role, &p.Status, &p.Bio, &p.AvatarURL, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProviders(ctx context.Context, businessID string) ([]core.Provider, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+providerCols+` FROM provider WHERE business_id = $1 ORDER BY created_at`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Provider
	for rows.Next() {
		var p core.Provider
		if err := rows.Scan(
			&p.ID, &p.BusinessID, &p.UserID, &p.Name, &p.Email, &p.Phone,
			&p.Role, &p.Status, &p.Bio, &p.AvatarURL, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdateProvider(ctx context.Context, p *core.Provider) error {
	const q = `
		UPDATE provider SET
			user_id = $2, name = $3, phone = $4, role = $5, status = $6, bio = $7, avatar_url = $8
		WHERE id = $1`
	return s.execOne(ctx, q, p.ID, p.UserID, p.Name, p.Phone, p.Role, p.Status, p.Bio, p.AvatarURL)
}

func (s *Store) CountActiveOwners(ctx context.Context, businessID string) (int, error) {
	const q = `SELECT COUNT(*) FROM provider WHERE business_id = $1 AND role = 'owner' AND status = 'active'`
	var n int
	if err := s.pool.QueryRow(ctx, q, businessID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
