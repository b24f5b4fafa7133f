package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/wellbook/internal/store/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const businessCols = `id, name, slug, category, description, email, phone, address, city,
	logo_url, payment_account_id, bank_account_ref, onboarding_phase, status, settings,
	created_at, updated_at`

func (s *Store) CreateBusiness(ctx context.Context, b *core.Business) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = "pending"
	}
	if b.OnboardingPhase == 0 {
		b.OnboardingPhase = 1
	}
	if b.Settings == nil {
		b.Settings = map[string]any{}
	}
	const q = `
		INSERT INTO business_profile
			(id, name, slug, category, description, email, phone, address, city,
			 logo_url, onboarding_phase, status, settings, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
		RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q,
		b.ID, b.Name, b.Slug, b.Category, b.Description, b.Email, b.Phone, b.Address, b.City,
		b.LogoURL, b.OnboardingPhase, b.Status, b.Settings,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	return mapPgErr(err)
}

func (s *Store) GetBusinessByID(ctx context.Context, id string) (*core.Business, error) {
	return s.scanBusiness(s.pool.QueryRow(ctx,
		`SELECT `+businessCols+` FROM business_profile WHERE id = $1`, id))
}

func (s *Store) GetBusinessBySlug(ctx context.Context, slug string) (*core.Business, error) {
	return s.scanBusiness(s.pool.QueryRow(ctx,
		`SELECT `+businessCols+` FROM business_profile WHERE slug = $1`, slug))
}

func (s *Store) scanBusiness(row pgx.Row) (*core.Business, error) {
	var b core.Business
	err := row.Scan(
		&b.ID, &b.Name, &b.Slug, &b.Category, &b.Description, &b.Email, &b.Phone,
		&b.Address, &b.City, &b.LogoURL, &b.PaymentAccountID, &b.BankAccountRef,
		&b.OnboardingPhase, &b.Status, &b.Settings, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *Store) UpdateBusiness(ctx context.Context, b *core.Business) error {
	const q = `
		UPDATE business_profile SET
			name = $2, category = $3, description = $4, email = $5, phone = $6,
			address = $7, city = $8, logo_url = $9, settings = $10, updated_at = NOW()
		WHERE id = $1`
	ct, err := s.pool.Exec(ctx, q,
		b.ID, b.Name, b.Category, b.Description, b.Email, b.Phone,
		b.Address, b.City, b.LogoURL, b.Settings,
	)
	if err != nil {
		return mapPgErr(err)
	}
	if ct.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) SetBusinessStatus(ctx context.Context, id, status string) error {
	return s.execOne(ctx, `UPDATE business_profile SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
}

func (s *Store) SetOnboardingPhase(ctx context.Context, id string, phase int) error {
	return s.execOne(ctx, `UPDATE business_profile SET onboarding_phase = $2, updated_at = NOW() WHERE id = $1`, id, phase)
}

func (s *Store) SetPaymentAccount(ctx context.Context, id, accountID string) error {
	return s.execOne(ctx, `UPDATE business_profile SET payment_account_id = $2, updated_at = NOW() WHERE id = $1`, id, accountID)
}

func (s *Store) SetBankAccountRef(ctx context.Context, id, maskedRef string) error {
	return s.execOne(ctx, `UPDATE business_profile SET bank_account_ref = $2, updated_at = NOW() WHERE id = $1`, id, maskedRef)
}

func (s *Store) ListBusinesses(ctx context.Context, status string, limit, offset int) ([]core.Business, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT ` + businessCols + ` FROM business_profile`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Business
	for rows.Next() {
		var b core.Business
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Slug, &b.Category, &b.Description, &b.Email, &b.Phone,
			&b.Address, &b.City, &b.LogoURL, &b.PaymentAccountID, &b.BankAccountRef,
			&b.OnboardingPhase, &b.Status, &b.Settings, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) PlatformStats(ctx context.Context) (*core.PlatformStats, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM business_profile),
			(SELECT COUNT(*) FROM business_profile WHERE status = 'active'),
			(SELECT COUNT(*) FROM provider),
			(SELECT COUNT(*) FROM booking),
			(SELECT COUNT(*) FROM review)`
	var st core.PlatformStats
	err := s.pool.QueryRow(ctx, q).Scan(
		&st.Businesses, &st.ActiveBusinesses, &st.Providers, &st.Bookings, &st.Reviews,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// execOne ejecuta un UPDATE/DELETE que debe afectar exactamente una fila.
func (s *Store) execOne(ctx context.Context, q string, args ...any) error {
	ct, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return mapPgErr(err)
	}
	if ct.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
