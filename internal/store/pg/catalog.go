package pg

import (
	"context"
	"errors"

	"github.com/dropDatabas3/wellbook/internal/store/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ============================== SERVICES ==============================

const serviceCols = `id, business_id, name, description, category, duration_min, price_cents, currency, active, created_at, updated_at`

func (s *Store) CreateService(ctx context.Context, sv *core.Service) error {
	if sv.ID == "" {
		sv.ID = uuid.NewString()
	}
	if sv.Currency == "" {
		sv.Currency = "usd"
	}
	const q = `
		INSERT INTO service (id, business_id, name, description, category, duration_min, price_cents, currency, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
		RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q,
		sv.ID, sv.BusinessID, sv.Name, sv.Description, sv.Category,
		sv.DurationMin, sv.PriceCents, sv.Currency, sv.Active,
	).Scan(&sv.CreatedAt, &sv.UpdatedAt)
	return mapPgErr(err)
}

func (s *Store) GetServiceByID(ctx context.Context, id string) (*core.Service, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+serviceCols+` FROM service WHERE id = $1`, id)
	return scanService(row)
}

func scanService(row pgx.Row) (*core.Service, error) {
	var sv core.Service
	err := row.Scan(
		&sv.ID, &sv.BusinessID, &sv.Name, &sv.Description, &sv.Category,
		&sv.DurationMin, &sv.PriceCents, &sv.Currency, &sv.Active, &sv.CreatedAt, &sv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &sv, nil
}

func (s *Store) ListServices(ctx context.Context, businessID string, f core.ServiceFilter) ([]core.Service, error) {
	q := `SELECT ` + serviceCols + ` FROM service WHERE business_id = $1`
	args := []any{businessID}
	if f.Active != nil {
		args = append(args, *f.Active)
		q += ` AND active = $2`
	}
	if f.Category != "" {
		args = append(args, f.Category)
		if len(args) == 3 {
			q += ` AND category = $3`
		} else {
			q += ` AND category = $2`
		}
	}
	q += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Service
	for rows.Next() {
		var sv core.Service
		if err := rows.Scan(
			&sv.ID, &sv.BusinessID, &sv.Name, &sv.Description, &sv.Category,
			&sv.DurationMin, &sv.PriceCents, &sv.Currency, &sv.Active, &sv.CreatedAt, &sv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (s *Store) UpdateService(ctx context.Context, sv *core.Service) error {
	const q = `
		UPDATE service SET
			name = $2, description = $3, category = $4, duration_min = $5,
			price_cents = $6, currency = $7, active = $8, updated_at = NOW()
		WHERE id = $1`
	return s.execOne(ctx, q,
		sv.ID, sv.Name, sv.Description, sv.Category, sv.DurationMin,
		sv.PriceCents, sv.Currency, sv.Active)
}

func (s *Store) DeleteService(ctx context.Context, id string) error {
	// Soft delete: los bookings históricos siguen referenciando el servicio.
	return s.execOne(ctx, `UPDATE service SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
}

// ServiceCatalogSummary usa la función SQL optimizada. Si el schema no la
// tiene todavía (deploy viejo), mapPgErr traduce 42883 a ErrNoStoredProc y
// el service layer recalcula en Go.
func (s *Store) ServiceCatalogSummary(ctx context.Context, businessID string) (*core.CatalogSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, price_cents, active, booking_count FROM service_catalog_summary($1)`, businessID)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()
	return scanCatalogSummary(rows)
}

func (s *Store) ServiceBookingCounts(ctx context.Context, businessID string) (map[string]int, error) {
	const q = `
		SELECT service_id, COUNT(*) FROM booking
		WHERE business_id = $1 GROUP BY service_id`
	return s.queryCounts(ctx, q, businessID)
}

// ============================== ADDONS ==============================

const addonCols = `id, business_id, service_id, name, price_cents, active, created_at`

func (s *Store) CreateAddon(ctx context.Context, a *core.Addon) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	const q = `
		INSERT INTO addon (id, business_id, service_id, name, price_cents, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING created_at`
	err := s.pool.QueryRow(ctx, q,
		a.ID, a.BusinessID, a.ServiceID, a.Name, a.PriceCents, a.Active,
	).Scan(&a.CreatedAt)
	return mapPgErr(err)
}

func (s *Store) GetAddonByID(ctx context.Context, id string) (*core.Addon, error) {
	var a core.Addon
	err := s.pool.QueryRow(ctx, `SELECT `+addonCols+` FROM addon WHERE id = $1`, id).Scan(
		&a.ID, &a.BusinessID, &a.ServiceID, &a.Name, &a.PriceCents, &a.Active, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAddons(ctx context.Context, businessID string, serviceID *string) ([]core.Addon, error) {
	q := `SELECT ` + addonCols + ` FROM addon WHERE business_id = $1`
	args := []any{businessID}
	if serviceID != nil {
		q += ` AND service_id = $2`
		args = append(args, *serviceID)
	}
	q += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Addon
	for rows.Next() {
		var a core.Addon
		if err := rows.Scan(&a.ID, &a.BusinessID, &a.ServiceID, &a.Name, &a.PriceCents, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAddon(ctx context.Context, a *core.Addon) error {
	const q = `UPDATE addon SET service_id = $2, name = $3, price_cents = $4, active = $5 WHERE id = $1`
	return s.execOne(ctx, q, a.ID, a.ServiceID, a.Name, a.PriceCents, a.Active)
}

func (s *Store) DeleteAddon(ctx context.Context, id string) error {
	return s.execOne(ctx, `UPDATE addon SET active = FALSE WHERE id = $1`, id)
}

func (s *Store) AddonCatalogSummary(ctx context.Context, businessID string) (*core.CatalogSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, price_cents, active, booking_count FROM addon_catalog_summary($1)`, businessID)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()
	return scanCatalogSummary(rows)
}

func (s *Store) AddonBookingCounts(ctx context.Context, businessID string) (map[string]int, error) {
	const q = `
		SELECT a.addon_id, COUNT(*)
		FROM booking_addon a
		JOIN booking b ON b.id = a.booking_id
		WHERE b.business_id = $1
		GROUP BY a.addon_id`
	return s.queryCounts(ctx, q, businessID)
}

// ─── helpers ───

func scanCatalogSummary(rows pgx.Rows) (*core.CatalogSummary, error) {
	sum := &core.CatalogSummary{}
	for rows.Next() {
		var it core.CatalogItemStats
		if err := rows.Scan(&it.ID, &it.Name, &it.PriceCents, &it.Active, &it.BookingCount); err != nil {
			return nil, err
		}
		sum.Total++
		if it.Active {
			sum.Active++
		}
		sum.Items = append(sum.Items, it)
	}
	return sum, rows.Err()
}

func (s *Store) queryCounts(ctx context.Context, q string, args ...any) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}
