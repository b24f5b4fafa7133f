package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/wellbook/internal/store/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingCols = `id, business_id, service_id, provider_id, customer_name, customer_email,
	customer_phone, starts_at, ends_at, status, payment_status, total_cents, currency,
	notes, checkout_session_id, created_at, updated_at`

func (s *Store) CreateBooking(ctx context.Context, b *core.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = "pending"
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = "unpaid"
	}
	if b.Currency == "" {
		b.Currency = "usd"
	}

	// La unicidad de slot (provider + starts_at) la garantiza un índice único
	// parcial en el schema; acá sólo mapeamos el conflicto.
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `
		INSERT INTO booking
			(id, business_id, service_id, provider_id, customer_name, customer_email,
			 customer_phone, starts_at, ends_at, status, payment_status, total_cents,
			 currency, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,LOWER($6),$7,$8,$9,$10,$11,$12,$13,$14,NOW(),NOW())
		RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, q,
		b.ID, b.BusinessID, b.ServiceID, b.ProviderID, b.CustomerName, b.CustomerEmail,
		b.CustomerPhone, b.StartsAt, b.EndsAt, b.Status, b.PaymentStatus, b.TotalCents,
		b.Currency, b.Notes,
	).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapPgErr(err)
	}

	for _, addonID := range b.AddonIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO booking_addon (booking_id, addon_id) VALUES ($1, $2)`,
			b.ID, addonID,
		); err != nil {
			return mapPgErr(err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) GetBookingByID(ctx context.Context, id string) (*core.Booking, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+bookingCols+` FROM booking WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `SELECT addon_id FROM booking_addon WHERE booking_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var addonID string
		if err := rows.Scan(&addonID); err != nil {
			return nil, err
		}
		b.AddonIDs = append(b.AddonIDs, addonID)
	}
	return b, rows.Err()
}

func scanBooking(row pgx.Row) (*core.Booking, error) {
	var b core.Booking
	err := row.Scan(
		&b.ID, &b.BusinessID, &b.ServiceID, &b.ProviderID, &b.CustomerName, &b.CustomerEmail,
		&b.CustomerPhone, &b.StartsAt, &b.EndsAt, &b.Status, &b.PaymentStatus, &b.TotalCents,
		&b.Currency, &b.Notes, &b.CheckoutSessionID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBookings(ctx context.Context, businessID string, f core.BookingFilter) ([]core.Booking, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}

	q := `SELECT ` + bookingCols + ` FROM booking WHERE business_id = $1`
	args := []any{businessID}
	if f.Status != "" {
		args = append(args, f.Status)
		q += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.ProviderID != "" {
		args = append(args, f.ProviderID)
		q += fmt.Sprintf(` AND provider_id = $%d`, len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		q += fmt.Sprintf(` AND starts_at >= $%d`, len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		q += fmt.Sprintf(` AND starts_at < $%d`, len(args))
	}
	q += fmt.Sprintf(` ORDER BY starts_at DESC LIMIT %d OFFSET %d`, f.Limit, f.Offset)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Booking
	for rows.Next() {
		var b core.Booking
		if err := rows.Scan(
			&b.ID, &b.BusinessID, &b.ServiceID, &b.ProviderID, &b.CustomerName, &b.CustomerEmail,
			&b.CustomerPhone, &b.StartsAt, &b.EndsAt, &b.Status, &b.PaymentStatus, &b.TotalCents,
			&b.Currency, &b.Notes, &b.CheckoutSessionID, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id, status string) error {
	return s.execOne(ctx, `UPDATE booking SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
}

func (s *Store) UpdateBookingPayment(ctx context.Context, id, paymentStatus string) error {
	return s.execOne(ctx, `UPDATE booking SET payment_status = $2, updated_at = NOW() WHERE id = $1`, id, paymentStatus)
}

func (s *Store) SetBookingCheckoutSession(ctx context.Context, id, sessionID string) error {
	return s.execOne(ctx, `UPDATE booking SET checkout_session_id = $2, updated_at = NOW() WHERE id = $1`, id, sessionID)
}
