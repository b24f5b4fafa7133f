package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/wellbook/internal/store/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reviewCols = `id, business_id, booking_id, provider_id, rating, comment, reply, replied_at, created_at`

func (s *Store) CreateReview(ctx context.Context, r *core.Review) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	// booking_id tiene UNIQUE: una reseña por booking, el 23505 sale como ErrConflict.
	const q = `
		INSERT INTO review (id, business_id, booking_id, provider_id, rating, comment, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING created_at`
	err := s.pool.QueryRow(ctx, q,
		r.ID, r.BusinessID, r.BookingID, r.ProviderID, r.Rating, r.Comment,
	).Scan(&r.CreatedAt)
	return mapPgErr(err)
}

func (s *Store) GetReviewByID(ctx context.Context, id string) (*core.Review, error) {
	return scanReview(s.pool.QueryRow(ctx,
		`SELECT `+reviewCols+` FROM review WHERE id = $1`, id))
}

func (s *Store) GetReviewByBookingID(ctx context.Context, bookingID string) (*core.Review, error) {
	return scanReview(s.pool.QueryRow(ctx,
		`SELECT `+reviewCols+` FROM review WHERE booking_id = $1`, bookingID))
}

func scanReview(row pgx.Row) (*core.Review, error) {
	var r core.Review
	err := row.Scan(
		&r.ID, &r.BusinessID, &r.BookingID, &r.ProviderID,
		&r.Rating, &r.Comment, &r.Reply, &r.RepliedAt, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListReviews(ctx context.Context, businessID string, f core.ReviewFilter) ([]core.Review, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}

	q := `SELECT ` + reviewCols + ` FROM review WHERE business_id = $1`
	args := []any{businessID}
	if f.MinRating > 0 {
		args = append(args, f.MinRating)
		q += fmt.Sprintf(` AND rating >= $%d`, len(args))
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, f.Limit, f.Offset)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Review
	for rows.Next() {
		var r core.Review
		if err := rows.Scan(
			&r.ID, &r.BusinessID, &r.BookingID, &r.ProviderID,
			&r.Rating, &r.Comment, &r.Reply, &r.RepliedAt, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ReviewStats(ctx context.Context, businessID string) (*core.ReviewStats, error) {
	const q = `SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM review WHERE business_id = $1`
	var st core.ReviewStats
	if err := s.pool.QueryRow(ctx, q, businessID).Scan(&st.Count, &st.Average); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) ReplyReview(ctx context.Context, id, reply string) error {
	return s.execOne(ctx,
		`UPDATE review SET reply = $2, replied_at = NOW() WHERE id = $1`, id, reply)
}
