package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/wellbook/internal/store/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const documentCols = `id, business_id, provider_id, kind, name, url, status, review_note, created_at, reviewed_at`

func (s *Store) CreateDocument(ctx context.Context, d *core.Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = "pending"
	}
	const q = `
		INSERT INTO document (id, business_id, provider_id, kind, name, url, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		RETURNING created_at`
	err := s.pool.QueryRow(ctx, q,
		d.ID, d.BusinessID, d.ProviderID, d.Kind, d.Name, d.URL, d.Status,
	).Scan(&d.CreatedAt)
	return mapPgErr(err)
}

func (s *Store) GetDocumentByID(ctx context.Context, id string) (*core.Document, error) {
	var d core.Document
	err := s.pool.QueryRow(ctx, `SELECT `+documentCols+` FROM document WHERE id = $1`, id).Scan(
		&d.ID, &d.BusinessID, &d.ProviderID, &d.Kind, &d.Name, &d.URL,
		&d.Status, &d.ReviewNote, &d.CreatedAt, &d.ReviewedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListDocuments(ctx context.Context, businessID, status string) ([]core.Document, error) {
	q := `SELECT ` + documentCols + ` FROM document WHERE business_id = $1`
	args := []any{businessID}
	if status != "" {
		args = append(args, status)
		q += ` AND status = $2`
	}
	q += ` ORDER BY created_at DESC`
	return s.queryDocuments(ctx, q, args...)
}

// ListDocumentsByStatus cruza tenants: lo usa la consola de admin para la
// cola de revisión de compliance.
func (s *Store) ListDocumentsByStatus(ctx context.Context, status string, limit, offset int) ([]core.Document, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT ` + documentCols + ` FROM document WHERE status = $1` +
		fmt.Sprintf(` ORDER BY created_at LIMIT %d OFFSET %d`, limit, offset)
	return s.queryDocuments(ctx, q, status)
}

func (s *Store) queryDocuments(ctx context.Context, q string, args ...any) ([]core.Document, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Document
	for rows.Next() {
		var d core.Document
		if err := rows.Scan(
			&d.ID, &d.BusinessID, &d.ProviderID, &d.Kind, &d.Name, &d.URL,
			&d.Status, &d.ReviewNote, &d.CreatedAt, &d.ReviewedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) SetDocumentStatus(ctx context.Context, id, status string, note *string) error {
	return s.execOne(ctx,
		`UPDATE document SET status = $2, review_note = $3, reviewed_at = NOW() WHERE id = $1`,
		id, status, note)
}
