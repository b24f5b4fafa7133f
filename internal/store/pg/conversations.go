package pg

import (
	"context"
	"errors"

	"github.com/dropDatabas3/wellbook/internal/store/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const conversationCols = `id, business_id, booking_id, customer_name, customer_phone, created_at, last_message_at`

func (s *Store) CreateConversation(ctx context.Context, c *core.Conversation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	const q = `
		INSERT INTO conversation (id, business_id, booking_id, customer_name, customer_phone, created_at, last_message_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
		RETURNING created_at, last_message_at`
	err := s.pool.QueryRow(ctx, q,
		c.ID, c.BusinessID, c.BookingID, c.CustomerName, c.CustomerPhone,
	).Scan(&c.CreatedAt, &c.LastMessageAt)
	return mapPgErr(err)
}

func (s *Store) GetConversationByID(ctx context.Context, id string) (*core.Conversation, error) {
	var c core.Conversation
	err := s.pool.QueryRow(ctx, `SELECT `+conversationCols+` FROM conversation WHERE id = $1`, id).Scan(
		&c.ID, &c.BusinessID, &c.BookingID, &c.CustomerName, &c.CustomerPhone, &c.CreatedAt, &c.LastMessageAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListConversations(ctx context.Context, businessID string) ([]core.Conversation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+conversationCols+` FROM conversation WHERE business_id = $1 ORDER BY last_message_at DESC`,
		businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Conversation
	for rows.Next() {
		var c core.Conversation
		if err := rows.Scan(
			&c.ID, &c.BusinessID, &c.BookingID, &c.CustomerName, &c.CustomerPhone, &c.CreatedAt, &c.LastMessageAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ConversationOverview usa la función SQL. Igual que el summary de catálogo:
// 42883 sale como ErrNoStoredProc y el service agrega en Go.
func (s *Store) ConversationOverview(ctx context.Context, businessID string) ([]core.ConversationOverview, error) {
	const q = `
		SELECT id, business_id, booking_id, customer_name, customer_phone, created_at,
		       last_message_at, last_message, last_sender, unread_count
		FROM conversation_overview($1)`
	rows, err := s.pool.Query(ctx, q, businessID)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []core.ConversationOverview
	for rows.Next() {
		var o core.ConversationOverview
		if err := rows.Scan(
			&o.ID, &o.BusinessID, &o.BookingID, &o.CustomerName, &o.CustomerPhone, &o.CreatedAt,
			&o.LastMessageAt, &o.LastMessage, &o.LastSender, &o.UnreadCount,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) ListMessagesByBusiness(ctx context.Context, businessID string) ([]core.Message, error) {
	const q = `
		SELECT m.id, m.conversation_id, m.sender, m.body, m.read, m.created_at
		FROM message m
		JOIN conversation c ON c.id = m.conversation_id
		WHERE c.business_id = $1
		ORDER BY m.created_at`
	return s.queryMessages(ctx, q, businessID)
}

func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]core.Message, error) {
	const q = `
		SELECT id, conversation_id, sender, body, read, created_at
		FROM message WHERE conversation_id = $1 ORDER BY created_at`
	return s.queryMessages(ctx, q, conversationID)
}

func (s *Store) queryMessages(ctx context.Context, q string, args ...any) ([]core.Message, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Message
	for rows.Next() {
		var m core.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) CreateMessage(ctx context.Context, m *core.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `
		INSERT INTO message (id, conversation_id, sender, body, read, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		RETURNING created_at`
	if err := tx.QueryRow(ctx, q, m.ID, m.ConversationID, m.Sender, m.Body, m.Read).Scan(&m.CreatedAt); err != nil {
		return mapPgErr(err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE conversation SET last_message_at = NOW() WHERE id = $1`, m.ConversationID); err != nil {
		return mapPgErr(err)
	}
	return tx.Commit(ctx)
}

func (s *Store) MarkConversationRead(ctx context.Context, conversationID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE message SET read = TRUE WHERE conversation_id = $1 AND sender = 'customer' AND NOT read`,
		conversationID)
	return err
}
