package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/notify"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// ConversationDeps dependencias del inbox.
type ConversationDeps struct {
	Repo     core.Repository
	Notifier *notify.Dispatcher
}

// ConversationService inbox del portal: conversaciones con clientes y el
// overview agregado (función SQL con fallback en Go).
type ConversationService struct {
	deps ConversationDeps
}

func NewConversationService(deps ConversationDeps) *ConversationService {
	return &ConversationService{deps: deps}
}

// Create abre una conversación nueva con un cliente.
func (s *ConversationService) Create(ctx context.Context, biz *core.Business, in dto.CreateConversationRequest) (*core.Conversation, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.CustomerName == "" {
		return nil, ErrMissingFields
	}
	if in.BookingID != nil {
		b, err := s.deps.Repo.GetBookingByID(ctx, *in.BookingID)
		if err != nil {
			return nil, err
		}
		if b.BusinessID != biz.ID {
			return nil, core.ErrNotFound
		}
	}

	c := &core.Conversation{
		BusinessID:    biz.ID,
		BookingID:     in.BookingID,
		CustomerName:  in.CustomerName,
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
	}
	if err := s.deps.Repo.CreateConversation(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Overview arma el inbox: cada conversación con su último mensaje y el
// conteo de no leídos. Primero la función SQL conversation_overview(); si
// no existe, agrega en Go sobre dos listados y marca source=fallback.
func (s *ConversationService) Overview(ctx context.Context, businessID string) (*dto.ConversationOverviewListResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("conversations"),
		logger.Op("Overview"),
		logger.BusinessID(businessID),
	)

	rows, err := s.deps.Repo.ConversationOverview(ctx, businessID)
	if err == nil {
		return overviewToDTO(rows, "sql"), nil
	}
	if !errors.Is(err, core.ErrNoStoredProc) {
		return nil, err
	}
	log.Warn("conversation_overview missing, using fallback")

	convs, err := s.deps.Repo.ListConversations(ctx, businessID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.deps.Repo.ListMessagesByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	// Agrupar por conversación: último mensaje y unread de clientes.
	type agg struct {
		last   *core.Message
		unread int
	}
	byConv := make(map[string]*agg, len(convs))
	for _, m := range msgs {
		a := byConv[m.ConversationID]
		if a == nil {
			a = &agg{}
			byConv[m.ConversationID] = a
		}
		if a.last == nil || m.CreatedAt.After(a.last.CreatedAt) {
			m := m
			a.last = &m
		}
		if m.Sender == "customer" && !m.Read {
			a.unread++
		}
	}

	out := make([]core.ConversationOverview, 0, len(convs))
	for _, c := range convs {
		row := core.ConversationOverview{Conversation: c}
		if a := byConv[c.ID]; a != nil {
			if a.last != nil {
				row.LastMessage = a.last.Body
				row.LastSender = a.last.Sender
			}
			row.UnreadCount = a.unread
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return overviewToDTO(out, "fallback"), nil
}

// Messages trae el hilo de una conversación del business.
func (s *ConversationService) Messages(ctx context.Context, biz *core.Business, conversationID string) ([]core.Message, error) {
	if _, err := s.get(ctx, biz, conversationID); err != nil {
		return nil, err
	}
	return s.deps.Repo.ListMessages(ctx, conversationID)
}

// SendMessage agrega un mensaje y empuja el timestamp de la conversación.
func (s *ConversationService) SendMessage(ctx context.Context, biz *core.Business, conversationID string, in dto.SendMessageRequest) (*core.Message, error) {
	in.Body = strings.TrimSpace(in.Body)
	if in.Body == "" {
		return nil, ErrMissingFields
	}
	if in.Sender != "customer" && in.Sender != "provider" {
		return nil, core.ErrInvalid
	}
	conv, err := s.get(ctx, biz, conversationID)
	if err != nil {
		return nil, err
	}

	m := &core.Message{
		ConversationID: conversationID,
		Sender:         in.Sender,
		Body:           in.Body,
	}
	if err := s.deps.Repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	// la conversación viaja en el evento: el SMS al cliente sale de ahí
	if s.deps.Notifier != nil {
		s.deps.Notifier.Emit(notify.Event{
			Type:         notify.EventMessageCreated,
			Business:     biz,
			Conversation: conv,
			Message:      m,
		})
	}
	return m, nil
}

// MarkRead marca como leídos los mensajes del cliente.
func (s *ConversationService) MarkRead(ctx context.Context, biz *core.Business, conversationID string) error {
	if _, err := s.get(ctx, biz, conversationID); err != nil {
		return err
	}
	return s.deps.Repo.MarkConversationRead(ctx, conversationID)
}

func (s *ConversationService) get(ctx context.Context, biz *core.Business, id string) (*core.Conversation, error) {
	c, err := s.deps.Repo.GetConversationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.BusinessID != biz.ID {
		return nil, core.ErrNotFound
	}
	return c, nil
}

func overviewToDTO(rows []core.ConversationOverview, source string) *dto.ConversationOverviewListResponse {
	resp := &dto.ConversationOverviewListResponse{
		Conversations: make([]dto.ConversationOverviewResponse, 0, len(rows)),
		Source:        source,
	}
	for _, r := range rows {
		resp.Conversations = append(resp.Conversations, dto.ConversationOverviewResponse{
			ConversationResponse: ConversationToDTO(&r.Conversation),
			LastMessage:          r.LastMessage,
			LastSender:           r.LastSender,
			UnreadCount:          r.UnreadCount,
		})
	}
	return resp
}

// ConversationToDTO mapea el modelo al response.
func ConversationToDTO(c *core.Conversation) dto.ConversationResponse {
	return dto.ConversationResponse{
		ID:            c.ID,
		BookingID:     c.BookingID,
		CustomerName:  c.CustomerName,
		CustomerPhone: c.CustomerPhone,
		CreatedAt:     c.CreatedAt,
		LastMessageAt: c.LastMessageAt,
	}
}

// MessageToDTO mapea el modelo al response.
func MessageToDTO(m *core.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        m.ID,
		Sender:    m.Sender,
		Body:      m.Body,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}
