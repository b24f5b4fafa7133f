package dto

import "time"

// CreateConversationRequest abre una conversación con un cliente.
type CreateConversationRequest struct {
	BookingID     *string `json:"booking_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
}

// SendMessageRequest agrega un mensaje a la conversación.
type SendMessageRequest struct {
	Sender string `json:"sender"` // customer | provider
	Body   string `json:"body"`
}

// ConversationResponse vista de una conversación.
type ConversationResponse struct {
	ID            string    `json:"id"`
	BookingID     *string   `json:"booking_id,omitempty"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// ConversationOverviewResponse conversación + agregado de mensajes.
type ConversationOverviewResponse struct {
	ConversationResponse
	LastMessage string `json:"last_message,omitempty"`
	LastSender  string `json:"last_sender,omitempty"`
	UnreadCount int    `json:"unread_count"`
}

// ConversationOverviewListResponse listado del inbox.
type ConversationOverviewListResponse struct {
	Conversations []ConversationOverviewResponse `json:"conversations"`
	Source        string                         `json:"source"` // "sql" | "fallback"
}

// MessageResponse un mensaje individual.
type MessageResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
