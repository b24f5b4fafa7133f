package dto

import "time"

// CreateReviewRequest reseña pública sobre un booking completado.
type CreateReviewRequest struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"` // 1..5
	Comment   string `json:"comment"`
}

// ReplyReviewRequest respuesta del negocio a una reseña.
type ReplyReviewRequest struct {
	Reply string `json:"reply"`
}

// ReviewResponse vista de una reseña.
type ReviewResponse struct {
	ID         string     `json:"id"`
	BookingID  string     `json:"booking_id"`
	ProviderID *string    `json:"provider_id,omitempty"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment,omitempty"`
	Reply      *string    `json:"reply,omitempty"`
	RepliedAt  *time.Time `json:"replied_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ReviewStatsResponse agregados de reseñas del business.
type ReviewStatsResponse struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}
