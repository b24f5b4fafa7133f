package dto

import "time"

// CreateBookingRequest alta de reserva (página pública o portal).
type CreateBookingRequest struct {
	ServiceID     string    `json:"service_id"`
	ProviderID    *string   `json:"provider_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	StartsAt      time.Time `json:"starts_at"`
	AddonIDs      []string  `json:"addon_ids"`
	Notes         string    `json:"notes"`
}

// UpdateBookingStatusRequest transición de estado.
type UpdateBookingStatusRequest struct {
	Status string `json:"status"` // confirmed | completed | cancelled | no_show
}

// BookingResponse vista de una reserva.
type BookingResponse struct {
	ID            string    `json:"id"`
	ServiceID     string    `json:"service_id"`
	ProviderID    *string   `json:"provider_id,omitempty"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	AddonIDs      []string  `json:"addon_ids,omitempty"`
	TotalCents    int64     `json:"total_cents"`
	Currency      string    `json:"currency"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookingListResponse listado paginado.
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}
