package dto

import "time"

// CreateServiceRequest alta de servicio del catálogo.
type CreateServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	DurationMin int    `json:"duration_min"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
	Active      *bool  `json:"active"`
}

// UpdateServiceRequest modifica un servicio. Los campos son punteros: sólo
// lo que viene en el body pisa el valor actual, así un PATCH puede poner el
// precio en 0 o vaciar la descripción.
type UpdateServiceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	DurationMin *int    `json:"duration_min"`
	PriceCents  *int64  `json:"price_cents"`
	Currency    *string `json:"currency"`
	Active      *bool   `json:"active"`
}

// ServiceResponse vista de un servicio.
type ServiceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	DurationMin int       `json:"duration_min"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAddonRequest alta de addon (global o atado a un servicio).
type CreateAddonRequest struct {
	ServiceID  *string `json:"service_id"`
	Name       string  `json:"name"`
	PriceCents int64   `json:"price_cents"`
	Active     *bool   `json:"active"`
}

// UpdateAddonRequest modifica un addon. Mismos semánticos de punteros que
// UpdateServiceRequest.
type UpdateAddonRequest struct {
	Name       *string `json:"name"`
	PriceCents *int64  `json:"price_cents"`
	Active     *bool   `json:"active"`
}

// AddonResponse vista de un addon.
type AddonResponse struct {
	ID         string    `json:"id"`
	ServiceID  *string   `json:"service_id,omitempty"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// CatalogSummaryResponse es el resumen optimizado (servicios o addons).
type CatalogSummaryResponse struct {
	Total  int                   `json:"total"`
	Active int                   `json:"active"`
	Items  []CatalogItemResponse `json:"items"`
	Source string                `json:"source"` // "sql" | "fallback"
}

// CatalogItemResponse una fila del summary.
type CatalogItemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"price_cents"`
	Active       bool   `json:"active"`
	BookingCount int    `json:"booking_count"`
}
