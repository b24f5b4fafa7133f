package dto

import "time"

// CreateDocumentRequest registra metadata de un documento de compliance.
// El archivo ya vive en storage externo; acá viaja la referencia.
type CreateDocumentRequest struct {
	ProviderID *string `json:"provider_id"`
	Kind       string  `json:"kind"`
	Name       string  `json:"name"`
	URL        string  `json:"url"`
}

// ReviewDocumentRequest aprueba o rechaza un documento (admin).
type ReviewDocumentRequest struct {
	Status string `json:"status"` // approved | rejected
	Note   string `json:"note"`
}

// DocumentResponse vista de un documento.
type DocumentResponse struct {
	ID         string     `json:"id"`
	BusinessID string     `json:"business_id,omitempty"`
	ProviderID *string    `json:"provider_id,omitempty"`
	Kind       string     `json:"kind"`
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Status     string     `json:"status"`
	ReviewNote *string    `json:"review_note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}
