package dto

import "time"

// CheckoutRequest crea una checkout session para un booking.
type CheckoutRequest struct {
	BookingID string `json:"booking_id"`
}

// CheckoutResponse sesión creada en el procesador.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// LinkTokenResponse token para abrir el widget de bank-linking.
type LinkTokenResponse struct {
	LinkToken string    `json:"link_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExchangeTokenRequest intercambia el public token del widget.
type ExchangeTokenRequest struct {
	PublicToken string `json:"public_token"`
}

// ExchangeTokenResponse referencia enmascarada resultante.
type ExchangeTokenResponse struct {
	AccountMask string `json:"account_mask"`
	Institution string `json:"institution,omitempty"`
}
