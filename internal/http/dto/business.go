package dto

import "time"

// OnboardingPhase1Request crea el business (fase 1).
type OnboardingPhase1Request struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
}

// OnboardingPhase2Request completa perfil y pagos (fase 2).
type OnboardingPhase2Request struct {
	Description string         `json:"description"`
	Address     string         `json:"address"`
	LogoURL     string         `json:"logo_url"`
	Settings    map[string]any `json:"settings"`
}

// OnboardingStatusResponse qué fase del onboarding está pendiente.
type OnboardingStatusResponse struct {
	BusinessID string `json:"business_id,omitempty"`
	Phase      int    `json:"phase"`
	Status     string `json:"status,omitempty"`
	NextStep   string `json:"next_step,omitempty"`
	Complete   bool   `json:"complete"`
}

// BusinessResponse es la vista del tenant para el portal.
type BusinessResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Slug            string         `json:"slug"`
	Category        string         `json:"category"`
	Description     string         `json:"description"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Address         string         `json:"address"`
	City            string         `json:"city"`
	LogoURL         string         `json:"logo_url"`
	OnboardingPhase int            `json:"onboarding_phase"`
	Status          string         `json:"status"`
	PaymentsReady   bool           `json:"payments_ready"`
	BankAccountRef  string         `json:"bank_account_ref,omitempty"`
	Settings        map[string]any `json:"settings,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// UpdateBusinessRequest actualiza el perfil del business.
type UpdateBusinessRequest struct {
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     string         `json:"address"`
	City        string         `json:"city"`
	LogoURL     string         `json:"logo_url"`
	Settings    map[string]any `json:"settings"`
}

// PublicBusinessResponse es la vista pública (página de reservas).
type PublicBusinessResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Description string `json:"description"`
	City        string `json:"city"`
	LogoURL     string `json:"logo_url"`
}
