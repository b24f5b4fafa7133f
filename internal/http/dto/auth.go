// Package dto contiene los request/response bodies de la API del portal.
package dto

// RegisterRequest crea la cuenta del portal (fase 0 del onboarding).
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest login por password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse respuesta de login/refresh/register.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"` // "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // segundos
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest rota el refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revoca el refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MeResponse sesión actual.
type MeResponse struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	BusinessID string `json:"business_id,omitempty"`
	Role       string `json:"role,omitempty"`
}
