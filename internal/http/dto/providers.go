package dto

import "time"

// InviteProviderRequest invita a un miembro del staff.
type InviteProviderRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"` // owner | dispatcher | provider
}

// InviteProviderResponse devuelve el provider creado en estado invited.
type InviteProviderResponse struct {
	Provider ProviderResponse `json:"provider"`
}

// AcceptInviteRequest acepta la invitación con el token del email.
// Si el invitado no tiene cuenta, manda password para crearla.
type AcceptInviteRequest struct {
	Token    string `json:"token"`
	Password string `json:"password,omitempty"`
}

// UpdateProviderRequest cambia rol/estado/perfil de un provider.
type UpdateProviderRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// ProviderResponse vista de un miembro del staff.
type ProviderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
