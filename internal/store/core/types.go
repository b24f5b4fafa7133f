package core

import "time"

// Business es el registro de tenant: un negocio de servicios de bienestar.
type Business struct {
	ID          string
	Name        string
	Slug        string
	Category    string
	Description string
	Email       string
	Phone       string
	Address     string
	City        string
	LogoURL     string

	// Referencias a SaaS externos (procesador de pagos / bank-linking).
	PaymentAccountID *string
	BankAccountRef   *string // referencia enmascarada, nunca el token crudo

	// 1 = cuenta creada, 2 = perfil/pagos completos
	OnboardingPhase int
	Status          string // pending | active | suspended
	Settings        map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// User es una cuenta del portal (owner, dispatcher o provider).
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash *string
	Status       string // active | disabled
	DisabledAt   *time.Time
	CreatedAt    time.Time
}

// Provider es un miembro del staff asociado a un business.
// UserID es nil mientras la invitación no fue aceptada.
type Provider struct {
	ID         string
	BusinessID string
	UserID     *string
	Name       string
	Email      string
	Phone      string
	Role       string // owner | dispatcher | provider
	Status     string // invited | active | disabled
	Bio        string
	AvatarURL  string
	CreatedAt  time.Time
}

// Service es un servicio del catálogo del business.
type Service struct {
	ID          string
	BusinessID  string
	Name        string
	Description string
	Category    string
	DurationMin int
	PriceCents  int64
	Currency    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Addon es un extra opcional, global al business o atado a un servicio.
type Addon struct {
	ID         string
	BusinessID string
	ServiceID  *string
	Name       string
	PriceCents int64
	Active     bool
	CreatedAt  time.Time
}

// Booking es una reserva de servicio entre un cliente y un provider.
type Booking struct {
	ID         string
	BusinessID string
	ServiceID  string
	ProviderID *string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	StartsAt time.Time
	EndsAt   time.Time

	Status        string // pending | confirmed | completed | cancelled | no_show
	PaymentStatus string // unpaid | authorized | paid | refunded

	AddonIDs   []string
	TotalCents int64
	Currency   string
	Notes      string

	CheckoutSessionID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Review es una reseña de cliente sobre un booking completado.
type Review struct {
	ID         string
	BusinessID string
	BookingID  string
	ProviderID *string
	Rating     int // 1..5
	Comment    string
	Reply      *string
	RepliedAt  *time.Time
	CreatedAt  time.Time
}

// Document es metadata de un documento de compliance de un provider.
// El archivo vive en storage externo; acá sólo se registra la referencia.
type Document struct {
	ID         string
	BusinessID string
	ProviderID *string
	Kind       string
	Name       string
	URL        string
	Status     string // pending | approved | rejected
	ReviewNote *string
	CreatedAt  time.Time
	ReviewedAt *time.Time
}

// Conversation agrupa los mensajes con un cliente.
type Conversation struct {
	ID            string
	BusinessID    string
	BookingID     *string
	CustomerName  string
	CustomerPhone string
	CreatedAt     time.Time
	LastMessageAt time.Time
}

// Message es un mensaje individual dentro de una conversación.
type Message struct {
	ID             string
	ConversationID string
	Sender         string // customer | provider
	Body           string
	Read           bool
	CreatedAt      time.Time
}

// RefreshToken se guarda hasheado (sha256 base64url), nunca en claro.
type RefreshToken struct {
	ID          string
	UserID      string
	TokenHash   string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	RotatedFrom *string
	RevokedAt   *time.Time
}

// ─── Agregados / resultados de consultas compuestas ───

// CatalogItemStats es una fila del summary optimizado (servicio o addon
// con su conteo de bookings).
type CatalogItemStats struct {
	ID           string
	Name         string
	PriceCents   int64
	Active       bool
	BookingCount int
}

// CatalogSummary es el resultado del endpoint optimizado de catálogo.
type CatalogSummary struct {
	Total  int
	Active int
	Items  []CatalogItemStats
}

// ConversationOverview es una conversación con su agregado de mensajes.
type ConversationOverview struct {
	Conversation
	LastMessage string
	LastSender  string
	UnreadCount int
}

// ReviewStats son los agregados de reseñas de un business.
type ReviewStats struct {
	Count   int
	Average float64
}

// PlatformStats son los totales que consume la consola de admin.
type PlatformStats struct {
	Businesses       int
	ActiveBusinesses int
	Providers        int
	Bookings         int
	Reviews          int
}

// ─── Filtros ───

// BookingFilter filtra el listado de bookings.
type BookingFilter struct {
	Status     string
	ProviderID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ReviewFilter filtra el listado de reseñas.
type ReviewFilter struct {
	MinRating int
	Limit     int
	Offset    int
}

// ServiceFilter filtra el catálogo.
type ServiceFilter struct {
	Active   *bool
	Category string
}
