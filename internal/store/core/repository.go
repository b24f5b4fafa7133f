package core

import (
	"context"
	"time"
)

// Repository es el contrato de acceso a datos del servicio.
// La implementación canónica es pg (pgxpool); los services dependen de esta
// interfaz para poder testearse con fakes.
type Repository interface {
	Ping(ctx context.Context) error
	Close()

	// ------- Users / auth -------
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	CheckPassword(hash *string, pwd string) bool

	// Refresh tokens (hash sha256 en reposo, rotación revoca el anterior)
	CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time, rotatedFrom *string) (string, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string) error

	// ------- Business (tenant) -------
	CreateBusiness(ctx context.Context, b *Business) error
	GetBusinessByID(ctx context.Context, id string) (*Business, error)
	GetBusinessBySlug(ctx context.Context, slug string) (*Business, error)
	UpdateBusiness(ctx context.Context, b *Business) error
	SetBusinessStatus(ctx context.Context, id, status string) error
	SetOnboardingPhase(ctx context.Context, id string, phase int) error
	SetPaymentAccount(ctx context.Context, id, accountID string) error
	SetBankAccountRef(ctx context.Context, id, maskedRef string) error
	ListBusinesses(ctx context.Context, status string, limit, offset int) ([]Business, error)
	PlatformStats(ctx context.Context) (*PlatformStats, error)

	// ------- Providers (staff) -------
	CreateProvider(ctx context.Context, p *Provider) error
	GetProviderByID(ctx context.Context, id string) (*Provider, error)
	GetProviderByUserID(ctx context.Context, userID string) (*Provider, error)
	GetProviderByEmail(ctx context.Context, businessID, email string) (*Provider, error)
	ListProviders(ctx context.Context, businessID string) ([]Provider, error)
	UpdateProvider(ctx context.Context, p *Provider) error
	CountActiveOwners(ctx context.Context, businessID string) (int, error)

	// ------- Services (catálogo) -------
	CreateService(ctx context.Context, s *Service) error
	GetServiceByID(ctx context.Context, id string) (*Service, error)
	ListServices(ctx context.Context, businessID string, f ServiceFilter) ([]Service, error)
	UpdateService(ctx context.Context, s *Service) error
	DeleteService(ctx context.Context, id string) error

	// ServiceCatalogSummary llama la función SQL service_catalog_summary().
	// Retorna ErrNoStoredProc si la función no existe (SQLSTATE 42883).
	ServiceCatalogSummary(ctx context.Context, businessID string) (*CatalogSummary, error)
	// ServiceBookingCounts es el camino de fallback: bookings por servicio.
	ServiceBookingCounts(ctx context.Context, businessID string) (map[string]int, error)

	// ------- Addons -------
	CreateAddon(ctx context.Context, a *Addon) error
	GetAddonByID(ctx context.Context, id string) (*Addon, error)
	ListAddons(ctx context.Context, businessID string, serviceID *string) ([]Addon, error)
	UpdateAddon(ctx context.Context, a *Addon) error
	DeleteAddon(ctx context.Context, id string) error
	AddonCatalogSummary(ctx context.Context, businessID string) (*CatalogSummary, error)
	AddonBookingCounts(ctx context.Context, businessID string) (map[string]int, error)

	// ------- Bookings -------
	CreateBooking(ctx context.Context, b *Booking) error
	GetBookingByID(ctx context.Context, id string) (*Booking, error)
	ListBookings(ctx context.Context, businessID string, f BookingFilter) ([]Booking, error)
	UpdateBookingStatus(ctx context.Context, id, status string) error
	UpdateBookingPayment(ctx context.Context, id, paymentStatus string) error
	SetBookingCheckoutSession(ctx context.Context, id, sessionID string) error

	// ------- Reviews -------
	CreateReview(ctx context.Context, r *Review) error
	GetReviewByID(ctx context.Context, id string) (*Review, error)
	GetReviewByBookingID(ctx context.Context, bookingID string) (*Review, error)
	ListReviews(ctx context.Context, businessID string, f ReviewFilter) ([]Review, error)
	ReviewStats(ctx context.Context, businessID string) (*ReviewStats, error)
	ReplyReview(ctx context.Context, id, reply string) error

	// ------- Documents -------
	CreateDocument(ctx context.Context, d *Document) error
	GetDocumentByID(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context, businessID, status string) ([]Document, error)
	ListDocumentsByStatus(ctx context.Context, status string, limit, offset int) ([]Document, error)
	SetDocumentStatus(ctx context.Context, id, status string, note *string) error

	// ------- Conversations -------
	CreateConversation(ctx context.Context, c *Conversation) error
	GetConversationByID(ctx context.Context, id string) (*Conversation, error)
	ListConversations(ctx context.Context, businessID string) ([]Conversation, error)

	// ConversationOverview llama la función SQL conversation_overview().
	// Retorna ErrNoStoredProc si la función no existe; el service agrega en Go.
	ConversationOverview(ctx context.Context, businessID string) ([]ConversationOverview, error)
	// ListMessagesByBusiness trae todos los mensajes del business (fallback).
	ListMessagesByBusiness(ctx context.Context, businessID string) ([]Message, error)

	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	CreateMessage(ctx context.Context, m *Message) error
	MarkConversationRead(ctx context.Context, conversationID string) error
}
