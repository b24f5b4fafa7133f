// Package router arma el árbol de rutas de la API sobre chi y cuelga la
// cadena de middlewares global.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/wellbook/internal/http/controllers"
	httperrors "github.com/dropDatabas3/wellbook/internal/http/errors"
	mw "github.com/dropDatabas3/wellbook/internal/http/middlewares"
	"github.com/dropDatabas3/wellbook/internal/jwt"
	"github.com/dropDatabas3/wellbook/internal/metrics"
	"github.com/dropDatabas3/wellbook/internal/rate"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// Controllers agrupa todos los controllers que monta el router.
type Controllers struct {
	Auth          *controllers.AuthController
	Onboarding    *controllers.OnboardingController
	Business      *controllers.BusinessController
	Providers     *controllers.ProviderController
	Catalog       *controllers.CatalogController
	Bookings      *controllers.BookingController
	Reviews       *controllers.ReviewController
	Documents     *controllers.DocumentController
	Conversations *controllers.ConversationController
	Payments      *controllers.PaymentController
	Public        *controllers.PublicController
	Admin         *controllers.AdminController
	Health        *controllers.HealthController
}

// Deps lo que el router necesita además de los controllers.
type Deps struct {
	Repo           core.Repository
	Issuer         *jwt.Issuer
	AdminAPIKey    string
	CORSOrigins    []string
	MetricsHandler http.Handler

	// Limiters por endpoint; nil = sin límite.
	LoginLimiter    rate.Limiter
	RegisterLimiter rate.Limiter
	InviteLimiter   rate.Limiter
	PublicLimiter   rate.Limiter
}

// New arma el router completo.
func New(c Controllers, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// Operacional, fuera de /v1 y sin rate limit.
	r.Get("/healthz", c.Health.Healthz)
	r.Get("/readyz", c.Health.Readyz)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	requireAuth := mw.RequireAuth(deps.Issuer)
	requireBusiness := mw.RequireBusiness(deps.Repo)
	staffOnly := mw.RequireRole("owner", "dispatcher", "provider")
	managersOnly := mw.RequireRole("owner", "dispatcher")
	ownersOnly := mw.RequireRole("owner")

	r.Route("/v1", func(r chi.Router) {
		// ─── Auth ───
		r.Route("/auth", func(r chi.Router) {
			r.With(limit(deps.RegisterLimiter)).Post("/register", c.Auth.Register)
			r.With(limit(deps.LoginLimiter)).Post("/login", c.Auth.Login)
			r.Post("/refresh", c.Auth.Refresh)
			r.Post("/logout", c.Auth.Logout)
			r.With(requireAuth).Get("/me", c.Auth.Me)
		})

		// ─── Onboarding ───
		r.Route("/onboarding", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/phase1", c.Onboarding.Phase1)
			r.Get("/status", c.Onboarding.Status)
			r.Group(func(r chi.Router) {
				r.Use(requireBusiness, ownersOnly)
				r.Post("/phase2", c.Onboarding.Phase2)
				r.Post("/bank/link-token", c.Onboarding.LinkToken)
				r.Post("/bank/exchange", c.Onboarding.ExchangeToken)
			})
		})

		// ─── Superficie pública (sin auth) ───
		r.Route("/public/{slug}", func(r chi.Router) {
			r.Use(limit(deps.PublicLimiter))
			r.Get("/", c.Public.GetBusiness)
			r.Get("/services", c.Public.ListServices)
			r.Post("/bookings", c.Public.CreateBooking)
			r.Get("/reviews", c.Public.ListReviews)
			r.Post("/reviews", c.Public.CreateReview)
		})

		// AcceptInvite es público: el token HMAC autentica.
		r.Post("/providers/accept-invite", c.Providers.AcceptInvite)

		// Webhook del procesador: la firma autentica.
		r.Post("/payments/webhook", c.Payments.Webhook)

		// ─── Portal (staff autenticado de un business) ───
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireBusiness, staffOnly)

			r.Get("/business", c.Business.Get)
			r.With(ownersOnly).Patch("/business", c.Business.Update)

			r.Route("/providers", func(r chi.Router) {
				r.Get("/", c.Providers.List)
				r.With(ownersOnly, limit(deps.InviteLimiter)).Post("/invite", c.Providers.Invite)
				r.With(ownersOnly).Patch("/{id}", c.Providers.Update)
				r.With(ownersOnly).Delete("/{id}", c.Providers.Deactivate)
			})

			r.Route("/services", func(r chi.Router) {
				r.Get("/", c.Catalog.ListServices)
				r.Get("/summary", c.Catalog.ServiceSummary)
				r.Get("/{id}", c.Catalog.GetService)
				r.With(managersOnly).Post("/", c.Catalog.CreateService)
				r.With(managersOnly).Patch("/{id}", c.Catalog.UpdateService)
				r.With(managersOnly).Delete("/{id}", c.Catalog.DeleteService)
			})

			r.Route("/addons", func(r chi.Router) {
				r.Get("/", c.Catalog.ListAddons)
				r.Get("/summary", c.Catalog.AddonSummary)
				r.Get("/{id}", c.Catalog.GetAddon)
				r.With(managersOnly).Post("/", c.Catalog.CreateAddon)
				r.With(managersOnly).Patch("/{id}", c.Catalog.UpdateAddon)
				r.With(managersOnly).Delete("/{id}", c.Catalog.DeleteAddon)
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", c.Bookings.List)
				r.Post("/", c.Bookings.Create)
				r.Get("/{id}", c.Bookings.Get)
				r.Patch("/{id}/status", c.Bookings.UpdateStatus)
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", c.Reviews.List)
				r.Get("/stats", c.Reviews.Stats)
				r.With(managersOnly).Post("/{id}/reply", c.Reviews.Reply)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", c.Documents.List)
				r.Post("/", c.Documents.Create)
			})

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", c.Conversations.Overview)
				r.Post("/", c.Conversations.Create)
				r.Get("/{id}/messages", c.Conversations.Messages)
				r.Post("/{id}/messages", c.Conversations.SendMessage)
				r.Post("/{id}/read", c.Conversations.MarkRead)
			})

			r.With(managersOnly).Post("/payments/checkout", c.Payments.Checkout)
		})

		// ─── Consola de plataforma ───
		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.RequireAdminKey(deps.AdminAPIKey))
			r.Get("/businesses", c.Admin.ListBusinesses)
			r.Get("/businesses/{id}", c.Admin.GetBusiness)
			r.Patch("/businesses/{id}/status", c.Admin.SetBusinessStatus)
			r.Get("/stats", c.Admin.Stats)
			r.Get("/documents", c.Admin.PendingDocuments)
			r.Patch("/documents/{id}", c.Admin.ReviewDocument)
		})
	})

	// Cadena global, de afuera hacia adentro: request ID primero para que
	// todo lo demás loguee con él.
	return mw.Chain(r,
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		mw.WithCORS(deps.CORSOrigins),
		metrics.WithHTTP,
	)
}

// limit arma el middleware de rate limit por endpoint; nil pasa de largo.
func limit(l rate.Limiter) mw.Middleware {
	return mw.WithRateLimit(mw.RateLimitConfig{
		Limiter: l,
		KeyFunc: mw.IPPathRateKey,
	})
}
