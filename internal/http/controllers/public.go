package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	httperrors "github.com/dropDatabas3/wellbook/internal/http/errors"
	"github.com/dropDatabas3/wellbook/internal/http/helpers"
	"github.com/dropDatabas3/wellbook/internal/http/services"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// PublicController es la superficie sin autenticación: la página de
// reservas de cada negocio. Todas las rutas cuelgan de /v1/public/{slug}
// y resuelven el tenant por slug; un negocio no activo es 404.
type PublicController struct {
	business *services.BusinessService
	catalog  *services.CatalogService
	bookings *services.BookingService
	reviews  *services.ReviewService
}

func NewPublicController(
	business *services.BusinessService,
	catalog *services.CatalogService,
	bookings *services.BookingService,
	reviews *services.ReviewService,
) *PublicController {
	return &PublicController{
		business: business,
		catalog:  catalog,
		bookings: bookings,
		reviews:  reviews,
	}
}

func (c *PublicController) resolve(w http.ResponseWriter, r *http.Request) *core.Business {
	biz, err := c.business.ResolveActive(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return nil
	}
	return biz
}

// GetBusiness GET /v1/public/{slug}
func (c *PublicController) GetBusiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := c.business.GetPublic(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeDomainError(w, ctx, "Public.GetBusiness", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// ListServices GET /v1/public/{slug}/services
func (c *PublicController) ListServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := c.resolve(w, r)
	if biz == nil {
		return
	}

	rows, err := c.catalog.ListPublicServices(ctx, biz.ID)
	if err != nil {
		writeDomainError(w, ctx, "Public.ListServices", err)
		return
	}
	out := make([]dto.ServiceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, services.ServiceToDTO(&rows[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"services": out})
}

// CreateBooking POST /v1/public/{slug}/bookings
func (c *PublicController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := c.resolve(w, r)
	if biz == nil {
		return
	}

	var req dto.CreateBookingRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	b, err := c.bookings.Create(ctx, biz, req, "public")
	if err != nil {
		writeBookingError(w, r, "Public.CreateBooking", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, services.BookingToDTO(b))
}

// CreateReview POST /v1/public/{slug}/reviews
func (c *PublicController) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := c.resolve(w, r)
	if biz == nil {
		return
	}

	var req dto.CreateReviewRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	rv, err := c.reviews.Create(ctx, biz, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, services.ErrInvalidRating):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("rating debe estar entre 1 y 5"))
		case errors.Is(err, services.ErrBookingNotDone):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("la reserva todavía no está completada"))
		case errors.Is(err, services.ErrAlreadyReviewed):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("la reserva ya tiene reseña"))
		default:
			writeDomainError(w, ctx, "Public.CreateReview", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, services.ReviewToDTO(rv))
}

// ListReviews GET /v1/public/{slug}/reviews
func (c *PublicController) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := c.resolve(w, r)
	if biz == nil {
		return
	}

	rows, err := c.reviews.List(ctx, biz.ID, core.ReviewFilter{
		Limit:  queryInt(r, "limit", 20),
		Offset: queryInt(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, ctx, "Public.ListReviews", err)
		return
	}
	stats, err := c.reviews.Stats(ctx, biz.ID)
	if err != nil {
		writeDomainError(w, ctx, "Public.ListReviews", err)
		return
	}

	out := make([]dto.ReviewResponse, 0, len(rows))
	for i := range rows {
		out = append(out, services.ReviewToDTO(&rows[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"reviews": out,
		"stats":   stats,
	})
}
