package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	httperrors "github.com/dropDatabas3/wellbook/internal/http/errors"
	"github.com/dropDatabas3/wellbook/internal/http/helpers"
	mw "github.com/dropDatabas3/wellbook/internal/http/middlewares"
	"github.com/dropDatabas3/wellbook/internal/http/services"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// BookingController agenda del portal.
type BookingController struct {
	svc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{svc: svc}
}

func writeBookingError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields)
	case errors.Is(err, services.ErrPastSlot):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("el horario ya pasó"))
	case errors.Is(err, services.ErrServiceInactive):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("el servicio no está disponible"))
	case errors.Is(err, services.ErrProviderNotActive):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("el provider no está activo"))
	case errors.Is(err, services.ErrSlotTaken):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("el horario ya está reservado"))
	case errors.Is(err, services.ErrBadTransition):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("transición de estado inválida"))
	default:
		writeDomainError(w, r.Context(), op, err)
	}
}

// Create POST /v1/bookings (portal, a nombre del cliente)
func (c *BookingController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.CreateBookingRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	b, err := c.svc.Create(ctx, biz, req, "portal")
	if err != nil {
		writeBookingError(w, r, "Bookings.Create", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, services.BookingToDTO(b))
}

// List GET /v1/bookings
func (c *BookingController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	f := core.BookingFilter{
		Status:     r.URL.Query().Get("status"),
		ProviderID: r.URL.Query().Get("provider_id"),
		Limit:      queryInt(r, "limit", 50),
		Offset:     queryInt(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("from debe ser RFC3339"))
			return
		}
		f.From = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("to debe ser RFC3339"))
			return
		}
		f.To = &t
	}

	rows, err := c.svc.List(ctx, biz.ID, f)
	if err != nil {
		writeDomainError(w, ctx, "Bookings.List", err)
		return
	}
	resp := dto.BookingListResponse{
		Bookings: make([]dto.BookingResponse, 0, len(rows)),
		Limit:    f.Limit,
		Offset:   f.Offset,
	}
	for i := range rows {
		resp.Bookings = append(resp.Bookings, services.BookingToDTO(&rows[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Get GET /v1/bookings/{id}
func (c *BookingController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	b, err := c.svc.Get(ctx, biz, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, ctx, "Bookings.Get", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.BookingToDTO(b))
}

// UpdateStatus PATCH /v1/bookings/{id}/status
func (c *BookingController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.UpdateBookingStatusRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Status == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}

	b, err := c.svc.UpdateStatus(ctx, biz, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeBookingError(w, r, "Bookings.UpdateStatus", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.BookingToDTO(b))
}
