package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	httperrors "github.com/dropDatabas3/wellbook/internal/http/errors"
	"github.com/dropDatabas3/wellbook/internal/http/helpers"
	mw "github.com/dropDatabas3/wellbook/internal/http/middlewares"
	"github.com/dropDatabas3/wellbook/internal/http/services"
)

// ProviderController staff del business.
type ProviderController struct {
	svc *services.ProviderService
}

func NewProviderController(svc *services.ProviderService) *ProviderController {
	return &ProviderController{svc: svc}
}

// Invite POST /v1/providers/invite
func (c *ProviderController) Invite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.InviteProviderRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	p, err := c.svc.Invite(ctx, biz, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, services.ErrInvalidRole):
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("rol inválido"))
		case errors.Is(err, services.ErrAlreadyInvited):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("ya existe un provider con ese email"))
		default:
			writeDomainError(w, ctx, "Providers.Invite", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.InviteProviderResponse{
		Provider: services.ProviderToDTO(p),
	})
}

// AcceptInvite POST /v1/providers/accept-invite (público, el token autentica)
func (c *ProviderController) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.AcceptInviteRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	p, err := c.svc.AcceptInvite(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("password requerido para cuenta nueva"))
		case errors.Is(err, services.ErrInviteExpired):
			httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("la invitación expiró"))
		case errors.Is(err, services.ErrInviteInvalid):
			httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("invitación inválida"))
		case errors.Is(err, services.ErrInviteConsumed):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("la invitación ya fue usada"))
		default:
			writeDomainError(w, ctx, "Providers.AcceptInvite", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.ProviderToDTO(p))
}

// List GET /v1/providers
func (c *ProviderController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	rows, err := c.svc.List(ctx, biz.ID)
	if err != nil {
		writeDomainError(w, ctx, "Providers.List", err)
		return
	}
	out := make([]dto.ProviderResponse, 0, len(rows))
	for i := range rows {
		out = append(out, services.ProviderToDTO(&rows[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"providers": out})
}

// Update PATCH /v1/providers/{id}
func (c *ProviderController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.UpdateProviderRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	p, err := c.svc.Update(ctx, biz, chi.URLParam(r, "id"), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("rol inválido"))
		case errors.Is(err, services.ErrLastOwner):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("no se puede degradar al último owner"))
		default:
			writeDomainError(w, ctx, "Providers.Update", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.ProviderToDTO(p))
}

// Deactivate DELETE /v1/providers/{id}: baja lógica (status=disabled). La
// fila queda para el historial de bookings.
func (c *ProviderController) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	_, err := c.svc.Update(ctx, biz, chi.URLParam(r, "id"), dto.UpdateProviderRequest{Status: "disabled"})
	if err != nil {
		if errors.Is(err, services.ErrLastOwner) {
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("no se puede dar de baja al último owner"))
			return
		}
		writeDomainError(w, ctx, "Providers.Deactivate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
