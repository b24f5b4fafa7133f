package controllers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	httperrors "github.com/dropDatabas3/wellbook/internal/http/errors"
	"github.com/dropDatabas3/wellbook/internal/http/helpers"
	mw "github.com/dropDatabas3/wellbook/internal/http/middlewares"
	"github.com/dropDatabas3/wellbook/internal/http/services"
)

// OnboardingController maneja /v1/onboarding/*.
type OnboardingController struct {
	svc *services.OnboardingService
}

func NewOnboardingController(svc *services.OnboardingService) *OnboardingController {
	return &OnboardingController{svc: svc}
}

// Phase1 POST /v1/onboarding/phase1
func (c *OnboardingController) Phase1(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := mw.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.OnboardingPhase1Request
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	biz, err := c.svc.Phase1(ctx, claims, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, services.ErrInvalidSlug):
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("slug inválido"))
		case errors.Is(err, services.ErrSlugTaken):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("el slug ya está en uso"))
		case errors.Is(err, services.ErrAlreadyOnboarded):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("el usuario ya pertenece a un negocio"))
		default:
			writeDomainError(w, ctx, "Onboarding.Phase1", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, services.BusinessToDTO(biz))
}

// Status GET /v1/onboarding/status
func (c *OnboardingController) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := mw.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	out, err := c.svc.Status(ctx, claims)
	if err != nil {
		writeDomainError(w, ctx, "Onboarding.Status", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Phase2 POST /v1/onboarding/phase2
func (c *OnboardingController) Phase2(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.OnboardingPhase2Request
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	out, err := c.svc.Phase2(ctx, biz, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPhaseOutOfOrder):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("fase 1 pendiente"))
		case errors.Is(err, services.ErrAlreadyOnboarded):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("onboarding ya completado"))
		case errors.Is(err, services.ErrUpstream):
			httperrors.WriteError(w, httperrors.ErrUpstreamFailed)
		default:
			writeDomainError(w, ctx, "Onboarding.Phase2", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.BusinessToDTO(out))
}

// LinkToken POST /v1/onboarding/bank/link-token
func (c *OnboardingController) LinkToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	lt, err := c.svc.LinkToken(ctx, biz)
	if err != nil {
		if errors.Is(err, services.ErrUpstream) {
			httperrors.WriteError(w, httperrors.ErrUpstreamFailed)
			return
		}
		writeDomainError(w, ctx, "Onboarding.LinkToken", err)
		return
	}

	helpers.NoStore(w)
	helpers.WriteJSON(w, http.StatusOK, dto.LinkTokenResponse{
		LinkToken: lt.Token,
		ExpiresAt: lt.ExpiresAt,
	})
}

// ExchangeToken POST /v1/onboarding/bank/exchange
func (c *OnboardingController) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.ExchangeTokenRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.svc.ExchangeToken(ctx, biz, req.PublicToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, services.ErrUpstream):
			httperrors.WriteError(w, httperrors.ErrUpstreamFailed)
		default:
			writeDomainError(w, ctx, "Onboarding.ExchangeToken", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ExchangeTokenResponse{
		AccountMask: res.AccountMask,
		Institution: res.Institution,
	})
}
