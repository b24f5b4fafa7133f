// Package controllers traduce HTTP a llamadas de services: valida método y
// body, mapea errores de dominio a AppError y serializa la respuesta.
package controllers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	httperrors "github.com/dropDatabas3/wellbook/internal/http/errors"
	"github.com/dropDatabas3/wellbook/internal/http/helpers"
	mw "github.com/dropDatabas3/wellbook/internal/http/middlewares"
	"github.com/dropDatabas3/wellbook/internal/http/services"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
)

// AuthController maneja /v1/auth/*.
type AuthController struct {
	svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{svc: svc}
}

// Register POST /v1/auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Register"))

	var req dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.svc.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, services.ErrWeakPassword):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("la contraseña no cumple la política"))
		case errors.Is(err, services.ErrEmailTaken):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("el email ya está registrado"))
		default:
			log.Error("register failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	helpers.NoStore(w)
	helpers.WriteJSON(w, http.StatusCreated, resp)
}

// Login POST /v1/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.svc.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, services.ErrInvalidCredentials):
			httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("credenciales inválidas"))
		case errors.Is(err, services.ErrUserDisabled):
			httperrors.WriteError(w, httperrors.ErrUserDisabled)
		default:
			log.Error("login failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	helpers.NoStore(w)
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Refresh POST /v1/auth/refresh
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Refresh"))

	var req dto.RefreshRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.svc.Refresh(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, services.ErrInvalidRefresh):
			httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("refresh token inválido"))
		case errors.Is(err, services.ErrUserDisabled):
			httperrors.WriteError(w, httperrors.ErrUserDisabled)
		default:
			log.Error("refresh failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	helpers.NoStore(w)
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Logout POST /v1/auth/logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.LogoutRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := c.svc.Logout(ctx, req); err != nil {
		logger.From(ctx).Error("logout failed", logger.Op("Auth.Logout"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me GET /v1/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := mw.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	resp, err := c.svc.Me(ctx, claims)
	if err != nil {
		writeDomainError(w, ctx, "Auth.Me", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
