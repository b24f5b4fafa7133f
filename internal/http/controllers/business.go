package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/http/helpers"
	mw "github.com/dropDatabas3/wellbook/internal/http/middlewares"
	"github.com/dropDatabas3/wellbook/internal/http/services"
)

// BusinessController perfil del tenant y vista pública.
type BusinessController struct {
	svc *services.BusinessService
}

func NewBusinessController(svc *services.BusinessService) *BusinessController {
	return &BusinessController{svc: svc}
}

// Get GET /v1/business
func (c *BusinessController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	helpers.WriteJSON(w, http.StatusOK, c.svc.Get(ctx, mw.MustGetBusiness(ctx)))
}

// Update PATCH /v1/business
func (c *BusinessController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.UpdateBusinessRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.svc.Update(ctx, biz, req)
	if err != nil {
		writeDomainError(w, ctx, "Business.Update", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// GetPublic GET /v1/public/{slug}
func (c *BusinessController) GetPublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := c.svc.GetPublic(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeDomainError(w, ctx, "Business.GetPublic", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
