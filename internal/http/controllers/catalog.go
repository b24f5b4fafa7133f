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
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// CatalogController servicios y addons del catálogo.
type CatalogController struct {
	svc *services.CatalogService
}

func NewCatalogController(svc *services.CatalogService) *CatalogController {
	return &CatalogController{svc: svc}
}

func (c *CatalogController) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields)
	case errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidDuration),
		errors.Is(err, services.ErrAddonService):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	default:
		writeDomainError(w, r.Context(), op, err)
	}
}

// ─── Services ───

// CreateService POST /v1/services
func (c *CatalogController) CreateService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.CreateServiceRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	svc, err := c.svc.CreateService(ctx, biz, req)
	if err != nil {
		c.writeError(w, r, "Catalog.CreateService", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, services.ServiceToDTO(svc))
}

// ListServices GET /v1/services
func (c *CatalogController) ListServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	f := core.ServiceFilter{Category: r.URL.Query().Get("category")}
	switch r.URL.Query().Get("active") {
	case "true":
		v := true
		f.Active = &v
	case "false":
		v := false
		f.Active = &v
	}

	rows, err := c.svc.ListServices(ctx, biz.ID, f)
	if err != nil {
		writeDomainError(w, ctx, "Catalog.ListServices", err)
		return
	}
	out := make([]dto.ServiceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, services.ServiceToDTO(&rows[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"services": out})
}

// GetService GET /v1/services/{id}
func (c *CatalogController) GetService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	svc, err := c.svc.GetService(ctx, biz, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, ctx, "Catalog.GetService", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.ServiceToDTO(svc))
}

// UpdateService PATCH /v1/services/{id}
func (c *CatalogController) UpdateService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.UpdateServiceRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	svc, err := c.svc.UpdateService(ctx, biz, chi.URLParam(r, "id"), req)
	if err != nil {
		c.writeError(w, r, "Catalog.UpdateService", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.ServiceToDTO(svc))
}

// DeleteService DELETE /v1/services/{id}
func (c *CatalogController) DeleteService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	if err := c.svc.DeleteService(ctx, biz, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, ctx, "Catalog.DeleteService", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServiceSummary GET /v1/services/summary
func (c *CatalogController) ServiceSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	resp, err := c.svc.ServiceSummary(ctx, biz.ID)
	if err != nil {
		writeDomainError(w, ctx, "Catalog.ServiceSummary", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// ─── Addons ───

// CreateAddon POST /v1/addons
func (c *CatalogController) CreateAddon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.CreateAddonRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	a, err := c.svc.CreateAddon(ctx, biz, req)
	if err != nil {
		c.writeError(w, r, "Catalog.CreateAddon", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, services.AddonToDTO(a))
}

// ListAddons GET /v1/addons
func (c *CatalogController) ListAddons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var serviceID *string
	if v := r.URL.Query().Get("service_id"); v != "" {
		serviceID = &v
	}
	rows, err := c.svc.ListAddons(ctx, biz.ID, serviceID)
	if err != nil {
		writeDomainError(w, ctx, "Catalog.ListAddons", err)
		return
	}
	out := make([]dto.AddonResponse, 0, len(rows))
	for i := range rows {
		out = append(out, services.AddonToDTO(&rows[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"addons": out})
}

// GetAddon GET /v1/addons/{id}
func (c *CatalogController) GetAddon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	a, err := c.svc.GetAddon(ctx, biz, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, ctx, "Catalog.GetAddon", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.AddonToDTO(a))
}

// UpdateAddon PATCH /v1/addons/{id}
func (c *CatalogController) UpdateAddon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.UpdateAddonRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	a, err := c.svc.UpdateAddon(ctx, biz, chi.URLParam(r, "id"), req)
	if err != nil {
		c.writeError(w, r, "Catalog.UpdateAddon", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.AddonToDTO(a))
}

// DeleteAddon DELETE /v1/addons/{id}
func (c *CatalogController) DeleteAddon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	if err := c.svc.DeleteAddon(ctx, biz, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, ctx, "Catalog.DeleteAddon", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddonSummary GET /v1/addons/summary
func (c *CatalogController) AddonSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	resp, err := c.svc.AddonSummary(ctx, biz.ID)
	if err != nil {
		writeDomainError(w, ctx, "Catalog.AddonSummary", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
