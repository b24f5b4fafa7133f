package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	httperrors "github.com/dropDatabas3/wellbook/internal/http/errors"
	"github.com/dropDatabas3/wellbook/internal/http/helpers"
	"github.com/dropDatabas3/wellbook/internal/http/services"
)

// AdminController consola de plataforma (protegida por API key).
type AdminController struct {
	svc  *services.AdminService
	docs *services.DocumentService
}

func NewAdminController(svc *services.AdminService, docs *services.DocumentService) *AdminController {
	return &AdminController{svc: svc, docs: docs}
}

// ListBusinesses GET /v1/admin/businesses
func (c *AdminController) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := c.svc.ListBusinesses(ctx,
		r.URL.Query().Get("status"),
		queryInt(r, "limit", 50),
		queryInt(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, ctx, "Admin.ListBusinesses", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// GetBusiness GET /v1/admin/businesses/{id}
func (c *AdminController) GetBusiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	biz, err := c.svc.GetBusiness(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, ctx, "Admin.GetBusiness", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.BusinessToDTO(biz))
}

// SetBusinessStatus PATCH /v1/admin/businesses/{id}/status
func (c *AdminController) SetBusinessStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.SetBusinessStatusRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	biz, err := c.svc.SetStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeDomainError(w, ctx, "Admin.SetBusinessStatus", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.BusinessToDTO(biz))
}

// Stats GET /v1/admin/stats
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := c.svc.Stats(ctx)
	if err != nil {
		writeDomainError(w, ctx, "Admin.Stats", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// PendingDocuments GET /v1/admin/documents
func (c *AdminController) PendingDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := c.docs.PendingQueue(ctx, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		writeDomainError(w, ctx, "Admin.PendingDocuments", err)
		return
	}
	out := make([]dto.DocumentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, services.DocumentToDTO(&rows[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"documents": out})
}

// ReviewDocument PATCH /v1/admin/documents/{id}
func (c *AdminController) ReviewDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ReviewDocumentRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	d, err := c.docs.Review(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, services.ErrDocReviewed) {
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("el documento ya fue revisado"))
			return
		}
		writeDomainError(w, ctx, "Admin.ReviewDocument", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.DocumentToDTO(d))
}
