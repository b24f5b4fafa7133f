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

// DocumentController documentos de compliance del portal.
type DocumentController struct {
	svc *services.DocumentService
}

func NewDocumentController(svc *services.DocumentService) *DocumentController {
	return &DocumentController{svc: svc}
}

// Create POST /v1/documents
func (c *DocumentController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.CreateDocumentRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	d, err := c.svc.Create(ctx, biz, req)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			httperrors.WriteError(w, httperrors.ErrMissingFields)
			return
		}
		writeDomainError(w, ctx, "Documents.Create", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, services.DocumentToDTO(d))
}

// List GET /v1/documents
func (c *DocumentController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	rows, err := c.svc.List(ctx, biz.ID, r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(w, ctx, "Documents.List", err)
		return
	}
	out := make([]dto.DocumentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, services.DocumentToDTO(&rows[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"documents": out})
}
