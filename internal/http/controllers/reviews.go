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

// ReviewController reseñas desde el portal (lectura + respuesta).
type ReviewController struct {
	svc *services.ReviewService
}

func NewReviewController(svc *services.ReviewService) *ReviewController {
	return &ReviewController{svc: svc}
}

// List GET /v1/reviews
func (c *ReviewController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	rows, err := c.svc.List(ctx, biz.ID, core.ReviewFilter{
		MinRating: queryInt(r, "min_rating", 0),
		Limit:     queryInt(r, "limit", 50),
		Offset:    queryInt(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, ctx, "Reviews.List", err)
		return
	}
	out := make([]dto.ReviewResponse, 0, len(rows))
	for i := range rows {
		out = append(out, services.ReviewToDTO(&rows[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"reviews": out})
}

// Stats GET /v1/reviews/stats
func (c *ReviewController) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	resp, err := c.svc.Stats(ctx, biz.ID)
	if err != nil {
		writeDomainError(w, ctx, "Reviews.Stats", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Reply POST /v1/reviews/{id}/reply
func (c *ReviewController) Reply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.ReplyReviewRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	rv, err := c.svc.Reply(ctx, biz, chi.URLParam(r, "id"), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, services.ErrReviewAlreadyReply):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("la reseña ya tiene respuesta"))
		default:
			writeDomainError(w, ctx, "Reviews.Reply", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, services.ReviewToDTO(rv))
}
