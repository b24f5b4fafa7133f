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

// ConversationController inbox del portal.
type ConversationController struct {
	svc *services.ConversationService
}

func NewConversationController(svc *services.ConversationService) *ConversationController {
	return &ConversationController{svc: svc}
}

// Create POST /v1/conversations
func (c *ConversationController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.CreateConversationRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	conv, err := c.svc.Create(ctx, biz, req)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			httperrors.WriteError(w, httperrors.ErrMissingFields)
			return
		}
		writeDomainError(w, ctx, "Conversations.Create", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, services.ConversationToDTO(conv))
}

// Overview GET /v1/conversations
func (c *ConversationController) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	resp, err := c.svc.Overview(ctx, biz.ID)
	if err != nil {
		writeDomainError(w, ctx, "Conversations.Overview", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Messages GET /v1/conversations/{id}/messages
func (c *ConversationController) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	rows, err := c.svc.Messages(ctx, biz, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, ctx, "Conversations.Messages", err)
		return
	}
	out := make([]dto.MessageResponse, 0, len(rows))
	for i := range rows {
		out = append(out, services.MessageToDTO(&rows[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"messages": out})
}

// SendMessage POST /v1/conversations/{id}/messages
func (c *ConversationController) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	var req dto.SendMessageRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	m, err := c.svc.SendMessage(ctx, biz, chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			httperrors.WriteError(w, httperrors.ErrMissingFields)
			return
		}
		writeDomainError(w, ctx, "Conversations.SendMessage", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, services.MessageToDTO(m))
}

// MarkRead POST /v1/conversations/{id}/read
func (c *ConversationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	biz := mw.MustGetBusiness(ctx)

	if err := c.svc.MarkRead(ctx, biz, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, ctx, "Conversations.MarkRead", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
