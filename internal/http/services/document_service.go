package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// ErrDocReviewed un documento ya revisado no vuelve a pending.
var ErrDocReviewed = fmt.Errorf("document already reviewed")

// DocumentDeps dependencias del document service.
type DocumentDeps struct {
	Repo core.Repository
}

// DocumentService metadata de compliance: el portal sube referencias y la
// consola de admin aprueba o rechaza.
type DocumentService struct {
	deps DocumentDeps
}

func NewDocumentService(deps DocumentDeps) *DocumentService {
	return &DocumentService{deps: deps}
}

// Create registra la referencia de un documento en estado pending.
func (s *DocumentService) Create(ctx context.Context, biz *core.Business, in dto.CreateDocumentRequest) (*core.Document, error) {
	in.Kind = strings.TrimSpace(in.Kind)
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
	if in.Kind == "" || in.Name == "" || in.URL == "" {
		return nil, ErrMissingFields
	}
	if in.ProviderID != nil {
		p, err := s.deps.Repo.GetProviderByID(ctx, *in.ProviderID)
		if err != nil {
			return nil, err
		}
		if p.BusinessID != biz.ID {
			return nil, core.ErrNotFound
		}
	}

	d := &core.Document{
		BusinessID: biz.ID,
		ProviderID: in.ProviderID,
		Kind:       in.Kind,
		Name:       in.Name,
		URL:        in.URL,
	}
	if err := s.deps.Repo.CreateDocument(ctx, d); err != nil {
		return nil, err
	}

	logger.From(ctx).Info("document registered",
		logger.Layer("service"),
		logger.Component("documents"),
		logger.BusinessID(biz.ID),
		logger.ID(d.ID),
		logger.String("kind", d.Kind),
	)
	return d, nil
}

// List documentos del business, filtro opcional por status.
func (s *DocumentService) List(ctx context.Context, businessID, status string) ([]core.Document, error) {
	return s.deps.Repo.ListDocuments(ctx, businessID, status)
}

// PendingQueue es la cola cross-tenant que revisa el admin, FIFO.
func (s *DocumentService) PendingQueue(ctx context.Context, limit, offset int) ([]core.Document, error) {
	return s.deps.Repo.ListDocumentsByStatus(ctx, "pending", limit, offset)
}

// Review aprueba o rechaza. Sólo documentos pending son revisables.
func (s *DocumentService) Review(ctx context.Context, id string, in dto.ReviewDocumentRequest) (*core.Document, error) {
	if in.Status != "approved" && in.Status != "rejected" {
		return nil, core.ErrInvalid
	}

	d, err := s.deps.Repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != "pending" {
		return nil, ErrDocReviewed
	}

	var note *string
	if v := strings.TrimSpace(in.Note); v != "" {
		note = &v
	}
	if err := s.deps.Repo.SetDocumentStatus(ctx, id, in.Status, note); err != nil {
		return nil, err
	}

	logger.From(ctx).Info("document reviewed",
		logger.Layer("service"),
		logger.Component("documents"),
		logger.ID(id),
		logger.String("status", in.Status),
	)
	return s.deps.Repo.GetDocumentByID(ctx, id)
}

// DocumentToDTO mapea el modelo al response.
func DocumentToDTO(d *core.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:         d.ID,
		BusinessID: d.BusinessID,
		ProviderID: d.ProviderID,
		Kind:       d.Kind,
		Name:       d.Name,
		URL:        d.URL,
		Status:     d.Status,
		ReviewNote: d.ReviewNote,
		CreatedAt:  d.CreatedAt,
		ReviewedAt: d.ReviewedAt,
	}
}
