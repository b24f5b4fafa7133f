package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/wellbook/internal/cache"
	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// Errores de catálogo
var (
	ErrInvalidPrice    = fmt.Errorf("price must be >= 0")
	ErrInvalidDuration = fmt.Errorf("duration must be > 0")
	ErrAddonService    = fmt.Errorf("addon references a service of another business")
)

const catalogSummaryTTL = 60 * time.Second

// CatalogDeps dependencias del catálogo.
type CatalogDeps struct {
	Repo  core.Repository
	Cache cache.Client
}

// CatalogService CRUD de servicios y addons, más los summaries
// optimizados con fallback en Go.
type CatalogService struct {
	deps CatalogDeps
}

func NewCatalogService(deps CatalogDeps) *CatalogService {
	return &CatalogService{deps: deps}
}

// ─── Services ───

func (s *CatalogService) CreateService(ctx context.Context, biz *core.Business, in dto.CreateServiceRequest) (*core.Service, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrMissingFields
	}
	if in.DurationMin <= 0 {
		return nil, ErrInvalidDuration
	}
	if in.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if in.Currency == "" {
		in.Currency = "usd"
	}

	svc := &core.Service{
		BusinessID:  biz.ID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		DurationMin: in.DurationMin,
		PriceCents:  in.PriceCents,
		Currency:    strings.ToLower(in.Currency),
		Active:      true,
	}
	if in.Active != nil {
		svc.Active = *in.Active
	}
	if err := s.deps.Repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, biz.ID)

	logger.From(ctx).Info("service created",
		logger.Layer("service"),
		logger.Component("catalog"),
		logger.BusinessID(biz.ID),
		logger.ServiceID(svc.ID),
	)
	return svc, nil
}

func (s *CatalogService) GetService(ctx context.Context, biz *core.Business, id string) (*core.Service, error) {
	svc, err := s.deps.Repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.BusinessID != biz.ID {
		return nil, core.ErrNotFound
	}
	return svc, nil
}

func (s *CatalogService) ListServices(ctx context.Context, businessID string, f core.ServiceFilter) ([]core.Service, error) {
	return s.deps.Repo.ListServices(ctx, businessID, f)
}

// ListPublicServices es la vista del sitio público: sólo activos.
func (s *CatalogService) ListPublicServices(ctx context.Context, businessID string) ([]core.Service, error) {
	active := true
	return s.deps.Repo.ListServices(ctx, businessID, core.ServiceFilter{Active: &active})
}

func (s *CatalogService) UpdateService(ctx context.Context, biz *core.Business, id string, in dto.UpdateServiceRequest) (*core.Service, error) {
	svc, err := s.GetService(ctx, biz, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return nil, ErrMissingFields
		}
		svc.Name = v
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if in.Category != nil {
		svc.Category = *in.Category
	}
	if in.DurationMin != nil {
		if *in.DurationMin <= 0 {
			return nil, ErrInvalidDuration
		}
		svc.DurationMin = *in.DurationMin
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return nil, ErrInvalidPrice
		}
		svc.PriceCents = *in.PriceCents
	}
	if in.Currency != nil && *in.Currency != "" {
		svc.Currency = strings.ToLower(*in.Currency)
	}
	if in.Active != nil {
		svc.Active = *in.Active
	}

	if err := s.deps.Repo.UpdateService(ctx, svc); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, biz.ID)
	return svc, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, biz *core.Business, id string) error {
	if _, err := s.GetService(ctx, biz, id); err != nil {
		return err
	}
	if err := s.deps.Repo.DeleteService(ctx, id); err != nil {
		return err
	}
	s.invalidateSummary(ctx, biz.ID)
	return nil
}

// ServiceSummary arma el resumen del catálogo. Primero intenta la función
// SQL service_catalog_summary(); si la base no la tiene (42883), agrega en
// Go con dos queries y marca source=fallback.
func (s *CatalogService) ServiceSummary(ctx context.Context, businessID string) (*dto.CatalogSummaryResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("catalog"),
		logger.Op("ServiceSummary"),
		logger.BusinessID(businessID),
	)

	key := "catsum:" + businessID
	if cached := s.cachedSummary(ctx, key); cached != nil {
		return cached, nil
	}

	var resp *dto.CatalogSummaryResponse
	sum, err := s.deps.Repo.ServiceCatalogSummary(ctx, businessID)
	switch {
	case err == nil:
		resp = summaryToDTO(sum, "sql")
	case errors.Is(err, core.ErrNoStoredProc):
		log.Warn("service_catalog_summary missing, using fallback")
		items, lerr := s.deps.Repo.ListServices(ctx, businessID, core.ServiceFilter{})
		if lerr != nil {
			return nil, lerr
		}
		counts, cerr := s.deps.Repo.ServiceBookingCounts(ctx, businessID)
		if cerr != nil {
			return nil, cerr
		}
		out := &core.CatalogSummary{Total: len(items)}
		for _, it := range items {
			if it.Active {
				out.Active++
			}
			out.Items = append(out.Items, core.CatalogItemStats{
				ID:           it.ID,
				Name:         it.Name,
				PriceCents:   it.PriceCents,
				Active:       it.Active,
				BookingCount: counts[it.ID],
			})
		}
		resp = summaryToDTO(out, "fallback")
	default:
		return nil, err
	}

	s.storeSummary(ctx, key, resp)
	return resp, nil
}

// ─── Addons ───

func (s *CatalogService) CreateAddon(ctx context.Context, biz *core.Business, in dto.CreateAddonRequest) (*core.Addon, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrMissingFields
	}
	if in.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if in.ServiceID != nil {
		svc, err := s.deps.Repo.GetServiceByID(ctx, *in.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc.BusinessID != biz.ID {
			return nil, ErrAddonService
		}
	}

	a := &core.Addon{
		BusinessID: biz.ID,
		ServiceID:  in.ServiceID,
		Name:       in.Name,
		PriceCents: in.PriceCents,
		Active:     true,
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	if err := s.deps.Repo.CreateAddon(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) ListAddons(ctx context.Context, businessID string, serviceID *string) ([]core.Addon, error) {
	return s.deps.Repo.ListAddons(ctx, businessID, serviceID)
}

func (s *CatalogService) GetAddon(ctx context.Context, biz *core.Business, id string) (*core.Addon, error) {
	a, err := s.deps.Repo.GetAddonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.BusinessID != biz.ID {
		return nil, core.ErrNotFound
	}
	return a, nil
}

func (s *CatalogService) UpdateAddon(ctx context.Context, biz *core.Business, id string, in dto.UpdateAddonRequest) (*core.Addon, error) {
	a, err := s.GetAddon(ctx, biz, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return nil, ErrMissingFields
		}
		a.Name = v
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return nil, ErrInvalidPrice
		}
		a.PriceCents = *in.PriceCents
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	if err := s.deps.Repo.UpdateAddon(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) DeleteAddon(ctx context.Context, biz *core.Business, id string) error {
	if _, err := s.GetAddon(ctx, biz, id); err != nil {
		return err
	}
	return s.deps.Repo.DeleteAddon(ctx, id)
}

// AddonSummary es el resumen de addons, mismo contrato que ServiceSummary.
func (s *CatalogService) AddonSummary(ctx context.Context, businessID string) (*dto.CatalogSummaryResponse, error) {
	sum, err := s.deps.Repo.AddonCatalogSummary(ctx, businessID)
	if err == nil {
		return summaryToDTO(sum, "sql"), nil
	}
	if !errors.Is(err, core.ErrNoStoredProc) {
		return nil, err
	}
	logger.From(ctx).Warn("addon_catalog_summary missing, using fallback",
		logger.Component("catalog"), logger.BusinessID(businessID))

	items, err := s.deps.Repo.ListAddons(ctx, businessID, nil)
	if err != nil {
		return nil, err
	}
	counts, err := s.deps.Repo.AddonBookingCounts(ctx, businessID)
	if err != nil {
		return nil, err
	}

	out := &core.CatalogSummary{Total: len(items)}
	for _, it := range items {
		if it.Active {
			out.Active++
		}
		out.Items = append(out.Items, core.CatalogItemStats{
			ID:           it.ID,
			Name:         it.Name,
			PriceCents:   it.PriceCents,
			Active:       it.Active,
			BookingCount: counts[it.ID],
		})
	}
	return summaryToDTO(out, "fallback"), nil
}

func (s *CatalogService) invalidateSummary(ctx context.Context, businessID string) {
	if s.deps.Cache == nil {
		return
	}
	_ = s.deps.Cache.Delete(ctx, "catsum:"+businessID)
}

func (s *CatalogService) cachedSummary(ctx context.Context, key string) *dto.CatalogSummaryResponse {
	if s.deps.Cache == nil {
		return nil
	}
	raw, err := s.deps.Cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var out dto.CatalogSummaryResponse
	if json.Unmarshal([]byte(raw), &out) != nil {
		return nil
	}
	return &out
}

func (s *CatalogService) storeSummary(ctx context.Context, key string, resp *dto.CatalogSummaryResponse) {
	if s.deps.Cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.deps.Cache.Set(ctx, key, string(raw), catalogSummaryTTL); err != nil {
		logger.From(ctx).Debug("catalog summary cache set failed", logger.Err(err))
	}
}

func summaryToDTO(sum *core.CatalogSummary, source string) *dto.CatalogSummaryResponse {
	resp := &dto.CatalogSummaryResponse{
		Total:  sum.Total,
		Active: sum.Active,
		Source: source,
		Items:  make([]dto.CatalogItemResponse, 0, len(sum.Items)),
	}
	for _, it := range sum.Items {
		resp.Items = append(resp.Items, dto.CatalogItemResponse{
			ID:           it.ID,
			Name:         it.Name,
			PriceCents:   it.PriceCents,
			Active:       it.Active,
			BookingCount: it.BookingCount,
		})
	}
	return resp
}

// ServiceToDTO mapea el modelo al response.
func ServiceToDTO(v *core.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Category:    v.Category,
		DurationMin: v.DurationMin,
		PriceCents:  v.PriceCents,
		Currency:    v.Currency,
		Active:      v.Active,
		CreatedAt:   v.CreatedAt,
	}
}

// AddonToDTO mapea el modelo al response.
func AddonToDTO(a *core.Addon) dto.AddonResponse {
	return dto.AddonResponse{
		ID:         a.ID,
		ServiceID:  a.ServiceID,
		Name:       a.Name,
		PriceCents: a.PriceCents,
		Active:     a.Active,
		CreatedAt:  a.CreatedAt,
	}
}
