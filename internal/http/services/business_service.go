package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dropDatabas3/wellbook/internal/cache"
	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// BusinessDeps dependencias del business service.
type BusinessDeps struct {
	Repo  core.Repository
	Cache cache.Client
}

// BusinessService perfil del tenant (portal y vista pública).
type BusinessService struct {
	deps BusinessDeps
}

func NewBusinessService(deps BusinessDeps) *BusinessService {
	return &BusinessService{deps: deps}
}

const publicBizTTL = 5 * time.Minute

// Get devuelve el perfil completo (portal).
func (s *BusinessService) Get(ctx context.Context, biz *core.Business) *dto.BusinessResponse {
	return BusinessToDTO(biz)
}

// Update modifica el perfil e invalida la vista pública cacheada.
func (s *BusinessService) Update(ctx context.Context, biz *core.Business, in dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	if v := strings.TrimSpace(in.Name); v != "" {
		biz.Name = v
	}
	if in.Category != "" {
		biz.Category = in.Category
	}
	if in.Description != "" {
		biz.Description = in.Description
	}
	if in.Email != "" {
		biz.Email = strings.TrimSpace(strings.ToLower(in.Email))
	}
	if in.Phone != "" {
		biz.Phone = in.Phone
	}
	if in.Address != "" {
		biz.Address = in.Address
	}
	if in.City != "" {
		biz.City = in.City
	}
	if in.LogoURL != "" {
		biz.LogoURL = in.LogoURL
	}
	if in.Settings != nil {
		biz.Settings = in.Settings
	}

	if err := s.deps.Repo.UpdateBusiness(ctx, biz); err != nil {
		return nil, err
	}
	if s.deps.Cache != nil {
		_ = s.deps.Cache.Delete(ctx, "pubbiz:"+biz.Slug)
	}
	return BusinessToDTO(biz), nil
}

// GetPublic resuelve la vista pública por slug, con cache.
func (s *BusinessService) GetPublic(ctx context.Context, slug string) (*dto.PublicBusinessResponse, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return nil, core.ErrNotFound
	}

	key := "pubbiz:" + slug
	if s.deps.Cache != nil {
		if raw, err := s.deps.Cache.Get(ctx, key); err == nil {
			var out dto.PublicBusinessResponse
			if json.Unmarshal([]byte(raw), &out) == nil {
				return &out, nil
			}
		}
	}

	biz, err := s.deps.Repo.GetBusinessBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if biz.Status != "active" {
		// Un negocio pending o suspendido no existe para la vista pública.
		return nil, core.ErrNotFound
	}

	out := &dto.PublicBusinessResponse{
		ID:          biz.ID,
		Name:        biz.Name,
		Slug:        biz.Slug,
		Category:    biz.Category,
		Description: biz.Description,
		City:        biz.City,
		LogoURL:     biz.LogoURL,
	}
	if s.deps.Cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.deps.Cache.Set(ctx, key, string(raw), publicBizTTL); err != nil {
				logger.From(ctx).Debug("public business cache set failed", logger.Err(err))
			}
		}
	}
	return out, nil
}

// ResolveActive trae el business activo detrás de un slug. Es el paso de
// entrada de toda la superficie pública.
func (s *BusinessService) ResolveActive(ctx context.Context, slug string) (*core.Business, error) {
	biz, err := s.deps.Repo.GetBusinessBySlug(ctx, strings.TrimSpace(strings.ToLower(slug)))
	if err != nil {
		return nil, err
	}
	if biz.Status != "active" {
		return nil, core.ErrNotFound
	}
	return biz, nil
}

// BusinessToDTO mapea el modelo al response del portal.
func BusinessToDTO(b *core.Business) *dto.BusinessResponse {
	resp := &dto.BusinessResponse{
		ID:              b.ID,
		Name:            b.Name,
		Slug:            b.Slug,
		Category:        b.Category,
		Description:     b.Description,
		Email:           b.Email,
		Phone:           b.Phone,
		Address:         b.Address,
		City:            b.City,
		LogoURL:         b.LogoURL,
		OnboardingPhase: b.OnboardingPhase,
		Status:          b.Status,
		PaymentsReady:   b.PaymentAccountID != nil,
		Settings:        b.Settings,
		CreatedAt:       b.CreatedAt,
	}
	if b.BankAccountRef != nil {
		resp.BankAccountRef = *b.BankAccountRef
	}
	return resp
}
