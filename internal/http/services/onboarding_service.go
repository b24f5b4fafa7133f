package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dropDatabas3/wellbook/internal/banklink"
	"github.com/dropDatabas3/wellbook/internal/http/dto"
	jwtx "github.com/dropDatabas3/wellbook/internal/jwt"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/payments"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// Errores de onboarding
var (
	ErrSlugTaken        = fmt.Errorf("slug already in use")
	ErrInvalidSlug      = fmt.Errorf("invalid slug")
	ErrAlreadyOnboarded = fmt.Errorf("business already created")
	ErrPhaseOutOfOrder  = fmt.Errorf("onboarding phase out of order")
	ErrUpstream         = fmt.Errorf("upstream provider failed")
)

var slugRE = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{1,46}[a-z0-9])?$`)

// OnboardingDeps dependencias del onboarding.
type OnboardingDeps struct {
	Repo     core.Repository
	Issuer   *jwtx.Issuer
	Payments *payments.Client
	Banklink *banklink.Client
}

// OnboardingService maneja las dos fases de alta de un business.
// Fase 1 crea el tenant con su owner; fase 2 completa perfil y deja la
// cuenta de pagos creada en el procesador.
type OnboardingService struct {
	deps OnboardingDeps
}

func NewOnboardingService(deps OnboardingDeps) *OnboardingService {
	return &OnboardingService{deps: deps}
}

// Phase1 crea el business y al usuario como owner activo. El caller debe
// re-loguear (o refrescar) para obtener un token con bid/role.
func (s *OnboardingService) Phase1(ctx context.Context, claims *jwtx.Claims, in dto.OnboardingPhase1Request) (*core.Business, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("onboarding"),
		logger.Op("Phase1"),
		logger.UserID(claims.UserID),
	)

	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(strings.ToLower(in.Slug))
	if in.Name == "" || in.Slug == "" {
		return nil, ErrMissingFields
	}
	if !slugRE.MatchString(in.Slug) {
		return nil, ErrInvalidSlug
	}

	// Un usuario arma un solo business: si ya es staff en alguno, 409.
	if _, err := s.deps.Repo.GetProviderByUserID(ctx, claims.UserID); err == nil {
		return nil, ErrAlreadyOnboarded
	}

	u, err := s.deps.Repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	biz := &core.Business{
		Name:     in.Name,
		Slug:     in.Slug,
		Category: in.Category,
		Email:    in.Email,
		Phone:    in.Phone,
		City:     in.City,
	}
	if err := s.deps.Repo.CreateBusiness(ctx, biz); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	owner := &core.Provider{
		BusinessID: biz.ID,
		UserID:     &u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       "owner",
		Status:     "active",
	}
	if err := s.deps.Repo.CreateProvider(ctx, owner); err != nil {
		return nil, err
	}

	log.Info("business created",
		logger.BusinessID(biz.ID),
		logger.BusinessSlug(biz.Slug),
	)
	return biz, nil
}

// Phase2 completa el perfil y crea la cuenta en el procesador de pagos.
// Requiere fase 1 hecha; repetirla es 409.
func (s *OnboardingService) Phase2(ctx context.Context, biz *core.Business, in dto.OnboardingPhase2Request) (*core.Business, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("onboarding"),
		logger.Op("Phase2"),
		logger.BusinessID(biz.ID),
	)

	if biz.OnboardingPhase < 1 {
		return nil, ErrPhaseOutOfOrder
	}
	if biz.OnboardingPhase >= 2 {
		return nil, ErrAlreadyOnboarded
	}

	biz.Description = strings.TrimSpace(in.Description)
	biz.Address = strings.TrimSpace(in.Address)
	biz.LogoURL = strings.TrimSpace(in.LogoURL)
	if in.Settings != nil {
		biz.Settings = in.Settings
	}
	if err := s.deps.Repo.UpdateBusiness(ctx, biz); err != nil {
		return nil, err
	}

	// Cuenta conectada en el procesador. Si el upstream falla, la fase no
	// avanza y el cliente puede reintentar.
	if s.deps.Payments != nil && biz.PaymentAccountID == nil {
		acct, err := s.deps.Payments.CreateAccount(ctx, biz.Name, biz.Email)
		if err != nil {
			log.Error("payment account creation failed", logger.Err(err))
			return nil, ErrUpstream
		}
		if err := s.deps.Repo.SetPaymentAccount(ctx, biz.ID, acct.ID); err != nil {
			return nil, err
		}
		biz.PaymentAccountID = &acct.ID
	}

	if err := s.deps.Repo.SetOnboardingPhase(ctx, biz.ID, 2); err != nil {
		return nil, err
	}
	biz.OnboardingPhase = 2

	log.Info("onboarding completed")
	return biz, nil
}

// Status informa en qué fase del onboarding está el usuario. Sin membresía
// todavía no hay business: fase 0, próximo paso phase1.
func (s *OnboardingService) Status(ctx context.Context, claims *jwtx.Claims) (*dto.OnboardingStatusResponse, error) {
	p, err := s.deps.Repo.GetProviderByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return &dto.OnboardingStatusResponse{Phase: 0, NextStep: "phase1"}, nil
		}
		return nil, err
	}

	biz, err := s.deps.Repo.GetBusinessByID(ctx, p.BusinessID)
	if err != nil {
		return nil, err
	}

	out := &dto.OnboardingStatusResponse{
		BusinessID: biz.ID,
		Phase:      biz.OnboardingPhase,
		Status:     biz.Status,
	}
	if biz.OnboardingPhase < 2 {
		out.NextStep = "phase2"
	} else {
		out.Complete = true
	}
	return out, nil
}

// LinkToken crea el token para el widget de bank-linking (fase 2).
func (s *OnboardingService) LinkToken(ctx context.Context, biz *core.Business) (*banklink.LinkToken, error) {
	if s.deps.Banklink == nil {
		return nil, ErrUpstream
	}
	lt, err := s.deps.Banklink.CreateLinkToken(ctx, biz.ID)
	if err != nil {
		logger.From(ctx).Error("link token failed", logger.Err(err), logger.BusinessID(biz.ID))
		return nil, ErrUpstream
	}
	return lt, nil
}

// ExchangeToken intercambia el public token y persiste sólo la referencia
// enmascarada. El access token del agregador no se guarda.
func (s *OnboardingService) ExchangeToken(ctx context.Context, biz *core.Business, publicToken string) (*banklink.ExchangeResult, error) {
	if strings.TrimSpace(publicToken) == "" {
		return nil, ErrMissingFields
	}
	if s.deps.Banklink == nil {
		return nil, ErrUpstream
	}
	res, err := s.deps.Banklink.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		logger.From(ctx).Error("token exchange failed", logger.Err(err), logger.BusinessID(biz.ID))
		return nil, ErrUpstream
	}
	if err := s.deps.Repo.SetBankAccountRef(ctx, biz.ID, res.AccountMask); err != nil {
		return nil, err
	}
	return res, nil
}
