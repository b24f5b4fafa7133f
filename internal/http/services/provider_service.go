package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/wellbook/internal/email"
	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/security/password"
	tokens "github.com/dropDatabas3/wellbook/internal/security/token"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// Errores de providers
var (
	ErrInvalidRole     = fmt.Errorf("invalid role")
	ErrAlreadyInvited  = fmt.Errorf("provider already exists for that email")
	ErrInviteInvalid   = fmt.Errorf("invite token invalid")
	ErrInviteExpired   = fmt.Errorf("invite token expired")
	ErrInviteConsumed  = fmt.Errorf("invite already accepted")
	ErrLastOwner       = fmt.Errorf("cannot demote or disable the last owner")
	ErrProviderMissing = fmt.Errorf("provider not found")
)

func validRole(r string) bool {
	switch r {
	case "owner", "dispatcher", "provider":
		return true
	}
	return false
}

// ProviderDeps dependencias del provider service.
type ProviderDeps struct {
	Repo         core.Repository
	Sender       email.Sender
	Templates    *email.Templates
	InviteSecret string
	InviteTTL    time.Duration
	PortalURL    string // base del link de aceptación
}

// ProviderService staff del business: invitaciones, roles y perfil.
type ProviderService struct {
	deps ProviderDeps
}

func NewProviderService(deps ProviderDeps) *ProviderService {
	if deps.InviteTTL <= 0 {
		deps.InviteTTL = 72 * time.Hour
	}
	return &ProviderService{deps: deps}
}

// Invite crea el provider en estado invited y manda el email con el token
// HMAC firmado. El fallo del email no revierte el alta.
func (s *ProviderService) Invite(ctx context.Context, biz *core.Business, in dto.InviteProviderRequest) (*core.Provider, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("providers"),
		logger.Op("Invite"),
		logger.BusinessID(biz.ID),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Name == "" || in.Role == "" {
		return nil, ErrMissingFields
	}
	if !validRole(in.Role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.deps.Repo.GetProviderByEmail(ctx, biz.ID, in.Email); err == nil {
		return nil, ErrAlreadyInvited
	}

	p := &core.Provider{
		BusinessID: biz.ID,
		Name:       in.Name,
		Email:      in.Email,
		Role:       in.Role,
		Status:     "invited",
	}
	if err := s.deps.Repo.CreateProvider(ctx, p); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrAlreadyInvited
		}
		return nil, err
	}

	tok := tokens.SignInvite(s.deps.InviteSecret, p.ID, s.deps.InviteTTL)
	link := fmt.Sprintf("%s/invite/accept?token=%s", strings.TrimRight(s.deps.PortalURL, "/"), tok)

	if s.deps.Sender != nil && s.deps.Templates != nil {
		vars := email.InviteVars{
			BusinessName: biz.Name,
			InviteeName:  p.Name,
			Role:         p.Role,
			Link:         link,
			TTL:          fmt.Sprintf("%d horas", int(s.deps.InviteTTL.Hours())),
		}
		if html, text, err := s.deps.Templates.Render(email.TemplateInvite, vars); err == nil {
			if err := s.deps.Sender.Send(p.Email, "Invitación a "+biz.Name, html, text); err != nil {
				// continue anyway
				log.Error("invite email failed", logger.ProviderID(p.ID), logger.Err(err))
			}
		} else {
			log.Error("invite template failed", logger.Err(err))
		}
	}

	log.Info("provider invited", logger.ProviderID(p.ID), logger.String("role", p.Role))
	return p, nil
}

// AcceptInvite valida el token, activa el provider y lo ata a una cuenta:
// la existente para ese email, o una nueva con el password provisto.
func (s *ProviderService) AcceptInvite(ctx context.Context, in dto.AcceptInviteRequest) (*core.Provider, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("providers"),
		logger.Op("AcceptInvite"),
	)

	providerID, err := tokens.VerifyInvite(s.deps.InviteSecret, strings.TrimSpace(in.Token))
	if err != nil {
		if errors.Is(err, tokens.ErrInviteExpired) {
			return nil, ErrInviteExpired
		}
		return nil, ErrInviteInvalid
	}

	p, err := s.deps.Repo.GetProviderByID(ctx, providerID)
	if err != nil {
		return nil, ErrInviteInvalid
	}
	if p.Status != "invited" {
		return nil, ErrInviteConsumed
	}

	u, err := s.deps.Repo.GetUserByEmail(ctx, p.Email)
	if errors.Is(err, core.ErrNotFound) {
		if in.Password == "" {
			return nil, ErrMissingFields
		}
		hash, herr := password.Hash(password.Default, in.Password)
		if herr != nil {
			return nil, herr
		}
		u = &core.User{Email: p.Email, Name: p.Name, PasswordHash: &hash}
		if err := s.deps.Repo.CreateUser(ctx, u); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	p.UserID = &u.ID
	p.Status = "active"
	if err := s.deps.Repo.UpdateProvider(ctx, p); err != nil {
		return nil, err
	}

	log.Info("invite accepted", logger.ProviderID(p.ID), logger.UserID(u.ID))
	return p, nil
}

// List staff del business.
func (s *ProviderService) List(ctx context.Context, businessID string) ([]core.Provider, error) {
	return s.deps.Repo.ListProviders(ctx, businessID)
}

// Update cambia rol/estado/perfil. Degradar o deshabilitar al último owner
// activo está prohibido.
func (s *ProviderService) Update(ctx context.Context, biz *core.Business, providerID string, in dto.UpdateProviderRequest) (*core.Provider, error) {
	p, err := s.deps.Repo.GetProviderByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if p.BusinessID != biz.ID {
		return nil, core.ErrNotFound
	}

	newRole := p.Role
	if in.Role != "" {
		if !validRole(in.Role) {
			return nil, ErrInvalidRole
		}
		newRole = in.Role
	}
	newStatus := p.Status
	if in.Status != "" {
		switch in.Status {
		case "active", "disabled":
			newStatus = in.Status
		default:
			return nil, core.ErrInvalid
		}
	}

	// Guard del último owner
	losesOwnership := p.Role == "owner" && p.Status == "active" &&
		(newRole != "owner" || newStatus != "active")
	if losesOwnership {
		n, err := s.deps.Repo.CountActiveOwners(ctx, biz.ID)
		if err != nil {
			return nil, err
		}
		if n <= 1 {
			return nil, ErrLastOwner
		}
	}

	p.Role = newRole
	p.Status = newStatus
	if v := strings.TrimSpace(in.Name); v != "" {
		p.Name = v
	}
	if in.Phone != "" {
		p.Phone = in.Phone
	}
	if in.Bio != "" {
		p.Bio = in.Bio
	}
	if in.AvatarURL != "" {
		p.AvatarURL = in.AvatarURL
	}

	if err := s.deps.Repo.UpdateProvider(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ProviderToDTO mapea el modelo al response.
func ProviderToDTO(p *core.Provider) dto.ProviderResponse {
	return dto.ProviderResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Role:      p.Role,
		Status:    p.Status,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
	}
}
