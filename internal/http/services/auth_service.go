// Package services contiene la lógica de negocio del portal.
// Los controllers traducen HTTP; acá vive el dominio.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	jwtx "github.com/dropDatabas3/wellbook/internal/jwt"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/security/password"
	tokens "github.com/dropDatabas3/wellbook/internal/security/token"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

// Errores de auth
var (
	ErrMissingFields      = fmt.Errorf("missing required fields")
	ErrWeakPassword       = fmt.Errorf("password does not meet policy")
	ErrEmailTaken         = fmt.Errorf("email already registered")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserDisabled       = fmt.Errorf("user disabled")
	ErrInvalidRefresh     = fmt.Errorf("invalid refresh token")
)

// AuthDeps dependencias del auth service.
type AuthDeps struct {
	Repo       core.Repository
	Issuer     *jwtx.Issuer
	RefreshTTL time.Duration
	Policy     password.Policy
}

// AuthService registra, loguea y rota sesiones del portal.
type AuthService struct {
	deps AuthDeps
}

func NewAuthService(deps AuthDeps) *AuthService {
	if deps.RefreshTTL <= 0 {
		deps.RefreshTTL = 30 * 24 * time.Hour
	}
	return &AuthService{deps: deps}
}

// Register crea la cuenta y devuelve la primera sesión.
func (s *AuthService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.TokenResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Register"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, ErrMissingFields
	}
	if ok, _ := s.deps.Policy.Validate(in.Password); !ok {
		return nil, ErrWeakPassword
	}

	hash, err := password.Hash(password.Default, in.Password)
	if err != nil {
		return nil, err
	}

	u := &core.User{Email: in.Email, Name: in.Name, PasswordHash: &hash}
	if err := s.deps.Repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Info("user registered", logger.UserID(u.ID))
	return s.issueSession(ctx, u, nil)
}

// Login valida credenciales y emite una sesión.
func (s *AuthService) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Login"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	u, err := s.deps.Repo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			log.Debug("user not found")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if u.Status == "disabled" {
		log.Info("user disabled", logger.UserID(u.ID))
		return nil, ErrUserDisabled
	}
	if !s.deps.Repo.CheckPassword(u.PasswordHash, in.Password) {
		log.Debug("password check failed", logger.UserID(u.ID))
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, u, nil)
}

// Refresh rota el refresh token: valida el hash, revoca el viejo y emite
// un par nuevo. Un token ya revocado o vencido corta la cadena.
func (s *AuthService) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.TokenResponse, error) {
	if strings.TrimSpace(in.RefreshToken) == "" {
		return nil, ErrMissingFields
	}

	hash := tokens.SHA256Base64URL(in.RefreshToken)
	rt, err := s.deps.Repo.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if rt.RevokedAt != nil || time.Now().After(rt.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}

	u, err := s.deps.Repo.GetUserByID(ctx, rt.UserID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if u.Status == "disabled" {
		return nil, ErrUserDisabled
	}

	if err := s.deps.Repo.RevokeRefreshToken(ctx, rt.ID); err != nil {
		return nil, err
	}
	return s.issueSession(ctx, u, &rt.ID)
}

// Logout revoca el refresh token. Idempotente: un token desconocido no
// es un error para el cliente.
func (s *AuthService) Logout(ctx context.Context, in dto.LogoutRequest) error {
	if strings.TrimSpace(in.RefreshToken) == "" {
		return nil
	}
	hash := tokens.SHA256Base64URL(in.RefreshToken)
	rt, err := s.deps.Repo.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		return nil
	}
	return s.deps.Repo.RevokeRefreshToken(ctx, rt.ID)
}

// Me devuelve la sesión actual a partir de las claims ya validadas.
func (s *AuthService) Me(ctx context.Context, claims *jwtx.Claims) (*dto.MeResponse, error) {
	u, err := s.deps.Repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	resp := &dto.MeResponse{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
	}
	if p, err := s.deps.Repo.GetProviderByUserID(ctx, u.ID); err == nil {
		resp.BusinessID = p.BusinessID
		resp.Role = p.Role
	}
	return resp, nil
}

// issueSession emite access + refresh para el usuario. Si el user tiene
// membresía de staff, el token lleva bid/role.
func (s *AuthService) issueSession(ctx context.Context, u *core.User, rotatedFrom *string) (*dto.TokenResponse, error) {
	claims := jwtx.Claims{UserID: u.ID, Email: u.Email}
	if p, err := s.deps.Repo.GetProviderByUserID(ctx, u.ID); err == nil && p.Status == "active" {
		claims.BusinessID = p.BusinessID
		claims.Role = p.Role
	}

	access, exp, err := s.deps.Issuer.IssueAccess(claims)
	if err != nil {
		return nil, err
	}

	refresh, err := tokens.GenerateOpaqueToken(32)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().UTC().Add(s.deps.RefreshTTL)
	if _, err := s.deps.Repo.CreateRefreshToken(ctx, u.ID, tokens.SHA256Base64URL(refresh), expiresAt, rotatedFrom); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(exp).Seconds()),
		RefreshToken: refresh,
	}, nil
}
