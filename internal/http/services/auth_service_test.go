package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/wellbook/internal/http/dto"
	jwtx "github.com/dropDatabas3/wellbook/internal/jwt"
	"github.com/dropDatabas3/wellbook/internal/security/password"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

func newAuthService(repo *fakeRepo) *AuthService {
	return NewAuthService(AuthDeps{
		Repo:       repo,
		Issuer:     jwtx.NewIssuer("wellbook-test", "secreto-de-test", 15*time.Minute),
		RefreshTTL: time.Hour,
		Policy:     password.Policy{MinLength: 10, RequireUpper: true, RequireDigit: true},
	})
}

func TestRegisterLogin(t *testing.T) {
	repo := newFakeRepo()
	as := newAuthService(repo)
	ctx := context.Background()

	tok, err := as.Register(ctx, dto.RegisterRequest{
		Email: "Owner@Demo.Local", Name: "Flor", Password: "Demo-Pass-1234",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer", tok.TokenType)
	require.NotEmpty(t, tok.AccessToken)
	require.NotEmpty(t, tok.RefreshToken)

	// el email queda normalizado
	_, err = repo.GetUserByEmail(ctx, "owner@demo.local")
	require.NoError(t, err)

	tok, err = as.Login(ctx, dto.LoginRequest{Email: "owner@demo.local", Password: "Demo-Pass-1234"})
	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)

	_, err = as.Login(ctx, dto.LoginRequest{Email: "owner@demo.local", Password: "incorrecta-99X"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = as.Login(ctx, dto.LoginRequest{Email: "nadie@demo.local", Password: "Demo-Pass-1234"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	repo := newFakeRepo()
	as := newAuthService(repo)
	ctx := context.Background()

	_, err := as.Register(ctx, dto.RegisterRequest{Email: "a@b.c", Password: "Demo-Pass-1234"})
	require.ErrorIs(t, err, ErrMissingFields)

	_, err = as.Register(ctx, dto.RegisterRequest{Email: "a@b.c", Name: "Flor", Password: "corta"})
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = as.Register(ctx, dto.RegisterRequest{Email: "a@b.c", Name: "Flor", Password: "Demo-Pass-1234"})
	require.NoError(t, err)
	_, err = as.Register(ctx, dto.RegisterRequest{Email: "a@b.c", Name: "Otra", Password: "Demo-Pass-1234"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRefresh_Rotation(t *testing.T) {
	repo := newFakeRepo()
	as := newAuthService(repo)
	ctx := context.Background()

	tok, err := as.Register(ctx, dto.RegisterRequest{
		Email: "a@b.c", Name: "Flor", Password: "Demo-Pass-1234",
	})
	require.NoError(t, err)

	rotated, err := as.Refresh(ctx, dto.RefreshRequest{RefreshToken: tok.RefreshToken})
	require.NoError(t, err)
	require.NotEqual(t, tok.RefreshToken, rotated.RefreshToken)

	// el refresh viejo quedó revocado: reutilizarlo corta la cadena
	_, err = as.Refresh(ctx, dto.RefreshRequest{RefreshToken: tok.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// el nuevo sigue vivo
	_, err = as.Refresh(ctx, dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	require.NoError(t, err)

	_, err = as.Refresh(ctx, dto.RefreshRequest{RefreshToken: "token-inventado"})
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestLogout_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	as := newAuthService(repo)
	ctx := context.Background()

	tok, err := as.Register(ctx, dto.RegisterRequest{
		Email: "a@b.c", Name: "Flor", Password: "Demo-Pass-1234",
	})
	require.NoError(t, err)

	require.NoError(t, as.Logout(ctx, dto.LogoutRequest{RefreshToken: tok.RefreshToken}))
	_, err = as.Refresh(ctx, dto.RefreshRequest{RefreshToken: tok.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// un token desconocido no es error para el cliente
	require.NoError(t, as.Logout(ctx, dto.LogoutRequest{RefreshToken: "cualquiera"}))
	require.NoError(t, as.Logout(ctx, dto.LogoutRequest{}))
}

func TestLogin_DisabledUser(t *testing.T) {
	repo := newFakeRepo()
	as := newAuthService(repo)
	ctx := context.Background()

	_, err := as.Register(ctx, dto.RegisterRequest{
		Email: "a@b.c", Name: "Flor", Password: "Demo-Pass-1234",
	})
	require.NoError(t, err)

	u, err := repo.GetUserByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	repo.users[u.ID].Status = "disabled"

	_, err = as.Login(ctx, dto.LoginRequest{Email: "a@b.c", Password: "Demo-Pass-1234"})
	require.ErrorIs(t, err, ErrUserDisabled)
}

func TestAccessTokenCarriesMembership(t *testing.T) {
	repo := newFakeRepo()
	as := newAuthService(repo)
	ctx := context.Background()

	tok, err := as.Register(ctx, dto.RegisterRequest{
		Email: "a@b.c", Name: "Flor", Password: "Demo-Pass-1234",
	})
	require.NoError(t, err)

	u, err := repo.GetUserByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	biz := seedBusiness(t, repo)
	require.NoError(t, repo.CreateProvider(ctx, &core.Provider{
		BusinessID: biz.ID, UserID: &u.ID, Name: "Flor", Email: u.Email,
		Role: "owner", Status: "active",
	}))

	// el próximo login lleva bid/role
	tok, err = as.Login(ctx, dto.LoginRequest{Email: "a@b.c", Password: "Demo-Pass-1234"})
	require.NoError(t, err)

	claims, err := jwtx.NewIssuer("wellbook-test", "secreto-de-test", time.Minute).Parse(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, biz.ID, claims.BusinessID)
	require.Equal(t, "owner", claims.Role)
}
