package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/wellbook/internal/cache"
	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

func TestGetPublic_CacheAndInvalidation(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo)
	bs := NewBusinessService(BusinessDeps{Repo: repo, Cache: cache.NewMemory("test")})
	ctx := context.Background()

	pub, err := bs.GetPublic(ctx, "demo-spa")
	require.NoError(t, err)
	require.Equal(t, "Demo Spa", pub.Name)

	// la vista queda cacheada: un cambio directo en el repo no se ve
	repo.businesses[biz.ID].Name = "Demo Spa Renovado"
	pub, err = bs.GetPublic(ctx, "demo-spa")
	require.NoError(t, err)
	require.Equal(t, "Demo Spa", pub.Name)

	// Update invalida la entrada y la próxima lectura trae lo nuevo
	_, err = bs.Update(ctx, biz, dto.UpdateBusinessRequest{Name: "Demo Spa Renovado"})
	require.NoError(t, err)
	pub, err = bs.GetPublic(ctx, "demo-spa")
	require.NoError(t, err)
	require.Equal(t, "Demo Spa Renovado", pub.Name)
}

func TestBusinessUpdate_NormalizesEmail(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo)
	bs := NewBusinessService(BusinessDeps{Repo: repo})

	out, err := bs.Update(context.Background(), biz, dto.UpdateBusinessRequest{Email: " Hola@Demo.Local "})
	require.NoError(t, err)
	require.Equal(t, "hola@demo.local", out.Email)

	// campos vacíos del request no pisan valores existentes
	out, err = bs.Update(context.Background(), biz, dto.UpdateBusinessRequest{})
	require.NoError(t, err)
	require.Equal(t, "Demo Spa", out.Name)
}

func TestGetPublic_BlankSlug(t *testing.T) {
	bs := NewBusinessService(BusinessDeps{Repo: newFakeRepo()})
	_, err := bs.GetPublic(context.Background(), "   ")
	require.ErrorIs(t, err, core.ErrNotFound)
}
