package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/wellbook/internal/cache"
	"github.com/dropDatabas3/wellbook/internal/http/dto"
	"github.com/dropDatabas3/wellbook/internal/store/core"
)

func TestCatalogCreateService(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo)
	cs := NewCatalogService(CatalogDeps{Repo: repo})
	ctx := context.Background()

	svc, err := cs.CreateService(ctx, biz, dto.CreateServiceRequest{
		Name: "  Masaje  ", DurationMin: 60, PriceCents: 10000, Currency: "USD",
	})
	require.NoError(t, err)
	require.Equal(t, "Masaje", svc.Name)
	require.Equal(t, "usd", svc.Currency)
	require.True(t, svc.Active)

	_, err = cs.CreateService(ctx, biz, dto.CreateServiceRequest{Name: "", DurationMin: 60})
	require.ErrorIs(t, err, ErrMissingFields)
	_, err = cs.CreateService(ctx, biz, dto.CreateServiceRequest{Name: "X", DurationMin: 0})
	require.ErrorIs(t, err, ErrInvalidDuration)
	_, err = cs.CreateService(ctx, biz, dto.CreateServiceRequest{Name: "X", DurationMin: 30, PriceCents: -1})
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestCatalogUpdateService_PartialFields(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo)
	cs := NewCatalogService(CatalogDeps{Repo: repo})
	ctx := context.Background()

	svc, err := cs.CreateService(ctx, biz, dto.CreateServiceRequest{
		Name: "Masaje", Description: "Descontracturante", Category: "masajes",
		DurationMin: 60, PriceCents: 10000,
	})
	require.NoError(t, err)

	// un PATCH puede poner el precio en 0 (promo) y vaciar campos de texto
	zero := int64(0)
	empty := ""
	got, err := cs.UpdateService(ctx, biz, svc.ID, dto.UpdateServiceRequest{
		PriceCents:  &zero,
		Description: &empty,
		Category:    &empty,
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), got.PriceCents)
	require.Empty(t, got.Description)
	require.Empty(t, got.Category)

	// lo que no viene en el body no se toca
	require.Equal(t, "Masaje", got.Name)
	require.Equal(t, 60, got.DurationMin)

	// validaciones sobre los campos presentes
	neg := int64(-1)
	_, err = cs.UpdateService(ctx, biz, svc.ID, dto.UpdateServiceRequest{PriceCents: &neg})
	require.ErrorIs(t, err, ErrInvalidPrice)
	badDur := 0
	_, err = cs.UpdateService(ctx, biz, svc.ID, dto.UpdateServiceRequest{DurationMin: &badDur})
	require.ErrorIs(t, err, ErrInvalidDuration)
	_, err = cs.UpdateService(ctx, biz, svc.ID, dto.UpdateServiceRequest{Name: &empty})
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestCatalogUpdateAddon_PartialFields(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo)
	cs := NewCatalogService(CatalogDeps{Repo: repo})
	ctx := context.Background()

	a, err := cs.CreateAddon(ctx, biz, dto.CreateAddonRequest{Name: "Piedras", PriceCents: 2500})
	require.NoError(t, err)

	zero := int64(0)
	got, err := cs.UpdateAddon(ctx, biz, a.ID, dto.UpdateAddonRequest{PriceCents: &zero})
	require.NoError(t, err)
	require.Equal(t, int64(0), got.PriceCents)
	require.Equal(t, "Piedras", got.Name)
	require.True(t, got.Active)
}

func TestCatalogTenantIsolation(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo)
	other := &core.Business{Name: "Otro", Slug: "otro", Status: "active"}
	require.NoError(t, repo.CreateBusiness(context.Background(), other))
	svc := seedService(t, repo, other, 5000, 30)

	cs := NewCatalogService(CatalogDeps{Repo: repo})
	_, err := cs.GetService(context.Background(), biz, svc.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	err = cs.DeleteService(context.Background(), biz, svc.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	ajeno, err := cs.CreateAddon(context.Background(), other, dto.CreateAddonRequest{Name: "Ajeno", PriceCents: 100})
	require.NoError(t, err)
	_, err = cs.GetAddon(context.Background(), biz, ajeno.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestServiceSummary_SQLPath(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo)
	seedService(t, repo, biz, 10000, 60)
	inactive := seedService(t, repo, biz, 2000, 30)
	inactive.Active = false
	require.NoError(t, repo.UpdateService(context.Background(), inactive))

	cs := NewCatalogService(CatalogDeps{Repo: repo})
	sum, err := cs.ServiceSummary(context.Background(), biz.ID)
	require.NoError(t, err)
	require.Equal(t, "sql", sum.Source)
	require.Equal(t, 2, sum.Total)
	require.Equal(t, 1, sum.Active)
}

func TestServiceSummary_FallbackWhenNoStoredProc(t *testing.T) {
	repo := newFakeRepo()
	repo.storedProc = false
	biz := seedBusiness(t, repo)
	svc := seedService(t, repo, biz, 10000, 60)

	// un booking existente para que el conteo no sea trivial
	require.NoError(t, repo.CreateBooking(context.Background(), &core.Booking{
		BusinessID: biz.ID, ServiceID: svc.ID,
		CustomerName: "Caro", CustomerEmail: "a@b.c",
		StartsAt: time.Now().Add(time.Hour), EndsAt: time.Now().Add(2 * time.Hour),
	}))

	cs := NewCatalogService(CatalogDeps{Repo: repo})
	sum, err := cs.ServiceSummary(context.Background(), biz.ID)
	require.NoError(t, err)
	require.Equal(t, "fallback", sum.Source)
	require.Len(t, sum.Items, 1)
	require.Equal(t, 1, sum.Items[0].BookingCount)
}

func TestServiceSummary_CacheAndInvalidation(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo)
	seedService(t, repo, biz, 10000, 60)

	cs := NewCatalogService(CatalogDeps{Repo: repo, Cache: cache.NewMemory("test")})
	ctx := context.Background()

	sum, err := cs.ServiceSummary(ctx, biz.ID)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Total)

	// el segundo servicio no aparece hasta que algo invalide el cache
	seedService(t, repo, biz, 2000, 30)
	sum, err = cs.ServiceSummary(ctx, biz.ID)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Total)

	// un write del catálogo invalida
	_, err = cs.CreateService(ctx, biz, dto.CreateServiceRequest{Name: "Facial", DurationMin: 45, PriceCents: 7000})
	require.NoError(t, err)
	sum, err = cs.ServiceSummary(ctx, biz.ID)
	require.NoError(t, err)
	require.Equal(t, 3, sum.Total)
}

func TestAddons(t *testing.T) {
	repo := newFakeRepo()
	biz := seedBusiness(t, repo)
	svc := seedService(t, repo, biz, 10000, 60)
	other := &core.Business{Name: "Otro", Slug: "otro", Status: "active"}
	require.NoError(t, repo.CreateBusiness(context.Background(), other))
	svcOther := seedService(t, repo, other, 5000, 30)

	cs := NewCatalogService(CatalogDeps{Repo: repo})
	ctx := context.Background()

	a, err := cs.CreateAddon(ctx, biz, dto.CreateAddonRequest{
		ServiceID: &svc.ID, Name: "Piedras calientes", PriceCents: 2500,
	})
	require.NoError(t, err)
	require.True(t, a.Active)

	got, err := cs.GetAddon(ctx, biz, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)

	// addon atado a un servicio de otro business
	_, err = cs.CreateAddon(ctx, biz, dto.CreateAddonRequest{
		ServiceID: &svcOther.ID, Name: "Ajeno", PriceCents: 100,
	})
	require.ErrorIs(t, err, ErrAddonService)

	sum, err := cs.AddonSummary(ctx, biz.ID)
	require.NoError(t, err)
	require.Equal(t, "sql", sum.Source)
	require.Equal(t, 1, sum.Total)

	repo.storedProc = false
	sum, err = cs.AddonSummary(ctx, biz.ID)
	require.NoError(t, err)
	require.Equal(t, "fallback", sum.Source)
}
