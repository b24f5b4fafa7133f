// Siembra datos de desarrollo: una cuenta owner, un business activo y un
// catálogo mínimo. Idempotente a nivel de email/slug: si ya existen, corta.
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/wellbook/internal/config"
	"github.com/dropDatabas3/wellbook/internal/security/password"
	"github.com/dropDatabas3/wellbook/internal/store/core"
	"github.com/dropDatabas3/wellbook/internal/store/pg"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path al YAML de configuración")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	ctx := context.Background()
	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer store.Close()

	const (
		ownerEmail = "owner@demo.local"
		ownerPass  = "Demo-Pass-1234"
		bizSlug    = "demo-spa"
	)

	if _, err := store.GetUserByEmail(ctx, ownerEmail); err == nil {
		log.Println("seed already applied (owner exists), nothing to do")
		return
	} else if !errors.Is(err, core.ErrNotFound) {
		log.Fatalf("lookup: %v", err)
	}

	hash, err := password.Hash(password.Default, ownerPass)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	owner := &core.User{Email: ownerEmail, Name: "Demo Owner", PasswordHash: &hash}
	if err := store.CreateUser(ctx, owner); err != nil {
		log.Fatalf("create user: %v", err)
	}

	biz := &core.Business{
		Name:     "Demo Spa",
		Slug:     bizSlug,
		Category: "spa",
		Email:    ownerEmail,
		City:     "Córdoba",
	}
	if err := store.CreateBusiness(ctx, biz); err != nil {
		log.Fatalf("create business: %v", err)
	}
	if err := store.SetBusinessStatus(ctx, biz.ID, "active"); err != nil {
		log.Fatalf("activate business: %v", err)
	}
	if err := store.SetOnboardingPhase(ctx, biz.ID, 2); err != nil {
		log.Fatalf("onboarding phase: %v", err)
	}

	p := &core.Provider{
		BusinessID: biz.ID,
		UserID:     &owner.ID,
		Name:       owner.Name,
		Email:      owner.Email,
		Role:       "owner",
		Status:     "active",
	}
	if err := store.CreateProvider(ctx, p); err != nil {
		log.Fatalf("create provider: %v", err)
	}

	svcs := []core.Service{
		{BusinessID: biz.ID, Name: "Masaje descontracturante", Category: "massage", DurationMin: 60, PriceCents: 45000, Currency: "usd", Active: true},
		{BusinessID: biz.ID, Name: "Limpieza facial", Category: "facial", DurationMin: 45, PriceCents: 30000, Currency: "usd", Active: true},
		{BusinessID: biz.ID, Name: "Sesión de yoga", Category: "fitness", DurationMin: 90, PriceCents: 20000, Currency: "usd", Active: true},
	}
	for i := range svcs {
		if err := store.CreateService(ctx, &svcs[i]); err != nil {
			log.Fatalf("create service: %v", err)
		}
	}

	addon := &core.Addon{BusinessID: biz.ID, ServiceID: &svcs[0].ID, Name: "Piedras calientes", PriceCents: 8000, Active: true}
	if err := store.CreateAddon(ctx, addon); err != nil {
		log.Fatalf("create addon: %v", err)
	}

	log.Printf("seed done: owner=%s pass=%s business=%s", ownerEmail, ownerPass, bizSlug)
}
