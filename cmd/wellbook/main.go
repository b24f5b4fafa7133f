package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/wellbook/internal/banklink"
	"github.com/dropDatabas3/wellbook/internal/cache"
	"github.com/dropDatabas3/wellbook/internal/config"
	"github.com/dropDatabas3/wellbook/internal/email"
	httpserver "github.com/dropDatabas3/wellbook/internal/http"
	"github.com/dropDatabas3/wellbook/internal/http/controllers"
	"github.com/dropDatabas3/wellbook/internal/http/router"
	"github.com/dropDatabas3/wellbook/internal/http/services"
	jwtx "github.com/dropDatabas3/wellbook/internal/jwt"
	"github.com/dropDatabas3/wellbook/internal/metrics"
	"github.com/dropDatabas3/wellbook/internal/notify"
	"github.com/dropDatabas3/wellbook/internal/observability/logger"
	"github.com/dropDatabas3/wellbook/internal/payments"
	"github.com/dropDatabas3/wellbook/internal/rate"
	"github.com/dropDatabas3/wellbook/internal/security/password"
	"github.com/dropDatabas3/wellbook/internal/sms"
	"github.com/dropDatabas3/wellbook/internal/store/pg"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path al YAML de configuración")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using system env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "wellbook",
		Version:     os.Getenv("SERVICE_VERSION"),
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Storage ───
	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{
		MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		lg.Fatal("postgres connect failed", logger.Err(err))
	}
	defer store.Close()

	// ─── Cache ───
	cacheClient, err := cache.New(cache.Config{
		Driver: cfg.Cache.Kind,
		Addr:   cfg.Cache.Redis.Addr,
		DB:     cfg.Cache.Redis.DB,
		Prefix: cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		lg.Fatal("cache init failed", logger.Err(err))
	}
	defer cacheClient.Close()

	// ─── Rate limiters ───
	// Con redis los límites son compartidos entre réplicas; en memoria
	// sólo valen por proceso (suficiente en dev).
	var loginLimiter, registerLimiter, inviteLimiter, publicLimiter rate.Limiter
	if cfg.Rate.Enabled {
		newLimiter := func(prefix string, limit int, window string) rate.Limiter {
			if rc, ok := cacheClient.(interface{ Raw() *redis.Client }); ok {
				return rate.NewRedisLimiter(rc.Raw(), prefix, limit, config.Dur(window))
			}
			return rate.NewMemoryLimiter(limit, config.Dur(window))
		}
		loginLimiter = newLimiter("rl:login", cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		registerLimiter = newLimiter("rl:register", cfg.Rate.Register.Limit, cfg.Rate.Register.Window)
		inviteLimiter = newLimiter("rl:invite", cfg.Rate.Invite.Limit, cfg.Rate.Invite.Window)
		publicLimiter = newLimiter("rl:public", cfg.Rate.Public.Limit, cfg.Rate.Public.Window)
	}

	// ─── Email / SMS ───
	templates, err := email.LoadTemplates()
	if err != nil {
		lg.Fatal("email templates load failed", logger.Err(err))
	}
	smtpSender := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	smtpSender.TLSMode = cfg.SMTP.TLS
	smtpSender.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify

	var smsSender notify.SMSSender
	if cfg.SMS.Enabled {
		s, err := sms.New(ctx, cfg.SMS.Region, cfg.SMS.SenderID)
		if err != nil {
			lg.Fatal("sms init failed", logger.Err(err))
		}
		smsSender = s
	}

	// ─── Dispatcher de side-effects ───
	dispatcher := notify.NewDispatcher(notify.Config{
		QueueSize: cfg.Notify.QueueSize,
		Workers:   cfg.Notify.Workers,
		ReviewURL: cfg.Email.BaseURL,
	}, smtpSender, templates, smsSender)
	dispatcher.Start()
	defer dispatcher.Stop(5 * time.Second)

	// ─── SaaS externos ───
	paymentsClient := payments.NewClient(cfg.Payments.BaseURL, cfg.Payments.SecretKey)
	banklinkClient := banklink.NewClient(cfg.Banklink.BaseURL, cfg.Banklink.ClientID, cfg.Banklink.Secret)

	// ─── Métricas ───
	metricsHandler, err := metrics.Register(metrics.Config{
		Registry: prometheus.DefaultRegisterer,
		Pool:     func() *pgxpool.Pool { return store.Pool() },
	})
	if err != nil {
		lg.Fatal("metrics register failed", logger.Err(err))
	}

	// ─── Services ───
	issuer := jwtx.NewIssuer(cfg.JWT.Issuer, cfg.JWT.Secret, config.Dur(cfg.JWT.AccessTTL))
	policy := password.Policy{
		MinLength:    cfg.Security.PasswordPolicy.MinLength,
		RequireUpper: cfg.Security.PasswordPolicy.RequireUpper,
		RequireDigit: cfg.Security.PasswordPolicy.RequireDigit,
	}

	authSvc := services.NewAuthService(services.AuthDeps{
		Repo:       store,
		Issuer:     issuer,
		RefreshTTL: config.Dur(cfg.JWT.RefreshTTL),
		Policy:     policy,
	})
	onboardingSvc := services.NewOnboardingService(services.OnboardingDeps{
		Repo:     store,
		Issuer:   issuer,
		Payments: paymentsClient,
		Banklink: banklinkClient,
	})
	businessSvc := services.NewBusinessService(services.BusinessDeps{Repo: store, Cache: cacheClient})
	providerSvc := services.NewProviderService(services.ProviderDeps{
		Repo:         store,
		Sender:       smtpSender,
		Templates:    templates,
		InviteSecret: cfg.JWT.Secret,
		InviteTTL:    cfg.Invites.TTL,
		PortalURL:    cfg.Email.BaseURL,
	})
	catalogSvc := services.NewCatalogService(services.CatalogDeps{Repo: store, Cache: cacheClient})
	bookingSvc := services.NewBookingService(services.BookingDeps{Repo: store, Notifier: dispatcher})
	reviewSvc := services.NewReviewService(services.ReviewDeps{Repo: store})
	documentSvc := services.NewDocumentService(services.DocumentDeps{Repo: store})
	conversationSvc := services.NewConversationService(services.ConversationDeps{Repo: store, Notifier: dispatcher})
	paymentSvc := services.NewPaymentService(services.PaymentDeps{
		Repo:          store,
		Client:        paymentsClient,
		Cache:         cacheClient,
		WebhookSecret: cfg.Payments.WebhookSecret,
	})
	adminSvc := services.NewAdminService(services.AdminDeps{Repo: store})

	// ─── Router + server ───
	handler := router.New(router.Controllers{
		Auth:          controllers.NewAuthController(authSvc),
		Onboarding:    controllers.NewOnboardingController(onboardingSvc),
		Business:      controllers.NewBusinessController(businessSvc),
		Providers:     controllers.NewProviderController(providerSvc),
		Catalog:       controllers.NewCatalogController(catalogSvc),
		Bookings:      controllers.NewBookingController(bookingSvc),
		Reviews:       controllers.NewReviewController(reviewSvc),
		Documents:     controllers.NewDocumentController(documentSvc),
		Conversations: controllers.NewConversationController(conversationSvc),
		Payments:      controllers.NewPaymentController(paymentSvc),
		Public:        controllers.NewPublicController(businessSvc, catalogSvc, bookingSvc, reviewSvc),
		Admin:         controllers.NewAdminController(adminSvc, documentSvc),
		Health:        controllers.NewHealthController(store.Ping, cacheClient.Ping),
	}, router.Deps{
		Repo:            store,
		Issuer:          issuer,
		AdminAPIKey:     cfg.Admin.APIKey,
		CORSOrigins:     cfg.Server.CORSAllowedOrigins,
		MetricsHandler:  metricsHandler,
		LoginLimiter:    loginLimiter,
		RegisterLimiter: registerLimiter,
		InviteLimiter:   inviteLimiter,
		PublicLimiter:   publicLimiter,
	})

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     config.Dur(cfg.Server.ReadTimeout),
		WriteTimeout:    config.Dur(cfg.Server.WriteTimeout),
		ShutdownTimeout: config.Dur(cfg.Server.ShutdownTimeout),
	}, handler)

	if err := srv.Run(ctx); err != nil {
		lg.Fatal("server error", logger.Err(err))
	}
	lg.Info("bye")
}
