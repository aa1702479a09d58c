package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/inhaus-automation/backend/internal/artifact"
	"github.com/inhaus-automation/backend/internal/auth"
	"github.com/inhaus-automation/backend/internal/catalog"
	"github.com/inhaus-automation/backend/internal/common"
	"github.com/inhaus-automation/backend/internal/config"
	"github.com/inhaus-automation/backend/internal/contact"
	"github.com/inhaus-automation/backend/internal/health"
	"github.com/inhaus-automation/backend/internal/invoice"
	"github.com/inhaus-automation/backend/internal/notify"
	"github.com/inhaus-automation/backend/internal/obs"
	"github.com/inhaus-automation/backend/internal/quotation"
	"github.com/inhaus-automation/backend/internal/render"
	"github.com/inhaus-automation/backend/internal/settings"
	"github.com/inhaus-automation/backend/internal/store"
)

func main() {
	// Money values serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "inhaus")
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := store.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("ensure schema")
	}

	var mailer common.EmailSender = common.NopEmailSender{}
	if cfg.SMTPConfigured() {
		smtp, err := notify.NewMailer(notify.MailerConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("initialise mailer")
		}
		mailer = smtp
	} else {
		logger.Warn().Msg("smtp not configured, outbound email disabled")
	}

	artifacts, err := artifact.NewStore(cfg.ArtifactDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise artifact store")
	}

	theme := render.DefaultTheme()
	theme.DescriptionLimit = cfg.DescriptionLimit
	renderer := render.NewRenderer(render.RendererConfig{
		Theme:  theme,
		Assets: render.NewAssetResolver(cfg.AssetDir),
		Logger: logger,
	})

	numbering := store.NewNumbering(pool)
	settingsStore := settings.NewStore(pool)

	authService, err := auth.NewService(auth.Config{
		Username:       cfg.AdminUsername,
		PasswordHash:   cfg.AdminPasswordHash,
		Secret:         cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
		Issuer:         "inhaus-backend",
		Audience:       "inhaus-admin",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authHandler := auth.NewHandler(auth.HandlerConfig{Service: authService})
	authMiddleware := auth.Middleware{Service: authService}

	contactHandler := contact.NewHandler(contact.HandlerConfig{
		Store:       contact.NewStore(pool),
		Mailer:      mailer,
		NotifyEmail: cfg.ContactNotifyEmail,
	})
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Store: catalog.NewStore(pool)})
	settingsHandler := settings.NewHandler(settings.HandlerConfig{Store: settingsStore})

	quotationStore := quotation.NewStore(pool)
	quotationService, err := quotation.NewService(quotation.ServiceConfig{
		Store:     quotationStore,
		Numbering: numbering,
		Settings:  settingsStore,
		Renderer:  renderer,
		Artifacts: artifacts,
		Mailer:    notify.Instrument(mailer, "quotation"),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise quotation service")
	}
	quotationHandler := quotation.NewHandler(quotation.HandlerConfig{
		Service: quotationService,
		Store:   quotationStore,
	})

	invoiceStore := invoice.NewStore(pool)
	invoiceService, err := invoice.NewService(invoice.ServiceConfig{
		Store:      invoiceStore,
		Quotations: quotationStore,
		Numbering:  numbering,
		Settings:   settingsStore,
		Renderer:   renderer,
		Artifacts:  artifacts,
		Mailer:     notify.Instrument(mailer, "invoice"),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise invoice service")
	}
	invoiceHandler := invoice.NewHandler(invoice.HandlerConfig{
		Service: invoiceService,
		Store:   invoiceStore,
	})

	buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
	httpMetrics := obs.NewHTTPMetrics(metricsNamespace, buckets, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	healthHandler := health.Handler{
		Checker:   health.PoolChecker{Ping: pool.Ping},
		DBTimeout: 500 * time.Millisecond,
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api", func(api chi.Router) {
		api.Post("/contact", contactHandler.Create)
		api.Post("/admin/login", authHandler.Login)

		api.Group(func(admin chi.Router) {
			admin.Use(authMiddleware.RequireAuth)

			admin.Get("/contact", contactHandler.List)
			admin.Get("/contact/{id}", contactHandler.Get)
			admin.Patch("/contact/{id}", contactHandler.UpdateStatus)
			admin.Delete("/contact/{id}", contactHandler.Delete)

			admin.Get("/products", catalogHandler.List)
			admin.Post("/products", catalogHandler.Create)
			admin.Get("/products/{id}", catalogHandler.Get)
			admin.Put("/products/{id}", catalogHandler.Update)
			admin.Delete("/products/{id}", catalogHandler.Delete)

			admin.Get("/quotations", quotationHandler.List)
			admin.Post("/quotations", quotationHandler.Create)
			admin.Get("/quotations/{id}", quotationHandler.Get)
			admin.Put("/quotations/{id}", quotationHandler.Update)
			admin.Delete("/quotations/{id}", quotationHandler.Delete)
			admin.Patch("/quotations/{id}/status", quotationHandler.UpdateStatus)
			admin.Get("/quotations/{id}/pdf", quotationHandler.PDF)
			admin.Post("/quotations/{id}/send", quotationHandler.Send)
			admin.Post("/quotations/{id}/convert", invoiceHandler.ConvertQuotation)

			admin.Get("/invoices", invoiceHandler.List)
			admin.Post("/invoices", invoiceHandler.Create)
			admin.Get("/invoices/{id}", invoiceHandler.Get)
			admin.Put("/invoices/{id}", invoiceHandler.Update)
			admin.Delete("/invoices/{id}", invoiceHandler.Delete)
			admin.Patch("/invoices/{id}/status", invoiceHandler.UpdateStatus)
			admin.Get("/invoices/{id}/pdf", invoiceHandler.PDF)
			admin.Post("/invoices/{id}/send", invoiceHandler.Send)
			admin.Post("/invoices/{id}/payment", invoiceHandler.RecordPayment)

			admin.Get("/settings", settingsHandler.Get)
			admin.Put("/settings", settingsHandler.Update)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
