package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/addrbook/addrbook/internal/auth"
	"github.com/addrbook/addrbook/internal/config"
	"github.com/addrbook/addrbook/internal/envelope"
	"github.com/addrbook/addrbook/internal/handler"
	"github.com/addrbook/addrbook/internal/metrics"
	"github.com/addrbook/addrbook/internal/middleware"
	"github.com/addrbook/addrbook/internal/service"
)

// appStore is what both store drivers provide.
type appStore interface {
	service.Store
	handler.HealthChecker
	Close()
}

// app holds the wired handlers for one store.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	replies   *envelope.Builder
	recorder  *metrics.InMemoryRecorder
	base      *handler.Handler
	health    *handler.HealthHandler
	metrics   *handler.MetricsHandler
	users     *handler.UserHandler
	addresses *handler.AddressHandler
}

func newApp(store appStore, cfg *config.Config, logger *slog.Logger) (*app, error) {
	digester, err := auth.NewDigester(cfg.DigestAlgorithm)
	if err != nil {
		return nil, err
	}
	logger.Info("password digest configured", "algorithm", digester.Algorithm())

	recorder := metrics.NewInMemory()
	replies := envelope.NewBuilder(cfg.ErrorCodeNamespace, envelope.MustCatalog(cfg.EnvelopeLocale))
	base := handler.New(replies, recorder, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		replies:   replies,
		recorder:  recorder,
		base:      base,
		health:    handler.NewHealthHandler(store, cfg.StoreDriver),
		metrics:   handler.NewMetricsHandler(recorder),
		users:     handler.NewUserHandler(service.NewUserService(store, digester, recorder), base),
		addresses: handler.NewAddressHandler(service.NewAddressService(store, recorder), base),
	}, nil
}

// router configures the chi router with all routes and middleware.
func (a *app) router() http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = a.cfg.AllowedOrigins()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(a.logger))
	r.Use(middleware.Recoverer(a.logger, a.replies, a.recorder))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: a.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))

	// Operational endpoints
	r.Get("/healthz", a.health.Healthz)
	r.Get("/readyz", a.health.Readyz)
	r.Get("/metrics", a.metrics.Metrics)

	r.Route(a.cfg.BasePath, func(r chi.Router) {
		r.Use(middleware.MaxBodySize(a.cfg.MaxRequestBodySize, a.replies, a.recorder))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", a.users.List)
			r.Post("/", a.users.Create)
			r.Patch("/{id}", a.users.Patch)
			r.Delete("/{id}", a.users.Delete)

			r.Get("/{user_id}/addresses", a.addresses.List)
			r.Put("/{user_id}/addresses/{address_id}", a.addresses.Update)
		})
	})

	r.NotFound(a.base.NotFound)
	r.MethodNotAllowed(a.base.MethodNotAllowed)

	return r
}
