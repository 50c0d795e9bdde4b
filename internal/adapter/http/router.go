package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/washledger/internal/adapter/http/handler"
	"github.com/iho/washledger/internal/adapter/http/middleware"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/metrics"
	"github.com/iho/washledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	MaterialHandler  *handler.MaterialHandler
	EntryHandler     *handler.EntryHandler
	SummaryHandler   *handler.SummaryHandler
	CustomerHandler  *handler.CustomerHandler
	ChargeHandler    *handler.ExtraChargeHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger

	// Authenticator guards /api/v1. When nil every request acts as DefaultActor.
	Authenticator *middleware.Authenticator
	DefaultActor  *domain.User
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Authenticator != nil {
			r.Use(cfg.Authenticator.Authenticate)
		} else if cfg.DefaultActor != nil {
			r.Use(middleware.DefaultActor(cfg.DefaultActor))
		}

		// Keys are scoped per user, so this runs after the actor is known.
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/materials", func(r chi.Router) {
			r.With(adminOnly).Post("/", cfg.MaterialHandler.Create)
			r.Get("/", cfg.MaterialHandler.List)
			r.Get("/choices", cfg.MaterialHandler.Choices)
			r.Get("/{id}", cfg.MaterialHandler.Get)
			r.With(adminOnly).Patch("/{id}", cfg.MaterialHandler.Update)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByMaterial)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/summary", cfg.SummaryHandler.Get)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Put("/{id}", cfg.EntryHandler.Update)
			r.With(adminOnly).Delete("/{id}", cfg.EntryHandler.Delete)
			r.With(adminOnly).Post("/{id}/reverse", cfg.EntryHandler.Reverse)
		})

		if cfg.CustomerHandler != nil {
			r.Route("/customers", func(r chi.Router) {
				r.Post("/", cfg.CustomerHandler.Create)
				r.Get("/", cfg.CustomerHandler.List)
				r.Get("/{id}", cfg.CustomerHandler.Get)
				r.Patch("/{id}", cfg.CustomerHandler.Update)
				r.Post("/{id}/visits", cfg.CustomerHandler.Visit)
				r.With(adminOnly).Delete("/{id}", cfg.CustomerHandler.Delete)
			})
		}

		if cfg.ChargeHandler != nil {
			r.Route("/event-types", func(r chi.Router) {
				r.With(adminOnly).Post("/", cfg.ChargeHandler.CreateEventType)
				r.Get("/", cfg.ChargeHandler.ListEventTypes)
				r.Get("/choices", cfg.ChargeHandler.EventTypeChoices)
			})

			r.Route("/extra-charges", func(r chi.Router) {
				r.Post("/", cfg.ChargeHandler.Create)
				r.Get("/", cfg.ChargeHandler.List)
				r.Get("/{id}", cfg.ChargeHandler.Get)
				r.Patch("/{id}", cfg.ChargeHandler.Update)
				r.With(adminOnly).Delete("/{id}", cfg.ChargeHandler.Delete)
			})
		}
	})

	return r
}
