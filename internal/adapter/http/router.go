package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/cashbox/internal/adapter/http/handler"
	"github.com/iho/cashbox/internal/adapter/http/middleware"
	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/infrastructure/metrics"
	"github.com/iho/cashbox/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	RequestHandler    *handler.RequestHandler
	CashBoxHandler    *handler.CashBoxHandler
	SupervisorHandler *handler.SupervisorHandler
	LedgerHandler     *handler.LedgerHandler
	HealthHandler     *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger

	// TokenVerifier enables bearer authentication when set. Without it
	// every caller is anonymous and the supervisor routes are open.
	TokenVerifier middleware.TokenVerifier

	// AllowOverrides mounts the supervisor override opening route.
	AllowOverrides bool
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.TokenVerifier != nil {
			r.Use(middleware.Authenticate(cfg.TokenVerifier))
		}
		r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		supervisorOnly := func(r chi.Router) {
			if cfg.TokenVerifier != nil {
				r.Use(middleware.RequireRole(domain.RoleSupervisor, domain.RoleAdmin))
			}
		}

		// Opening requests
		r.Route("/cashbox-requests", func(r chi.Router) {
			r.Post("/", cfg.RequestHandler.Submit)
			r.Get("/approval", cfg.RequestHandler.Approval)
			r.Get("/{id}", cfg.RequestHandler.Get)
			r.Post("/{id}/cancel", cfg.RequestHandler.Cancel)

			r.Group(func(r chi.Router) {
				supervisorOnly(r)
				r.Get("/pending", cfg.RequestHandler.ListPending)
				r.Post("/{id}/approve", cfg.RequestHandler.Approve)
				r.Post("/{id}/reject", cfg.RequestHandler.Reject)
			})
		})
		r.Get("/collectors/{collectorID}/cashbox-requests", cfg.RequestHandler.ListForCollector)

		// Cash boxes
		r.Route("/cashboxes", func(r chi.Router) {
			r.Post("/", cfg.CashBoxHandler.Open)
			if cfg.AllowOverrides {
				r.Group(func(r chi.Router) {
					supervisorOnly(r)
					r.Post("/override", cfg.CashBoxHandler.OpenOverride)
				})
			}

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.CashBoxHandler.Get)
				r.Get("/totals", cfg.CashBoxHandler.Totals)
				r.Get("/breakdown", cfg.CashBoxHandler.Breakdown)
				r.Post("/income", cfg.CashBoxHandler.AddIncome)
				r.Post("/collections", cfg.CashBoxHandler.Collect)
				r.Post("/expenses", cfg.CashBoxHandler.AddExpense)
				r.Delete("/expenses/{expenseID}", cfg.CashBoxHandler.RemoveExpense)
				r.Post("/close", cfg.CashBoxHandler.Close)
			})
		})

		// Supervisor views
		r.Route("/supervisor", func(r chi.Router) {
			supervisorOnly(r)
			r.Get("/boxes/open", cfg.SupervisorHandler.OpenBoxes)
			r.Get("/boxes/history", cfg.SupervisorHandler.History)
			r.Post("/boxes/{id}/close", cfg.SupervisorHandler.CloseBox)
			r.Get("/summary", cfg.SupervisorHandler.Summary)
			r.Get("/reconciliation", cfg.SupervisorHandler.Reconciliation)
		})

		r.Group(func(r chi.Router) {
			supervisorOnly(r)
			r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
		})
	})

	return r
}
