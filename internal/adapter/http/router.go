package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sankopay/agencyledger/internal/adapter/http/handler"
	"github.com/sankopay/agencyledger/internal/adapter/http/middleware"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PostingHandler        *handler.PostingHandler
	ChartHandler          *handler.ChartHandler
	MappingHandler        *handler.MappingHandler
	FloatHandler          *handler.FloatHandler
	SettlementHandler     *handler.SettlementHandler
	ReconciliationHandler *handler.ReconciliationHandler
	StatementHandler      *handler.StatementHandler
	AuditHandler          *handler.AuditHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	Logger                zerolog.Logger
	RateLimit             float64
	RateBurst             int
}

// NewRouter creates the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Limit)
	}

	// Probes and metrics sit outside identity: the gateway never fronts them.
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity)

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
		}

		r.Route("/gl", func(r chi.Router) {
			r.Route("/postings", func(r chi.Router) {
				r.With(middleware.RequireMutate).Post("/", cfg.PostingHandler.Post)
				r.Get("/{id}", cfg.PostingHandler.Get)
				r.With(middleware.RequireMutate).Post("/{id}/reverse", cfg.PostingHandler.Reverse)
			})

			r.Route("/accounts", func(r chi.Router) {
				r.With(middleware.RequireConfigure).Post("/", cfg.ChartHandler.Create)
				r.Get("/", cfg.ChartHandler.List)
				r.With(middleware.RequireConfigure).Post("/seed", cfg.ChartHandler.Seed)
				r.Get("/code/{code}", cfg.ChartHandler.GetByCode)
				r.Get("/{id}", cfg.ChartHandler.Get)
				r.Get("/{id}/entries", cfg.ChartHandler.Entries)
				r.With(middleware.RequireConfigure).Delete("/{id}", cfg.ChartHandler.Deactivate)
			})
		})

		r.Route("/mappings", func(r chi.Router) {
			r.With(middleware.RequireConfigure).Post("/", cfg.MappingHandler.Create)
			r.Get("/", cfg.MappingHandler.List)
			r.With(middleware.RequireConfigure).Delete("/{id}", cfg.MappingHandler.Delete)
		})

		r.Route("/floats", func(r chi.Router) {
			r.With(middleware.RequireMutate).Post("/", cfg.FloatHandler.Create)
			r.Get("/", cfg.FloatHandler.List)
			r.Get("/{id}", cfg.FloatHandler.Get)
			r.With(middleware.RequireMutate).Post("/{id}/adjust", cfg.FloatHandler.Adjust)
			r.Get("/{id}/transactions", cfg.FloatHandler.Transactions)
		})

		r.With(middleware.RequireMutate).Post("/settlements", cfg.SettlementHandler.Create)

		r.Route("/reconciliation", func(r chi.Router) {
			r.Get("/report", cfg.ReconciliationHandler.Report)
			r.Post("/{floatAccountId}", cfg.ReconciliationHandler.Reconcile)
			r.With(middleware.RequireMutate).Post("/{floatAccountId}/repair", cfg.ReconciliationHandler.Repair)
		})

		r.Route("/statements", func(r chi.Router) {
			r.Get("/balance-sheet", cfg.StatementHandler.BalanceSheet)
			r.Get("/profit-and-loss", cfg.StatementHandler.ProfitAndLoss)
			r.Get("/equity", cfg.StatementHandler.Equity)
			r.Get("/trial-balance", cfg.StatementHandler.TrialBalance)
		})

		r.Route("/audit", func(r chi.Router) {
			r.Get("/", cfg.AuditHandler.List)
			r.Get("/resource/{type}/{id}", cfg.AuditHandler.Resource)
		})
	})

	return r
}
