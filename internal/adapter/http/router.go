package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerform/internal/adapter/http/handler"
	"github.com/iho/ledgerform/internal/adapter/http/middleware"
	"github.com/iho/ledgerform/internal/infrastructure/metrics"
	"github.com/iho/ledgerform/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	FormHandler      *handler.FormHandler
	GridHandler      *handler.GridHandler
	BalanceHandler   *handler.BalanceHandler
	APIHandler       *handler.APIHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	// MetricsHandler serves /metrics; promhttp.Handler() when nil.
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/lancamentos/", http.StatusFound)
	})

	// Entry form pages and fragments
	r.Route("/lancamentos", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Get("/", cfg.FormHandler.List)
		r.Post("/", cfg.FormHandler.Create)
		r.Get("/novo/", cfg.FormHandler.New)

		r.Get("/rateio-cc/", cfg.GridHandler.CostCenter)
		r.Post("/rateio-cc/salvar/", cfg.GridHandler.SaveCostCenter)
		r.Get("/rateio-projeto/", cfg.GridHandler.Project)
		r.Post("/rateio-projeto/salvar/", cfg.GridHandler.SaveProject)

		r.Get("/recalcular-saldo/", cfg.BalanceHandler.Page)
		r.Post("/recalcular-saldo/", cfg.BalanceHandler.Recalculate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/editar/", cfg.FormHandler.Edit)
			r.Post("/itens/", cfg.FormHandler.AddLine)
			r.Post("/itens/{item}/excluir/", cfg.FormHandler.RemoveLine)
			r.Post("/salvar/", cfg.FormHandler.Save)
			r.Post("/excluir/", cfg.FormHandler.Delete)
		})
	})

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Get("/entries/{id}", cfg.APIHandler.GetEntry)
		r.Get("/entries/{id}/totals", cfg.APIHandler.GetTotals)
		r.Get("/balances", cfg.APIHandler.ListBalances)
		r.Post("/balances/recalculate", cfg.APIHandler.Recalculate)
	})

	return r
}
