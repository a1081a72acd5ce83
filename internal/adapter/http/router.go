package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/debtledger/internal/adapter/http/handler"
	"github.com/iho/debtledger/internal/adapter/http/middleware"
	"github.com/iho/debtledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AmountHandler     *handler.AmountHandler
	AssignmentHandler *handler.AssignmentHandler
	BillHandler       *handler.BillHandler
	ClientHandler     *handler.ClientHandler
	AuditHandler      *handler.AuditHandler
	QueueHandler      *handler.QueueHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Incoming amounts
		r.Route("/amounts", func(r chi.Router) {
			r.Post("/", cfg.AmountHandler.Create)
			r.Get("/", cfg.AmountHandler.Search)
			r.Get("/{id}", cfg.AmountHandler.Get)
			r.Get("/{id}/targets", cfg.AmountHandler.Targets)
			r.Post("/{id}/assign", cfg.AmountHandler.Assign)
			r.Get("/{id}/reversible", cfg.AmountHandler.Reversible)
			r.Post("/{id}/reversal-link", cfg.AmountHandler.LinkReversal)
			r.Get("/{id}/assignments", cfg.AssignmentHandler.ListByAmount)
			r.Post("/{id}/client", cfg.AssignmentHandler.ChangeClient)
		})

		// Assignments
		r.Route("/assignments", func(r chi.Router) {
			r.Post("/to-bill", cfg.AssignmentHandler.AssignToBill)
			r.Post("/to-amount", cfg.AssignmentHandler.AssignToAmount)
			r.Post("/{id}/reverse", cfg.AssignmentHandler.Reverse)
		})

		// Bills
		r.Route("/bills", func(r chi.Router) {
			r.Post("/", cfg.BillHandler.Create)
			r.Get("/{id}", cfg.BillHandler.Get)
			r.Post("/{id}/issue", cfg.BillHandler.Issue)
		})

		// Clients
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", cfg.ClientHandler.Create)
			r.Get("/{id}", cfg.ClientHandler.Get)
			r.Post("/{id}/bank-accounts", cfg.ClientHandler.AddBankAccount)
			r.Get("/{id}/bank-accounts", cfg.ClientHandler.ListBankAccounts)
			r.Get("/{id}/bills", cfg.ClientHandler.ListBills)
			r.Get("/{id}/amounts", cfg.ClientHandler.ListAmounts)
		})

		// Queue maintenance
		r.Post("/queue/sweep", cfg.QueueHandler.Sweep)

		// Audit trail
		r.Get("/audit-logs", cfg.AuditHandler.List)
	})

	return r
}
