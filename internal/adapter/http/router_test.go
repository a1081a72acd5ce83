package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/debtledger/internal/adapter/http/middleware"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
	"github.com/iho/debtledger/internal/usecase/mocks"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"name":"Karman Industries"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/amounts/",
		"GET /api/v1/amounts/",
		"GET /api/v1/amounts/{id}",
		"GET /api/v1/amounts/{id}/targets",
		"POST /api/v1/amounts/{id}/assign",
		"POST /api/v1/amounts/{id}/reversal-link",
		"POST /api/v1/assignments/to-bill",
		"POST /api/v1/assignments/{id}/reverse",
		"POST /api/v1/bills/",
		"POST /api/v1/bills/{id}/issue",
		"POST /api/v1/clients/",
		"POST /api/v1/queue/sweep",
		"GET /api/v1/audit-logs",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	amountRepo := mocks.NewMockAmountRepository()
	billRepo := mocks.NewMockBillRepository()
	assignmentRepo := mocks.NewMockAssignmentRepository()
	clientRepo := mocks.NewMockClientRepository()
	bankAccountRepo := mocks.NewMockBankAccountRepository()
	queueRepo := mocks.NewMockQueueRepository()
	auditRepo := mocks.NewMockAuditRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	matchingUC := usecase.NewMatchingUseCase(txManager, amountRepo, billRepo, assignmentRepo, bankAccountRepo, auditRepo, idGen)
	assignmentUC := usecase.NewAssignmentUseCase(txManager, amountRepo, billRepo, assignmentRepo, clientRepo, auditRepo, idGen, matchingUC)
	reversalUC := usecase.NewReversalUseCase(txManager, amountRepo, assignmentRepo, auditRepo, idGen)
	searchUC := usecase.NewPaymentSearchUseCase(amountRepo)
	billUC := usecase.NewBillUseCase(billRepo, clientRepo, txManager, idGen)
	clientUC := usecase.NewClientUseCase(clientRepo, bankAccountRepo, idGen)
	auditUC := usecase.NewAuditUseCase(auditRepo)

	registry := domain.NewProcessorRegistry()
	intakeUC := usecase.NewIntakeUseCase(txManager, amountRepo, queueRepo, idGen, registry, zerolog.Nop())

	cfg := RouterConfig{
		AmountHandler:     handler.NewAmountHandler(intakeUC, matchingUC, searchUC, reversalUC),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentUC, searchUC),
		BillHandler:       handler.NewBillHandler(billUC),
		ClientHandler:     handler.NewClientHandler(clientUC, billUC, searchUC),
		AuditHandler:      handler.NewAuditHandler(auditUC),
		QueueHandler:      handler.NewQueueHandler(intakeUC),
		HealthHandler:     &handler.HealthHandler{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
