package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerform/internal/adapter/http/handler"
	apimiddleware "github.com/iho/ledgerform/internal/adapter/http/middleware"
	"github.com/iho/ledgerform/internal/adapter/http/view"
	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/metrics"
	"github.com/iho/ledgerform/internal/locale"
	"github.com/iho/ledgerform/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
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
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	req := httptest.NewRequest(http.MethodPost, "/lancamentos/e-1/salvar/", nil)
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_FormFlow(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.Metrics = m
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lancamentos/e-1/editar/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected edit page, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `id="total-debito">100,00<`) {
		t.Errorf("expected totals computed on the page: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lancamentos/rateio-projeto/?item=l-1", nil))
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), `<div id="grid-projeto"`) {
		t.Fatalf("expected project grid fragment, got %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/lancamentos/e-1/salvar/", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get("HX-Redirect") != "/lancamentos/" {
		t.Fatalf("expected HX-Redirect after save, got %d %v", rec.Code, rec.Header())
	}

	counter := m.HTTPRequests.WithLabelValues(http.MethodGet, "/lancamentos/{id}/editar/", "200")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Errorf("expected the edit request counted by route, got %v", got)
	}
}

func TestNewRouter_RecalculateForm(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	form := url.Values{"filial_id": {"br-1"}, "periodo_id": {"2024-03"}}
	req := httptest.NewRequest(http.MethodPost, "/lancamentos/recalcular-saldo/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "recalculo-resultado") {
		t.Fatalf("expected recalculation partial, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	m.EntriesSaved.Inc()

	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "ledgerform_entries_saved_total 1") {
		t.Fatalf("expected exported counter, got %s", rec.Body.String())
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

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
		"GET /metrics",
		"GET /lancamentos/",
		"POST /lancamentos/",
		"GET /lancamentos/novo/",
		"GET /lancamentos/{id}/editar/",
		"POST /lancamentos/{id}/itens/",
		"POST /lancamentos/{id}/itens/{item}/excluir/",
		"POST /lancamentos/{id}/salvar/",
		"POST /lancamentos/{id}/excluir/",
		"GET /lancamentos/rateio-cc/",
		"GET /lancamentos/rateio-projeto/",
		"POST /lancamentos/rateio-cc/salvar/",
		"POST /lancamentos/rateio-projeto/salvar/",
		"POST /lancamentos/recalcular-saldo/",
		"GET /api/v1/entries/{id}",
		"GET /api/v1/entries/{id}/totals",
		"GET /api/v1/balances",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(t *testing.T, opts ...func(*RouterConfig)) RouterConfig {
	t.Helper()

	renderer, err := view.New(locale.PtBR)
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	entries := stubEntryService{}
	balances := stubBalanceService{}
	log := zerolog.Nop()

	cfg := RouterConfig{
		FormHandler:    handler.NewFormHandler(entries, renderer, log, nil),
		GridHandler:    handler.NewGridHandler(stubAllocationService{}, renderer, log),
		BalanceHandler: handler.NewBalanceHandler(balances, renderer, log),
		APIHandler:     handler.NewAPIHandler(entries, balances),
		HealthHandler:  handler.NewHealthHandler(handler.PingerFunc(func(context.Context) error { return nil }), nil),
		MetricsHandler: promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
		Logger:         log,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubEntryService struct{}

func (stubEntryService) CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.JournalEntry, error) {
	return &domain.JournalEntry{ID: "e-1"}, nil
}

func (stubEntryService) GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return &domain.JournalEntry{ID: id, Kind: domain.EntryKindNormal}, nil
}

func (stubEntryService) ListEntries(ctx context.Context, limit, offset int) ([]*domain.JournalEntry, error) {
	return []*domain.JournalEntry{}, nil
}

func (stubEntryService) DeleteEntry(ctx context.Context, id string) error {
	return nil
}

func (stubEntryService) AddLine(ctx context.Context, input usecase.AddLineInput) (*domain.EntryLine, error) {
	return &domain.EntryLine{ID: "l-2"}, nil
}

func (stubEntryService) RemoveLine(ctx context.Context, entryID, lineID string) error {
	return nil
}

func (stubEntryService) GetLines(ctx context.Context, entryID string) ([]*domain.EntryLine, error) {
	return []*domain.EntryLine{
		{ID: "l-1", Side: domain.SideDebit, Amount: decimal.NewFromInt(100)},
		{ID: "l-2", Side: domain.SideCredit, Amount: decimal.NewFromInt(100)},
	}, nil
}

func (stubEntryService) GetTotals(ctx context.Context, entryID string) (domain.Totals, error) {
	return domain.Totals{Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)}, nil
}

func (stubEntryService) SaveEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return &domain.JournalEntry{ID: id, Active: true}, nil
}

func (stubEntryService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return []*domain.Account{}, nil
}

type stubAllocationService struct{}

func (stubAllocationService) GetGrid(ctx context.Context, kind domain.AllocationKind, lineID string) (*usecase.AllocationGrid, error) {
	return &usecase.AllocationGrid{Kind: kind, Line: &domain.EntryLine{ID: lineID}}, nil
}

func (s stubAllocationService) RenderGrid(ctx context.Context, kind domain.AllocationKind, lineID string, render usecase.GridRenderer) ([]byte, error) {
	grid, _ := s.GetGrid(ctx, kind, lineID)
	return render(grid)
}

func (stubAllocationService) ReplaceAllocations(ctx context.Context, input usecase.ReplaceAllocationsInput) ([]*domain.Allocation, error) {
	return nil, nil
}

type stubBalanceService struct{}

func (stubBalanceService) RecalculatePeriod(ctx context.Context, branchID, periodID string) (*usecase.RecalculationResult, error) {
	return &usecase.RecalculationResult{BranchID: branchID, PeriodID: periodID}, nil
}

func (stubBalanceService) ListPeriodBalances(ctx context.Context, branchID, periodID string, kind domain.BalanceKind) ([]*domain.PeriodBalance, error) {
	return []*domain.PeriodBalance{}, nil
}

func (stubBalanceService) ListPeriods(ctx context.Context) ([]*domain.Period, error) {
	return []*domain.Period{}, nil
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
