package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerform/internal/adapter/http/view"
	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/locale"
	"github.com/iho/ledgerform/internal/usecase"
)

type entryServiceStub struct {
	createFn   func(ctx context.Context, input usecase.CreateEntryInput) (*domain.JournalEntry, error)
	getFn      func(ctx context.Context, id string) (*domain.JournalEntry, error)
	listFn     func(ctx context.Context, limit, offset int) ([]*domain.JournalEntry, error)
	deleteFn   func(ctx context.Context, id string) error
	addLineFn  func(ctx context.Context, input usecase.AddLineInput) (*domain.EntryLine, error)
	removeFn   func(ctx context.Context, entryID, lineID string) error
	linesFn    func(ctx context.Context, entryID string) ([]*domain.EntryLine, error)
	totalsFn   func(ctx context.Context, entryID string) (domain.Totals, error)
	saveFn     func(ctx context.Context, id string) (*domain.JournalEntry, error)
	accountsFn func(ctx context.Context) ([]*domain.Account, error)
}

func (s *entryServiceStub) CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.JournalEntry, error) {
	return s.createFn(ctx, input)
}

func (s *entryServiceStub) GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return s.getFn(ctx, id)
}

func (s *entryServiceStub) ListEntries(ctx context.Context, limit, offset int) ([]*domain.JournalEntry, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *entryServiceStub) DeleteEntry(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *entryServiceStub) AddLine(ctx context.Context, input usecase.AddLineInput) (*domain.EntryLine, error) {
	return s.addLineFn(ctx, input)
}

func (s *entryServiceStub) RemoveLine(ctx context.Context, entryID, lineID string) error {
	return s.removeFn(ctx, entryID, lineID)
}

func (s *entryServiceStub) GetLines(ctx context.Context, entryID string) ([]*domain.EntryLine, error) {
	return s.linesFn(ctx, entryID)
}

func (s *entryServiceStub) GetTotals(ctx context.Context, entryID string) (domain.Totals, error) {
	return s.totalsFn(ctx, entryID)
}

func (s *entryServiceStub) SaveEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return s.saveFn(ctx, id)
}

func (s *entryServiceStub) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	if s.accountsFn == nil {
		return nil, nil
	}
	return s.accountsFn(ctx)
}

type allocationServiceStub struct {
	getGridFn func(ctx context.Context, kind domain.AllocationKind, lineID string) (*usecase.AllocationGrid, error)
	renderFn  func(ctx context.Context, kind domain.AllocationKind, lineID string, render usecase.GridRenderer) ([]byte, error)
	replaceFn func(ctx context.Context, input usecase.ReplaceAllocationsInput) ([]*domain.Allocation, error)
}

func (s *allocationServiceStub) GetGrid(ctx context.Context, kind domain.AllocationKind, lineID string) (*usecase.AllocationGrid, error) {
	return s.getGridFn(ctx, kind, lineID)
}

func (s *allocationServiceStub) RenderGrid(ctx context.Context, kind domain.AllocationKind, lineID string, render usecase.GridRenderer) ([]byte, error) {
	return s.renderFn(ctx, kind, lineID, render)
}

func (s *allocationServiceStub) ReplaceAllocations(ctx context.Context, input usecase.ReplaceAllocationsInput) ([]*domain.Allocation, error) {
	return s.replaceFn(ctx, input)
}

type balanceServiceStub struct {
	recalcFn   func(ctx context.Context, branchID, periodID string) (*usecase.RecalculationResult, error)
	balancesFn func(ctx context.Context, branchID, periodID string, kind domain.BalanceKind) ([]*domain.PeriodBalance, error)
	periodsFn  func(ctx context.Context) ([]*domain.Period, error)
}

func (s *balanceServiceStub) RecalculatePeriod(ctx context.Context, branchID, periodID string) (*usecase.RecalculationResult, error) {
	return s.recalcFn(ctx, branchID, periodID)
}

func (s *balanceServiceStub) ListPeriodBalances(ctx context.Context, branchID, periodID string, kind domain.BalanceKind) ([]*domain.PeriodBalance, error) {
	return s.balancesFn(ctx, branchID, periodID, kind)
}

func (s *balanceServiceStub) ListPeriods(ctx context.Context) ([]*domain.Period, error) {
	return s.periodsFn(ctx)
}

func newTestRenderer(t *testing.T) *view.Renderer {
	t.Helper()

	r, err := view.New(locale.PtBR)
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	return r
}

// withURLParams attaches chi route parameters given as key, value pairs.
func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
