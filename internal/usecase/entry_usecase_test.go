package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/metrics"
	"github.com/iho/ledgerform/internal/usecase"
	"github.com/iho/ledgerform/internal/usecase/mocks"
)

type entryFixture struct {
	txManager *mocks.MockTransactionManager
	tx        *mocks.MockTransaction
	retrier   *mocks.MockRetrier
	entryRepo *mocks.MockJournalEntryRepository
	lineRepo  *mocks.MockEntryLineRepository
	allocRepo *mocks.MockAllocationRepository
	refRepo   *mocks.MockReferenceRepository
	idGen     *mocks.MockIDGenerator
	metrics   *metrics.Metrics
	uc        *usecase.EntryUseCase
}

func newEntryFixture(t *testing.T) *entryFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &entryFixture{
		txManager: mocks.NewMockTransactionManager(ctrl),
		tx:        mocks.NewMockTransaction(ctrl),
		retrier:   mocks.NewMockRetrier(ctrl),
		entryRepo: mocks.NewMockJournalEntryRepository(ctrl),
		lineRepo:  mocks.NewMockEntryLineRepository(ctrl),
		allocRepo: mocks.NewMockAllocationRepository(ctrl),
		refRepo:   mocks.NewMockReferenceRepository(ctrl),
		idGen:     mocks.NewMockIDGenerator(ctrl),
		metrics:   metrics.NewWithRegistry(prometheus.NewRegistry()),
	}

	f.retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, op func() error) error { return op() }).
		AnyTimes()
	f.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	f.idGen.EXPECT().Generate().Return("generated-id").AnyTimes()

	f.uc = usecase.NewEntryUseCase(f.txManager, f.retrier, f.entryRepo, f.lineRepo, f.allocRepo, f.refRepo, f.idGen, f.metrics)
	return f
}

func (f *entryFixture) expectCommit() {
	f.txManager.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.tx.EXPECT().Commit(gomock.Any()).Return(nil)
}

func line(id string, side domain.Side, amount string, class domain.AccountClass) *domain.EntryLine {
	return &domain.EntryLine{
		ID:           id,
		EntryID:      "entry-1",
		AccountID:    "acc-" + id,
		AccountCode:  "1.1." + id,
		AccountClass: class,
		Amount:       decimal.RequireFromString(amount),
		Side:         side,
		Active:       true,
	}
}

func TestEntryUseCase_CreateEntry(t *testing.T) {
	f := newEntryFixture(t)

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	f.entryRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.JournalEntry) error {
			if e.ID != "generated-id" || e.Active {
				t.Errorf("unexpected entry: %+v", e)
			}
			return nil
		})

	entry, err := f.uc.CreateEntry(context.Background(), usecase.CreateEntryInput{
		EntryDate:      date,
		CompetenceDate: date,
		DocumentNumber: "  NF-1  ",
		BranchID:       "br-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Kind != domain.EntryKindNormal || entry.Origin != domain.EntryOriginManual {
		t.Errorf("expected default kind and origin, got %q %q", entry.Kind, entry.Origin)
	}

	if entry.DocumentNumber != "NF-1" {
		t.Errorf("expected trimmed document number, got %q", entry.DocumentNumber)
	}

	if got := testutil.ToFloat64(f.metrics.EntriesCreated); got != 1 {
		t.Errorf("expected 1 created entry, got %v", got)
	}
}

func TestEntryUseCase_CreateEntry_InvalidHeader(t *testing.T) {
	f := newEntryFixture(t)

	_, err := f.uc.CreateEntry(context.Background(), usecase.CreateEntryInput{
		Kind: "9",
	})
	if !errors.Is(err, domain.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestEntryUseCase_ListEntries_ClampsPagination(t *testing.T) {
	f := newEntryFixture(t)

	f.entryRepo.EXPECT().List(gomock.Any(), 100, 0).Return([]*domain.JournalEntry{{ID: "e1"}}, nil)

	entries, err := f.uc.ListEntries(context.Background(), 500, -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestEntryUseCase_AddLine(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.AddLineInput
		setup     func(f *entryFixture)
		wantErr   error
		wantCents string
	}{
		{
			name: "adds line with account details",
			input: usecase.AddLineInput{
				EntryID:   "entry-1",
				AccountID: "acc-1",
				Amount:    decimal.RequireFromString("10.005"),
				Side:      domain.SideDebit,
			},
			setup: func(f *entryFixture) {
				f.entryRepo.EXPECT().GetByID(gomock.Any(), "entry-1").Return(&domain.JournalEntry{ID: "entry-1", BranchID: "br-1"}, nil)
				f.refRepo.EXPECT().GetAccount(gomock.Any(), "acc-1").Return(&domain.Account{ID: "acc-1", Code: "3.1", Class: domain.AccountClassRevenue}, nil)
				f.expectCommit()
				f.lineRepo.EXPECT().Create(gomock.Any(), f.tx, gomock.Any()).Return(nil)
			},
			wantCents: "10.01",
		},
		{
			name: "rejects unknown side",
			input: usecase.AddLineInput{
				EntryID: "entry-1", AccountID: "acc-1", Amount: decimal.NewFromInt(1), Side: "X",
			},
			setup:   func(f *entryFixture) {},
			wantErr: domain.ErrInvalidSide,
		},
		{
			name: "rejects zero amount",
			input: usecase.AddLineInput{
				EntryID: "entry-1", AccountID: "acc-1", Amount: decimal.Zero, Side: domain.SideCredit,
			},
			setup:   func(f *entryFixture) {},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "rejects amount that rounds to zero",
			input: usecase.AddLineInput{
				EntryID: "entry-1", AccountID: "acc-1", Amount: decimal.RequireFromString("0.004"), Side: domain.SideCredit,
			},
			setup:   func(f *entryFixture) {},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown account",
			input: usecase.AddLineInput{
				EntryID: "entry-1", AccountID: "missing", Amount: decimal.NewFromInt(1), Side: domain.SideCredit,
			},
			setup: func(f *entryFixture) {
				f.entryRepo.EXPECT().GetByID(gomock.Any(), "entry-1").Return(&domain.JournalEntry{ID: "entry-1"}, nil)
				f.refRepo.EXPECT().GetAccount(gomock.Any(), "missing").Return(nil, domain.ErrAccountNotFound)
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEntryFixture(t)
			tt.setup(f)

			got, err := f.uc.AddLine(context.Background(), tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.Amount.StringFixed(2) != tt.wantCents {
				t.Errorf("expected amount %s, got %s", tt.wantCents, got.Amount.StringFixed(2))
			}
			if got.BranchID != "br-1" || got.AccountClass != domain.AccountClassRevenue || got.Currency != usecase.DefaultCurrency {
				t.Errorf("unexpected line: %+v", got)
			}
			if !got.Active {
				t.Errorf("expected new line to be active")
			}
		})
	}
}

func TestEntryUseCase_RemoveLine_WrongEntry(t *testing.T) {
	f := newEntryFixture(t)

	f.lineRepo.EXPECT().GetByID(gomock.Any(), "line-1").Return(&domain.EntryLine{ID: "line-1", EntryID: "other"}, nil)

	err := f.uc.RemoveLine(context.Background(), "entry-1", "line-1")
	if !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestEntryUseCase_RemoveLine(t *testing.T) {
	f := newEntryFixture(t)

	f.lineRepo.EXPECT().GetByID(gomock.Any(), "line-1").Return(&domain.EntryLine{ID: "line-1", EntryID: "entry-1"}, nil)
	f.expectCommit()
	f.lineRepo.EXPECT().Delete(gomock.Any(), f.tx, "line-1").Return(nil)

	if err := f.uc.RemoveLine(context.Background(), "entry-1", "line-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(f.metrics.LinesRemoved); got != 1 {
		t.Errorf("expected 1 removed line, got %v", got)
	}
}

func TestEntryUseCase_GetTotals(t *testing.T) {
	f := newEntryFixture(t)

	inactive := line("3", domain.SideDebit, "999", domain.AccountClassAsset)
	inactive.Active = false

	f.entryRepo.EXPECT().GetByID(gomock.Any(), "entry-1").Return(&domain.JournalEntry{ID: "entry-1"}, nil)
	f.lineRepo.EXPECT().ListByEntry(gomock.Any(), "entry-1").Return([]*domain.EntryLine{
		line("1", domain.SideDebit, "150.00", domain.AccountClassAsset),
		line("2", domain.SideCredit, "100.00", domain.AccountClassAsset),
		inactive,
	}, nil)

	totals, err := f.uc.GetTotals(context.Background(), "entry-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !totals.Debit.Equal(decimal.NewFromInt(150)) || !totals.Credit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected totals: %+v", totals)
	}

	if totals.Balanced() {
		t.Errorf("expected unbalanced totals")
	}
}

func TestEntryUseCase_GetTotals_EntryNotFound(t *testing.T) {
	f := newEntryFixture(t)

	f.entryRepo.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, domain.ErrEntryNotFound)

	_, err := f.uc.GetTotals(context.Background(), "nope")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryUseCase_SaveEntry(t *testing.T) {
	ccAlloc := func(lineID, target, amount string) *domain.Allocation {
		return &domain.Allocation{LineID: lineID, TargetID: target, Kind: domain.AllocationCostCenter, Amount: decimal.RequireFromString(amount)}
	}

	tests := []struct {
		name        string
		lines       []*domain.EntryLine
		costCenters []*domain.Allocation
		projects    []*domain.Allocation
		wantErr     error
		reason      string
	}{
		{
			name: "balanced asset entry",
			lines: []*domain.EntryLine{
				line("1", domain.SideDebit, "100.00", domain.AccountClassAsset),
				line("2", domain.SideCredit, "100.00", domain.AccountClassLiability),
			},
		},
		{
			name: "unbalanced entry",
			lines: []*domain.EntryLine{
				line("1", domain.SideDebit, "100.00", domain.AccountClassAsset),
				line("2", domain.SideCredit, "99.99", domain.AccountClassLiability),
			},
			wantErr: domain.ErrUnbalancedEntry,
			reason:  "unbalanced",
		},
		{
			name:  "entry without lines saves",
			lines: nil,
		},
		{
			name: "expense without cost center",
			lines: []*domain.EntryLine{
				line("1", domain.SideDebit, "50.00", domain.AccountClassExpense),
				line("2", domain.SideCredit, "50.00", domain.AccountClassAsset),
			},
			wantErr: domain.ErrCostCenterAllocationRequired,
			reason:  "cost_center_required",
		},
		{
			name: "expense with matching cost centers",
			lines: []*domain.EntryLine{
				line("1", domain.SideDebit, "50.00", domain.AccountClassExpense),
				line("2", domain.SideCredit, "50.00", domain.AccountClassAsset),
			},
			costCenters: []*domain.Allocation{ccAlloc("1", "cc-a", "20.00"), ccAlloc("1", "cc-b", "30.00")},
		},
		{
			name: "cost centers short of line amount",
			lines: []*domain.EntryLine{
				line("1", domain.SideDebit, "50.00", domain.AccountClassExpense),
				line("2", domain.SideCredit, "50.00", domain.AccountClassAsset),
			},
			costCenters: []*domain.Allocation{ccAlloc("1", "cc-a", "20.00")},
			wantErr:     domain.ErrAllocationMismatch,
			reason:      "allocation_mismatch",
		},
		{
			name: "project allocations must match too",
			lines: []*domain.EntryLine{
				line("1", domain.SideDebit, "50.00", domain.AccountClassAsset),
				line("2", domain.SideCredit, "50.00", domain.AccountClassAsset),
			},
			projects: []*domain.Allocation{{LineID: "2", TargetID: "p-1", Kind: domain.AllocationProject, Amount: decimal.NewFromInt(10)}},
			wantErr:  domain.ErrAllocationMismatch,
			reason:   "allocation_mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEntryFixture(t)

			entry := &domain.JournalEntry{ID: "entry-1"}
			f.txManager.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
			f.entryRepo.EXPECT().GetByIDForUpdate(gomock.Any(), f.tx, "entry-1").Return(entry, nil)
			f.lineRepo.EXPECT().ListByEntry(gomock.Any(), "entry-1").Return(tt.lines, nil)
			if len(tt.lines) > 0 {
				f.allocRepo.EXPECT().ListByLines(gomock.Any(), domain.AllocationCostCenter, gomock.Any()).Return(tt.costCenters, nil)
				f.allocRepo.EXPECT().ListByLines(gomock.Any(), domain.AllocationProject, gomock.Any()).Return(tt.projects, nil)
			}

			if tt.wantErr == nil {
				f.entryRepo.EXPECT().Update(gomock.Any(), f.tx, entry).Return(nil)
				f.tx.EXPECT().Commit(gomock.Any()).Return(nil)
			}

			saved, err := f.uc.SaveEntry(context.Background(), "entry-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if got := testutil.ToFloat64(f.metrics.SaveRejections.WithLabelValues(tt.reason)); got != 1 {
					t.Errorf("expected rejection %q to be counted, got %v", tt.reason, got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !saved.Active || saved.UpdatedAt.IsZero() {
				t.Errorf("expected saved entry to be active and touched: %+v", saved)
			}
			if got := testutil.ToFloat64(f.metrics.EntriesSaved); got != 1 {
				t.Errorf("expected 1 saved entry, got %v", got)
			}
		})
	}
}

func TestEntryUseCase_SaveEntry_RetriesOperation(t *testing.T) {
	ctrl := gomock.NewController(t)

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)
	entryRepo := mocks.NewMockJournalEntryRepository(ctrl)
	lineRepo := mocks.NewMockEntryLineRepository(ctrl)
	allocRepo := mocks.NewMockAllocationRepository(ctrl)

	transient := errors.New("deadlock detected")

	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, op func() error) error {
			if err := op(); !errors.Is(err, transient) {
				t.Fatalf("expected transient error on first attempt, got %v", err)
			}
			return op()
		})

	tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(2)

	entry := &domain.JournalEntry{ID: "entry-1"}
	entryRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "entry-1").Return(nil, transient)
	entryRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "entry-1").Return(entry, nil)
	lineRepo.EXPECT().ListByEntry(gomock.Any(), "entry-1").Return([]*domain.EntryLine{
		line("1", domain.SideDebit, "5", domain.AccountClassAsset),
		line("2", domain.SideCredit, "5", domain.AccountClassAsset),
	}, nil)
	allocRepo.EXPECT().ListByLines(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	entryRepo.EXPECT().Update(gomock.Any(), tx, entry).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)

	uc := usecase.NewEntryUseCase(txManager, retrier, entryRepo, lineRepo, allocRepo, nil, nil, nil)

	if _, err := uc.SaveEntry(context.Background(), "entry-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntryUseCase_DeleteEntry(t *testing.T) {
	f := newEntryFixture(t)

	f.expectCommit()
	f.entryRepo.EXPECT().GetByIDForUpdate(gomock.Any(), f.tx, "entry-1").Return(&domain.JournalEntry{ID: "entry-1"}, nil)
	f.entryRepo.EXPECT().Delete(gomock.Any(), f.tx, "entry-1").Return(nil)

	if err := f.uc.DeleteEntry(context.Background(), "entry-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntryUseCase_DeleteEntry_NotFound(t *testing.T) {
	f := newEntryFixture(t)

	f.txManager.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.entryRepo.EXPECT().GetByIDForUpdate(gomock.Any(), f.tx, "missing").Return(nil, domain.ErrEntryNotFound)

	err := f.uc.DeleteEntry(context.Background(), "missing")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}
