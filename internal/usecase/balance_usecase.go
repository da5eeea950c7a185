package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/metrics"
)

// BalanceUseCase recalculates and reads period balances.
type BalanceUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	lineRepo    EntryLineRepository
	allocRepo   AllocationRepository
	refRepo     ReferenceRepository
	balanceRepo BalanceRepository
	metrics     *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	txManager TransactionManager,
	retrier Retrier,
	lineRepo EntryLineRepository,
	allocRepo AllocationRepository,
	refRepo ReferenceRepository,
	balanceRepo BalanceRepository,
	metrics *metrics.Metrics,
) *BalanceUseCase {
	return &BalanceUseCase{
		txManager:   txManager,
		retrier:     retrier,
		lineRepo:    lineRepo,
		allocRepo:   allocRepo,
		refRepo:     refRepo,
		balanceRepo: balanceRepo,
		metrics:     metrics,
	}
}

// RecalculationResult summarises one recalculation.
type RecalculationResult struct {
	BranchID    string
	PeriodID    string
	Lines       int
	Accounts    int
	CostCenters int
	Projects    int
}

// RecalculatePeriod aggregates the posted lines of a branch within a period
// into account, cost-center and project balances. Existing rows keep their
// opening; closing is opening + debit - credit.
func (uc *BalanceUseCase) RecalculatePeriod(ctx context.Context, branchID, periodID string) (*RecalculationResult, error) {
	start := time.Now()

	branchID = strings.TrimSpace(branchID)
	period, err := uc.refRepo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	lines, err := uc.lineRepo.ListPosted(ctx, branchID, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	lineIDs := make([]string, 0, len(lines))
	byID := make(map[string]*domain.EntryLine, len(lines))
	for _, l := range lines {
		lineIDs = append(lineIDs, l.ID)
		byID[l.ID] = l
	}

	accounts := newBalanceSet(domain.BalanceAccount, branchID, period.ID)
	for _, l := range lines {
		accounts.add(l.AccountID, "", l.Side, l.Amount)
	}

	costCenters := newBalanceSet(domain.BalanceCostCenter, branchID, period.ID)
	projects := newBalanceSet(domain.BalanceProject, branchID, period.ID)

	if len(lineIDs) > 0 {
		if err := uc.aggregateAllocations(ctx, domain.AllocationCostCenter, lineIDs, byID, costCenters); err != nil {
			return nil, err
		}
		if err := uc.aggregateAllocations(ctx, domain.AllocationProject, lineIDs, byID, projects); err != nil {
			return nil, err
		}
	}

	all := make([]*domain.PeriodBalance, 0, accounts.len()+costCenters.len()+projects.len())
	all = append(all, accounts.sorted()...)
	all = append(all, costCenters.sorted()...)
	all = append(all, projects.sorted()...)

	err = uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := uc.balanceRepo.Upsert(txCtx, tx, all); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceRecalculations.Inc()
		uc.metrics.BalanceRows.WithLabelValues(string(domain.BalanceAccount)).Add(float64(accounts.len()))
		uc.metrics.BalanceRows.WithLabelValues(string(domain.BalanceCostCenter)).Add(float64(costCenters.len()))
		uc.metrics.BalanceRows.WithLabelValues(string(domain.BalanceProject)).Add(float64(projects.len()))
		uc.metrics.RecalcDuration.Observe(time.Since(start).Seconds())
	}

	return &RecalculationResult{
		BranchID:    branchID,
		PeriodID:    period.ID,
		Lines:       len(lines),
		Accounts:    accounts.len(),
		CostCenters: costCenters.len(),
		Projects:    projects.len(),
	}, nil
}

func (uc *BalanceUseCase) aggregateAllocations(
	ctx context.Context,
	kind domain.AllocationKind,
	lineIDs []string,
	lines map[string]*domain.EntryLine,
	set *balanceSet,
) error {
	allocs, err := uc.allocRepo.ListByLines(ctx, kind, lineIDs)
	if err != nil {
		return err
	}

	for _, a := range allocs {
		line, ok := lines[a.LineID]
		if !ok {
			continue
		}
		set.add(line.AccountID, a.TargetID, line.Side, a.Amount)
	}

	return nil
}

// ListPeriodBalances lists the stored balances of one kind.
func (uc *BalanceUseCase) ListPeriodBalances(ctx context.Context, branchID, periodID string, kind domain.BalanceKind) ([]*domain.PeriodBalance, error) {
	switch kind {
	case domain.BalanceAccount, domain.BalanceCostCenter, domain.BalanceProject:
	case "":
		kind = domain.BalanceAccount
	default:
		return nil, domain.ErrInvalidBalanceKind
	}

	if _, err := uc.refRepo.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}

	return uc.balanceRepo.ListByPeriod(ctx, strings.TrimSpace(branchID), periodID, kind)
}

// ListPeriods lists the accounting periods.
func (uc *BalanceUseCase) ListPeriods(ctx context.Context) ([]*domain.Period, error) {
	return uc.refRepo.ListPeriods(ctx)
}

type balanceSet struct {
	kind     domain.BalanceKind
	branchID string
	periodID string
	rows     map[string]*domain.PeriodBalance
}

func newBalanceSet(kind domain.BalanceKind, branchID, periodID string) *balanceSet {
	return &balanceSet{
		kind:     kind,
		branchID: branchID,
		periodID: periodID,
		rows:     make(map[string]*domain.PeriodBalance),
	}
}

func (s *balanceSet) add(accountID, targetID string, side domain.Side, amount decimal.Decimal) {
	key := accountID + "/" + targetID
	b, ok := s.rows[key]
	if !ok {
		b = &domain.PeriodBalance{
			AccountID: accountID,
			BranchID:  s.branchID,
			PeriodID:  s.periodID,
			TargetID:  targetID,
			Kind:      s.kind,
			Opening:   decimal.Zero,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
		}
		s.rows[key] = b
	}

	switch side {
	case domain.SideDebit:
		b.Debit = b.Debit.Add(amount)
	case domain.SideCredit:
		b.Credit = b.Credit.Add(amount)
	}
	b.Close()
}

func (s *balanceSet) len() int {
	return len(s.rows)
}

func (s *balanceSet) sorted() []*domain.PeriodBalance {
	out := make([]*domain.PeriodBalance, 0, len(s.rows))
	for _, b := range s.rows {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}
