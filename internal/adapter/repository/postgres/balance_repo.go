package postgres

import (
	"context"
	"time"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/postgres/generated"
	"github.com/iho/ledgerform/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	queries *generated.Queries
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(db generated.DBTX) *BalanceRepository {
	return &BalanceRepository{
		queries: generated.New(db),
	}
}

// ListByPeriod lists the balances of one kind for a branch and period.
func (r *BalanceRepository) ListByPeriod(ctx context.Context, branchID, periodID string, kind domain.BalanceKind) ([]*domain.PeriodBalance, error) {
	rows, err := r.queries.ListPeriodBalances(ctx, generated.ListPeriodBalancesParams{
		BranchID: branchID,
		PeriodID: periodID,
		Kind:     string(kind),
	})
	if err != nil {
		return nil, err
	}

	balances := make([]*domain.PeriodBalance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, &domain.PeriodBalance{
			AccountID: row.AccountID,
			BranchID:  row.BranchID,
			PeriodID:  row.PeriodID,
			TargetID:  row.TargetID,
			Kind:      domain.BalanceKind(row.Kind),
			Opening:   numericToDecimal(row.Opening),
			Debit:     numericToDecimal(row.Debit),
			Credit:    numericToDecimal(row.Credit),
			Closing:   numericToDecimal(row.Closing),
		})
	}

	return balances, nil
}

// Upsert writes the movement of each balance. New rows open at zero; existing
// rows keep their opening. Opening and Closing of each balance are updated
// with the stored values.
func (r *BalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balances []*domain.PeriodBalance) error {
	queries := generated.New(pgxTxOf(tx))
	now := timeToPgTimestamptz(time.Now().UTC())

	for _, b := range balances {
		row, err := queries.UpsertPeriodBalance(ctx, generated.UpsertPeriodBalanceParams{
			Kind:      string(b.Kind),
			AccountID: b.AccountID,
			BranchID:  b.BranchID,
			PeriodID:  b.PeriodID,
			TargetID:  b.TargetID,
			Debit:     decimalToNumeric(b.Debit),
			Credit:    decimalToNumeric(b.Credit),
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		b.Opening = numericToDecimal(row.Opening)
		b.Closing = numericToDecimal(row.Closing)
	}

	return nil
}
