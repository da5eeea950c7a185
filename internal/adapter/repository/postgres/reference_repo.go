package postgres

import (
	"context"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/postgres/generated"
)

// ReferenceRepository implements usecase.ReferenceRepository.
type ReferenceRepository struct {
	queries *generated.Queries
}

// NewReferenceRepository creates a new ReferenceRepository.
func NewReferenceRepository(db generated.DBTX) *ReferenceRepository {
	return &ReferenceRepository{
		queries: generated.New(db),
	}
}

// GetAccount retrieves an account by ID.
func (r *ReferenceRepository) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccount(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// ListAccounts lists the chart of accounts ordered by code.
func (r *ReferenceRepository) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// ListTargets lists the cost centers or projects ordered by code.
func (r *ReferenceRepository) ListTargets(ctx context.Context, kind domain.AllocationKind) ([]*domain.Target, error) {
	var rows []generated.CostCenter
	switch kind {
	case domain.AllocationCostCenter:
		ccRows, err := r.queries.ListCostCenters(ctx)
		if err != nil {
			return nil, err
		}
		rows = ccRows
	case domain.AllocationProject:
		projectRows, err := r.queries.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		for _, row := range projectRows {
			rows = append(rows, generated.CostCenter(row))
		}
	default:
		return nil, domain.ErrInvalidAllocationKind
	}

	targets := make([]*domain.Target, 0, len(rows))
	for _, row := range rows {
		targets = append(targets, &domain.Target{
			ID:   row.ID,
			Code: row.Code,
			Name: row.Name,
			Kind: kind,
		})
	}

	return targets, nil
}

// GetPeriod retrieves a period by ID.
func (r *ReferenceRepository) GetPeriod(ctx context.Context, id string) (*domain.Period, error) {
	row, err := r.queries.GetPeriod(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrPeriodNotFound)
	}

	return rowToPeriod(row), nil
}

// ListPeriods lists periods, most recent first.
func (r *ReferenceRepository) ListPeriods(ctx context.Context) ([]*domain.Period, error) {
	rows, err := r.queries.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}

	periods := make([]*domain.Period, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, rowToPeriod(row))
	}

	return periods, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:    row.ID,
		Code:  row.Code,
		Name:  row.Name,
		Class: domain.AccountClass(row.Class),
	}
}

func rowToPeriod(row generated.Period) *domain.Period {
	return &domain.Period{
		ID:    row.ID,
		Start: pgToDate(row.StartDate),
		End:   pgToDate(row.EndDate),
	}
}
