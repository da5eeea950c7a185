package postgres

import (
	"context"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/postgres/generated"
	"github.com/iho/ledgerform/internal/usecase"
)

// AllocationRepository implements usecase.AllocationRepository over the
// cost-center and project allocation tables.
type AllocationRepository struct {
	queries *generated.Queries
}

// NewAllocationRepository creates a new AllocationRepository.
func NewAllocationRepository(db generated.DBTX) *AllocationRepository {
	return &AllocationRepository{
		queries: generated.New(db),
	}
}

// ListByLine lists the allocations of one line.
func (r *AllocationRepository) ListByLine(ctx context.Context, kind domain.AllocationKind, lineID string) ([]*domain.Allocation, error) {
	return r.ListByLines(ctx, kind, []string{lineID})
}

// ListByLines lists the allocations of several lines, grouped by line.
func (r *AllocationRepository) ListByLines(ctx context.Context, kind domain.AllocationKind, lineIDs []string) ([]*domain.Allocation, error) {
	if len(lineIDs) == 0 {
		return nil, nil
	}

	var rows []generated.ListCostCenterAllocationsByLinesRow
	switch kind {
	case domain.AllocationCostCenter:
		ccRows, err := r.queries.ListCostCenterAllocationsByLines(ctx, lineIDs)
		if err != nil {
			return nil, err
		}
		rows = ccRows
	case domain.AllocationProject:
		projectRows, err := r.queries.ListProjectAllocationsByLines(ctx, lineIDs)
		if err != nil {
			return nil, err
		}
		rows = make([]generated.ListCostCenterAllocationsByLinesRow, 0, len(projectRows))
		for _, row := range projectRows {
			rows = append(rows, generated.ListCostCenterAllocationsByLinesRow(row))
		}
	default:
		return nil, domain.ErrInvalidAllocationKind
	}

	allocs := make([]*domain.Allocation, 0, len(rows))
	for _, row := range rows {
		allocs = append(allocs, &domain.Allocation{
			ID:         row.ID,
			LineID:     row.LineID,
			TargetID:   row.TargetID,
			TargetCode: row.TargetCode,
			TargetName: row.TargetName,
			Kind:       kind,
			Amount:     numericToDecimal(row.Amount),
			CreatedAt:  row.CreatedAt.Time,
			UpdatedAt:  row.UpdatedAt.Time,
		})
	}

	return allocs, nil
}

// Replace deletes the allocations of a line and inserts allocs in their place.
func (r *AllocationRepository) Replace(ctx context.Context, tx usecase.Transaction, kind domain.AllocationKind, lineID string, allocs []*domain.Allocation) error {
	queries := generated.New(pgxTxOf(tx))

	switch kind {
	case domain.AllocationCostCenter:
		if err := queries.DeleteCostCenterAllocationsByLine(ctx, lineID); err != nil {
			return err
		}
		for _, a := range allocs {
			err := queries.CreateCostCenterAllocation(ctx, generated.CreateCostCenterAllocationParams{
				ID:           a.ID,
				LineID:       lineID,
				CostCenterID: a.TargetID,
				Amount:       decimalToNumeric(a.Amount),
				CreatedAt:    timeToPgTimestamptz(a.CreatedAt),
				UpdatedAt:    timeToPgTimestamptz(a.UpdatedAt),
			})
			if err != nil {
				return err
			}
		}
	case domain.AllocationProject:
		if err := queries.DeleteProjectAllocationsByLine(ctx, lineID); err != nil {
			return err
		}
		for _, a := range allocs {
			err := queries.CreateProjectAllocation(ctx, generated.CreateProjectAllocationParams{
				ID:        a.ID,
				LineID:    lineID,
				ProjectID: a.TargetID,
				Amount:    decimalToNumeric(a.Amount),
				CreatedAt: timeToPgTimestamptz(a.CreatedAt),
				UpdatedAt: timeToPgTimestamptz(a.UpdatedAt),
			})
			if err != nil {
				return err
			}
		}
	default:
		return domain.ErrInvalidAllocationKind
	}

	return nil
}
