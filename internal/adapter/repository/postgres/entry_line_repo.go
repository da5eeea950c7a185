package postgres

import (
	"context"
	"time"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/postgres/generated"
	"github.com/iho/ledgerform/internal/usecase"
)

// EntryLineRepository implements usecase.EntryLineRepository.
type EntryLineRepository struct {
	queries *generated.Queries
}

// NewEntryLineRepository creates a new EntryLineRepository.
func NewEntryLineRepository(db generated.DBTX) *EntryLineRepository {
	return &EntryLineRepository{
		queries: generated.New(db),
	}
}

// Create inserts a line.
func (r *EntryLineRepository) Create(ctx context.Context, tx usecase.Transaction, line *domain.EntryLine) error {
	queries := generated.New(pgxTxOf(tx))

	return queries.CreateEntryLine(ctx, generated.CreateEntryLineParams{
		ID:           line.ID,
		EntryID:      line.EntryID,
		AccountID:    line.AccountID,
		BranchID:     line.BranchID,
		Currency:     line.Currency,
		ExternalCode: line.ExternalCode,
		HistoryCode:  line.HistoryCode,
		Amount:       decimalToNumeric(line.Amount),
		Side:         string(line.Side),
		Active:       line.Active,
		CreatedAt:    timeToPgTimestamptz(line.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(line.UpdatedAt),
	})
}

// GetByID retrieves a line with its account.
func (r *EntryLineRepository) GetByID(ctx context.Context, id string) (*domain.EntryLine, error) {
	row, err := r.queries.GetEntryLine(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrLineNotFound)
	}

	return rowToEntryLine(row.EntryLine, row.AccountCode, row.AccountName, row.AccountClass), nil
}

// ListByEntry lists the lines of an entry in insertion order.
func (r *EntryLineRepository) ListByEntry(ctx context.Context, entryID string) ([]*domain.EntryLine, error) {
	rows, err := r.queries.ListEntryLinesByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	lines := make([]*domain.EntryLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, rowToEntryLine(row.EntryLine, row.AccountCode, row.AccountName, row.AccountClass))
	}

	return lines, nil
}

// ListPosted lists the active lines of saved entries of a branch whose
// competence date falls within [from, to].
func (r *EntryLineRepository) ListPosted(ctx context.Context, branchID string, from, to time.Time) ([]*domain.EntryLine, error) {
	rows, err := r.queries.ListPostedLines(ctx, generated.ListPostedLinesParams{
		BranchID: branchID,
		FromDate: dateToPg(from),
		ToDate:   dateToPg(to),
	})
	if err != nil {
		return nil, err
	}

	lines := make([]*domain.EntryLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, rowToEntryLine(row.EntryLine, row.AccountCode, row.AccountName, row.AccountClass))
	}

	return lines, nil
}

// Delete removes a line; its allocations cascade.
func (r *EntryLineRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	queries := generated.New(pgxTxOf(tx))

	n, err := queries.DeleteEntryLine(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLineNotFound
	}

	return nil
}

func rowToEntryLine(row generated.EntryLine, accountCode, accountName, accountClass string) *domain.EntryLine {
	return &domain.EntryLine{
		ID:           row.ID,
		EntryID:      row.EntryID,
		AccountID:    row.AccountID,
		AccountCode:  accountCode,
		AccountName:  accountName,
		AccountClass: domain.AccountClass(accountClass),
		BranchID:     row.BranchID,
		Currency:     row.Currency,
		ExternalCode: row.ExternalCode,
		HistoryCode:  row.HistoryCode,
		Amount:       numericToDecimal(row.Amount),
		Side:         domain.Side(row.Side),
		Active:       row.Active,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
