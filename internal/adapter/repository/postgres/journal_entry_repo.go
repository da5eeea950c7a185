package postgres

import (
	"context"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/postgres/generated"
	"github.com/iho/ledgerform/internal/usecase"
)

// JournalEntryRepository implements usecase.JournalEntryRepository.
type JournalEntryRepository struct {
	queries *generated.Queries
}

// NewJournalEntryRepository creates a new JournalEntryRepository.
func NewJournalEntryRepository(db generated.DBTX) *JournalEntryRepository {
	return &JournalEntryRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new entry header.
func (r *JournalEntryRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	return r.queries.CreateJournalEntry(ctx, generated.CreateJournalEntryParams{
		ID:             entry.ID,
		EntryDate:      dateToPg(entry.EntryDate),
		CompetenceDate: dateToPg(entry.CompetenceDate),
		Kind:           string(entry.Kind),
		Origin:         string(entry.Origin),
		DocumentNumber: entry.DocumentNumber,
		Description:    entry.Description,
		ExternalCode:   entry.ExternalCode,
		BranchID:       entry.BranchID,
		UserID:         entry.UserID,
		Active:         entry.Active,
		CreatedAt:      timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(entry.UpdatedAt),
	})
}

// GetByID retrieves an entry header.
func (r *JournalEntryRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	row, err := r.queries.GetJournalEntry(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrEntryNotFound)
	}

	return rowToJournalEntry(row), nil
}

// GetByIDForUpdate retrieves an entry header and locks it for the rest of the
// transaction.
func (r *JournalEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error) {
	queries := generated.New(pgxTxOf(tx))

	row, err := queries.GetJournalEntryForUpdate(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrEntryNotFound)
	}

	return rowToJournalEntry(row), nil
}

// Update rewrites the mutable header fields.
func (r *JournalEntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	queries := generated.New(pgxTxOf(tx))

	n, err := queries.UpdateJournalEntry(ctx, generated.UpdateJournalEntryParams{
		ID:             entry.ID,
		EntryDate:      dateToPg(entry.EntryDate),
		CompetenceDate: dateToPg(entry.CompetenceDate),
		Kind:           string(entry.Kind),
		Origin:         string(entry.Origin),
		DocumentNumber: entry.DocumentNumber,
		Description:    entry.Description,
		ExternalCode:   entry.ExternalCode,
		Active:         entry.Active,
		UpdatedAt:      timeToPgTimestamptz(entry.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry; its lines and allocations cascade.
func (r *JournalEntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	queries := generated.New(pgxTxOf(tx))

	n, err := queries.DeleteJournalEntry(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List returns entries newest first.
func (r *JournalEntryRepository) List(ctx context.Context, limit, offset int) ([]*domain.JournalEntry, error) {
	rows, err := r.queries.ListJournalEntries(ctx, generated.ListJournalEntriesParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.JournalEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToJournalEntry(row))
	}

	return entries, nil
}

func rowToJournalEntry(row generated.JournalEntry) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:             row.ID,
		EntryDate:      pgToDate(row.EntryDate),
		CompetenceDate: pgToDate(row.CompetenceDate),
		Kind:           domain.EntryKind(row.Kind),
		Origin:         domain.EntryOrigin(row.Origin),
		DocumentNumber: row.DocumentNumber,
		Description:    row.Description,
		ExternalCode:   row.ExternalCode,
		BranchID:       row.BranchID,
		UserID:         row.UserID,
		Active:         row.Active,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
