package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/metrics"
)

// EntryUseCase handles journal entry business logic.
type EntryUseCase struct {
	txManager TransactionManager
	retrier   Retrier
	entryRepo JournalEntryRepository
	lineRepo  EntryLineRepository
	allocRepo AllocationRepository
	refRepo   ReferenceRepository
	idGen     IDGenerator
	metrics   *metrics.Metrics
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	retrier Retrier,
	entryRepo JournalEntryRepository,
	lineRepo EntryLineRepository,
	allocRepo AllocationRepository,
	refRepo ReferenceRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *EntryUseCase {
	return &EntryUseCase{
		txManager: txManager,
		retrier:   retrier,
		entryRepo: entryRepo,
		lineRepo:  lineRepo,
		allocRepo: allocRepo,
		refRepo:   refRepo,
		idGen:     idGen,
		metrics:   metrics,
	}
}

// CreateEntryInput represents input for creating a journal entry.
type CreateEntryInput struct {
	EntryDate      time.Time
	CompetenceDate time.Time
	Kind           domain.EntryKind
	Origin         domain.EntryOrigin
	DocumentNumber string
	Description    string
	ExternalCode   string
	BranchID       string
	UserID         string
}

// CreateEntry creates an entry header. The entry stays inactive until it is
// saved balanced.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.JournalEntry, error) {
	if input.Kind == "" {
		input.Kind = domain.EntryKindNormal
	}

	if input.Origin == "" {
		input.Origin = domain.EntryOriginManual
	}

	now := time.Now().UTC()
	entry := &domain.JournalEntry{
		ID:             uc.idGen.Generate(),
		EntryDate:      input.EntryDate,
		CompetenceDate: input.CompetenceDate,
		Kind:           input.Kind,
		Origin:         input.Origin,
		DocumentNumber: strings.TrimSpace(input.DocumentNumber),
		Description:    input.Description,
		ExternalCode:   input.ExternalCode,
		BranchID:       input.BranchID,
		UserID:         input.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := domain.ValidateHeader(entry); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.Inc()
	}

	return entry, nil
}

// GetEntry retrieves an entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListEntries lists entries, newest first.
func (uc *EntryUseCase) ListEntries(ctx context.Context, limit, offset int) ([]*domain.JournalEntry, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.entryRepo.List(ctx, limit, offset)
}

// DeleteEntry deletes an entry together with its lines and allocations.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if _, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, id); err != nil {
		return err
	}

	if err := uc.entryRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesDeleted.Inc()
	}

	return nil
}

// AddLineInput represents input for adding a line to an entry.
type AddLineInput struct {
	EntryID      string
	AccountID    string
	Amount       decimal.Decimal
	Side         domain.Side
	Currency     string
	HistoryCode  string
	ExternalCode string
}

// AddLine appends an active line to an entry.
func (uc *EntryUseCase) AddLine(ctx context.Context, input AddLineInput) (*domain.EntryLine, error) {
	if err := domain.ValidateSide(input.Side); err != nil {
		return nil, err
	}

	amount := input.Amount.Round(domain.AmountPlaces)
	if err := domain.ValidateLineAmount(amount); err != nil {
		return nil, err
	}

	entry, err := uc.entryRepo.GetByID(ctx, input.EntryID)
	if err != nil {
		return nil, err
	}

	account, err := uc.refRepo.GetAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	now := time.Now().UTC()
	line := &domain.EntryLine{
		ID:           uc.idGen.Generate(),
		EntryID:      entry.ID,
		AccountID:    account.ID,
		AccountCode:  account.Code,
		AccountName:  account.Name,
		AccountClass: account.Class,
		BranchID:     entry.BranchID,
		Currency:     currency,
		ExternalCode: input.ExternalCode,
		HistoryCode:  input.HistoryCode,
		Amount:       amount,
		Side:         input.Side,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.lineRepo.Create(txCtx, tx, line); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LinesAdded.Inc()
	}

	return line, nil
}

// RemoveLine deletes a line of the given entry along with its allocations.
func (uc *EntryUseCase) RemoveLine(ctx context.Context, entryID, lineID string) error {
	line, err := uc.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return err
	}

	if line.EntryID != entryID {
		return domain.ErrLineNotFound
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.lineRepo.Delete(txCtx, tx, lineID); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.LinesRemoved.Inc()
	}

	return nil
}

// GetLines lists the lines of an entry.
func (uc *EntryUseCase) GetLines(ctx context.Context, entryID string) ([]*domain.EntryLine, error) {
	if _, err := uc.entryRepo.GetByID(ctx, entryID); err != nil {
		return nil, err
	}

	return uc.lineRepo.ListByEntry(ctx, entryID)
}

// ListAccounts lists the accounts selectable on an entry line.
func (uc *EntryUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.refRepo.ListAccounts(ctx)
}

// GetTotals sums the active lines of an entry.
func (uc *EntryUseCase) GetTotals(ctx context.Context, entryID string) (domain.Totals, error) {
	lines, err := uc.GetLines(ctx, entryID)
	if err != nil {
		return domain.Totals{}, err
	}

	return domain.SumLines(lines), nil
}

// SaveEntry validates the entry as a whole and marks it active. Validation
// runs inside the transaction that locks the entry so concurrent line edits
// cannot slip in between check and update.
func (uc *EntryUseCase) SaveEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	start := time.Now()

	var saved *domain.JournalEntry
	err := uc.retrier.Retry(ctx, func() error {
		entry, err := uc.saveOnce(ctx, id)
		if err != nil {
			return err
		}
		saved = entry
		return nil
	})

	if uc.metrics != nil {
		uc.metrics.SaveDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			if reason := rejectionReason(err); reason != "" {
				uc.metrics.SaveRejections.WithLabelValues(reason).Inc()
			}
		} else {
			uc.metrics.EntriesSaved.Inc()
		}
	}

	if err != nil {
		return nil, err
	}

	return saved, nil
}

func (uc *EntryUseCase) saveOnce(ctx context.Context, id string) (*domain.JournalEntry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	lines, err := uc.lineRepo.ListByEntry(txCtx, id)
	if err != nil {
		return nil, err
	}

	costCenters, projects, err := uc.loadAllocations(txCtx, lines)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateEntry(lines, costCenters, projects); err != nil {
		return nil, err
	}

	entry.Active = true
	entry.UpdatedAt = time.Now().UTC()

	if err := uc.entryRepo.Update(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *EntryUseCase) loadAllocations(ctx context.Context, lines []*domain.EntryLine) (costCenters, projects map[string][]*domain.Allocation, err error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ID)
	}

	costCenters, err = uc.allocationsByLine(ctx, domain.AllocationCostCenter, ids)
	if err != nil {
		return nil, nil, err
	}

	projects, err = uc.allocationsByLine(ctx, domain.AllocationProject, ids)
	if err != nil {
		return nil, nil, err
	}

	return costCenters, projects, nil
}

func (uc *EntryUseCase) allocationsByLine(ctx context.Context, kind domain.AllocationKind, lineIDs []string) (map[string][]*domain.Allocation, error) {
	byLine := make(map[string][]*domain.Allocation)
	if len(lineIDs) == 0 {
		return byLine, nil
	}

	allocs, err := uc.allocRepo.ListByLines(ctx, kind, lineIDs)
	if err != nil {
		return nil, err
	}

	for _, a := range allocs {
		byLine[a.LineID] = append(byLine[a.LineID], a)
	}

	return byLine, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnbalancedEntry):
		return "unbalanced"
	case errors.Is(err, domain.ErrCostCenterAllocationRequired):
		return "cost_center_required"
	case errors.Is(err, domain.ErrAllocationMismatch):
		return "allocation_mismatch"
	case errors.Is(err, domain.ErrDuplicateAllocation):
		return "duplicate_allocation"
	default:
		return ""
	}
}
