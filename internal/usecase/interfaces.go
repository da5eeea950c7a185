package usecase

import (
	"context"
	"time"

	"github.com/iho/ledgerform/internal/domain"
)

// JournalEntryRepository defines data access for journal entry headers.
type JournalEntryRepository interface {
	Create(ctx context.Context, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.JournalEntry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.JournalEntry, error)
}

// EntryLineRepository defines data access for entry lines. Lines are returned
// with their account code, name and class joined in.
type EntryLineRepository interface {
	Create(ctx context.Context, tx Transaction, line *domain.EntryLine) error
	GetByID(ctx context.Context, id string) (*domain.EntryLine, error)
	ListByEntry(ctx context.Context, entryID string) ([]*domain.EntryLine, error)
	// ListPosted returns the active lines of active entries of a branch whose
	// competence date falls within [from, to].
	ListPosted(ctx context.Context, branchID string, from, to time.Time) ([]*domain.EntryLine, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// AllocationRepository defines data access for cost-center and project
// allocations of entry lines.
type AllocationRepository interface {
	ListByLine(ctx context.Context, kind domain.AllocationKind, lineID string) ([]*domain.Allocation, error)
	ListByLines(ctx context.Context, kind domain.AllocationKind, lineIDs []string) ([]*domain.Allocation, error)
	Replace(ctx context.Context, tx Transaction, kind domain.AllocationKind, lineID string, allocs []*domain.Allocation) error
}

// ReferenceRepository reads the chart of accounts, cost centers, projects and
// periods.
type ReferenceRepository interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	ListTargets(ctx context.Context, kind domain.AllocationKind) ([]*domain.Target, error)
	GetPeriod(ctx context.Context, id string) (*domain.Period, error)
	ListPeriods(ctx context.Context) ([]*domain.Period, error)
}

// BalanceRepository defines data access for period balances.
type BalanceRepository interface {
	ListByPeriod(ctx context.Context, branchID, periodID string, kind domain.BalanceKind) ([]*domain.PeriodBalance, error)
	// Upsert writes debit and credit of each balance, keeping the stored
	// opening of existing rows, and recomputes the closing.
	Upsert(ctx context.Context, tx Transaction, balances []*domain.PeriodBalance) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
