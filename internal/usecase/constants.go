package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultCurrency is used for lines created without an explicit currency
	DefaultCurrency = "BRL"

	// DefaultGridCacheTTL is how long a rendered allocation grid stays cached
	DefaultGridCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
