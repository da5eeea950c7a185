package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound   = errors.New("journal entry not found")
	ErrLineNotFound    = errors.New("entry line not found")
	ErrUnbalancedEntry = errors.New("debits and credits are not balanced")

	// Line errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidSide   = errors.New("side must be D or C")
	ErrInvalidKind   = errors.New("invalid entry kind")
	ErrInvalidDate   = errors.New("invalid date")

	// Reference errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrCostCenterNotFound = errors.New("cost center not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrPeriodNotFound     = errors.New("period not found")

	// Balance errors
	ErrInvalidBalanceKind = errors.New("invalid balance kind")

	// Allocation errors
	ErrCostCenterAllocationRequired = errors.New("cost center allocation required")
	ErrAllocationMismatch           = errors.New("allocations do not add up to the line amount")
	ErrDuplicateAllocation          = errors.New("allocation target repeated")
	ErrInvalidAllocationKind        = errors.New("invalid allocation kind")
)
