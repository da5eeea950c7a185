package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationKind distinguishes cost-center from project allocations.
type AllocationKind string

const (
	AllocationCostCenter AllocationKind = "cost_center"
	AllocationProject    AllocationKind = "project"
)

// Valid reports whether k is a known allocation kind.
func (k AllocationKind) Valid() bool {
	return k == AllocationCostCenter || k == AllocationProject
}

// NotFound returns the not-found error for targets of this kind.
func (k AllocationKind) NotFound() error {
	if k == AllocationProject {
		return ErrProjectNotFound
	}
	return ErrCostCenterNotFound
}

// Allocation splits part of a line amount to a cost center or project.
type Allocation struct {
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ID         string
	LineID     string
	TargetID   string
	TargetCode string
	TargetName string
	Kind       AllocationKind
	Amount     decimal.Decimal
}

// SumAllocations returns the total allocated amount.
func SumAllocations(allocs []*Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Amount)
	}
	return total
}
