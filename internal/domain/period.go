package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is an accounting period, inclusive on both ends.
type Period struct {
	ID    string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// BalanceKind selects which balance table a PeriodBalance belongs to.
type BalanceKind string

const (
	BalanceAccount    BalanceKind = "account"
	BalanceCostCenter BalanceKind = "cost_center"
	BalanceProject    BalanceKind = "project"
)

// BalanceKinds lists every balance table in recalculation order.
var BalanceKinds = []BalanceKind{BalanceAccount, BalanceCostCenter, BalanceProject}

// PeriodBalance is the movement of an account (optionally narrowed to a cost
// center or project) within a branch and period.
type PeriodBalance struct {
	AccountID string
	BranchID  string
	PeriodID  string
	// TargetID is the cost center or project; empty for the account total.
	TargetID string
	Kind     BalanceKind
	Opening  decimal.Decimal
	Debit    decimal.Decimal
	Credit   decimal.Decimal
	Closing  decimal.Decimal
}

// Close recomputes Closing from Opening, Debit and Credit.
func (b *PeriodBalance) Close() {
	b.Closing = b.Opening.Add(b.Debit).Sub(b.Credit)
}

// Key identifies the balance row within its branch and period.
func (b *PeriodBalance) Key() string {
	return b.AccountID + "/" + b.TargetID
}
