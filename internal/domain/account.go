package domain

// AccountClass is the chart-of-accounts classification.
type AccountClass string

const (
	AccountClassAsset     AccountClass = "A"
	AccountClassLiability AccountClass = "L"
	AccountClassEquity    AccountClass = "E"
	AccountClassRevenue   AccountClass = "R"
	AccountClassExpense   AccountClass = "D"
	AccountClassCost      AccountClass = "C"
)

// RequiresCostCenter reports whether lines on this class must be allocated
// to at least one cost center.
func (c AccountClass) RequiresCostCenter() bool {
	switch c {
	case AccountClassRevenue, AccountClassExpense, AccountClassCost:
		return true
	default:
		return false
	}
}

// Account is a chart-of-accounts entry.
type Account struct {
	ID    string
	Code  string
	Name  string
	Class AccountClass
}

// Target is a cost center or project that line amounts are allocated to.
type Target struct {
	ID   string
	Code string
	Name string
	Kind AllocationKind
}
