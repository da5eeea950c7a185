package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side classifies a ledger line as debit or credit.
type Side string

const (
	SideDebit  Side = "D"
	SideCredit Side = "C"
)

// Valid reports whether s is D or C.
func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// EntryKind is the journal entry type.
type EntryKind string

const (
	EntryKindNormal     EntryKind = "0"
	EntryKindCorporate  EntryKind = "1"
	EntryKindTax        EntryKind = "2"
	EntryKindBudget     EntryKind = "3"
	EntryKindClosing    EntryKind = "4"
	EntryKindAdjustment EntryKind = "5"
)

// EntryKinds lists the kinds in display order.
var EntryKinds = []EntryKind{
	EntryKindNormal, EntryKindCorporate, EntryKindTax,
	EntryKindBudget, EntryKindClosing, EntryKindAdjustment,
}

// Label returns the display name of the kind.
func (k EntryKind) Label() string {
	switch k {
	case EntryKindNormal:
		return "Normal"
	case EntryKindCorporate:
		return "Societário"
	case EntryKindTax:
		return "Fiscal"
	case EntryKindBudget:
		return "Orçamentário"
	case EntryKindClosing:
		return "Zeramento"
	case EntryKindAdjustment:
		return "Ajuste"
	default:
		return string(k)
	}
}

// EntryOrigin records how an entry reached the ledger.
type EntryOrigin string

const (
	EntryOriginManual     EntryOrigin = "0"
	EntryOriginIntegrated EntryOrigin = "1"
	EntryOriginImported   EntryOrigin = "2"
	EntryOriginGenerated  EntryOrigin = "3"
)

// JournalEntry is the header of a journal entry; its lines carry the amounts.
type JournalEntry struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	EntryDate      time.Time
	CompetenceDate time.Time
	ID             string
	Kind           EntryKind
	Origin         EntryOrigin
	DocumentNumber string
	Description    string
	ExternalCode   string
	BranchID       string
	UserID         string
	Active         bool
}

// EntryLine is a single debit or credit line of a journal entry.
type EntryLine struct {
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ID           string
	EntryID      string
	AccountID    string
	AccountCode  string
	AccountName  string
	AccountClass AccountClass
	BranchID     string
	Currency     string
	ExternalCode string
	HistoryCode  string
	Amount       decimal.Decimal
	Side         Side
	Active       bool
}

// Row returns the form row view of the line.
func (l *EntryLine) Row() EntryRow {
	return EntryRow{ItemID: l.ID, Side: l.Side, Amount: l.Amount}
}
