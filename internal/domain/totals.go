package domain

import "github.com/shopspring/decimal"

// BalanceTolerance is the largest |debit - credit| still treated as balanced
// by the entry form.
var BalanceTolerance = decimal.New(1, -4)

// EntryRow is the typed view of one form row: its item id, side and amount.
type EntryRow struct {
	ItemID string
	Side   Side
	Amount decimal.Decimal
}

// Totals are the debit and credit sums over a set of rows.
type Totals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Difference returns Debit - Credit.
func (t Totals) Difference() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// Balanced reports whether |Difference| <= BalanceTolerance.
func (t Totals) Balanced() bool {
	return t.Difference().Abs().LessThanOrEqual(BalanceTolerance)
}

// SumRows accumulates rows by side. Rows with any other side are ignored.
func SumRows(rows []EntryRow) Totals {
	totals := Totals{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, r := range rows {
		switch r.Side {
		case SideDebit:
			totals.Debit = totals.Debit.Add(r.Amount)
		case SideCredit:
			totals.Credit = totals.Credit.Add(r.Amount)
		}
	}
	return totals
}

// SumLines accumulates the active lines of an entry.
func SumLines(lines []*EntryLine) Totals {
	rows := make([]EntryRow, 0, len(lines))
	for _, l := range lines {
		if !l.Active {
			continue
		}
		rows = append(rows, l.Row())
	}
	return SumRows(rows)
}
