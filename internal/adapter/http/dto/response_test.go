package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerform/internal/domain"
)

func TestEntryFromDomain(t *testing.T) {
	entry := &domain.JournalEntry{
		ID:             "e-1",
		EntryDate:      time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		CompetenceDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Kind:           domain.EntryKindNormal,
	}
	lines := []*domain.EntryLine{{ID: "l-1", Side: domain.SideDebit, Amount: decimal.RequireFromString("10.50")}}

	resp := EntryFromDomain(entry, lines)
	if resp.EntryDate != "2024-03-05" || resp.CompetenceDate != "2024-03-01" || len(resp.Lines) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}

	data, err := json.Marshal(resp.Lines[0])
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["amount"] != "10.5" || decoded["side"] != "D" {
		t.Fatalf("unexpected line json %s", data)
	}
}

func TestTotalsFromDomain(t *testing.T) {
	resp := TotalsFromDomain("e-1", domain.Totals{
		Debit:  decimal.RequireFromString("100.00"),
		Credit: decimal.RequireFromString("99.99"),
	})

	if resp.Balanced || !resp.Difference.Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("unexpected totals %+v", resp)
	}
}
