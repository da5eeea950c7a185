package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// LineResponse represents an entry line in API responses.
type LineResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Side        string          `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	HistoryCode string          `json:"history_code,omitempty"`
	Active      bool            `json:"active"`
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	ID             string         `json:"id"`
	EntryDate      string         `json:"entry_date"`
	CompetenceDate string         `json:"competence_date"`
	Kind           string         `json:"kind"`
	Origin         string         `json:"origin"`
	DocumentNumber string         `json:"document_number,omitempty"`
	Description    string         `json:"description,omitempty"`
	BranchID       string         `json:"branch_id,omitempty"`
	Active         bool           `json:"active"`
	Lines          []LineResponse `json:"lines"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// EntryFromDomain converts a domain entry and its lines to a response.
func EntryFromDomain(e *domain.JournalEntry, lines []*domain.EntryLine) *EntryResponse {
	resp := &EntryResponse{
		ID:             e.ID,
		EntryDate:      formatDate(e.EntryDate),
		CompetenceDate: formatDate(e.CompetenceDate),
		Kind:           string(e.Kind),
		Origin:         string(e.Origin),
		DocumentNumber: e.DocumentNumber,
		Description:    e.Description,
		BranchID:       e.BranchID,
		Active:         e.Active,
		Lines:          make([]LineResponse, 0, len(lines)),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}

	for _, l := range lines {
		resp.Lines = append(resp.Lines, LineResponse{
			ID:          l.ID,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Side:        string(l.Side),
			Amount:      l.Amount,
			Currency:    l.Currency,
			HistoryCode: l.HistoryCode,
			Active:      l.Active,
		})
	}

	return resp
}

// TotalsResponse represents entry totals in API responses.
type TotalsResponse struct {
	EntryID    string          `json:"entry_id"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Difference decimal.Decimal `json:"difference"`
	Balanced   bool            `json:"balanced"`
}

// TotalsFromDomain converts totals to a response.
func TotalsFromDomain(entryID string, t domain.Totals) *TotalsResponse {
	return &TotalsResponse{
		EntryID:    entryID,
		Debit:      t.Debit,
		Credit:     t.Credit,
		Difference: t.Difference(),
		Balanced:   t.Balanced(),
	}
}

// BalanceResponse represents a period balance in API responses.
type BalanceResponse struct {
	Kind      string          `json:"kind"`
	AccountID string          `json:"account_id"`
	TargetID  string          `json:"target_id,omitempty"`
	Opening   decimal.Decimal `json:"opening"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Closing   decimal.Decimal `json:"closing"`
}

// BalancesFromDomain converts period balances to responses.
func BalancesFromDomain(balances []*domain.PeriodBalance) []BalanceResponse {
	resp := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, BalanceResponse{
			Kind:      string(b.Kind),
			AccountID: b.AccountID,
			TargetID:  b.TargetID,
			Opening:   b.Opening,
			Debit:     b.Debit,
			Credit:    b.Credit,
			Closing:   b.Closing,
		})
	}
	return resp
}

// RecalculationResponse represents a recalculation summary.
type RecalculationResponse struct {
	BranchID    string `json:"branch_id"`
	PeriodID    string `json:"period_id"`
	Lines       int    `json:"lines"`
	Accounts    int    `json:"accounts"`
	CostCenters int    `json:"cost_centers"`
	Projects    int    `json:"projects"`
}

// RecalculationFromUseCase converts a recalculation result to a response.
func RecalculationFromUseCase(r *usecase.RecalculationResult) *RecalculationResponse {
	return &RecalculationResponse{
		BranchID:    r.BranchID,
		PeriodID:    r.PeriodID,
		Lines:       r.Lines,
		Accounts:    r.Accounts,
		CostCenters: r.CostCenters,
		Projects:    r.Projects,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
