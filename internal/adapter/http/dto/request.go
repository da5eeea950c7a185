package dto

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/locale"
	"github.com/iho/ledgerform/internal/usecase"
)

// DateLayout is the layout of <input type="date"> values.
const DateLayout = "2006-01-02"

// EntryForm is the submitted new-entry form.
type EntryForm struct {
	EntryDate      string
	CompetenceDate string
	Kind           string
	DocumentNumber string
	Description    string
	BranchID       string
}

// EntryFormFromValues reads the new-entry form fields.
func EntryFormFromValues(v url.Values) EntryForm {
	return EntryForm{
		EntryDate:      strings.TrimSpace(v.Get("data")),
		CompetenceDate: strings.TrimSpace(v.Get("competencia")),
		Kind:           strings.TrimSpace(v.Get("tipo")),
		DocumentNumber: v.Get("documento"),
		Description:    v.Get("historico"),
		BranchID:       strings.TrimSpace(v.Get("filial_id")),
	}
}

// ToUseCaseInput converts to use case input.
func (f EntryForm) ToUseCaseInput() (usecase.CreateEntryInput, error) {
	entryDate, err := parseDate(f.EntryDate)
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}

	competence := entryDate
	if f.CompetenceDate != "" {
		if competence, err = parseDate(f.CompetenceDate); err != nil {
			return usecase.CreateEntryInput{}, err
		}
	}

	return usecase.CreateEntryInput{
		EntryDate:      entryDate,
		CompetenceDate: competence,
		Kind:           domain.EntryKind(f.Kind),
		DocumentNumber: f.DocumentNumber,
		Description:    f.Description,
		BranchID:       f.BranchID,
	}, nil
}

// LineForm is the submitted add-line form.
type LineForm struct {
	AccountID   string
	Side        string
	Amount      string
	HistoryCode string
}

// LineFormFromValues reads the add-line form fields.
func LineFormFromValues(v url.Values) LineForm {
	return LineForm{
		AccountID:   strings.TrimSpace(v.Get("conta_id")),
		Side:        strings.ToUpper(strings.TrimSpace(v.Get("tipo"))),
		Amount:      v.Get("valor"),
		HistoryCode: strings.TrimSpace(v.Get("historico")),
	}
}

// ToUseCaseInput converts to use case input, reading the amount in loc.
func (f LineForm) ToUseCaseInput(entryID string, loc locale.Locale) (usecase.AddLineInput, error) {
	amount, err := loc.ParseStrict(f.Amount)
	if err != nil {
		return usecase.AddLineInput{}, err
	}

	return usecase.AddLineInput{
		EntryID:     entryID,
		AccountID:   f.AccountID,
		Amount:      amount,
		Side:        domain.Side(f.Side),
		HistoryCode: f.HistoryCode,
	}, nil
}

// AllocationItemsFromValues reads the grid inputs named rateio[<target id>].
// Blank inputs are skipped. Items come back ordered by target id.
func AllocationItemsFromValues(v url.Values, loc locale.Locale) ([]usecase.AllocationInput, error) {
	var items []usecase.AllocationInput

	for key, vals := range v {
		if !strings.HasPrefix(key, "rateio[") || !strings.HasSuffix(key, "]") {
			continue
		}
		targetID := key[len("rateio[") : len(key)-1]
		if targetID == "" || len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			continue
		}

		amount, err := loc.ParseStrict(vals[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", targetID, err)
		}

		items = append(items, usecase.AllocationInput{TargetID: targetID, Amount: amount})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].TargetID < items[j].TargetID
	})

	return items, nil
}

// RecalcForm is the submitted balance recalculation form.
type RecalcForm struct {
	BranchID string
	PeriodID string
}

// RecalcFormFromValues reads the recalculation form fields.
func RecalcFormFromValues(v url.Values) RecalcForm {
	return RecalcForm{
		BranchID: strings.TrimSpace(v.Get("filial_id")),
		PeriodID: strings.TrimSpace(v.Get("periodo_id")),
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}
	return t, nil
}
