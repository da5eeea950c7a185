package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerform/internal/adapter/http/dto"
	"github.com/iho/ledgerform/internal/domain"
)

// APIHandler serves the read-only JSON API.
type APIHandler struct {
	entryUC   EntryService
	balanceUC BalanceService
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(entryUC EntryService, balanceUC BalanceService) *APIHandler {
	return &APIHandler{entryUC: entryUC, balanceUC: balanceUC}
}

// GetEntry returns an entry with its lines.
func (h *APIHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get entry", err.Error())
		return
	}

	lines, err := h.entryUC.GetLines(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get lines", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry, lines))
}

// GetTotals returns the debit and credit totals of an entry.
func (h *APIHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	totals, err := h.entryUC.GetTotals(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get totals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TotalsFromDomain(id, totals))
}

// ListBalances lists the stored balances of ?branch_id=&period_id=&kind=.
func (h *APIHandler) ListBalances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	periodID := q.Get("period_id")
	if periodID == "" {
		writeError(w, http.StatusBadRequest, "missing period_id", "")
		return
	}

	balances, err := h.balanceUC.ListPeriodBalances(r.Context(), q.Get("branch_id"), periodID, domain.BalanceKind(q.Get("kind")))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// Recalculate recalculates the balances of a branch and period.
func (h *APIHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	branchID, periodID := q.Get("branch_id"), q.Get("period_id")
	if periodID == "" {
		writeError(w, http.StatusBadRequest, "missing period_id", "")
		return
	}

	result, err := h.balanceUC.RecalculatePeriod(r.Context(), branchID, periodID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to recalculate balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecalculationFromUseCase(result))
}
