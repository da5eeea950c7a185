package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/ledgerform/internal/adapter/http/dto"
	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/locale"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeHTML writes an HTML response.
func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCostCenterNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrPeriodNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, locale.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidSide),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidAllocationKind),
		errors.Is(err, domain.ErrInvalidBalanceKind),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrDocumentNumberTooLong),
		errors.Is(err, domain.ErrDescriptionTooLong):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnbalancedEntry),
		errors.Is(err, domain.ErrCostCenterAllocationRequired),
		errors.Is(err, domain.ErrAllocationMismatch),
		errors.Is(err, domain.ErrDuplicateAllocation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the error text shown inside a page. Internal errors are not
// echoed to the browser.
func userMessage(err error) string {
	if mapDomainError(err) == http.StatusInternalServerError {
		return "Erro interno. Tente novamente."
	}
	return err.Error()
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends the browser to location, through HX-Redirect for htmx.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
