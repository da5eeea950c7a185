package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/iho/ledgerform/internal/adapter/http/dto"
	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/locale"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/lancamentos/?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/lancamentos/?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"entry not found", domain.ErrEntryNotFound, http.StatusNotFound},
		{"line not found", domain.ErrLineNotFound, http.StatusNotFound},
		{"period not found", domain.ErrPeriodNotFound, http.StatusNotFound},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"unparseable amount", fmt.Errorf("valor: %w", locale.ErrInvalidAmount), http.StatusBadRequest},
		{"invalid date", domain.ErrInvalidDate, http.StatusBadRequest},
		{"unbalanced", domain.ErrUnbalancedEntry, http.StatusUnprocessableEntity},
		{"allocation mismatch", fmt.Errorf("line l-1: %w", domain.ErrAllocationMismatch), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := userMessage(domain.ErrUnbalancedEntry); got != domain.ErrUnbalancedEntry.Error() {
		t.Fatalf("expected domain message, got %q", got)
	}
	if got := userMessage(errors.New("pq: connection refused")); got == "pq: connection refused" {
		t.Fatalf("internal error leaked to the page")
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if decoded["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "details")

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if rr.Code != http.StatusBadRequest || resp.Error != "bad request" || resp.Message != "details" {
		t.Fatalf("unexpected error response %d %+v", rr.Code, resp)
	}
}

func TestRedirect(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/lancamentos/e-1/salvar/", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()

	redirect(rr, req, "/lancamentos/")
	if rr.Code != http.StatusOK || rr.Header().Get("HX-Redirect") != "/lancamentos/" {
		t.Fatalf("expected HX-Redirect, got %d %v", rr.Code, rr.Header())
	}

	req = httptest.NewRequest(http.MethodPost, "/lancamentos/e-1/salvar/", nil)
	rr = httptest.NewRecorder()

	redirect(rr, req, "/lancamentos/")
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/lancamentos/" {
		t.Fatalf("expected 303, got %d %v", rr.Code, rr.Header())
	}
}
