package handler

import (
	"bytes"
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerform/internal/adapter/http/dto"
	"github.com/iho/ledgerform/internal/adapter/http/view"
	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/infrastructure/logger"
	"github.com/iho/ledgerform/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	RecalculatePeriod(ctx context.Context, branchID, periodID string) (*usecase.RecalculationResult, error)
	ListPeriodBalances(ctx context.Context, branchID, periodID string, kind domain.BalanceKind) ([]*domain.PeriodBalance, error)
	ListPeriods(ctx context.Context) ([]*domain.Period, error)
}

// BalanceHandler handles period balance recalculation.
type BalanceHandler struct {
	balanceUC BalanceService
	renderer  *view.Renderer
	logger    zerolog.Logger
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService, renderer *view.Renderer, log zerolog.Logger) *BalanceHandler {
	return &BalanceHandler{
		balanceUC: balanceUC,
		renderer:  renderer,
		logger:    log,
	}
}

// Page renders the recalculation form.
func (h *BalanceHandler) Page(w http.ResponseWriter, r *http.Request) {
	periods, err := h.balanceUC.ListPeriods(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to list periods")
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Recalc(&buf, view.RecalcPage{Title: "Recalcular saldos", Periods: periods}); err != nil {
		h.fail(w, r, err, "failed to render page")
		return
	}

	writeHTML(w, http.StatusOK, buf.Bytes())
}

// Recalculate recalculates the balances of a branch and period and answers
// with the result partial.
func (h *BalanceHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form", err.Error())
		return
	}

	f := dto.RecalcFormFromValues(r.PostForm)
	if f.BranchID == "" || f.PeriodID == "" {
		writeError(w, http.StatusBadRequest, "missing filial_id or periodo_id", "")
		return
	}

	result, err := h.balanceUC.RecalculatePeriod(r.Context(), f.BranchID, f.PeriodID)
	if err != nil {
		h.fail(w, r, err, "failed to recalculate balances")
		return
	}

	log := logger.FromContext(r.Context(), h.logger)
	log.Info().
		Str("branch_id", result.BranchID).
		Str("period_id", result.PeriodID).
		Int("lines", result.Lines).
		Msg("period balances recalculated")

	var buf bytes.Buffer
	if err := h.renderer.RecalcResult(&buf, result); err != nil {
		h.fail(w, r, err, "failed to render result")
		return
	}

	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (h *BalanceHandler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		log := logger.FromContext(r.Context(), h.logger)
		log.Error().Err(err).Msg(message)
	}
	writeError(w, status, message, userMessage(err))
}
