package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerform/internal/adapter/http/dto"
	"github.com/iho/ledgerform/internal/adapter/http/view"
	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/form"
	"github.com/iho/ledgerform/internal/infrastructure/logger"
	"github.com/iho/ledgerform/internal/usecase"
)

// AllocationService defines the behavior needed by GridHandler.
type AllocationService interface {
	GetGrid(ctx context.Context, kind domain.AllocationKind, lineID string) (*usecase.AllocationGrid, error)
	RenderGrid(ctx context.Context, kind domain.AllocationKind, lineID string, render usecase.GridRenderer) ([]byte, error)
	ReplaceAllocations(ctx context.Context, input usecase.ReplaceAllocationsInput) ([]*domain.Allocation, error)
}

type gridKind struct {
	kind    domain.AllocationKind
	gridID  string
	heading string
	baseURL string
}

var (
	costCenterGrid = gridKind{
		kind:    domain.AllocationCostCenter,
		gridID:  form.IDCostCenterGrid,
		heading: "Rateio por centro de custo",
		baseURL: view.CostCenterGridURL,
	}
	projectGrid = gridKind{
		kind:    domain.AllocationProject,
		gridID:  form.IDProjectGrid,
		heading: "Rateio por projeto",
		baseURL: view.ProjectGridURL,
	}
)

// GridHandler serves the cost-center and project allocation grids the entry
// form loads when a row is selected.
type GridHandler struct {
	allocationUC AllocationService
	renderer     *view.Renderer
	logger       zerolog.Logger
}

// NewGridHandler creates a new GridHandler.
func NewGridHandler(allocationUC AllocationService, renderer *view.Renderer, log zerolog.Logger) *GridHandler {
	return &GridHandler{
		allocationUC: allocationUC,
		renderer:     renderer,
		logger:       log,
	}
}

// CostCenter renders the cost-center grid of ?item=.
func (h *GridHandler) CostCenter(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, costCenterGrid)
}

// Project renders the project grid of ?item=.
func (h *GridHandler) Project(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, projectGrid)
}

// SaveCostCenter replaces the cost-center allocations of ?item=.
func (h *GridHandler) SaveCostCenter(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, costCenterGrid)
}

// SaveProject replaces the project allocations of ?item=.
func (h *GridHandler) SaveProject(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, projectGrid)
}

func (h *GridHandler) show(w http.ResponseWriter, r *http.Request, g gridKind) {
	lineID := r.URL.Query().Get(form.QueryItem)
	if lineID == "" {
		writeError(w, http.StatusBadRequest, "missing item", "")
		return
	}

	out, err := h.allocationUC.RenderGrid(r.Context(), g.kind, lineID, func(grid *usecase.AllocationGrid) ([]byte, error) {
		return h.render(g, grid, nil, "")
	})
	if err != nil {
		h.fail(w, r, err, "failed to render grid")
		return
	}

	writeHTML(w, http.StatusOK, out)
}

func (h *GridHandler) save(w http.ResponseWriter, r *http.Request, g gridKind) {
	ctx := r.Context()

	lineID := r.URL.Query().Get(form.QueryItem)
	if lineID == "" {
		writeError(w, http.StatusBadRequest, "missing item", "")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form", err.Error())
		return
	}

	items, err := dto.AllocationItemsFromValues(r.PostForm, h.renderer.Locale())
	if err == nil {
		_, err = h.allocationUC.ReplaceAllocations(ctx, usecase.ReplaceAllocationsInput{
			Kind:   g.kind,
			LineID: lineID,
			Items:  items,
		})
	}
	if err != nil {
		status := mapDomainError(err)
		if status == http.StatusNotFound || status == http.StatusInternalServerError {
			h.fail(w, r, err, "failed to save allocations")
			return
		}
		h.rejected(w, r, g, lineID, status, err)
		return
	}

	h.show(w, r, g)
}

// rejected re-renders the grid with the submitted values and the reason.
func (h *GridHandler) rejected(w http.ResponseWriter, r *http.Request, g gridKind, lineID string, status int, cause error) {
	grid, err := h.allocationUC.GetGrid(r.Context(), g.kind, lineID)
	if err != nil {
		h.fail(w, r, err, "failed to load grid")
		return
	}

	out, err := h.render(g, grid, submittedValues(r.PostForm), userMessage(cause))
	if err != nil {
		h.fail(w, r, err, "failed to render grid")
		return
	}

	writeHTML(w, status, out)
}

func (h *GridHandler) render(g gridKind, grid *usecase.AllocationGrid, values map[string]string, msg string) ([]byte, error) {
	var buf bytes.Buffer
	err := h.renderer.Grid(&buf, view.GridFragment{
		GridID:  g.gridID,
		Heading: g.heading,
		SaveURL: form.FragmentURL(g.baseURL+"salvar/", grid.Line.ID),
		Grid:    grid,
		Values:  values,
		Error:   msg,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *GridHandler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		log := logger.FromContext(r.Context(), h.logger)
		log.Error().Err(err).Msg(message)
	}
	writeError(w, status, message, userMessage(err))
}

func submittedValues(v url.Values) map[string]string {
	values := make(map[string]string)
	for key, vals := range v {
		if !strings.HasPrefix(key, "rateio[") || !strings.HasSuffix(key, "]") || len(vals) == 0 {
			continue
		}
		values[key[len("rateio["):len(key)-1]] = vals[0]
	}
	return values
}
