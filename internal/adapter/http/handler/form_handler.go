package handler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerform/internal/adapter/http/dto"
	"github.com/iho/ledgerform/internal/adapter/http/view"
	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/form"
	"github.com/iho/ledgerform/internal/infrastructure/logger"
	"github.com/iho/ledgerform/internal/infrastructure/metrics"
	"github.com/iho/ledgerform/internal/usecase"
)

// EntryService defines the behavior needed by FormHandler and EntryAPIHandler.
type EntryService interface {
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.JournalEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, limit, offset int) ([]*domain.JournalEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	AddLine(ctx context.Context, input usecase.AddLineInput) (*domain.EntryLine, error)
	RemoveLine(ctx context.Context, entryID, lineID string) error
	GetLines(ctx context.Context, entryID string) ([]*domain.EntryLine, error)
	GetTotals(ctx context.Context, entryID string) (domain.Totals, error)
	SaveEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
}

const entryListURL = "/lancamentos/"

// FormHandler serves the journal entry pages and the items section partial.
type FormHandler struct {
	entryUC  EntryService
	renderer *view.Renderer
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(entryUC EntryService, renderer *view.Renderer, log zerolog.Logger, m *metrics.Metrics) *FormHandler {
	return &FormHandler{
		entryUC:  entryUC,
		renderer: renderer,
		logger:   log,
		metrics:  m,
	}
}

// List renders the paginated entry list.
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))

	entries, err := h.entryUC.ListEntries(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, r, err, "failed to list entries")
		return
	}

	prev := offset - limit
	if prev < 0 {
		prev = 0
	}

	var buf bytes.Buffer
	err = h.renderer.EntryList(&buf, view.EntryListPage{
		Title:      "Lançamentos",
		Entries:    entries,
		Limit:      limit,
		PrevOffset: prev,
		NextOffset: offset + limit,
		HasPrev:    offset > 0,
		HasNext:    len(entries) == limit,
	})
	if err != nil {
		h.fail(w, r, err, "failed to render entry list")
		return
	}

	writeHTML(w, http.StatusOK, buf.Bytes())
}

// New renders the empty new-entry form.
func (h *FormHandler) New(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format(dto.DateLayout)
	h.renderNew(w, r, http.StatusOK, view.EntryFormValues{
		EntryDate:      today,
		CompetenceDate: today,
		Kind:           domain.EntryKindNormal,
	}, "")
}

// Create creates an entry and sends the browser to its form.
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form", err.Error())
		return
	}

	f := dto.EntryFormFromValues(r.PostForm)
	values := view.EntryFormValues{
		EntryDate:      f.EntryDate,
		CompetenceDate: f.CompetenceDate,
		Kind:           domain.EntryKind(f.Kind),
		DocumentNumber: f.DocumentNumber,
		Description:    f.Description,
		BranchID:       f.BranchID,
	}

	input, err := f.ToUseCaseInput()
	if err != nil {
		h.renderNew(w, r, mapDomainError(err), values, userMessage(err))
		return
	}

	entry, err := h.entryUC.CreateEntry(r.Context(), input)
	if err != nil {
		h.renderNew(w, r, mapDomainError(err), values, userMessage(err))
		return
	}

	redirect(w, r, editURL(entry.ID))
}

// Edit renders the entry form. Totals and the save button state come from
// running the form controller over the rendered page.
func (h *FormHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	page, err := h.editPage(ctx, id, "")
	if err != nil {
		h.fail(w, r, err, "failed to load entry")
		return
	}

	accounts, err := h.entryUC.ListAccounts(ctx)
	if err != nil {
		h.fail(w, r, err, "failed to list accounts")
		return
	}
	page.Accounts = accounts

	doc, err := h.renderer.EditEntry(page)
	if err != nil {
		h.fail(w, r, err, "failed to render entry")
		return
	}
	h.runController(r, doc)

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		h.fail(w, r, err, "failed to render entry")
		return
	}

	writeHTML(w, http.StatusOK, buf.Bytes())
}

// AddLine adds a line and answers with the recomputed items section.
func (h *FormHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form", err.Error())
		return
	}

	input, err := dto.LineFormFromValues(r.PostForm).ToUseCaseInput(id, h.renderer.Locale())
	if err == nil {
		_, err = h.entryUC.AddLine(r.Context(), input)
	}
	if err != nil {
		h.renderItems(w, r, id, mapDomainError(err), userMessage(err))
		return
	}

	h.renderItems(w, r, id, http.StatusOK, "")
}

// RemoveLine removes a line and answers with the recomputed items section.
func (h *FormHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	lineID := chi.URLParam(r, "item")

	if err := h.entryUC.RemoveLine(r.Context(), id, lineID); err != nil {
		h.renderItems(w, r, id, mapDomainError(err), userMessage(err))
		return
	}

	h.renderItems(w, r, id, http.StatusOK, "")
}

// Save validates and activates the entry. A rejected save answers 422 with
// the items section carrying the reason.
func (h *FormHandler) Save(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.entryUC.SaveEntry(r.Context(), id); err != nil {
		status := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log := logger.FromContext(r.Context(), h.logger)
			log.Error().Err(err).Str("entry_id", id).Msg("failed to save entry")
		}
		h.renderItems(w, r, id, status, userMessage(err))
		return
	}

	redirect(w, r, entryListURL)
}

// Delete deletes the entry.
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.entryUC.DeleteEntry(r.Context(), id); err != nil {
		h.fail(w, r, err, "failed to delete entry")
		return
	}

	redirect(w, r, entryListURL)
}

func (h *FormHandler) renderNew(w http.ResponseWriter, r *http.Request, status int, values view.EntryFormValues, msg string) {
	var buf bytes.Buffer
	err := h.renderer.NewEntry(&buf, view.NewEntryPage{
		Title: "Novo lançamento",
		Kinds: domain.EntryKinds,
		Form:  values,
		Error: msg,
	})
	if err != nil {
		h.fail(w, r, err, "failed to render form")
		return
	}

	writeHTML(w, status, buf.Bytes())
}

func (h *FormHandler) renderItems(w http.ResponseWriter, r *http.Request, id string, status int, msg string) {
	page, err := h.editPage(r.Context(), id, msg)
	if err != nil {
		h.fail(w, r, err, "failed to load entry")
		return
	}

	doc, err := h.renderer.ItemsSection(page)
	if err != nil {
		h.fail(w, r, err, "failed to render items")
		return
	}
	h.runController(r, doc)

	var buf bytes.Buffer
	if err := doc.RenderElement(&buf, itemsSectionID); err != nil {
		h.fail(w, r, err, "failed to render items")
		return
	}

	writeHTML(w, status, buf.Bytes())
}

const itemsSectionID = "itens-section"

func (h *FormHandler) editPage(ctx context.Context, id, msg string) (view.EditEntryPage, error) {
	entry, err := h.entryUC.GetEntry(ctx, id)
	if err != nil {
		return view.EditEntryPage{}, err
	}

	lines, err := h.entryUC.GetLines(ctx, id)
	if err != nil {
		return view.EditEntryPage{}, err
	}

	return view.EditEntryPage{
		Title:         "Lançamento " + entry.ID,
		Entry:         entry,
		Lines:         lines,
		CostCenterURL: view.CostCenterGridURL,
		ProjectURL:    view.ProjectGridURL,
		Error:         msg,
	}, nil
}

// runController binds the form controller to doc and computes the totals.
// Server side there is no loader; grids are fetched by the browser.
func (h *FormHandler) runController(r *http.Request, doc *form.Document) {
	ctrl := form.NewController(doc, nil,
		form.WithLocale(h.renderer.Locale()),
		form.WithLogger(logger.FromContext(r.Context(), h.logger)),
	)
	ctrl.BindRowSelection()
	totals := ctrl.RecalcTotals()

	if h.metrics != nil {
		h.metrics.TotalsComputed.WithLabelValues(strconv.FormatBool(totals.Balanced())).Inc()
	}
}

func (h *FormHandler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		log := logger.FromContext(r.Context(), h.logger)
		log.Error().Err(err).Msg(message)
	}
	writeError(w, status, message, userMessage(err))
}

func editURL(id string) string {
	return "/lancamentos/" + id + "/editar/"
}
