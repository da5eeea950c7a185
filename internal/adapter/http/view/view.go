// Package view renders the entry form pages and fragments from embedded
// templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/form"
	"github.com/iho/ledgerform/internal/locale"
	"github.com/iho/ledgerform/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

// Fragment URLs handed to the form through #grid-itens.
const (
	CostCenterGridURL = "/lancamentos/rateio-cc/"
	ProjectGridURL    = "/lancamentos/rateio-projeto/"
)

// Renderer executes the page and fragment templates.
type Renderer struct {
	tmpl   *template.Template
	locale locale.Locale
}

// New parses the embedded templates. Amounts are written in loc.
func New(loc locale.Locale) (*Renderer, error) {
	funcs := template.FuncMap{
		"amount": loc.Format,
		"date":   formatDate,
		"side":   sideLabel,
		"lang":   func() string { return loc.Name },
	}

	tmpl, err := template.New("ledgerform").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{tmpl: tmpl, locale: loc}, nil
}

// Locale returns the amount locale of the renderer.
func (r *Renderer) Locale() locale.Locale {
	return r.locale
}

// EntryListPage is the data of the entry list.
type EntryListPage struct {
	Title      string
	Entries    []*domain.JournalEntry
	Limit      int
	PrevOffset int
	NextOffset int
	HasPrev    bool
	HasNext    bool
}

// EntryFormValues echoes the submitted header back into the new-entry form.
type EntryFormValues struct {
	EntryDate      string
	CompetenceDate string
	Kind           domain.EntryKind
	DocumentNumber string
	Description    string
	BranchID       string
}

// NewEntryPage is the data of the new-entry form.
type NewEntryPage struct {
	Title string
	Kinds []domain.EntryKind
	Form  EntryFormValues
	Error string
}

// EditEntryPage is the data of the entry form. The items section template
// reads Entry, Lines and Error from it.
type EditEntryPage struct {
	Title         string
	Entry         *domain.JournalEntry
	Lines         []*domain.EntryLine
	Accounts      []*domain.Account
	CostCenterURL string
	ProjectURL    string
	Error         string
}

// GridFragment is the data of one allocation grid.
type GridFragment struct {
	GridID  string
	Heading string
	SaveURL string
	Grid    *usecase.AllocationGrid
	// Values holds the input value per target id.
	Values map[string]string
	Error  string
}

// RecalcPage is the data of the balance recalculation page.
type RecalcPage struct {
	Title   string
	Periods []*domain.Period
	Result  *usecase.RecalculationResult
}

// EntryList writes the entry list page.
func (r *Renderer) EntryList(w io.Writer, page EntryListPage) error {
	return r.tmpl.ExecuteTemplate(w, "entry_list", page)
}

// NewEntry writes the new-entry page.
func (r *Renderer) NewEntry(w io.Writer, page NewEntryPage) error {
	return r.tmpl.ExecuteTemplate(w, "entry_new", page)
}

// EditEntry renders the entry form into a document the form controller can
// run on.
func (r *Renderer) EditEntry(page EditEntryPage) (*form.Document, error) {
	return r.document("entry_edit", page)
}

// ItemsSection renders only the items section of the entry form. The
// result is still a full document so the controller finds its elements.
func (r *Renderer) ItemsSection(page EditEntryPage) (*form.Document, error) {
	return r.document("items_section", page)
}

// Grid writes an allocation grid fragment.
func (r *Renderer) Grid(w io.Writer, frag GridFragment) error {
	if frag.Values == nil {
		frag.Values = r.GridValues(frag.Grid)
	}
	return r.tmpl.ExecuteTemplate(w, "grid", frag)
}

// GridValues formats the stored allocation of each target.
func (r *Renderer) GridValues(grid *usecase.AllocationGrid) map[string]string {
	values := make(map[string]string)
	if grid == nil {
		return values
	}
	for _, a := range grid.Allocations {
		values[a.TargetID] = r.locale.Format(a.Amount)
	}
	return values
}

// Recalc writes the balance recalculation page.
func (r *Renderer) Recalc(w io.Writer, page RecalcPage) error {
	return r.tmpl.ExecuteTemplate(w, "recalc", page)
}

// RecalcResult writes the recalculation result partial.
func (r *Renderer) RecalcResult(w io.Writer, result *usecase.RecalculationResult) error {
	return r.tmpl.ExecuteTemplate(w, "recalc_result", result)
}

func (r *Renderer) document(name string, data any) (*form.Document, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return form.Parse(&buf)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func sideLabel(s domain.Side) string {
	switch s {
	case domain.SideDebit:
		return "Débito"
	case domain.SideCredit:
		return "Crédito"
	default:
		return string(s)
	}
}

// FormatAmount is exported for handlers that echo amounts outside templates.
func (r *Renderer) FormatAmount(d decimal.Decimal) string {
	return r.locale.Format(d)
}
