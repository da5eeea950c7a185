// Package form drives the journal entry form: it totals debit and credit
// rows, gates the save button on balance and turns row clicks into requests
// for the cost-center and project allocation grids of the selected line.
package form

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/iho/ledgerform/internal/domain"
	"github.com/iho/ledgerform/internal/locale"
)

// Element ids and attributes of the form markup.
const (
	IDRowsBody       = "itens-body"
	IDTotalDebit     = "total-debito"
	IDTotalCredit    = "total-credito"
	IDTotalDiff      = "total-diferenca"
	IDSaveButton     = "btn-salvar"
	IDGrid           = "grid-itens"
	IDCostCenterGrid = "grid-cc"
	IDProjectGrid    = "grid-projeto"

	AttrItemID        = "data-item-id"
	AttrSide          = "data-tipo"
	AttrAmount        = "data-valor"
	AttrCostCenterURL = "data-url-cc"
	AttrProjectURL    = "data-url-projeto"

	ClassActive = "table-active"

	// QueryItem carries the selected row id to the grid fragments.
	QueryItem = "item"

	selectionListener = "row-selection"
)

// Controller is the entry form controller bound to one document.
type Controller struct {
	doc    *Document
	loader FragmentLoader
	locale locale.Locale
	logger zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLocale sets the amount locale. The default is pt-BR.
func WithLocale(l locale.Locale) Option {
	return func(c *Controller) {
		c.locale = l
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller for doc. Fragment requests go to loader;
// a nil loader drops them.
func NewController(doc *Document, loader FragmentLoader, opts ...Option) *Controller {
	c := &Controller{
		doc:    doc,
		loader: loader,
		locale: locale.PtBR,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document returns the document the controller is bound to.
func (c *Controller) Document() *Document {
	return c.doc
}

// ParseAmount reads a locale-formatted amount. An absent value (present ==
// false) or one that does not parse yields zero.
func (c *Controller) ParseAmount(raw string, present bool) decimal.Decimal {
	if !present {
		return decimal.Zero
	}
	return c.locale.Parse(raw)
}

// FormatAmount renders n in the controller locale.
func (c *Controller) FormatAmount(n decimal.Decimal) string {
	return c.locale.Format(n)
}

// Initialize binds row selection and recomputes totals. It is safe to call
// any number of times, including from a fragment loader after it replaced
// rows.
func (c *Controller) Initialize() {
	c.BindRowSelection()
	c.RecalcTotals()
}

// Hook returns Initialize as a plain function for fragment loaders.
func (c *Controller) Hook() func() {
	return c.Initialize
}

// Rows reads the entry rows of the document.
func (c *Controller) Rows() []domain.EntryRow {
	var rows []domain.EntryRow
	c.doc.Do(func(root *html.Node) {
		rows = c.readRows(root)
	})
	return rows
}

func (c *Controller) readRows(root *html.Node) []domain.EntryRow {
	body := elementByID(root, IDRowsBody)
	if body == nil {
		return nil
	}

	var rows []domain.EntryRow
	for _, tr := range elementsByTag(body, "tr") {
		id, ok := attr(tr, AttrItemID)
		if !ok {
			continue
		}
		side, _ := attr(tr, AttrSide)
		raw, present := attr(tr, AttrAmount)

		rows = append(rows, domain.EntryRow{
			ItemID: id,
			Side:   domain.Side(side),
			Amount: c.ParseAmount(raw, present),
		})
	}
	return rows
}

// RecalcTotals sums the rows, writes the three formatted totals and enables
// the save button only when the entry balances. Missing elements are
// skipped.
func (c *Controller) RecalcTotals() domain.Totals {
	var totals domain.Totals

	c.doc.Do(func(root *html.Node) {
		totals = domain.SumRows(c.readRows(root))

		c.writeText(root, IDTotalDebit, c.FormatAmount(totals.Debit))
		c.writeText(root, IDTotalCredit, c.FormatAmount(totals.Credit))
		c.writeText(root, IDTotalDiff, c.FormatAmount(totals.Difference()))

		if btn := elementByID(root, IDSaveButton); btn != nil {
			if totals.Balanced() {
				removeAttr(btn, "disabled")
			} else {
				setAttr(btn, "disabled", "")
			}
		}
	})

	c.logger.Debug().
		Str("debit", totals.Debit.String()).
		Str("credit", totals.Credit.String()).
		Bool("balanced", totals.Balanced()).
		Msg("totals recalculated")

	return totals
}

func (c *Controller) writeText(root *html.Node, id, text string) {
	if n := elementByID(root, id); n != nil {
		setText(n, text)
	}
}

// BindRowSelection registers the row click handler on the rows container.
// The handler is delegated and keyed, so binding again replaces it.
func (c *Controller) BindRowSelection() {
	c.doc.AddEventListener(IDRowsBody, "click", selectionListener, c.onRowClick)
}

func (c *Controller) onRowClick(ctx context.Context, ev Event) {
	row := closestRow(ev.Target, ev.CurrentTarget)
	if row == nil {
		return
	}

	for _, tr := range elementsByTag(ev.CurrentTarget, "tr") {
		removeClass(tr, ClassActive)
	}
	addClass(row, ClassActive)

	id, _ := attr(row, AttrItemID)

	root := ev.CurrentTarget
	for root.Parent != nil {
		root = root.Parent
	}
	grid := elementByID(root, IDGrid)
	if grid == nil {
		c.logger.Debug().Str("item", id).Msg("grid container missing, no fragments requested")
		return
	}

	ccBase, _ := attr(grid, AttrCostCenterURL)
	projBase, _ := attr(grid, AttrProjectURL)

	c.request(ctx, ccBase, id, IDCostCenterGrid)
	c.request(ctx, projBase, id, IDProjectGrid)
}

func (c *Controller) request(ctx context.Context, base, itemID, target string) {
	if base == "" || c.loader == nil {
		return
	}

	c.loader.Load(ctx, FragmentRequest{
		Method: "GET",
		URL:    FragmentURL(base, itemID),
		Target: target,
		Swap:   SwapOuterHTML,
	})
}

// FragmentURL appends item=<itemID> to base.
func FragmentURL(base, itemID string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + QueryItem + "=" + url.QueryEscape(itemID)
}

// closestRow walks from n up to (not including) stop and returns the first
// row carrying an item id.
func closestRow(n, stop *html.Node) *html.Node {
	for ; n != nil && n != stop; n = n.Parent {
		if n.Type != html.ElementNode || n.Data != "tr" {
			continue
		}
		if _, ok := attr(n, AttrItemID); ok {
			return n
		}
	}
	return nil
}

// ClickRow dispatches a click on the row with the given item id. It reports
// false when no such row exists.
func (c *Controller) ClickRow(ctx context.Context, itemID string) bool {
	var target *html.Node
	c.doc.Do(func(root *html.Node) {
		target = findRow(root, itemID)
	})
	if target == nil {
		return false
	}

	c.doc.Dispatch(ctx, "click", target)
	return true
}

// SelectedItem returns the item id of the active row.
func (c *Controller) SelectedItem() (string, bool) {
	var (
		id    string
		found bool
	)
	c.doc.Do(func(root *html.Node) {
		body := elementByID(root, IDRowsBody)
		if body == nil {
			return
		}
		for _, tr := range elementsByTag(body, "tr") {
			if hasClass(tr, ClassActive) {
				id, found = attr(tr, AttrItemID)
				return
			}
		}
	})
	return id, found
}

func findRow(root *html.Node, itemID string) *html.Node {
	body := elementByID(root, IDRowsBody)
	if body == nil {
		return nil
	}
	for _, tr := range elementsByTag(body, "tr") {
		if v, ok := attr(tr, AttrItemID); ok && v == itemID {
			return tr
		}
	}
	return nil
}
