package form

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerform/internal/locale"
)

type recordingLoader struct {
	mu   sync.Mutex
	reqs []FragmentRequest
}

func (l *recordingLoader) Load(_ context.Context, req FragmentRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reqs = append(l.reqs, req)
}

func (l *recordingLoader) requests() []FragmentRequest {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]FragmentRequest(nil), l.reqs...)
}

func row(id, side, amount string) string {
	return `<tr data-item-id="` + id + `" data-tipo="` + side + `" data-valor="` + amount + `"><td>` + id + `</td><td>` + amount + `</td></tr>`
}

func page(rows ...string) string {
	return `<!DOCTYPE html><html><head><title>form</title></head><body>
<div id="grid-itens" data-url-cc="/cc" data-url-projeto="/projeto">
<table><tbody id="itens-body">` + strings.Join(rows, "") + `</tbody></table>
</div>
<span id="total-debito"></span>
<span id="total-credito"></span>
<span id="total-diferenca"></span>
<button id="btn-salvar" type="submit">Salvar</button>
<div id="grid-cc"></div>
<div id="grid-projeto"></div>
</body></html>`
}

func newTestController(t *testing.T, markup string) (*Controller, *recordingLoader) {
	t.Helper()

	doc, err := ParseString(markup)
	require.NoError(t, err)

	loader := &recordingLoader{}
	return NewController(doc, loader), loader
}

func assertTotals(t *testing.T, c *Controller, debit, credit, diff string, disabled bool) {
	t.Helper()

	got, ok := c.Document().Text(IDTotalDebit)
	require.True(t, ok)
	assert.Equal(t, debit, got, "total debit")

	got, ok = c.Document().Text(IDTotalCredit)
	require.True(t, ok)
	assert.Equal(t, credit, got, "total credit")

	got, ok = c.Document().Text(IDTotalDiff)
	require.True(t, ok)
	assert.Equal(t, diff, got, "difference")

	isDisabled, found := c.Document().Disabled(IDSaveButton)
	require.True(t, found)
	assert.Equal(t, disabled, isDisabled, "save button disabled")
}

func TestParseAmount(t *testing.T) {
	c := NewController(nil, nil)

	assert.True(t, c.ParseAmount("1.234,56", true).Equal(decimal.RequireFromString("1234.56")))
	assert.True(t, c.ParseAmount("", true).IsZero())
	assert.True(t, c.ParseAmount("", false).IsZero())
	assert.True(t, c.ParseAmount("abc", true).IsZero())
}

func TestFormatAmount(t *testing.T) {
	c := NewController(nil, nil)
	assert.Equal(t, "1.234,50", c.FormatAmount(decimal.RequireFromString("1234.5")))

	us := NewController(nil, nil, WithLocale(locale.EnUS))
	assert.Equal(t, "1,234.50", us.FormatAmount(decimal.RequireFromString("1234.5")))
}

func TestRecalcTotals_Balanced(t *testing.T) {
	c, _ := newTestController(t, page(row("1", "D", "100,00"), row("2", "C", "100,00")))

	totals := c.RecalcTotals()

	assert.True(t, totals.Balanced())
	assertTotals(t, c, "100,00", "100,00", "0,00", false)
}

func TestRecalcTotals_Unbalanced(t *testing.T) {
	c, _ := newTestController(t, page(row("1", "D", "150,00"), row("2", "C", "100,00")))

	c.RecalcTotals()

	assertTotals(t, c, "150,00", "100,00", "50,00", true)
}

func TestRecalcTotals_ReenablesAfterBalancing(t *testing.T) {
	markup := strings.Replace(page(row("1", "D", "100,00"), row("2", "C", "100,00")),
		`<button id="btn-salvar"`, `<button id="btn-salvar" disabled`, 1)
	c, _ := newTestController(t, markup)

	c.RecalcTotals()

	assertTotals(t, c, "100,00", "100,00", "0,00", false)
}

func TestRecalcTotals_Idempotent(t *testing.T) {
	c, _ := newTestController(t, page(
		row("1", "D", "1.234,56"),
		row("2", "C", "234,56"),
		row("3", "C", "abc"),
	))

	first := c.RecalcTotals()
	firstHTML := c.Document().OuterHTML("total-diferenca")

	second := c.RecalcTotals()

	assert.True(t, first.Debit.Equal(second.Debit))
	assert.True(t, first.Credit.Equal(second.Credit))
	assert.Equal(t, firstHTML, c.Document().OuterHTML("total-diferenca"))
	assertTotals(t, c, "1.234,56", "234,56", "1.000,00", true)
}

func TestRecalcTotals_ToleranceBoundary(t *testing.T) {
	c, _ := newTestController(t, page(row("1", "D", "100,0001"), row("2", "C", "100,00")))

	totals := c.RecalcTotals()

	assert.True(t, totals.Difference().Equal(decimal.RequireFromString("0.0001")))
	assertTotals(t, c, "100,00", "100,00", "0,00", false)

	c, _ = newTestController(t, page(row("1", "D", "100,0002"), row("2", "C", "100,00")))
	c.RecalcTotals()
	disabled, _ := c.Document().Disabled(IDSaveButton)
	assert.True(t, disabled)
}

func TestRecalcTotals_IgnoresUnmarkedRowsAndUnknownSides(t *testing.T) {
	c, _ := newTestController(t, page(
		row("1", "D", "10,00"),
		`<tr data-tipo="D" data-valor="500,00"><td>header</td></tr>`,
		row("2", "X", "70,00"),
		`<tr data-item-id="3" data-tipo="C"><td>no amount</td></tr>`,
	))

	totals := c.RecalcTotals()

	assert.Equal(t, "10", totals.Debit.String())
	assert.True(t, totals.Credit.IsZero())
	assert.Len(t, c.Rows(), 3)
}

func TestRecalcTotals_ExponentAmounts(t *testing.T) {
	c, _ := newTestController(t, page(
		row("1", "D", "1e200000000"),
		row("2", "C", "1e-200000000"),
		row("3", "D", "1e3"),
	))

	done := make(chan struct{})
	go func() {
		c.RecalcTotals()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("RecalcTotals did not return")
	}

	assertTotals(t, c, "2,00", "1,00", "1,00", true)
}

func TestRecalcTotals_NonNegativeRows(t *testing.T) {
	c, _ := newTestController(t, page(row("1", "D", "0,00"), row("2", "C", "12,30"), row("3", "D", "")))

	totals := c.RecalcTotals()

	assert.False(t, totals.Debit.IsNegative())
	assert.False(t, totals.Credit.IsNegative())
}

func TestRecalcTotals_MissingElements(t *testing.T) {
	doc, err := ParseString(`<html><body><table><tbody id="itens-body">` +
		row("1", "D", "10,00") + `</tbody></table><span id="total-debito"></span></body></html>`)
	require.NoError(t, err)

	c := NewController(doc, nil)

	assert.NotPanics(t, func() { c.Initialize() })

	got, ok := doc.Text(IDTotalDebit)
	require.True(t, ok)
	assert.Equal(t, "10,00", got)

	_, found := doc.Disabled(IDSaveButton)
	assert.False(t, found)
}

func TestRecalcTotals_NoRowsContainer(t *testing.T) {
	doc, err := ParseString(`<html><body><span id="total-diferenca">x</span><button id="btn-salvar"></button></body></html>`)
	require.NoError(t, err)

	totals := NewController(doc, nil).RecalcTotals()

	assert.True(t, totals.Balanced())
	got, _ := doc.Text(IDTotalDiff)
	assert.Equal(t, "0,00", got)
}

func TestClickRow_RequestsFragmentsAndMovesSelection(t *testing.T) {
	markup := page(
		`<tr data-item-id="3" data-tipo="C" data-valor="1,00" class="table-active"><td>3</td></tr>`,
		row("7", "D", "1,00"),
	)
	c, loader := newTestController(t, markup)
	c.Initialize()

	require.True(t, c.ClickRow(context.Background(), "7"))

	assert.Equal(t, []FragmentRequest{
		{Method: "GET", URL: "/cc?item=7", Target: IDCostCenterGrid, Swap: SwapOuterHTML},
		{Method: "GET", URL: "/projeto?item=7", Target: IDProjectGrid, Swap: SwapOuterHTML},
	}, loader.requests())

	selected, ok := c.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "7", selected)
	assert.NotContains(t, c.Document().OuterHTML(IDRowsBody), `data-item-id="3" data-tipo="C" data-valor="1,00" class="table-active"`)
}

func TestClickRow_DelegatesFromCell(t *testing.T) {
	c, loader := newTestController(t, page(row("5", "D", "1,00")))
	c.Initialize()

	cell := findRow(c.Document().root, "5").FirstChild
	c.Document().Dispatch(context.Background(), "click", cell)

	assert.Len(t, loader.requests(), 2)
	selected, _ := c.SelectedItem()
	assert.Equal(t, "5", selected)
}

func TestInitialize_RebindingDoesNotAccumulate(t *testing.T) {
	c, loader := newTestController(t, page(row("1", "D", "1,00"), row("2", "C", "1,00")))

	for i := 0; i < 5; i++ {
		c.Initialize()
	}

	assert.Equal(t, 1, c.Document().ListenerCount(IDRowsBody, "click"))

	c.ClickRow(context.Background(), "2")
	assert.Len(t, loader.requests(), 2)
}

func TestClickRow_WithoutBinding(t *testing.T) {
	c, loader := newTestController(t, page(row("1", "D", "1,00")))

	assert.True(t, c.ClickRow(context.Background(), "1"))
	assert.Empty(t, loader.requests())

	_, ok := c.SelectedItem()
	assert.False(t, ok)
}

func TestClickRow_UnknownRow(t *testing.T) {
	c, _ := newTestController(t, page(row("1", "D", "1,00")))
	c.Initialize()

	assert.False(t, c.ClickRow(context.Background(), "404"))
}

func TestClickRow_MissingGridStillSelects(t *testing.T) {
	doc, err := ParseString(`<html><body><table><tbody id="itens-body">` + row("1", "D", "1,00") + `</tbody></table></body></html>`)
	require.NoError(t, err)

	loader := &recordingLoader{}
	c := NewController(doc, loader)
	c.Initialize()

	c.ClickRow(context.Background(), "1")

	assert.Empty(t, loader.requests())
	selected, _ := c.SelectedItem()
	assert.Equal(t, "1", selected)
}

func TestFragmentURL(t *testing.T) {
	assert.Equal(t, "/cc?item=7", FragmentURL("/cc", "7"))
	assert.Equal(t, "/cc?tab=1&item=7", FragmentURL("/cc?tab=1", "7"))
	assert.Equal(t, "/cc?item=a+b%26c", FragmentURL("/cc", "a b&c"))
}
