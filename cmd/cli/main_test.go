package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var err error
	out := captureOutput(t, func() {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		err = cmd.Execute()
	})
	return out, err
}

const formPage = `<html><body>
<table><tbody id="itens-body">
<tr data-item-id="1" data-tipo="D" data-valor="1.234,50"><td>a</td></tr>
<tr data-item-id="2" data-tipo="C" data-valor="1.234,50"><td>b</td></tr>
</tbody></table>
<span id="total-debito"></span><span id="total-credito"></span><span id="total-diferenca"></span>
<button id="btn-salvar" disabled>Salvar</button>
<div id="grid-itens" data-url-cc="/lancamentos/rateio-cc/" data-url-projeto="/lancamentos/rateio-projeto/"></div>
<div id="grid-cc"></div><div id="grid-projeto"></div>
</body></html>`

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestTotalsCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.html")
	if err := os.WriteFile(path, []byte(formPage), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "totals", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"total-debito     1.234,50", "total-credito    1.234,50", "total-diferenca  0,00", "balanced         true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTotalsCmd_Unbalanced(t *testing.T) {
	page := strings.Replace(formPage, `data-tipo="C" data-valor="1.234,50"`, `data-tipo="C" data-valor="1.000,00"`, 1)
	path := filepath.Join(t.TempDir(), "form.html")
	if err := os.WriteFile(path, []byte(page), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "totals", path)
	if err == nil {
		t.Fatal("expected an error for an unbalanced entry")
	}
	if !strings.Contains(out, "total-diferenca  234,50") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTotalsCmd_UnsupportedLocale(t *testing.T) {
	if _, err := execute(t, "totals", "--locale", "xx-YY", "-"); err == nil {
		t.Fatal("expected an error for an unsupported locale")
	}
}

func TestSelectCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lancamentos/1/editar/":
			_, _ = io.WriteString(w, formPage)
		case "/lancamentos/rateio-cc/":
			_, _ = io.WriteString(w, `<div id="grid-cc">cc for `+r.URL.Query().Get("item")+`</div>`)
		case "/lancamentos/rateio-projeto/":
			_, _ = io.WriteString(w, `<div id="grid-projeto">projeto for `+r.URL.Query().Get("item")+`</div>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := execute(t, "select", srv.URL+"/lancamentos/1/editar/", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, `<div id="grid-cc">cc for 2</div>`) {
		t.Errorf("cost center grid not loaded:\n%s", out)
	}
	if !strings.Contains(out, `<div id="grid-projeto">projeto for 2</div>`) {
		t.Errorf("project grid not loaded:\n%s", out)
	}
}

func TestSelectCmd_UnknownRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, formPage)
	}))
	defer srv.Close()

	if _, err := execute(t, "select", srv.URL, "99"); err == nil {
		t.Fatal("expected an error for a missing row")
	}
}

func TestEntryCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/entries/e-1/totals" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"entry_id":"e-1","balanced":true}`)
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "entry", "e-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"balanced": true`) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRecalcCmd(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotQuery = r.URL.RawQuery
		http.Error(w, `{"error":"period not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := execute(t, "--url", srv.URL, "recalc", "--branch", "br-1", "--period", "2024-03")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected a 404 error, got %v", err)
	}
	if gotQuery != "branch_id=br-1&period_id=2024-03" {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestMigrateCmd_RejectsDirection(t *testing.T) {
	if _, err := execute(t, "migrate", "sideways"); err == nil {
		t.Fatal("expected an error for an unknown direction")
	}
}
