package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/ledgerform/internal/form"
	"github.com/iho/ledgerform/internal/infrastructure/config"
	"github.com/iho/ledgerform/internal/infrastructure/logger"
	"github.com/iho/ledgerform/internal/infrastructure/postgres"
	"github.com/iho/ledgerform/internal/locale"
)

var (
	baseURL    string
	timeout    time.Duration
	localeName string
	verbose    bool
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ledgerform-cli",
		Short:         "Ledger entry form CLI tool",
		Long:          `A command line interface for checking entry forms and driving the ledgerform server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledgerform server")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&localeName, "locale", "pt-BR", "Amount locale")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log fragment requests")

	// Form commands
	totalsCmd := &cobra.Command{
		Use:   "totals <file|->",
		Short: "Recalculate the totals of a saved entry form page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTotals(args[0])
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select <page-url> <item-id>",
		Short: "Select a row of an entry form and print the loaded allocation grids",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd.Context(), args[0], args[1])
		},
	}

	// API commands
	entryCmd := &cobra.Command{
		Use:   "entry <id>",
		Short: "Show the stored totals of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiCall(cmd.Context(), http.MethodGet, "/api/v1/entries/"+url.PathEscape(args[0])+"/totals", nil)
		},
	}

	var branchID, periodID string
	recalcCmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate period balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("branch_id", branchID)
			q.Set("period_id", periodID)
			return apiCall(cmd.Context(), http.MethodPost, "/api/v1/balances/recalculate", q)
		},
	}
	recalcCmd.Flags().StringVar(&branchID, "branch", "", "Branch id")
	recalcCmd.Flags().StringVar(&periodID, "period", "", "Period id")
	_ = recalcCmd.MarkFlagRequired("period")

	// Database commands
	migrateCmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(args[0])
		},
	}

	rootCmd.AddCommand(totalsCmd, selectCmd, entryCmd, recalcCmd, migrateCmd)
	return rootCmd
}

func cliLocale() (locale.Locale, error) {
	l, ok := locale.Lookup(localeName)
	if !ok {
		return locale.Locale{}, fmt.Errorf("unsupported locale %q", localeName)
	}
	return l, nil
}

func cliLogger() zerolog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.NewWithWriter(logger.Config{Level: level, Format: "console"}, os.Stderr)
}

func runTotals(path string) error {
	loc, err := cliLocale()
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	doc, err := form.Parse(r)
	if err != nil {
		return fmt.Errorf("parse form: %w", err)
	}

	ctrl := form.NewController(doc, nil, form.WithLocale(loc), form.WithLogger(cliLogger()))
	totals := ctrl.RecalcTotals()

	printTotals(ctrl.Document(), totals.Balanced())
	if !totals.Balanced() {
		return errors.New("entry is not balanced")
	}
	return nil
}

func printTotals(doc *form.Document, balanced bool) {
	for _, id := range []string{form.IDTotalDebit, form.IDTotalCredit, form.IDTotalDiff} {
		text, _ := doc.Text(id)
		fmt.Printf("%-16s %s\n", id, text)
	}
	fmt.Printf("%-16s %v\n", "balanced", balanced)
}

func runSelect(ctx context.Context, pageURL, itemID string) error {
	loc, err := cliLocale()
	if err != nil {
		return err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("invalid page url: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	body, err := fetch(ctx, client, http.MethodGet, base.String())
	if err != nil {
		return err
	}

	doc, err := form.ParseString(string(body))
	if err != nil {
		return fmt.Errorf("parse form: %w", err)
	}

	log := cliLogger()
	loader := form.NewHTTPLoader(doc, base, form.WithHTTPClient(client), form.WithLoaderLogger(log))
	ctrl := form.NewController(doc, loader, form.WithLocale(loc), form.WithLogger(log))
	loader.SetHook(ctrl.Hook())
	ctrl.Initialize()

	if !ctrl.ClickRow(ctx, itemID) {
		return fmt.Errorf("row %q not found", itemID)
	}
	loader.Wait()

	for _, id := range []string{form.IDCostCenterGrid, form.IDProjectGrid} {
		fmt.Printf("<!-- %s -->\n%s\n", id, doc.OuterHTML(id))
	}
	return nil
}

func apiCall(ctx context.Context, method, path string, query url.Values) error {
	target := baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	body, err := fetch(ctx, &http.Client{Timeout: timeout}, method, target)
	if err != nil {
		return err
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	printJSON(result)
	return nil
}

func fetch(ctx context.Context, client *http.Client, method, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func runMigrate(direction string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := cliLogger()
	if direction == "down" {
		return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath, log)
	}
	return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
