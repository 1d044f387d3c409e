package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mkrish/invoice-assistant/pkg/config"
	"github.com/mkrish/invoice-assistant/pkg/document"
	"github.com/mkrish/invoice-assistant/pkg/history"
	"github.com/mkrish/invoice-assistant/pkg/invoice"
	"github.com/mkrish/invoice-assistant/pkg/pathutil"
	"github.com/mkrish/invoice-assistant/pkg/timesheet"
)

var (
	generateMonth       string
	generateFile        string
	generateDefaultRate string
	generateDryRun      bool
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an invoice from a monthly timesheet",
	Long: `Generate an invoice from a timesheet spreadsheet.

This command:
1. Reads work records from the month's timesheet (XLSX or CSV)
2. Groups them by client and sums hours with exact decimal arithmetic
3. Renders the invoice document
4. Writes it to the invoice directory
5. Records the run in SQLite history

Example:
  invoice-assist generate --month 2024-07
  invoice-assist generate --file worklog.csv --dry-run`,
	Run: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateMonth, "month", "", "Billing month (YYYY-MM), defaults to the current month")
	generateCmd.Flags().StringVar(&generateFile, "file", "", "Timesheet file path (overrides the monthly naming convention)")
	generateCmd.Flags().StringVar(&generateDefaultRate, "default-rate", "", "Hourly rate for rows without one (overrides DEFAULT_HOURLY_RATE)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Print the invoice without writing files or history")
}

func runGenerate(cmd *cobra.Command, args []string) {
	month := resolveMonth(generateMonth)
	slog.Info("Generating invoice", "month", month, "dry_run", generateDryRun)

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate([]string{"timesheet", "root"}); err != nil {
		exitOnError(err, "invalid configuration")
	}

	pathResolver := pathutil.New(pathutil.Config{
		TimesheetRoot: cfg.Timesheet.Root,
		DatabasePath:  cfg.Timesheet.DBPath,
	})

	// Resolve the timesheet source
	sourcePath := generateFile
	if sourcePath == "" {
		sourcePath, err = pathResolver.GetTimesheetPath(month)
		exitOnError(err, "failed to resolve timesheet path")
	}

	layout, err := loadLayout(cfg)
	exitOnError(err, "failed to load timesheet layout")

	// Read work records
	slog.Info("Reading timesheet", "path", sourcePath)
	reader := newReader(sourcePath, layout)
	records, err := reader.Read()
	exitOnError(err, "failed to read timesheet")
	slog.Info("Read work records", "count", len(records))

	// Resolve the default rate
	defaultRate := cfg.Billing.DefaultRate
	if generateDefaultRate != "" {
		rate, err := decimal.NewFromString(generateDefaultRate)
		exitOnError(err, "invalid --default-rate")
		defaultRate = &rate
	}

	// Aggregate into an invoice
	inv, err := invoice.Aggregate(records, invoice.Options{
		DefaultRate: defaultRate,
		Precision:   invoice.Precision(cfg.Billing.Precision),
	})
	exitOnError(err, "failed to aggregate timesheet")

	rendered := invoice.Render(inv, cfg.Billing.Currency, cfg.Billing.Precision)

	if generateDryRun {
		fmt.Printf("[DRY RUN] Invoice for %s\n\n", month)
		fmt.Print(rendered)
		return
	}

	// Write the invoice file
	repo := document.NewFileSystemRepository(pathResolver)
	invoicePath, err := repo.WriteInvoice(month, rendered)
	exitOnError(err, "failed to write invoice")
	slog.Info("Wrote invoice", "path", invoicePath)

	// Record the run in history
	conn, err := history.Open(pathResolver.GetDatabasePath())
	exitOnError(err, "failed to open history database")
	defer conn.Close()

	store := history.NewStore(conn)
	err = store.RecordInvoice(history.InvoiceRecord{
		Month:       month,
		PeriodStart: inv.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   inv.PeriodEnd.Format("2006-01-02"),
		RecordCount: len(records),
		LineCount:   len(inv.Lines),
		GrandTotal:  inv.GrandTotal.String(),
		Currency:    cfg.Billing.Currency,
		InvoiceFile: invoicePath,
	})
	exitOnError(err, "failed to record invoice history")

	if err := store.SetMetadata("last_generated_month", month); err != nil {
		slog.Error("Failed to update metadata", "error", err)
	}

	fmt.Printf("Invoice for %s written to %s\n", month, invoicePath)
	fmt.Printf("Lines: %d  Grand total: %s %s\n",
		len(inv.Lines), inv.GrandTotal.StringFixed(cfg.Billing.Precision), cfg.Billing.Currency)

	slog.Info("Generate completed",
		"month", month,
		"records", len(records),
		"lines", len(inv.Lines),
		"grand_total", inv.GrandTotal.String(),
	)
}

// Helper functions

// resolveMonth returns the month flag or the current month.
func resolveMonth(flag string) string {
	if flag != "" {
		return flag
	}
	return time.Now().Format("2006-01")
}

// loadLayout builds the timesheet layout from configuration.
func loadLayout(cfg *config.Config) (*timesheet.Layout, error) {
	layout := timesheet.DefaultLayout()
	if cfg.Timesheet.LayoutPath != "" {
		loaded, err := timesheet.LoadLayout(cfg.Timesheet.LayoutPath)
		if err != nil {
			return nil, err
		}
		layout = loaded
	}
	if cfg.Timesheet.SheetName != "" {
		layout.Sheet = cfg.Timesheet.SheetName
	}
	return layout, nil
}

// newReader picks a reader implementation from the file extension.
func newReader(path string, layout *timesheet.Layout) timesheet.Reader {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return timesheet.NewCSVReader(path, layout)
	}
	return timesheet.NewXLSXReader(path, layout)
}
