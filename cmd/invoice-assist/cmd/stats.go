package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mkrish/invoice-assistant/pkg/config"
	"github.com/mkrish/invoice-assistant/pkg/history"
	"github.com/mkrish/invoice-assistant/pkg/pathutil"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display invoice and delivery statistics",
	Long: `Display statistics about generated invoices and deliveries.

Shows:
- Total number of generated invoices
- Total and failed delivery attempts
- Last generation and delivery timestamps

Example:
  invoice-assist stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

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

	// Open database connection
	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := history.Open(dbPath)
	exitOnError(err, "failed to open history database")
	defer conn.Close()

	store := history.NewStore(conn)

	stats, err := store.GetStats()
	exitOnError(err, "failed to get statistics")

	lastMonth, err := store.GetMetadata("last_generated_month")
	if err != nil {
		slog.Error("Failed to read metadata", "error", err)
	}

	// Display statistics
	fmt.Println("\n=== Invoice Statistics ===")
	fmt.Printf("Invoices generated:  %d\n", stats.TotalInvoices)
	fmt.Printf("Delivery attempts:   %d\n", stats.TotalDeliveries)
	fmt.Printf("Failed deliveries:   %d\n", stats.FailedDeliveries)

	if lastMonth != "" {
		fmt.Printf("Last invoice month:  %s\n", lastMonth)
	}
	if stats.LastGenerated.Valid {
		fmt.Printf("Last generated:      %s\n", stats.LastGenerated.String)
	} else {
		fmt.Printf("Last generated:      (never)\n")
	}
	if stats.LastDelivered.Valid {
		fmt.Printf("Last delivered:      %s\n", stats.LastDelivered.String)
	} else {
		fmt.Printf("Last delivered:      (never)\n")
	}

	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
