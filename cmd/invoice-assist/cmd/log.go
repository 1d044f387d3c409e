package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mkrish/invoice-assistant/pkg/config"
	"github.com/mkrish/invoice-assistant/pkg/pathutil"
	"github.com/mkrish/invoice-assistant/pkg/timesheet"
)

var (
	logDate   string
	logClient string
	logHours  string
	logRate   string
	logFile   string
)

// logCmd represents the log command.
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Add or update a work record in the timesheet",
	Long: `Add or update a single work record in the monthly timesheet.

The row is matched on date and client: logging the same date and client
twice replaces the earlier entry instead of duplicating it. The workbook
and sheet are created on first use.

Example:
  invoice-assist log --client Acme --hours 4
  invoice-assist log --date 2024-07-02 --client Acme --hours 2 --rate 50`,
	Run: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "Work date (YYYY-MM-DD), defaults to today")
	logCmd.Flags().StringVar(&logClient, "client", "", "Client or task the work belongs to (required)")
	logCmd.Flags().StringVar(&logHours, "hours", "", "Hours worked (required)")
	logCmd.Flags().StringVar(&logRate, "rate", "", "Hourly rate (optional)")
	logCmd.Flags().StringVar(&logFile, "file", "", "Timesheet file path (overrides the monthly naming convention)")

	logCmd.MarkFlagRequired("client")
	logCmd.MarkFlagRequired("hours")
}

func runLog(cmd *cobra.Command, args []string) {
	// Parse and validate the record before touching any file
	now := time.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if logDate != "" {
		parsed, err := time.Parse("2006-01-02", logDate)
		exitOnError(err, "invalid --date (expected YYYY-MM-DD)")
		date = parsed
	}

	hours, err := decimal.NewFromString(logHours)
	exitOnError(err, "invalid --hours")
	if hours.IsNegative() {
		exitOnError(fmt.Errorf("hours must not be negative: %s", hours), "invalid --hours")
	}

	record := timesheet.WorkRecord{Date: date, Client: logClient, Hours: hours}
	if logRate != "" {
		rate, err := decimal.NewFromString(logRate)
		exitOnError(err, "invalid --rate")
		if rate.IsNegative() {
			exitOnError(fmt.Errorf("rate must not be negative: %s", rate), "invalid --rate")
		}
		record.Rate = &rate
	}

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate([]string{"timesheet", "root"}); err != nil {
		exitOnError(err, "invalid configuration")
	}

	layout, err := loadLayout(cfg)
	exitOnError(err, "failed to load timesheet layout")

	// Resolve the target workbook
	path := logFile
	if path == "" {
		pathResolver := pathutil.New(pathutil.Config{
			TimesheetRoot: cfg.Timesheet.Root,
			DatabasePath:  cfg.Timesheet.DBPath,
		})
		path, err = pathResolver.GetTimesheetPath(date.Format("2006-01"))
		exitOnError(err, "failed to resolve timesheet path")
		exitOnError(pathResolver.EnsureParentDir(path), "failed to create timesheet directory")
	}

	updated, err := timesheet.UpsertRecord(path, layout, record)
	exitOnError(err, "failed to update timesheet")

	action := "added to"
	if updated {
		action = "updated in"
	}
	fmt.Printf("Entry for %s / %s %s %s\n", date.Format("2006-01-02"), logClient, action, path)

	slog.Info("Timesheet updated",
		"path", path,
		"date", date.Format("2006-01-02"),
		"client", logClient,
		"updated", updated,
	)
}
