// Package cmd provides CLI commands for invoice-assist.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "invoice-assist",
	Short: "Generate and deliver invoices from timesheet spreadsheets",
	Long: `invoice-assist is a CLI tool that turns a monthly timesheet
spreadsheet into an invoice and delivers it through a Telegram bot.

It supports:
- Reading XLSX and CSV timesheets with configurable column names
- Aggregating work records into invoice lines with exact decimal math
- Logging and updating timesheet rows in place
- Delivering the invoice summary and file via Telegram
- Tracking generated invoices and deliveries in SQLite history

Example:
  invoice-assist generate --month 2024-07
  invoice-assist send --month 2024-07
  invoice-assist stats`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(statsCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
