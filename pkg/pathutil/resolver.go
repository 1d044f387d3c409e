// Package pathutil provides centralized path management for timesheet and invoice files.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathResolver manages paths for timesheet workbooks, generated
// invoices, and the history database.
type PathResolver struct {
	timesheetRoot string
	databasePath  string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// TimesheetRoot is the root directory for timesheet and invoice files
	TimesheetRoot string
	// DatabasePath is the path to the SQLite database file for run history
	DatabasePath string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {TimesheetRoot}/.history/history.db
func New(config Config) *PathResolver {
	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(config.TimesheetRoot, ".history", "history.db")
	}

	return &PathResolver{
		timesheetRoot: config.TimesheetRoot,
		databasePath:  dbPath,
	}
}

// FromEnv creates a PathResolver from environment variables.
// Expected environment variables:
//   - TIMESHEET_ROOT: Root directory for timesheet files (required)
//   - INVOICE_DB_PATH: Database file path (optional)
func FromEnv() (*PathResolver, error) {
	timesheetRoot := os.Getenv("TIMESHEET_ROOT")
	if timesheetRoot == "" {
		return nil, fmt.Errorf("TIMESHEET_ROOT environment variable is required")
	}

	return New(Config{
		TimesheetRoot: timesheetRoot,
		DatabasePath:  os.Getenv("INVOICE_DB_PATH"),
	}), nil
}

// GetTimesheetPath returns the workbook path for a month (YYYY-MM),
// e.g. {root}/timesheet_2024-07.xlsx
func (r *PathResolver) GetTimesheetPath(yearMonth string) (string, error) {
	if err := validateYearMonth(yearMonth); err != nil {
		return "", err
	}
	return filepath.Join(r.timesheetRoot, fmt.Sprintf("timesheet_%s.xlsx", yearMonth)), nil
}

// GetInvoicePath returns the rendered invoice path for a month (YYYY-MM),
// e.g. {root}/invoices/2024/invoice_2024-07.txt
func (r *PathResolver) GetInvoicePath(yearMonth string) (string, error) {
	if err := validateYearMonth(yearMonth); err != nil {
		return "", err
	}
	year := yearMonth[:4]
	return filepath.Join(r.timesheetRoot, "invoices", year, fmt.Sprintf("invoice_%s.txt", yearMonth)), nil
}

// GetInvoiceYearDir returns the directory holding one year's invoices.
func (r *PathResolver) GetInvoiceYearDir(year string) string {
	return filepath.Join(r.timesheetRoot, "invoices", year)
}

// GetDatabasePath returns the history database path.
func (r *PathResolver) GetDatabasePath() string {
	return r.databasePath
}

// GetRoot returns the timesheet root directory.
func (r *PathResolver) GetRoot() string {
	return r.timesheetRoot
}

// FileExists reports whether a file or directory exists at path.
func (r *PathResolver) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureParentDir creates the parent directory of path if needed.
func (r *PathResolver) EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// validateYearMonth checks the YYYY-MM format.
func validateYearMonth(yearMonth string) error {
	parts := strings.Split(yearMonth, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return fmt.Errorf("invalid year-month format: %s (expected YYYY-MM)", yearMonth)
	}
	for _, part := range parts {
		for _, c := range part {
			if c < '0' || c > '9' {
				return fmt.Errorf("invalid year-month format: %s (expected YYYY-MM)", yearMonth)
			}
		}
	}
	return nil
}
