package pathutil

import (
	"path/filepath"
	"testing"
)

func TestGetTimesheetPath(t *testing.T) {
	resolver := New(Config{TimesheetRoot: "/data/timesheets"})

	path, err := resolver.GetTimesheetPath("2024-07")
	if err != nil {
		t.Fatalf("GetTimesheetPath() returned error: %v", err)
	}

	expected := filepath.Join("/data/timesheets", "timesheet_2024-07.xlsx")
	if path != expected {
		t.Errorf("GetTimesheetPath() = %q, expected %q", path, expected)
	}
}

func TestGetInvoicePath(t *testing.T) {
	resolver := New(Config{TimesheetRoot: "/data/timesheets"})

	path, err := resolver.GetInvoicePath("2024-07")
	if err != nil {
		t.Fatalf("GetInvoicePath() returned error: %v", err)
	}

	expected := filepath.Join("/data/timesheets", "invoices", "2024", "invoice_2024-07.txt")
	if path != expected {
		t.Errorf("GetInvoicePath() = %q, expected %q", path, expected)
	}
}

func TestInvalidYearMonth(t *testing.T) {
	resolver := New(Config{TimesheetRoot: "/data/timesheets"})

	tests := []string{"2024", "24-07", "2024-7", "2024/07", "2024-xx", "july"}
	for _, yearMonth := range tests {
		t.Run(yearMonth, func(t *testing.T) {
			if _, err := resolver.GetTimesheetPath(yearMonth); err == nil {
				t.Errorf("GetTimesheetPath(%q) succeeded, expected format error", yearMonth)
			}
		})
	}
}

func TestDefaultDatabasePath(t *testing.T) {
	resolver := New(Config{TimesheetRoot: "/data/timesheets"})

	expected := filepath.Join("/data/timesheets", ".history", "history.db")
	if got := resolver.GetDatabasePath(); got != expected {
		t.Errorf("GetDatabasePath() = %q, expected %q", got, expected)
	}
}

func TestExplicitDatabasePath(t *testing.T) {
	resolver := New(Config{TimesheetRoot: "/data/timesheets", DatabasePath: "/var/db/history.db"})

	if got := resolver.GetDatabasePath(); got != "/var/db/history.db" {
		t.Errorf("GetDatabasePath() = %q, expected explicit path", got)
	}
}
