package timesheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date fixture %q: %v", s, err)
	}
	return d
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal fixture %q: %v", s, err)
	}
	return d
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timesheet.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestCSVReaderRead(t *testing.T) {
	path := writeCSV(t, `Date,Client,Hours,Rate
2024-07-01,Acme,4,50
2024-07-02,Acme,2,50
2024-07-03,Globex,8,
`)

	records, err := NewCSVReader(path, nil).Read()
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Read() returned %d records, expected 3", len(records))
	}

	// Source order preserved
	if records[0].Client != "Acme" || records[2].Client != "Globex" {
		t.Errorf("records out of source order: %v", records)
	}

	if records[0].Rate == nil || !records[0].Rate.Equal(mustDecimal(t, "50")) {
		t.Errorf("record 0 rate = %v, expected 50", records[0].Rate)
	}

	// Missing rate cell stays nil
	if records[2].Rate != nil {
		t.Errorf("record 2 rate = %v, expected nil", records[2].Rate)
	}

	if !records[2].Hours.Equal(mustDecimal(t, "8")) {
		t.Errorf("record 2 hours = %s, expected 8", records[2].Hours)
	}
}

func TestCSVReaderSkipsBlankRows(t *testing.T) {
	path := writeCSV(t, `Date,Client,Hours
2024-07-01,Acme,4
,,
2024-07-03,Globex,8
`)

	records, err := NewCSVReader(path, nil).Read()
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}

	if len(records) != 2 {
		t.Errorf("Read() returned %d records, expected 2 (blank row skipped)", len(records))
	}
}

func TestCSVReaderMalformedRows(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		field string
	}{
		{"non-numeric hours", "2024-07-01,Acme,eight,50", "Hours"},
		{"negative hours", "2024-07-01,Acme,-4,50", "Hours"},
		{"empty client", "2024-07-01,,4,50", "Client"},
		{"bad date", "July 1st,Acme,4,50", "Date"},
		{"non-numeric rate", "2024-07-01,Acme,4,fifty", "Rate"},
		{"negative rate", "2024-07-01,Acme,4,-50", "Rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, "Date,Client,Hours,Rate\n"+tt.row+"\n")

			_, err := NewCSVReader(path, nil).Read()

			var rowErr *MalformedRowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("Read() error = %v, expected MalformedRowError", err)
			}
			if rowErr.Field != tt.field {
				t.Errorf("MalformedRowError.Field = %q, expected %q", rowErr.Field, tt.field)
			}
			if rowErr.Row != 2 {
				t.Errorf("MalformedRowError.Row = %d, expected 2", rowErr.Row)
			}
		})
	}
}

func TestCSVReaderMissingColumn(t *testing.T) {
	path := writeCSV(t, `Date,Hours
2024-07-01,4
`)

	_, err := NewCSVReader(path, nil).Read()
	if err == nil {
		t.Fatal("Read() succeeded, expected missing-column error")
	}
}

func TestCSVReaderCustomLayout(t *testing.T) {
	path := writeCSV(t, `When,Project,Time,Price
01/07/2024,Acme,4,50
`)

	layout := &Layout{
		Columns: Columns{
			Date:   "When",
			Client: "Project",
			Hours:  "Time",
			Rate:   "Price",
		},
		DateFormats: []string{"02/01/2006"},
	}

	records, err := NewCSVReader(path, layout).Read()
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Read() returned %d records, expected 1", len(records))
	}
	if records[0].Date.Format("2006-01-02") != "2024-07-01" {
		t.Errorf("record date = %s, expected 2024-07-01", records[0].Date.Format("2006-01-02"))
	}
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	content := `sheet: July
columns:
  date: Work Date
  client: Customer
  hours: Logged
  rate: Hourly
date_formats:
  - "2006-01-02"
  - "02.01.2006"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	layout, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout() returned error: %v", err)
	}

	if layout.Sheet != "July" {
		t.Errorf("Sheet = %q, expected July", layout.Sheet)
	}
	if layout.Columns.Client != "Customer" {
		t.Errorf("Columns.Client = %q, expected Customer", layout.Columns.Client)
	}
	if len(layout.DateFormats) != 2 {
		t.Errorf("DateFormats = %v, expected 2 entries", layout.DateFormats)
	}
}
