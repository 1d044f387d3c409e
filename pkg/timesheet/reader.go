package timesheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Reader loads work records from a tabular source in source order.
type Reader interface {
	Read() ([]WorkRecord, error)
}

// CSVReader reads work records from a CSV file with a header row.
type CSVReader struct {
	path   string
	layout *Layout
}

// NewCSVReader creates a reader for a CSV timesheet file.
func NewCSVReader(path string, layout *Layout) *CSVReader {
	if layout == nil {
		layout = DefaultLayout()
	}
	return &CSVReader{path: path, layout: layout}
}

// Read parses the whole file. Row order is preserved and the source is
// never modified. Any malformed data row aborts the read.
func (r *CSVReader) Read() ([]WorkRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open timesheet: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1 // rows may omit trailing cells

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return parseRows(rows, r.layout)
}

// parseRows converts raw sheet rows (header first) into work records.
// Shared by the CSV and XLSX readers.
func parseRows(rows [][]string, layout *Layout) ([]WorkRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("timesheet has no header row")
	}

	cols, err := layout.columnIndexes(rows[0])
	if err != nil {
		return nil, err
	}

	var records []WorkRecord
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		if isBlankRow(row) {
			continue
		}

		record, err := parseRow(rowNum, row, cols, layout)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, nil
}

func parseRow(rowNum int, row []string, cols map[string]int, layout *Layout) (*WorkRecord, error) {
	dateStr := cellAt(row, cols[fieldDate])
	date, err := parseDate(dateStr, layout.DateFormats)
	if err != nil {
		return nil, &MalformedRowError{Row: rowNum, Field: layout.Columns.Date, Value: dateStr, Reason: "unrecognized date"}
	}

	client := cellAt(row, cols[fieldClient])
	if client == "" {
		return nil, &MalformedRowError{Row: rowNum, Field: layout.Columns.Client, Value: "", Reason: "grouping key is empty"}
	}

	hoursStr := cellAt(row, cols[fieldHours])
	hours, err := decimal.NewFromString(hoursStr)
	if err != nil {
		return nil, &MalformedRowError{Row: rowNum, Field: layout.Columns.Hours, Value: hoursStr, Reason: "hours is not numeric"}
	}
	if hours.IsNegative() {
		return nil, &MalformedRowError{Row: rowNum, Field: layout.Columns.Hours, Value: hoursStr, Reason: "hours is negative"}
	}

	record := &WorkRecord{Date: date, Client: client, Hours: hours}

	if rateIdx, ok := cols[fieldRate]; ok {
		if rateStr := cellAt(row, rateIdx); rateStr != "" {
			rate, err := decimal.NewFromString(rateStr)
			if err != nil {
				return nil, &MalformedRowError{Row: rowNum, Field: layout.Columns.Rate, Value: rateStr, Reason: "rate is not numeric"}
			}
			if rate.IsNegative() {
				return nil, &MalformedRowError{Row: rowNum, Field: layout.Columns.Rate, Value: rateStr, Reason: "rate is negative"}
			}
			record.Rate = &rate
		}
	}

	return record, nil
}

func parseDate(value string, formats []string) (time.Time, error) {
	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no date format matched %q", value)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
