package timesheet

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads work records from an Excel workbook.
type XLSXReader struct {
	path   string
	layout *Layout
}

// NewXLSXReader creates a reader for an XLSX timesheet file.
func NewXLSXReader(path string, layout *Layout) *XLSXReader {
	if layout == nil {
		layout = DefaultLayout()
	}
	return &XLSXReader{path: path, layout: layout}
}

// Read parses the configured sheet. Row order is preserved and the
// workbook is never modified.
func (r *XLSXReader) Read() ([]WorkRecord, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.layout.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", r.layout.Sheet, err)
	}

	return parseRows(rows, r.layout)
}

// UpsertRecord adds or replaces one row in the workbook, matching on
// date and client. The workbook and sheet are created when missing.
// Returns true when an existing row was updated rather than appended.
func UpsertRecord(path string, layout *Layout, record WorkRecord) (bool, error) {
	if layout == nil {
		layout = DefaultLayout()
	}

	f, created, err := openOrCreateWorkbook(path, layout)
	if err != nil {
		return false, err
	}
	defer f.Close()

	rows, err := f.GetRows(layout.Sheet)
	if err != nil {
		return false, fmt.Errorf("failed to read sheet %q: %w", layout.Sheet, err)
	}
	if len(rows) == 0 {
		if err := writeHeader(f, layout); err != nil {
			return false, err
		}
		rows = [][]string{{layout.Columns.Date, layout.Columns.Client, layout.Columns.Hours, layout.Columns.Rate}}
	}

	cols, err := layout.columnIndexes(rows[0])
	if err != nil {
		return false, err
	}

	// Locate an existing row for the same date and client.
	targetRow := len(rows) + 1
	updated := false
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		date, err := parseDate(cellAt(row, cols[fieldDate]), layout.DateFormats)
		if err != nil {
			continue
		}
		if date.Equal(record.Date) && cellAt(row, cols[fieldClient]) == record.Client {
			targetRow = i + 2
			updated = true
			break
		}
	}

	cells := map[int]string{
		cols[fieldDate]:   record.Date.Format(layout.DateFormats[0]),
		cols[fieldClient]: record.Client,
		cols[fieldHours]:  record.Hours.String(),
	}
	if rateIdx, ok := cols[fieldRate]; ok {
		// The row is replaced as a whole: an omitted rate clears any
		// rate the earlier entry carried.
		rateValue := ""
		if record.Rate != nil {
			rateValue = record.Rate.String()
		}
		cells[rateIdx] = rateValue
	}

	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, targetRow)
		if err != nil {
			return false, fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetCellValue(layout.Sheet, cell, value); err != nil {
			return false, fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}

	if created {
		if err := f.SaveAs(path); err != nil {
			return false, fmt.Errorf("failed to save workbook: %w", err)
		}
	} else if err := f.Save(); err != nil {
		return false, fmt.Errorf("failed to save workbook: %w", err)
	}

	return updated, nil
}

// openOrCreateWorkbook opens the workbook at path, creating it with a
// header row when it does not exist yet. The second return value is
// true when a new workbook was created.
func openOrCreateWorkbook(path string, layout *Layout) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open workbook: %w", err)
		}
		if err := ensureSheet(f, layout); err != nil {
			f.Close()
			return nil, false, err
		}
		return f, false, nil
	}

	f := excelize.NewFile()
	if layout.Sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", layout.Sheet); err != nil {
			f.Close()
			return nil, false, fmt.Errorf("failed to rename sheet: %w", err)
		}
	}
	if err := writeHeader(f, layout); err != nil {
		f.Close()
		return nil, false, err
	}
	return f, true, nil
}

// ensureSheet makes sure the configured sheet exists with a header row.
func ensureSheet(f *excelize.File, layout *Layout) error {
	for _, name := range f.GetSheetList() {
		if name == layout.Sheet {
			return nil
		}
	}
	if _, err := f.NewSheet(layout.Sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", layout.Sheet, err)
	}
	return writeHeader(f, layout)
}

func writeHeader(f *excelize.File, layout *Layout) error {
	header := []string{layout.Columns.Date, layout.Columns.Client, layout.Columns.Hours, layout.Columns.Rate}
	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(layout.Sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	return nil
}
