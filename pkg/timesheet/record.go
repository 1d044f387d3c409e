// Package timesheet provides reading and updating of work-log spreadsheets.
package timesheet

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WorkRecord represents one logged unit of work from the timesheet.
type WorkRecord struct {
	Date   time.Time
	Client string           // grouping key for invoice lines
	Hours  decimal.Decimal  // never negative
	Rate   *decimal.Decimal // nil when the row omits the rate
}

// MalformedRowError reports a row that cannot be safely billed from.
// Row is the 1-based row number in the source, including the header row.
type MalformedRowError struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("timesheet row %d: field %q value %q: %s", e.Row, e.Field, e.Value, e.Reason)
}
