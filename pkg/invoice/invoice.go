// Package invoice aggregates work records into an invoice document.
package invoice

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Line is one aggregated invoice line: all hours logged against a
// single client at one rate.
type Line struct {
	Description string
	Hours       decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Invoice is the aggregate document for one billing period.
// GrandTotal is always the exact sum of the line amounts.
type Invoice struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Lines       []Line
	GrandTotal  decimal.Decimal
}

// ErrEmptyInput is returned when there are no records to aggregate.
var ErrEmptyInput = errors.New("no work records to aggregate")

// InconsistentRateError reports two records in the same group with
// different explicit rates. Billing from conflicting rates is unsafe,
// so aggregation aborts instead of picking one.
type InconsistentRateError struct {
	Client string
	Have   decimal.Decimal
	Want   decimal.Decimal
}

func (e *InconsistentRateError) Error() string {
	return fmt.Sprintf("conflicting rates for %q: %s vs %s", e.Client, e.Have, e.Want)
}

// NoRateError reports a group whose records all omit the rate while no
// default rate is configured.
type NoRateError struct {
	Client string
}

func (e *NoRateError) Error() string {
	return fmt.Sprintf("no rate for %q and no default rate configured", e.Client)
}
