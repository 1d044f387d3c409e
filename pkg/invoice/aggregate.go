package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/mkrish/invoice-assistant/pkg/timesheet"
)

// DefaultPrecision is the number of fractional digits used for line
// amounts when the caller does not configure one.
const DefaultPrecision int32 = 2

// Options controls aggregation.
type Options struct {
	// DefaultRate is applied to a group whose records all omit the
	// rate. Nil means there is no default.
	DefaultRate *decimal.Decimal
	// Precision is the number of fractional digits line amounts are
	// rounded to. Zero rounds to whole currency units; nil falls back
	// to DefaultPrecision.
	Precision *int32
}

// Precision wraps a precision value for Options.
func Precision(digits int32) *int32 {
	return &digits
}

// group accumulates records sharing one client key.
type group struct {
	client string
	hours  decimal.Decimal
	rate   *decimal.Decimal // explicit rate seen in the group, if any
}

// Aggregate groups records by client, sums hours per group, and prices
// each group at its explicit rate or the default rate. Line order is
// the first appearance of each client in the input. The input is never
// mutated, so aggregating the same records twice yields identical
// invoices.
func Aggregate(records []timesheet.WorkRecord, opts Options) (*Invoice, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	precision := DefaultPrecision
	if opts.Precision != nil && *opts.Precision >= 0 {
		precision = *opts.Precision
	}

	var order []string
	groups := make(map[string]*group)

	periodStart := records[0].Date
	periodEnd := records[0].Date

	for _, record := range records {
		if record.Date.Before(periodStart) {
			periodStart = record.Date
		}
		if record.Date.After(periodEnd) {
			periodEnd = record.Date
		}

		g, ok := groups[record.Client]
		if !ok {
			g = &group{client: record.Client, hours: decimal.Zero}
			groups[record.Client] = g
			order = append(order, record.Client)
		}

		g.hours = g.hours.Add(record.Hours)

		if record.Rate != nil {
			if g.rate != nil && !g.rate.Equal(*record.Rate) {
				return nil, &InconsistentRateError{Client: record.Client, Have: *g.rate, Want: *record.Rate}
			}
			rate := *record.Rate
			g.rate = &rate
		}
	}

	inv := &Invoice{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		GrandTotal:  decimal.Zero,
	}

	for _, client := range order {
		g := groups[client]

		rate := g.rate
		if rate == nil {
			rate = opts.DefaultRate
		}
		if rate == nil {
			return nil, &NoRateError{Client: client}
		}

		amount := g.hours.Mul(*rate).Round(precision)
		inv.Lines = append(inv.Lines, Line{
			Description: client,
			Hours:       g.hours,
			Rate:        *rate,
			Amount:      amount,
		})
		inv.GrandTotal = inv.GrandTotal.Add(amount)
	}

	return inv, nil
}
