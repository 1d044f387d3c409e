package invoice

import (
	"fmt"
	"strings"
)

const dateLayout = "2006-01-02"

// Render formats an invoice as a plain-text document: period range,
// one row per line item, and the grand total. Amounts are printed with
// the given number of fractional digits.
func Render(inv *Invoice, currency string, precision int32) string {
	var sb strings.Builder

	sb.WriteString("INVOICE\n")
	sb.WriteString(fmt.Sprintf("Period: %s to %s\n\n",
		inv.PeriodStart.Format(dateLayout), inv.PeriodEnd.Format(dateLayout)))

	for _, line := range inv.Lines {
		sb.WriteString("  ")
		sb.WriteString(line.Description)

		detail := fmt.Sprintf("%s h @ %s", line.Hours.String(), line.Rate.StringFixed(precision))
		amount := fmt.Sprintf("%s %s", line.Amount.StringFixed(precision), currency)

		// Right-align the detail and amount columns.
		spaces := max(1, 28-len(line.Description))
		sb.WriteString(strings.Repeat(" ", spaces))
		sb.WriteString(detail)

		spaces = max(1, 24-len(detail))
		sb.WriteString(strings.Repeat(" ", spaces))
		sb.WriteString(amount)
		sb.WriteString("\n")
	}

	sb.WriteString("\n  TOTAL")
	total := fmt.Sprintf("%s %s", inv.GrandTotal.StringFixed(precision), currency)
	sb.WriteString(strings.Repeat(" ", max(1, 47-len(total))))
	sb.WriteString(total)
	sb.WriteString("\n")

	return sb.String()
}
