// Package billing derives credit-card invoices and limit usage from raw card
// transactions. Nothing here is stored: every result is recomputed from the
// transactions, the card and an explicit "now".
package billing

import "finflow/internal/core"

// Period is the reference month of an invoice.
type Period struct {
	Year  int
	Month int // 1-12
}

// Before reports whether p is chronologically earlier than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// ResolveInvoicePeriod returns the invoice a purchase made on date belongs to.
// A purchase on or after the closing day goes to next month's invoice, so the
// closing day itself is already past the cutoff.
func ResolveInvoicePeriod(date core.Date, closingDay int) Period {
	year, month := date.Year(), date.Month()
	if date.Day() >= closingDay {
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return Period{Year: year, Month: month}
}

// ClosingDate is closingDay in the month before the reference month, clamped
// to that month's last day.
func ClosingDate(p Period, closingDay int) core.Date {
	return core.ClampedDate(p.Year, p.Month-1, closingDay)
}

// DueDate is dueDay in the reference month, clamped to its last day.
func DueDate(p Period, dueDay int) core.Date {
	return core.ClampedDate(p.Year, p.Month, dueDay)
}
