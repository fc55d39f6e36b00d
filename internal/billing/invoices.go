package billing

import (
	"sort"
	"time"

	"finflow/internal/core"
)

// BuildInvoices groups the card's transactions into monthly invoices, sorted
// by reference month. Transactions of other cards are ignored.
func BuildInvoices(txns []core.CardTransaction, card core.CreditCard, now time.Time, paid core.PaidInvoices) []core.Invoice {
	groups := make(map[Period][]core.CardTransaction)
	for _, t := range txns {
		if t.CardID != card.ID {
			continue
		}
		p := ResolveInvoicePeriod(t.TransactionDate, card.ClosingDay)
		groups[p] = append(groups[p], t)
	}

	invoices := make([]core.Invoice, 0, len(groups))
	for p, members := range groups {
		sort.SliceStable(members, func(i, j int) bool {
			if c := members[i].TransactionDate.Compare(members[j].TransactionDate); c != 0 {
				return c < 0
			}
			return members[i].ID < members[j].ID
		})
		inv := core.Invoice{
			CardID:         card.ID,
			ReferenceMonth: p.Month,
			ReferenceYear:  p.Year,
			Transactions:   members,
			Total:          totalOf(members),
			ClosingDate:    ClosingDate(p, card.ClosingDay),
			DueDate:        DueDate(p, card.DueDay),
		}
		inv.Status = Status(inv, now, paid)
		invoices = append(invoices, inv)
	}

	sort.Slice(invoices, func(i, j int) bool {
		return periodOf(invoices[i]).Before(periodOf(invoices[j]))
	})
	return invoices
}

// Status classifies the instant now against the invoice's closing and due
// dates, both taken at UTC midnight. A paid invoice stays paid.
func Status(inv core.Invoice, now time.Time, paid core.PaidInvoices) core.InvoiceStatus {
	if paid.Contains(inv.Key()) {
		return core.InvoicePaid
	}
	switch {
	case now.After(inv.DueDate.Time):
		return core.InvoiceOverdue
	case now.After(inv.ClosingDate.Time):
		return core.InvoiceClosed
	default:
		return core.InvoiceOpen
	}
}

// FindInvoice returns the invoice for the given reference month, if any.
func FindInvoice(invoices []core.Invoice, year, month int) (core.Invoice, bool) {
	for _, inv := range invoices {
		if inv.ReferenceYear == year && inv.ReferenceMonth == month {
			return inv, true
		}
	}
	return core.Invoice{}, false
}

func periodOf(inv core.Invoice) Period {
	return Period{Year: inv.ReferenceYear, Month: inv.ReferenceMonth}
}

func totalOf(txns []core.CardTransaction) core.Money {
	var total core.Money
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}
