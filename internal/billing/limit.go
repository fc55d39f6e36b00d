package billing

import (
	"sort"

	"finflow/internal/core"
)

// InvoiceTotal is the amount billed for one reference month.
type InvoiceTotal struct {
	Month int        `json:"month"`
	Year  int        `json:"year"`
	Total core.Money `json:"total"`
}

// Limit describes how much of a card's credit line is committed.
type Limit struct {
	Total            core.Money     `json:"total"`
	Used             core.Money     `json:"used"`
	Available        core.Money     `json:"available"`
	PercentUsed      float64        `json:"percentUsed"`
	UpcomingInvoices []InvoiceTotal `json:"upcomingInvoices"`
}

// OverLimit reports whether recorded purchases exceed the credit line.
func (l Limit) OverLimit() bool {
	return l.Available.IsNegative()
}

// CalculateAvailableLimit counts every recorded transaction of the card
// against its limit, whatever its invoice or the invoice's status.
// Available is not clamped at zero.
func CalculateAvailableLimit(card core.CreditCard, txns []core.CardTransaction) Limit {
	byPeriod := make(map[Period]core.Money)
	var used core.Money
	for _, t := range txns {
		if t.CardID != card.ID {
			continue
		}
		used = used.Add(t.Amount)
		p := ResolveInvoicePeriod(t.TransactionDate, card.ClosingDay)
		byPeriod[p] = byPeriod[p].Add(t.Amount)
	}

	periods := make([]Period, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	upcoming := make([]InvoiceTotal, 0, len(periods))
	for _, p := range periods {
		upcoming = append(upcoming, InvoiceTotal{Month: p.Month, Year: p.Year, Total: byPeriod[p]})
	}

	return Limit{
		Total:            card.LimitTotal,
		Used:             used,
		Available:        card.LimitTotal.Sub(used),
		PercentUsed:      core.Percent(used, card.LimitTotal),
		UpcomingInvoices: upcoming,
	}
}
