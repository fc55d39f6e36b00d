package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"finflow/internal/billing"
	"finflow/internal/core"
	"finflow/internal/dashboard"
)

// money renders an amount, red when negative.
func money(m core.Money) string {
	if m.IsNegative() {
		return ErrorStyle.Render(m.String())
	}
	return m.String()
}

func invoiceStatus(s core.InvoiceStatus) string {
	switch s {
	case core.InvoicePaid:
		return SuccessStyle.Render(string(s))
	case core.InvoiceOverdue:
		return ErrorStyle.Render(string(s))
	case core.InvoiceClosed:
		return WarningStyle.Render(string(s))
	default:
		return string(s)
	}
}

// RenderSummary prints the dashboard of one month.
func RenderSummary(w io.Writer, s dashboard.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Income            %s\n", money(s.TotalIncome))
	fmt.Fprintf(&b, "Expense           %s\n", money(s.TotalExpense))
	fmt.Fprintf(&b, "Current balance   %s\n", money(s.CurrentBalance))
	fmt.Fprintf(&b, "Projected balance %s\n", money(s.ProjectedBalance))
	fmt.Fprintf(&b, "Card debt         %s", money(s.CreditCardDebt))
	if _, err := fmt.Fprintln(w, RenderBox(fmt.Sprintf("Dashboard %04d-%02d", s.Year, s.Month), b.String())); err != nil {
		return err
	}

	if err := renderTransactions(w, "Overdue", s.OverdueTransactions); err != nil {
		return err
	}
	if err := renderTransactions(w, "Pending this month", s.PendingTransactions); err != nil {
		return err
	}
	if err := renderTransactions(w, "Next", s.NextTransactions); err != nil {
		return err
	}

	if len(s.CategoryDistribution) > 0 {
		fmt.Fprintln(w, TitleStyle.Render("Spending by category"))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, c := range s.CategoryDistribution {
			fmt.Fprintf(tw, "%s\t%s\t%5.1f%%\n", c.Name, money(c.Value), c.Percent)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(s.CardSummaries) > 0 {
		fmt.Fprintln(w, TitleStyle.Render("Cards"))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			HeaderStyle.Render("Card"), HeaderStyle.Render("Invoice"),
			HeaderStyle.Render("Status"), HeaderStyle.Render("Available"))
		for _, cs := range s.CardSummaries {
			total, status := "-", "-"
			if cs.Invoice != nil {
				total = money(cs.Invoice.Total)
				status = invoiceStatus(cs.Invoice.Status)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cs.Card.Name, total, status, money(cs.Limit.Available))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func renderTransactions(w io.Writer, title string, txns []core.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	fmt.Fprintln(w, TitleStyle.Render(title))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range txns {
		amount := t.Amount
		if t.Type == core.Expense {
			amount = amount.Neg()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.TransactionDate, t.ID, t.Description, money(amount))
	}
	return tw.Flush()
}

// RenderInvoices prints every invoice of a card.
func RenderInvoices(w io.Writer, card core.CreditCard, invoices []core.Invoice) error {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Invoices of %s", card.Name)))
	if len(invoices) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("No invoices."))
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("Month"), HeaderStyle.Render("Closing"),
		HeaderStyle.Render("Due"), HeaderStyle.Render("Total"), HeaderStyle.Render("Status"))
	for _, inv := range invoices {
		fmt.Fprintf(tw, "%04d-%02d\t%s\t%s\t%s\t%s\n",
			inv.ReferenceYear, inv.ReferenceMonth,
			inv.ClosingDate, inv.DueDate,
			money(inv.Total), invoiceStatus(inv.Status))
	}
	return tw.Flush()
}

// RenderLimit prints the limit usage of a card.
func RenderLimit(w io.Writer, card core.CreditCard, l billing.Limit) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total     %s\n", money(l.Total))
	fmt.Fprintf(&b, "Used      %s (%.1f%%)\n", money(l.Used), l.PercentUsed)
	fmt.Fprintf(&b, "Available %s", money(l.Available))
	if l.OverLimit() {
		b.WriteString("\n" + FormatWarning("over limit"))
	}
	for _, u := range l.UpcomingInvoices {
		fmt.Fprintf(&b, "\n%04d-%02d   %s", u.Year, u.Month, money(u.Total))
	}
	_, err := fmt.Fprintln(w, RenderBox("Limit of "+card.Name, b.String()))
	return err
}
