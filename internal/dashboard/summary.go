// Package dashboard composes the ledger into the monthly overview: totals,
// current and projected balance, overdue and upcoming items, spending by
// category and the state of every card. Everything is recomputed per call.
package dashboard

import (
	"sort"
	"time"

	"finflow/internal/balance"
	"finflow/internal/billing"
	"finflow/internal/categories"
	"finflow/internal/core"
)

// NextLimit caps the number of upcoming pending transactions in a summary.
const NextLimit = 5

// Input is the full source data a summary is computed from.
type Input struct {
	Transactions     []core.Transaction
	Accounts         []core.Account
	Cards            []core.CreditCard
	CardTransactions []core.CardTransaction
	PaidInvoices     core.PaidInvoices
	Categories       *categories.Registry
}

// CategorySlice is the amount spent in one category during the month.
type CategorySlice struct {
	CategoryID string     `json:"categoryId"`
	Name       string     `json:"name"`
	Color      string     `json:"color,omitempty"`
	Value      core.Money `json:"value"`
	Percent    float64    `json:"percent"`
}

// CardSummary is the state of one card for the selected month. Invoice is
// nil when nothing was billed to the card that month.
type CardSummary struct {
	Card    core.CreditCard `json:"card"`
	Invoice *core.Invoice   `json:"invoice,omitempty"`
	Limit   billing.Limit   `json:"limit"`
}

// Summary is the dashboard for one month.
type Summary struct {
	Year                 int                `json:"year"`
	Month                int                `json:"month"`
	TotalIncome          core.Money         `json:"totalIncome"`
	TotalExpense         core.Money         `json:"totalExpense"`
	CurrentBalance       core.Money         `json:"currentBalance"`
	ProjectedBalance     core.Money         `json:"projectedBalance"`
	CreditCardDebt       core.Money         `json:"creditCardDebt"`
	PendingTransactions  []core.Transaction `json:"pendingTransactions"`
	OverdueTransactions  []core.Transaction `json:"overdueTransactions"`
	NextTransactions     []core.Transaction `json:"nextTransactions"`
	CategoryDistribution []CategorySlice    `json:"categoryDistribution"`
	CardSummaries        []CardSummary      `json:"cardSummaries"`
}

// BuildSummary computes the dashboard for the month containing selected.
// Today, used for overdue and upcoming items, is the calendar day of now.
func BuildSummary(in Input, selected core.Date, now time.Time) Summary {
	year, month := selected.Year(), selected.Month()
	today := core.DateOf(now)

	s := Summary{
		Year:                 year,
		Month:                month,
		PendingTransactions:  []core.Transaction{},
		OverdueTransactions:  []core.Transaction{},
		NextTransactions:     []core.Transaction{},
		CategoryDistribution: []CategorySlice{},
		CardSummaries:        []CardSummary{},
	}

	var pendingIncome, pendingExpense core.Money
	var upcoming []core.Transaction
	for _, t := range in.Transactions {
		inMonth := t.TransactionDate.InMonth(year, month)

		if inMonth && !t.IsTransfer {
			switch t.Type {
			case core.Income:
				s.TotalIncome = s.TotalIncome.Add(t.Amount)
			case core.Expense:
				s.TotalExpense = s.TotalExpense.Add(t.Amount)
			}
		}

		if !t.IsPending() {
			continue
		}
		if inMonth {
			s.PendingTransactions = append(s.PendingTransactions, t)
			switch t.Type {
			case core.Income:
				pendingIncome = pendingIncome.Add(t.Amount)
			case core.Expense:
				pendingExpense = pendingExpense.Add(t.Amount)
			}
		}
		if t.TransactionDate.IsBefore(today) {
			s.OverdueTransactions = append(s.OverdueTransactions, t)
		} else {
			upcoming = append(upcoming, t)
		}
	}

	sortByDate(s.PendingTransactions)
	sortByDate(s.OverdueTransactions)
	sortByDate(upcoming)
	if len(upcoming) > NextLimit {
		upcoming = upcoming[:NextLimit]
	}
	s.NextTransactions = append(s.NextTransactions, upcoming...)

	s.CurrentBalance = balance.Total(DashboardAccounts(in.Accounts), balance.PaidOnly(in.Transactions))
	s.ProjectedBalance = s.CurrentBalance.Add(pendingIncome).Sub(pendingExpense)

	s.CategoryDistribution = append(s.CategoryDistribution,
		categoryDistribution(in.Transactions, year, month, s.TotalExpense, in.Categories)...)

	for _, card := range in.Cards {
		cs := CardSummary{
			Card:  card,
			Limit: billing.CalculateAvailableLimit(card, in.CardTransactions),
		}
		invoices := billing.BuildInvoices(in.CardTransactions, card, now, in.PaidInvoices)
		if inv, ok := billing.FindInvoice(invoices, year, month); ok {
			cs.Invoice = &inv
			s.CreditCardDebt = s.CreditCardDebt.Add(inv.Total)
		}
		s.CardSummaries = append(s.CardSummaries, cs)
	}

	return s
}

// DashboardAccounts returns the accounts that count towards the dashboard
// balance: not archived and included in the dashboard.
func DashboardAccounts(accounts []core.Account) []core.Account {
	var out []core.Account
	for _, a := range accounts {
		if a.IsArchived || !a.IncludeInDashboard {
			continue
		}
		out = append(out, a)
	}
	return out
}

func categoryDistribution(txns []core.Transaction, year, month int, totalExpense core.Money, reg *categories.Registry) []CategorySlice {
	byID := make(map[string]*CategorySlice)
	var order []*CategorySlice
	for _, t := range txns {
		if t.Type != core.Expense || t.IsTransfer || !t.TransactionDate.InMonth(year, month) {
			continue
		}
		c := reg.Resolve(t.Category)
		slice, ok := byID[c.ID]
		if !ok {
			slice = &CategorySlice{CategoryID: c.ID, Name: c.Name, Color: c.Color}
			byID[c.ID] = slice
			order = append(order, slice)
		}
		slice.Value = slice.Value.Add(t.Amount)
	}

	out := make([]CategorySlice, 0, len(order))
	for _, slice := range order {
		slice.Percent = core.Percent(slice.Value, totalExpense)
		out = append(out, *slice)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value.Cents != out[j].Value.Cents {
			return out[i].Value.Cents > out[j].Value.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func sortByDate(txns []core.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if c := txns[i].TransactionDate.Compare(txns[j].TransactionDate); c != 0 {
			return c < 0
		}
		return txns[i].ID < txns[j].ID
	})
}
