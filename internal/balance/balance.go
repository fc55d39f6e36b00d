// Package balance derives account balances from the ledger. Balances are never
// stored; they are recomputed from the initial balance and the transactions.
package balance

import "finflow/internal/core"

// CalculateAccountBalance returns the initial balance of account plus every
// income minus every expense booked on it. Transactions of other accounts are
// ignored. Callers decide which statuses count by filtering txns first.
func CalculateAccountBalance(account core.Account, txns []core.Transaction) core.Money {
	total := account.InitialBalance
	for _, t := range txns {
		if t.AccountID != account.ID {
			continue
		}
		total = total.Add(t.Signed())
	}
	return total
}

// PaidOnly returns the paid transactions of txns, preserving order.
func PaidOnly(txns []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.IsPaid {
			out = append(out, t)
		}
	}
	return out
}

// Total sums the balances of accounts over the same transaction set.
func Total(accounts []core.Account, txns []core.Transaction) core.Money {
	var total core.Money
	for _, a := range accounts {
		total = total.Add(CalculateAccountBalance(a, txns))
	}
	return total
}
