package schedule

import (
	"fmt"

	"github.com/google/uuid"

	"finflow/internal/core"
)

// IDFunc mints identifiers for generated records and groups.
type IDFunc func() string

// NewID is the default IDFunc, backed by random UUIDs.
func NewID() string {
	return uuid.NewString()
}

func orDefault(ids IDFunc) IDFunc {
	if ids == nil {
		return NewID
	}
	return ids
}

// GenerateInstallments splits base into total monthly installments. Installment
// i (1-based) is dated i months after the base date and carries 1/total of the
// amount in cents; the last installment absorbs the rounding remainder so the
// plan adds up to the original amount exactly. Every installment must carry at
// least one cent, so an amount smaller than total cents is rejected.
func GenerateInstallments(base core.Transaction, total int, ids IDFunc) ([]core.Transaction, error) {
	amounts, err := splitAmount(base.Amount, total)
	if err != nil {
		return nil, err
	}
	ids = orDefault(ids)
	group := ids()

	out := make([]core.Transaction, total)
	for i := 1; i <= total; i++ {
		t := base
		t.ID = ids()
		t.Amount = amounts[i-1]
		t.TransactionDate = base.TransactionDate.AddMonths(i)
		t.Status = core.StatusFor(t.IsPaid)
		t.IsInstallment = true
		t.InstallmentGroupID = group
		t.InstallmentNumber = i
		t.TotalInstallments = total
		t.IsRecurring = false
		t.RecurrenceID = ""
		t.Frequency = ""
		out[i-1] = t
	}
	return out, nil
}

// GenerateCardInstallments applies the installment policy of
// GenerateInstallments to a card purchase.
func GenerateCardInstallments(base core.CardTransaction, total int, ids IDFunc) ([]core.CardTransaction, error) {
	amounts, err := splitAmount(base.Amount, total)
	if err != nil {
		return nil, err
	}
	ids = orDefault(ids)
	group := ids()

	out := make([]core.CardTransaction, total)
	for i := 1; i <= total; i++ {
		t := base
		t.ID = ids()
		t.Amount = amounts[i-1]
		t.TransactionDate = base.TransactionDate.AddMonths(i)
		t.IsInstallment = true
		t.InstallmentGroupID = group
		t.InstallmentNumber = i
		t.TotalInstallments = total
		out[i-1] = t
	}
	return out, nil
}

func splitAmount(amount core.Money, total int) ([]core.Money, error) {
	if total < 1 {
		return nil, core.ErrInvalidInstallment
	}
	if amount.Cents < int64(total) {
		return nil, fmt.Errorf("%w: %s in %d installments", core.ErrAmountTooSmall, amount, total)
	}
	return amount.Split(total), nil
}

// GenerateRecurringTransactions repeats base count times, one period apart,
// starting on the base date. Every occurrence keeps the full amount; all of
// them share a single recurrence id.
func GenerateRecurringTransactions(base core.Transaction, frequency core.Frequency, count int, ids IDFunc) ([]core.Transaction, error) {
	stepper, err := GetStepper(frequency)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, nil
	}
	ids = orDefault(ids)
	recurrence := ids()

	out := make([]core.Transaction, count)
	for k := 0; k < count; k++ {
		t := base
		t.ID = ids()
		t.TransactionDate = stepper.Step(base.TransactionDate, k)
		t.Status = core.StatusFor(t.IsPaid)
		t.IsRecurring = true
		t.RecurrenceID = recurrence
		t.Frequency = frequency
		t.IsInstallment = false
		t.InstallmentGroupID = ""
		t.InstallmentNumber = 0
		t.TotalInstallments = 0
		out[k] = t
	}
	return out, nil
}

// TransferRequest describes money moved between two of the user's accounts.
type TransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        core.Money
	Date          core.Date
	Description   string
	Category      string
}

// NewTransfer returns the expense leaving the origin account and the income
// arriving at the destination. Both are paid and flagged as transfers, so
// ordinary balance summation moves the money.
func NewTransfer(req TransferRequest, ids IDFunc) (out, in core.Transaction) {
	ids = orDefault(ids)
	category := req.Category
	if category == "" {
		category = "transfer"
	}
	out = core.Transaction{
		ID:              ids(),
		Description:     req.Description,
		Amount:          req.Amount,
		Type:            core.Expense,
		Category:        category,
		TransactionDate: req.Date,
		AccountID:       req.FromAccountID,
		IsTransfer:      true,
	}
	out.SetPaid(true)

	in = out
	in.ID = ids()
	in.Type = core.Income
	in.AccountID = req.ToAccountID
	return out, in
}
