package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finflow/internal/core"
)

func TestEncodePreservesFieldNames(t *testing.T) {
	tx := core.Transaction{
		ID:              "t1",
		Description:     "Rent",
		Amount:          core.Cents(150000),
		Type:            core.Expense,
		Category:        "housing",
		TransactionDate: core.NewDate(2026, 3, 5),
		AccountID:       "acc-1",
	}
	tx.SetPaid(true)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Snapshot{Transactions: []core.Transaction{tx}}))

	out := buf.String()
	for _, field := range []string{`"version": 1`, `"transactionDate": "2026-03-05"`, `"accountId": "acc-1"`, `"isPaid": true`, `"status": "paid"`, `"amount": 1500.00`} {
		assert.Contains(t, out, field)
	}
}

func TestDecodeNormalizesStatus(t *testing.T) {
	in := `{
		"transactions": [
			{"id": "a", "isPaid": true, "amount": "10.5"},
			{"id": "b", "isPaid": true, "status": "pending", "amount": 3},
			{"id": "c", "amount": "not a number"}
		],
		"categories": [{"id": "pets", "name": "Pets"}]
	}`

	s, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, s.Transactions, 3)

	assert.Equal(t, Version, s.Version)
	assert.Equal(t, core.StatusPaid, s.Transactions[0].Status)
	assert.Equal(t, int64(1050), s.Transactions[0].Amount.Cents)
	assert.False(t, s.Transactions[1].IsPaid)
	assert.Equal(t, core.StatusPending, s.Transactions[2].Status)
	assert.True(t, s.Transactions[2].Amount.IsZero())
	assert.True(t, s.Categories[0].IsCustom)
}

func TestDecodeRejectsNewerVersion(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"version": 99}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Decode(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	snap := Snapshot{
		Accounts:     []core.Account{{ID: "acc-1", Name: "Main", Type: core.Checking, InitialBalance: core.Cents(1000), IncludeInDashboard: true}},
		Cards:        []core.CreditCard{{ID: "visa", Name: "Visa", ClosingDay: 5, DueDay: 12, LimitTotal: core.Cents(500000)}},
		PaidInvoices: []core.InvoiceKey{{CardID: "visa", Year: 2026, Month: 2}},
	}
	require.NoError(t, WriteFile(path, snap))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Accounts, got.Accounts)
	assert.Equal(t, snap.Cards, got.Cards)
	assert.Equal(t, snap.PaidInvoices, got.PaidInvoices)
	assert.Equal(t, 1, got.Counts()["accounts"])
}
