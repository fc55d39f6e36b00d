package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finflow/internal/export"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("DATA_DIRECTORY", dir)
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "text")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "finflow %v", args)
	return out
}

func TestLedgerWorkflow(t *testing.T) {
	dir := setupEnv(t)

	out := mustRun(t, "accounts", "add", "Main", "--initial", "1000")
	assert.Contains(t, out, "Account Main created")
	mustRun(t, "accounts", "add", "Savings", "--type", "savings")

	mustRun(t, "add", "Salary", "--account", "main", "--amount", "3000", "--type", "income", "--date", "2024-03-05", "--paid")
	mustRun(t, "add", "Rent", "--account", "Main", "--amount", "800", "--date", "2024-03-10", "--paid", "--category", "housing")

	out = mustRun(t, "balance", "main")
	assert.Contains(t, out, "3200.00")
	assert.Contains(t, out, "paid only")

	out = mustRun(t, "accounts", "list")
	assert.Contains(t, out, "Main")
	assert.Contains(t, out, "Savings")

	mustRun(t, "cards", "add", "Visa", "--closing-day", "5", "--due-day", "12", "--limit", "5000")
	out = mustRun(t, "card-purchase", "TV", "--card", "visa", "--amount", "1200", "--date", "2024-02-10", "--installments", "3")
	assert.Contains(t, out, "Recorded 3 purchase(s) on Visa")

	out = mustRun(t, "limit", "visa")
	assert.Contains(t, out, "1200.00")
	assert.Contains(t, out, "3800.00")

	out = mustRun(t, "invoices", "Visa")
	assert.Contains(t, out, "2024-04")
	assert.Contains(t, out, "2024-06")
	assert.Contains(t, out, "400.00")

	out = mustRun(t, "dashboard", "--month", "2024-03")
	assert.Contains(t, out, "Dashboard 2024-03")
	assert.Contains(t, out, "3000.00")
	assert.Contains(t, out, "Housing")

	mustRun(t, "transfer", "main", "savings", "--amount", "200", "--date", "2024-03-11")
	out = mustRun(t, "balance", "savings")
	assert.Contains(t, out, "200.00")

	out = mustRun(t, "pay-invoice", "visa", "--month", "2024-04", "--from", "main")
	assert.Contains(t, out, "Paid Visa invoice 2024-04")
	out = mustRun(t, "balance", "main")
	assert.Contains(t, out, "2600.00")

	_, err := run(t, "pay-invoice", "visa", "--month", "2024-04", "--from", "main")
	assert.Error(t, err)

	snapshotPath := filepath.Join(dir, "backup.json")
	mustRun(t, "export", "--out", snapshotPath)
	snap, err := export.ReadFile(snapshotPath)
	require.NoError(t, err)
	assert.Len(t, snap.Accounts, 2)
	assert.Len(t, snap.CardTransactions, 3)
	assert.Len(t, snap.PaidInvoices, 1)
}

func TestImportSnapshot(t *testing.T) {
	dir := setupEnv(t)

	src := filepath.Join(t.TempDir(), "in.json")
	data := `{
  "version": 1,
  "accounts": [{"id": "acc-1", "name": "Main", "type": "checking", "initialBalance": 50, "includeInDashboard": true, "isArchived": false}],
  "transactions": [{"id": "t1", "description": "Coffee", "amount": 2.5, "type": "expense", "category": "food", "transactionDate": "2024-03-01", "accountId": "acc-1", "isPaid": true, "isRecurring": false, "isInstallment": false}]
}`
	require.NoError(t, os.WriteFile(src, []byte(data), 0o644))

	out := mustRun(t, "import", src)
	assert.Contains(t, out, "Imported 1 accounts, 1 transactions")

	_, err := os.Stat(filepath.Join(dir, export.FileName))
	require.NoError(t, err)

	out = mustRun(t, "balance", "acc-1")
	assert.Contains(t, out, "47.50")
}

func TestCommandErrors(t *testing.T) {
	setupEnv(t)
	mustRun(t, "accounts", "add", "Main")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown account", []string{"balance", "nope"}},
		{"unknown card", []string{"limit", "nope"}},
		{"invalid amount", []string{"add", "Lunch", "--account", "main", "--amount", "-3"}},
		{"invalid date", []string{"add", "Lunch", "--account", "main", "--amount", "3", "--date", "03/01/2024"}},
		{"invalid month", []string{"dashboard", "--month", "2024-13"}},
		{"same account transfer", []string{"transfer", "main", "main", "--amount", "5"}},
		{"installments and frequency", []string{"add", "Gym", "--account", "main", "--amount", "30", "--installments", "3", "--frequency", "monthly", "--count", "3"}},
		{"default category removal", []string{"categories", "remove", "food"}},
		{"missing required flag", []string{"cards", "add", "Visa", "--due-day", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestCategoriesCommands(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "categories", "add", "Café & Bar", "--color", "#10B981")
	assert.Contains(t, out, "cafe-bar")

	out = mustRun(t, "categories", "list")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "cafe-bar")

	mustRun(t, "categories", "remove", "cafe-bar")
	out = mustRun(t, "categories", "list")
	assert.NotContains(t, out, "cafe-bar")
}
