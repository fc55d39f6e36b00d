package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"finflow/internal/core"
	"finflow/internal/export"
	"finflow/internal/ports"
)

func TestMemoryStoreSaveAndList(t *testing.T) {
	ctx := context.Background()
	s := New()

	acc := core.Account{ID: "acc-1", Name: "Main", Type: core.Checking}
	if err := s.SaveAccount(ctx, acc); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}

	tx := core.Transaction{
		ID:              "t1",
		Description:     "Groceries",
		Amount:          core.Cents(4250),
		Type:            core.Expense,
		Category:        "food",
		TransactionDate: core.NewDate(2026, 3, 2),
		AccountID:       "acc-1",
		Status:          core.StatusPending,
	}
	if err := s.SaveTransactions(ctx, tx); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}

	got, err := s.GetTransaction(ctx, "t1")
	if err != nil || got.Description != "Groceries" {
		t.Fatalf("GetTransaction = %+v, %v", got, err)
	}

	txns, _ := s.ListTransactions(ctx)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
}

func TestMemoryStoreRejectsInvalidBatch(t *testing.T) {
	ctx := context.Background()
	s := New()

	valid := core.Transaction{ID: "ok", Description: "x", Amount: core.Cents(1), Type: core.Income,
		TransactionDate: core.NewDate(2026, 1, 1), AccountID: "a", Status: core.StatusPending}
	invalid := valid
	invalid.ID = "bad"
	invalid.Amount = core.Cents(0)

	if err := s.SaveTransactions(ctx, valid, invalid); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if txns, _ := s.ListTransactions(ctx); len(txns) != 0 {
		t.Fatalf("batch must not be partially stored, got %d", len(txns))
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GetAccount(ctx, "nope"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("GetAccount err = %v", err)
	}
	if _, err := s.GetCard(ctx, "nope"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("GetCard err = %v", err)
	}
	if err := s.DeleteTransaction(ctx, "nope"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("DeleteTransaction err = %v", err)
	}
}

func TestMemoryStorePaidInvoicesAndCategories(t *testing.T) {
	ctx := context.Background()
	s := New()

	key := core.InvoiceKey{CardID: "visa", Year: 2026, Month: 3}
	if err := s.MarkInvoicePaid(ctx, key); err != nil {
		t.Fatalf("MarkInvoicePaid: %v", err)
	}
	if err := s.MarkInvoicePaid(ctx, core.InvoiceKey{CardID: "visa", Month: 13}); err == nil {
		t.Fatal("expected invalid month to be rejected")
	}
	keys, _ := s.ListPaidInvoices(ctx)
	if len(keys) != 1 || keys[0] != key {
		t.Fatalf("unexpected paid invoices: %v", keys)
	}

	payment := core.Transaction{
		ID: "pay-1", Description: "Invoice Visa 04/2026", Amount: core.Cents(500), Type: core.Expense,
		TransactionDate: core.NewDate(2026, 4, 15), AccountID: "main", IsPaid: true, Status: core.StatusPaid,
	}
	bad := core.InvoiceKey{CardID: "visa", Year: 2026, Month: 0}
	if err := s.RecordInvoicePayment(ctx, bad, payment); err == nil {
		t.Fatal("expected invalid invoice key to be rejected")
	}
	if _, err := s.GetTransaction(ctx, "pay-1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("payment stored despite rejected key: %v", err)
	}
	april := core.InvoiceKey{CardID: "visa", Year: 2026, Month: 4}
	if err := s.RecordInvoicePayment(ctx, april, payment); err != nil {
		t.Fatalf("RecordInvoicePayment: %v", err)
	}
	if keys, _ := s.ListPaidInvoices(ctx); len(keys) != 2 {
		t.Fatalf("unexpected paid invoices after payment: %v", keys)
	}

	_ = s.SaveCustomCategory(ctx, core.Category{ID: "pets", Name: "Pets"})
	cats, _ := s.ListCustomCategories(ctx)
	if len(cats) != 1 || !cats[0].IsCustom {
		t.Fatalf("unexpected categories: %v", cats)
	}
	_ = s.DeleteCustomCategory(ctx, "pets")
	if cats, _ := s.ListCustomCategories(ctx); len(cats) != 0 {
		t.Fatalf("expected no categories, got %v", cats)
	}
}

func TestNewFromDir(t *testing.T) {
	dir := t.TempDir()

	// No file -> empty store
	s, err := NewFromDir(dir)
	if err != nil {
		t.Fatalf("NewFromDir: %v", err)
	}
	if accs, _ := s.ListAccounts(context.Background()); len(accs) != 0 {
		t.Fatalf("expected empty store, got %v", accs)
	}

	snap := export.Snapshot{
		Accounts: []core.Account{{ID: "acc-1", Name: "Main", Type: core.Savings}},
		Cards:    []core.CreditCard{{ID: "visa", Name: "Visa", ClosingDay: 5, DueDay: 12}},
	}
	if err := export.WriteFile(filepath.Join(dir, export.FileName), snap); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, err = NewFromDir(dir)
	if err != nil {
		t.Fatalf("NewFromDir: %v", err)
	}
	if c, err := s.GetCard(context.Background(), "visa"); err != nil || c.DueDay != 12 {
		t.Fatalf("GetCard = %+v, %v", c, err)
	}

	if err := os.WriteFile(filepath.Join(dir, export.FileName), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromDir(dir); err == nil {
		t.Fatal("expected error for malformed snapshot")
	}
}

func TestCloseWritesSnapshot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFromDir(dir)
	if err != nil {
		t.Fatalf("NewFromDir: %v", err)
	}
	if err := s.SaveAccount(ctx, core.Account{ID: "acc-1", Name: "Main", Type: core.Checking}); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}
	if err := s.MarkInvoicePaid(ctx, core.InvoiceKey{CardID: "visa", Year: 2026, Month: 4}); err != nil {
		t.Fatalf("MarkInvoicePaid: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewFromDir(dir)
	if err != nil {
		t.Fatalf("NewFromDir: %v", err)
	}
	if a, err := reopened.GetAccount(ctx, "acc-1"); err != nil || a.Name != "Main" {
		t.Fatalf("GetAccount = %+v, %v", a, err)
	}
	if keys, _ := reopened.ListPaidInvoices(ctx); len(keys) != 1 {
		t.Fatalf("expected one paid invoice, got %v", keys)
	}

	if err := New().Close(); err != nil {
		t.Fatalf("Close on plain store: %v", err)
	}
}
