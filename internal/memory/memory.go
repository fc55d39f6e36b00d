// Package memory is a process-local ledger store, optionally seeded from a
// snapshot file. It is the default backend for trying things out and for
// service tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"finflow/internal/core"
	"finflow/internal/export"
	"finflow/internal/ports"
)

type Store struct {
	mu           sync.Mutex
	accounts     map[string]core.Account
	txns         map[string]core.Transaction
	cards        map[string]core.CreditCard
	cardTxns     map[string]core.CardTransaction
	categories   map[string]core.Category
	paidInvoices map[core.InvoiceKey]struct{}

	// dir is where Close writes the snapshot back; empty for pure in-memory stores.
	dir string
}

var _ ports.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts:     map[string]core.Account{},
		txns:         map[string]core.Transaction{},
		cards:        map[string]core.CreditCard{},
		cardTxns:     map[string]core.CardTransaction{},
		categories:   map[string]core.Category{},
		paidInvoices: map[core.InvoiceKey]struct{}{},
	}
}

// NewFromSnapshot returns a store holding every record of snap.
func NewFromSnapshot(snap export.Snapshot) *Store {
	s := New()
	for _, a := range snap.Accounts {
		s.accounts[a.ID] = a
	}
	for _, t := range snap.Transactions {
		s.txns[t.ID] = t
	}
	for _, c := range snap.Cards {
		s.cards[c.ID] = c
	}
	for _, t := range snap.CardTransactions {
		s.cardTxns[t.ID] = t
	}
	for _, c := range snap.Categories {
		s.categories[c.ID] = c
	}
	for _, k := range snap.PaidInvoices {
		s.paidInvoices[k] = struct{}{}
	}
	return s
}

// NewFromDir seeds the store from the snapshot file in dir. A missing file
// gives an empty store; a malformed one is an error.
func NewFromDir(dir string) (*Store, error) {
	snap, err := export.ReadFile(filepath.Join(dir, export.FileName))
	if errors.Is(err, os.ErrNotExist) {
		s := New()
		s.dir = dir
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("seed memory store: %w", err)
	}
	s := NewFromSnapshot(snap)
	s.dir = dir
	return s, nil
}

// Close persists a directory-backed store to its snapshot file.
func (s *Store) Close() error {
	if s.dir == "" {
		return nil
	}
	if err := export.WriteFile(filepath.Join(s.dir, export.FileName), s.Snapshot(context.Background())); err != nil {
		return fmt.Errorf("persist memory store: %w", err)
	}
	return nil
}

// Snapshot copies every record of the store.
func (s *Store) Snapshot(ctx context.Context) export.Snapshot {
	snap := export.Snapshot{Version: export.Version}
	snap.Accounts, _ = s.ListAccounts(ctx)
	snap.Transactions, _ = s.ListTransactions(ctx)
	snap.Cards, _ = s.ListCards(ctx)
	snap.CardTransactions, _ = s.ListCardTransactions(ctx)
	snap.Categories, _ = s.ListCustomCategories(ctx)
	snap.PaidInvoices, _ = s.ListPaidInvoices(ctx)
	return snap
}

func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name || (out[i].Name == out[j].Name && out[i].ID < out[j].ID) })
	return out, nil
}

func (s *Store) GetAccount(_ context.Context, id string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return core.Account{}, fmt.Errorf("account %s: %w", id, ports.ErrNotFound)
	}
	return a, nil
}

func (s *Store) SaveAccount(_ context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = a
	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TransactionDate.Compare(out[j].TransactionDate); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
	}
	return t, nil
}

// SaveTransactions validates every record before storing any of them.
func (s *Store) SaveTransactions(_ context.Context, txns ...core.Transaction) error {
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %s: %w", t.ID, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range txns {
		s.txns[t.ID] = t
	}
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
	}
	delete(s.txns, id)
	return nil
}

func (s *Store) ListCards(_ context.Context) ([]core.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.CreditCard, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name || (out[i].Name == out[j].Name && out[i].ID < out[j].ID) })
	return out, nil
}

func (s *Store) GetCard(_ context.Context, id string) (core.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return core.CreditCard{}, fmt.Errorf("card %s: %w", id, ports.ErrNotFound)
	}
	return c, nil
}

func (s *Store) SaveCard(_ context.Context, c core.CreditCard) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[c.ID] = c
	return nil
}

func (s *Store) ListCardTransactions(_ context.Context) ([]core.CardTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.CardTransaction, 0, len(s.cardTxns))
	for _, t := range s.cardTxns {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TransactionDate.Compare(out[j].TransactionDate); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) SaveCardTransactions(_ context.Context, txns ...core.CardTransaction) error {
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("card transaction %s: %w", t.ID, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range txns {
		s.cardTxns[t.ID] = t
	}
	return nil
}

func (s *Store) ListPaidInvoices(_ context.Context) ([]core.InvoiceKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.InvoiceKey, 0, len(s.paidInvoices))
	for k := range s.paidInvoices {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CardID != b.CardID {
			return a.CardID < b.CardID
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return out, nil
}

func (s *Store) MarkInvoicePaid(_ context.Context, key core.InvoiceKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paidInvoices[key] = struct{}{}
	return nil
}

// RecordInvoicePayment stores payment and marks key paid under one lock.
func (s *Store) RecordInvoicePayment(_ context.Context, key core.InvoiceKey, payment core.Transaction) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := payment.Validate(); err != nil {
		return fmt.Errorf("transaction %s: %w", payment.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns[payment.ID] = payment
	s.paidInvoices[key] = struct{}{}
	return nil
}

func (s *Store) ListCustomCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveCustomCategory(_ context.Context, c core.Category) error {
	if c.ID == "" {
		return core.ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.IsCustom = true
	s.categories[c.ID] = c
	return nil
}

func (s *Store) DeleteCustomCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.categories, id)
	return nil
}
