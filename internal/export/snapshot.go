// Package export reads and writes the JSON snapshot of all source records.
// Field names follow the ledger record shapes so a snapshot written by one
// backend can be imported into another without loss.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"finflow/internal/core"
)

// Version is the snapshot format written by this package.
const Version = 1

// FileName is the snapshot name used inside a data directory.
const FileName = "snapshot.json"

var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Snapshot holds every persisted record. Derived data such as invoices and
// balances is never part of it.
type Snapshot struct {
	Version          int                    `json:"version"`
	ExportedAt       time.Time              `json:"exportedAt"`
	Accounts         []core.Account         `json:"accounts"`
	Transactions     []core.Transaction     `json:"transactions"`
	Cards            []core.CreditCard      `json:"cards"`
	CardTransactions []core.CardTransaction `json:"cardTransactions"`
	Categories       []core.Category        `json:"categories"`
	PaidInvoices     []core.InvoiceKey      `json:"paidInvoices"`
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s Snapshot) error {
	if s.Version == 0 {
		s.Version = Version
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot and normalizes it. A missing version is read as
// the current one; newer versions are rejected.
func Decode(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version == 0 {
		s.Version = Version
	}
	if s.Version > Version {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	s.normalize()
	return s, nil
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile stores s at path, creating parent directories. The file is
// written to a temporary name first and renamed into place.
func WriteFile(path string, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close snapshot file: %w", err)
	}
	return os.Rename(tmp, path)
}

// normalize keeps isPaid and status in agreement. When a record carries a
// status it wins; older records with only isPaid get the matching status.
func (s *Snapshot) normalize() {
	for i := range s.Transactions {
		t := &s.Transactions[i]
		switch t.Status {
		case core.StatusPaid:
			t.IsPaid = true
		case core.StatusPending:
			t.IsPaid = false
		default:
			t.Status = core.StatusFor(t.IsPaid)
		}
	}
	for i := range s.Categories {
		s.Categories[i].IsCustom = true
	}
}

// Counts summarizes the number of records per collection.
func (s Snapshot) Counts() map[string]int {
	return map[string]int{
		"accounts":          len(s.Accounts),
		"transactions":      len(s.Transactions),
		"cards":             len(s.Cards),
		"card_transactions": len(s.CardTransactions),
		"categories":        len(s.Categories),
		"paid_invoices":     len(s.PaidInvoices),
	}
}
