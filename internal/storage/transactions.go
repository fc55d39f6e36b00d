package storage

import (
	"context"
	"database/sql"
	"fmt"

	"finflow/internal/core"
	"finflow/internal/ports"
)

const transactionColumns = `id, description, amount_cents, type, category, transaction_date, account_id,
	is_paid, is_recurring, recurrence_id, frequency, is_installment, installment_group_id,
	installment_number, total_installments, is_transfer`

func scanTransaction(s scanner) (core.Transaction, error) {
	var t core.Transaction
	var cents int64
	var typ, date, freq string
	err := s.Scan(&t.ID, &t.Description, &cents, &typ, &t.Category, &date, &t.AccountID,
		&t.IsPaid, &t.IsRecurring, &t.RecurrenceID, &freq, &t.IsInstallment, &t.InstallmentGroupID,
		&t.InstallmentNumber, &t.TotalInstallments, &t.IsTransfer)
	if err != nil {
		return core.Transaction{}, err
	}
	if t.TransactionDate, err = scanDate(date); err != nil {
		return core.Transaction{}, err
	}
	t.Amount = core.Cents(cents)
	t.Type = core.TransactionType(typ)
	t.Frequency = core.Frequency(freq)
	t.Status = core.StatusFor(t.IsPaid)
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY transaction_date, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, notFound("transaction", id, err)
	}
	return t, nil
}

// SaveTransactions upserts txns in one database transaction.
func (r *SQLiteRepository) SaveTransactions(ctx context.Context, txns ...core.Transaction) error {
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %s: %w", t.ID, err)
		}
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		return insertTransactions(ctx, tx, txns)
	})
	if err != nil {
		return err
	}
	logSaved(ctx, "transaction", len(txns))
	return nil
}

func insertTransactions(ctx context.Context, tx *sql.Tx, txns []core.Transaction) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range txns {
		_, err := stmt.ExecContext(ctx,
			t.ID, t.Description, t.Amount.Cents, string(t.Type), t.Category, t.TransactionDate.String(), t.AccountID,
			t.IsPaid, t.IsRecurring, t.RecurrenceID, string(t.Frequency), t.IsInstallment, t.InstallmentGroupID,
			t.InstallmentNumber, t.TotalInstallments, t.IsTransfer)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
	}
	return nil
}
