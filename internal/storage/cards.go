package storage

import (
	"context"
	"database/sql"
	"fmt"

	"finflow/internal/core"
)

const cardColumns = `id, name, brand, limit_total_cents, closing_day, due_day, color`

func scanCard(s scanner) (core.CreditCard, error) {
	var c core.CreditCard
	var cents int64
	if err := s.Scan(&c.ID, &c.Name, &c.Brand, &cents, &c.ClosingDay, &c.DueDay, &c.Color); err != nil {
		return core.CreditCard{}, err
	}
	c.LimitTotal = core.Cents(cents)
	return c, nil
}

func (r *SQLiteRepository) ListCards(ctx context.Context) ([]core.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM credit_cards ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var out []core.CreditCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetCard(ctx context.Context, id string) (core.CreditCard, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM credit_cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if err != nil {
		return core.CreditCard{}, notFound("card", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) SaveCard(ctx context.Context, c core.CreditCard) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO credit_cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Brand, c.LimitTotal.Cents, c.ClosingDay, c.DueDay, c.Color)
	if err != nil {
		return fmt.Errorf("save card %s: %w", c.ID, err)
	}
	logSaved(ctx, "card", 1)
	return nil
}

const cardTransactionColumns = `id, card_id, amount_cents, transaction_date, description, category_id,
	is_installment, installment_group_id, installment_number, total_installments`

func scanCardTransaction(s scanner) (core.CardTransaction, error) {
	var t core.CardTransaction
	var cents int64
	var date string
	err := s.Scan(&t.ID, &t.CardID, &cents, &date, &t.Description, &t.CategoryID,
		&t.IsInstallment, &t.InstallmentGroupID, &t.InstallmentNumber, &t.TotalInstallments)
	if err != nil {
		return core.CardTransaction{}, err
	}
	if t.TransactionDate, err = scanDate(date); err != nil {
		return core.CardTransaction{}, err
	}
	t.Amount = core.Cents(cents)
	return t, nil
}

func (r *SQLiteRepository) ListCardTransactions(ctx context.Context) ([]core.CardTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cardTransactionColumns+` FROM card_transactions ORDER BY transaction_date, id`)
	if err != nil {
		return nil, fmt.Errorf("query card transactions: %w", err)
	}
	defer rows.Close()

	var out []core.CardTransaction
	for rows.Next() {
		t, err := scanCardTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) SaveCardTransactions(ctx context.Context, txns ...core.CardTransaction) error {
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("card transaction %s: %w", t.ID, err)
		}
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO card_transactions (`+cardTransactionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, t := range txns {
			_, err := stmt.ExecContext(ctx,
				t.ID, t.CardID, t.Amount.Cents, t.TransactionDate.String(), t.Description, t.CategoryID,
				t.IsInstallment, t.InstallmentGroupID, t.InstallmentNumber, t.TotalInstallments)
			if err != nil {
				return fmt.Errorf("insert card transaction %s: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logSaved(ctx, "card_transaction", len(txns))
	return nil
}

func (r *SQLiteRepository) ListPaidInvoices(ctx context.Context) ([]core.InvoiceKey, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT card_id, year, month FROM paid_invoices ORDER BY card_id, year, month`)
	if err != nil {
		return nil, fmt.Errorf("query paid invoices: %w", err)
	}
	defer rows.Close()

	var out []core.InvoiceKey
	for rows.Next() {
		var k core.InvoiceKey
		if err := rows.Scan(&k.CardID, &k.Year, &k.Month); err != nil {
			return nil, fmt.Errorf("scan paid invoice: %w", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paid invoices: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) MarkInvoicePaid(ctx context.Context, key core.InvoiceKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	return markPaid(ctx, r.db, key)
}

// RecordInvoicePayment stores payment and marks key paid in one database
// transaction. Neither write is visible if the other fails.
func (r *SQLiteRepository) RecordInvoicePayment(ctx context.Context, key core.InvoiceKey, payment core.Transaction) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := payment.Validate(); err != nil {
		return fmt.Errorf("transaction %s: %w", payment.ID, err)
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertTransactions(ctx, tx, []core.Transaction{payment}); err != nil {
			return err
		}
		return markPaid(ctx, tx, key)
	})
	if err != nil {
		return err
	}
	logSaved(ctx, "invoice_payment", 1)
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func markPaid(ctx context.Context, db execer, key core.InvoiceKey) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO paid_invoices (card_id, year, month) VALUES (?, ?, ?)`,
		key.CardID, key.Year, key.Month)
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}
	return nil
}
