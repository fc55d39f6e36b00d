package storage

import (
	"context"
	"fmt"

	"finflow/internal/core"
)

const accountColumns = `id, name, type, color, initial_balance_cents, include_in_dashboard, is_archived`

func scanAccount(s scanner) (core.Account, error) {
	var a core.Account
	var typ string
	var cents int64
	if err := s.Scan(&a.ID, &a.Name, &typ, &a.Color, &cents, &a.IncludeInDashboard, &a.IsArchived); err != nil {
		return core.Account{}, err
	}
	a.Type = core.AccountType(typ)
	a.InitialBalance = core.Cents(cents)
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return core.Account{}, notFound("account", id, err)
	}
	return a, nil
}

// SaveAccount inserts the account or updates its mutable fields. The
// initial balance is fixed at creation.
func (r *SQLiteRepository) SaveAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			color = excluded.color,
			include_in_dashboard = excluded.include_in_dashboard,
			is_archived = excluded.is_archived`,
		a.ID, a.Name, string(a.Type), a.Color, a.InitialBalance.Cents, a.IncludeInDashboard, a.IsArchived)
	if err != nil {
		return fmt.Errorf("save account %s: %w", a.ID, err)
	}
	logSaved(ctx, "account", 1)
	return nil
}
