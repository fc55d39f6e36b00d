package storage

import (
	"context"
	"fmt"
	"log/slog"

	"finflow/internal/core"
)

// ListCustomCategories implements categories.Repository
func (r *SQLiteRepository) ListCustomCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM custom_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query custom categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c := core.Category{IsCustom: true}
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// SaveCustomCategory implements categories.Repository
func (r *SQLiteRepository) SaveCustomCategory(ctx context.Context, c core.Category) error {
	if c.ID == "" {
		return core.ErrEmptyName
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO custom_categories (id, name, color) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Color)
	if err != nil {
		return fmt.Errorf("save category %s: %w", c.ID, err)
	}
	return nil
}

// DeleteCustomCategory implements categories.Repository
func (r *SQLiteRepository) DeleteCustomCategory(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM custom_categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Custom category deleted from SQLite", "category_id", id)
	return nil
}
