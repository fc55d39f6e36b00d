package categories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finflow/internal/core"
)

var (
	ErrEmptyName         = errors.New("category name is required")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrDefaultCategory   = errors.New("default categories cannot be removed")
	ErrNotFound          = errors.New("category not found")
)

// Repository persists custom categories.
type Repository interface {
	ListCustomCategories(ctx context.Context) ([]core.Category, error)
	SaveCustomCategory(ctx context.Context, c core.Category) error
	DeleteCustomCategory(ctx context.Context, id string) error
}

// Service manages custom categories on top of a Repository. It keeps no
// state of its own; every call reads the repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Registry loads the custom categories and returns the combined registry.
func (s *Service) Registry(ctx context.Context) (*Registry, error) {
	custom, err := s.repo.ListCustomCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list custom categories: %w", err)
	}
	return NewRegistry(custom), nil
}

// Add creates a custom category named name. Its id is the slug of the name.
func (s *Service) Add(ctx context.Context, name, color string) (core.Category, error) {
	name = strings.TrimSpace(name)
	id := Slugify(name)
	if id == "" {
		return core.Category{}, ErrEmptyName
	}

	reg, err := s.Registry(ctx)
	if err != nil {
		return core.Category{}, err
	}
	if _, exists := reg.Lookup(id); exists {
		return core.Category{}, fmt.Errorf("%w: %s", ErrDuplicateCategory, id)
	}

	c := core.Category{ID: id, Name: name, Color: color, IsCustom: true}
	if err := s.repo.SaveCustomCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("save category %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Custom category created", "category_id", id)
	return c, nil
}

// Remove deletes a custom category. Transactions that still reference it
// resolve to "Other" from then on.
func (s *Service) Remove(ctx context.Context, id string) error {
	if IsDefault(id) {
		return fmt.Errorf("%w: %s", ErrDefaultCategory, id)
	}
	reg, err := s.Registry(ctx)
	if err != nil {
		return err
	}
	if _, ok := reg.Lookup(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.repo.DeleteCustomCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Custom category removed", "category_id", id)
	return nil
}
