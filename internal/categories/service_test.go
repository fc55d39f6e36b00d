package categories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finflow/internal/core"
)

type fakeRepo struct {
	items   []core.Category
	listErr error
}

func (f *fakeRepo) ListCustomCategories(context.Context) ([]core.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]core.Category(nil), f.items...), nil
}

func (f *fakeRepo) SaveCustomCategory(_ context.Context, c core.Category) error {
	f.items = append(f.items, c)
	return nil
}

func (f *fakeRepo) DeleteCustomCategory(_ context.Context, id string) error {
	for i, c := range f.items {
		if c.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewService(repo)

	c, err := svc.Add(ctx, " Pet Care ", "#abcdef")
	require.NoError(t, err)
	assert.Equal(t, "pet-care", c.ID)
	assert.Equal(t, "Pet Care", c.Name)
	assert.True(t, c.IsCustom)

	reg, err := svc.Registry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pet Care", reg.Resolve("pet-care").Name)

	_, err = svc.Add(ctx, "pet care", "")
	assert.ErrorIs(t, err, ErrDuplicateCategory)

	_, err = svc.Add(ctx, "Food", "")
	assert.ErrorIs(t, err, ErrDuplicateCategory)

	_, err = svc.Add(ctx, "   ", "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{items: []core.Category{{ID: "pets", Name: "Pets", IsCustom: true}}}
	svc := NewService(repo)

	assert.ErrorIs(t, svc.Remove(ctx, "food"), ErrDefaultCategory)
	assert.ErrorIs(t, svc.Remove(ctx, "missing"), ErrNotFound)

	require.NoError(t, svc.Remove(ctx, "pets"))
	reg, err := svc.Registry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Other", reg.Resolve("pets").Name)
}

func TestService_RegistryError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeRepo{listErr: boom})
	_, err := svc.Registry(context.Background())
	assert.ErrorIs(t, err, boom)
}
