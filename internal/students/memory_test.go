package students

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCRUD(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	created, err := s.Create(ctx, CreateInput{UserID: 1, Name: "John Doe", Email: "john@example.com", Phone: "123-456-7890"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryPartialUpdate(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	created, err := s.Create(ctx, CreateInput{UserID: 1, Name: "John", Email: "john@example.com", Phone: "555"})
	require.NoError(t, err)

	name := "Johnny"
	updated, err := s.Update(ctx, created.ID, Update{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", updated.Name)
	// Unspecified fields survive the update.
	assert.Equal(t, "john@example.com", updated.Email)
	assert.Equal(t, "555", updated.Phone)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = s.Update(ctx, 42, Update{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryDeleteIdempotentFailure(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	created, err := s.Create(ctx, CreateInput{UserID: 1, Name: "John", Email: "john@example.com"})
	require.NoError(t, err)

	_, err = s.Delete(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	list, _ := s.List(ctx)
	assert.Len(t, list, 1, "failed delete must leave the collection unchanged")

	removed, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)
	list, _ = s.List(ctx)
	assert.Empty(t, list)
}
