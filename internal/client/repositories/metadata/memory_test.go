package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CRUD(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.Get(ctx, "k")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, r.Set(ctx, "k", []byte("v")))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	v[0] = 'x'
	again, _ := r.Get(ctx, "k")
	assert.Equal(t, []byte("v"), again, "returned slices are copies")

	require.NoError(t, r.Delete(ctx, "k", "absent"))
	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)

	require.NoError(t, r.Set(ctx, "a", nil))
	require.NoError(t, r.Clear(ctx))
	m, _ = r.List(ctx)
	assert.Empty(t, m)
}

func TestMemoryRepository_WithTx_CommitAndRollback(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "keep", []byte("1")))

	boom := errors.New("boom")
	err := r.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		require.NoError(t, tx.Set(ctx, "partial", []byte("x")))
		require.NoError(t, tx.Delete(ctx, "keep"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	m, _ := r.List(ctx)
	assert.Equal(t, map[string][]byte{"keep": []byte("1")}, m, "failed tx leaves data untouched")

	err = r.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		return tx.Set(ctx, "a", []byte("2"))
	})
	require.NoError(t, err)

	m, _ = r.List(ctx)
	assert.Equal(t, map[string][]byte{"keep": []byte("1"), "a": []byte("2")}, m)
}
