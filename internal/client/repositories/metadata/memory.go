package metadata

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// MemoryRepository is a map-backed Repository for tests and for running the
// client without a database file.
type MemoryRepository struct {
	tx   sync.Mutex
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.data[key]
	if !ok {
		return nil, fmt.Errorf("metadata[%s]: %w", key, common.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

func (r *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = append([]byte{}, value...)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		delete(r.data, k)
	}
	return nil
}

func (r *MemoryRepository) List(_ context.Context) (map[string][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string][]byte, len(r.data))
	for k, v := range r.data {
		out[k] = append([]byte(nil), v...)
	}
	return out, nil
}

func (r *MemoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.data)
	return nil
}

// WithTx runs fn against a private copy of the data and publishes the copy
// only when fn succeeds, mirroring dbx.WithTx. Concurrent WithTx calls are
// serialised.
func (r *MemoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	r.tx.Lock()
	defer r.tx.Unlock()

	r.mu.Lock()
	snapshot := &MemoryRepository{data: maps.Clone(r.data)}
	r.mu.Unlock()

	if err := fn(ctx, snapshot); err != nil {
		return err
	}

	r.mu.Lock()
	r.data = snapshot.data
	r.mu.Unlock()
	return nil
}
