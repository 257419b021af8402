// Package memory is a process-local storage.Backend. Nothing survives a
// restart; it backs tests and throwaway kiosk sessions.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/dmitrijs2005/desabantuin/internal/client/storage"
)

type Backend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

func clone(v []byte) []byte {
	if v == nil {
		return nil
	}
	return append([]byte{}, v...)
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return clone(b.data[key]), nil
}

func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = clone(value)
	return nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

// Update runs fn against a private copy and swaps it in on success.
func (b *Backend) Update(ctx context.Context, fn func(ctx context.Context, tx storage.Backend) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	staged := &Backend{data: maps.Clone(b.data)}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	b.data = staged.data
	return nil
}
