package memory

import (
	"context"
	"sync"

	"github.com/mpapenbr/trackroll/pkg/storage"
)

var _ storage.Store = (*Overlay)(nil)

// Overlay reads through to a base store but keeps all writes in memory.
// The base store is never modified.
type Overlay struct {
	base    storage.Store
	mu      sync.RWMutex
	data    map[string]string
	deleted map[string]bool
}

func NewOverlay(base storage.Store) *Overlay {
	return &Overlay{base: base, data: map[string]string{}, deleted: map[string]bool{}}
}

func (o *Overlay) Get(ctx context.Context, key string) (string, error) {
	o.mu.RLock()
	v, ok := o.data[key]
	deleted := o.deleted[key]
	o.mu.RUnlock()
	switch {
	case ok:
		return v, nil
	case deleted:
		return "", storage.ErrNotFound
	}
	return o.base.Get(ctx, key)
}

func (o *Overlay) Set(_ context.Context, key, value string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.data[key] = value
	delete(o.deleted, key)
	return nil
}

func (o *Overlay) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.data, key)
	o.deleted[key] = true
	return nil
}

// Close closes the base store.
func (o *Overlay) Close() error {
	return o.base.Close()
}
