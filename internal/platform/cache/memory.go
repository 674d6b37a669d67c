package cache

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps entries in process memory. It is not durable.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]Entry)}
}

func (b *MemoryBackend) Load(_ context.Context, key string) (Entry, error) {
	b.mu.RLock()
	e, ok := b.entries[key]
	b.mu.RUnlock()
	if !ok {
		return Entry{}, ErrEntryNotFound
	}

	e.Payload = slices.Clone(e.Payload)
	return e, nil
}

func (b *MemoryBackend) Save(_ context.Context, entry Entry) error {
	if err := checkPayload(entry.Payload); err != nil {
		return err
	}
	entry.Payload = slices.Clone(entry.Payload)

	b.mu.Lock()
	b.entries[entry.Key] = entry
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
