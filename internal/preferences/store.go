// Package preferences is the server-side per-user preference store.
package preferences

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("preferences not found")

type Preferences struct {
	Language string `json:"language"`
}

func Default() Preferences {
	return Preferences{Language: "en"}
}

type Store interface {
	Get(ctx context.Context, userID string) (Preferences, error)
	Put(ctx context.Context, userID string, prefs Preferences) error
}

// GetOrDefault returns the stored preferences, or Default when none exist.
func GetOrDefault(ctx context.Context, store Store, userID string) (Preferences, error) {
	prefs, err := store.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}

// MemoryStore keeps preferences for the process lifetime. Used when no
// database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Preferences
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]Preferences{}}
}

func (m *MemoryStore) Get(_ context.Context, userID string) (Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefs, ok := m.items[userID]
	if !ok {
		return Preferences{}, ErrNotFound
	}
	return prefs, nil
}

func (m *MemoryStore) Put(_ context.Context, userID string, prefs Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[userID] = prefs
	return nil
}
