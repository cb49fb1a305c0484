package prefs

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu sync.RWMutex
	p  Preferences
}

// NewMemoryStore returns a store seeded with initial.
func NewMemoryStore(initial Preferences) *MemoryStore {
	return &MemoryStore{p: initial.Clean()}
}

func (m *MemoryStore) Load(ctx context.Context) (Preferences, error) {
	if err := ctx.Err(); err != nil {
		return Preferences{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyPrefs(m.p), nil
}

func (m *MemoryStore) Save(ctx context.Context, p Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.p = p.Clean()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, fn func(p *Preferences) error) (Preferences, error) {
	if err := ctx.Err(); err != nil {
		return Preferences{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := copyPrefs(m.p)
	if err := fn(&p); err != nil {
		return Preferences{}, err
	}
	m.p = p.Clean()
	return copyPrefs(m.p), nil
}

func copyPrefs(p Preferences) Preferences {
	return Preferences{
		SelectedIDs: append([]string{}, p.SelectedIDs...),
		CustomTerms: append([]string{}, p.CustomTerms...),
	}
}
