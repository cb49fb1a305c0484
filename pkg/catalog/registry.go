package catalog

import (
	"sync"
)

// Registry serves the current catalog and can swap it on reload.
type Registry struct {
	mu   sync.RWMutex
	cur  *Catalog
	path string
}

// NewRegistry creates a registry backed by the manifest at path. An empty
// path means the built-in catalog. Call Load before use.
func NewRegistry(path string) *Registry {
	return &Registry{path: path, cur: Default()}
}

// Load reads the manifest (or the built-in catalog) and makes it current.
// On error the previous catalog stays in place.
func (r *Registry) Load() error {
	c := Default()
	if r.path != "" {
		var err error
		c, err = LoadFile(r.path)
		if err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.cur = c
	r.mu.Unlock()
	return nil
}

// Reload re-reads the manifest from disk (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

// Current returns the catalog in use. The returned value is immutable.
func (r *Registry) Current() *Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur
}

// Path returns the manifest path, "" for the built-in catalog.
func (r *Registry) Path() string {
	return r.path
}
