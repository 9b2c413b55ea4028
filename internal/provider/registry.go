package provider

import (
	"sort"
	"sync"
)

// Registry holds registered quote providers keyed by their ID.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]QuoteProvider
}

func NewRegistry() *Registry {
	return &Registry{providers: map[string]QuoteProvider{}}
}

// Register adds or replaces a provider under its ID.
func (r *Registry) Register(p QuoteProvider) {
	r.mu.Lock()
	r.providers[p.ID()] = p
	r.mu.Unlock()
}

// Get returns the provider registered under id.
func (r *Registry) Get(id string) (QuoteProvider, bool) {
	r.mu.RLock()
	p, ok := r.providers[id]
	r.mu.RUnlock()
	return p, ok
}

// IDs returns the registered provider IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
