// Package registry keeps computed results behind opaque handles with bounded retention.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity applies when New is given a non-positive capacity.
const DefaultCapacity = 128

// Handle identifies one stored value.
type Handle string

// Registry is an LRU-bounded handle table. It is safe for concurrent use.
type Registry[T any] struct {
	// mu serializes mutations so Replace cannot resurrect a handle removed by Delete or
	// evicted by Put. Reads go straight to the cache.
	mu    sync.Mutex
	cache *lru.Cache[Handle, T]
}

// New returns a registry retaining at most capacity values. The least recently used value
// is evicted once the registry is full.
func New[T any](capacity int) (*Registry[T], error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[Handle, T](capacity)
	if err != nil {
		return nil, fmt.Errorf("create registry: %w", err)
	}
	return &Registry[T]{cache: cache}, nil
}

// Put stores v under a fresh handle.
func (r *Registry[T]) Put(v T) Handle {
	h := Handle(uuid.NewString())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Add(h, v)
	return h
}

// Replace swaps the value behind an existing handle.
func (r *Registry[T]) Replace(h Handle, v T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.cache.Contains(h) {
		return fmt.Errorf("handle %q not found", h)
	}
	r.cache.Add(h, v)
	return nil
}

// Get returns the value for h and marks it recently used.
func (r *Registry[T]) Get(h Handle) (T, bool) {
	return r.cache.Get(h)
}

// Delete removes h and reports whether it was present.
func (r *Registry[T]) Delete(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Remove(h)
}

func (r *Registry[T]) Len() int {
	return r.cache.Len()
}

// Handles lists live handles from oldest to newest.
func (r *Registry[T]) Handles() []Handle {
	return r.cache.Keys()
}
