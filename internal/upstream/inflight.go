package upstream

import (
	"context"
	"sync"
)

// flight tracks one outstanding upstream call.
type flight struct {
	cancel context.CancelFunc
}

// Registry maps logical request keys to cancellation handles for outstanding
// upstream calls. It prevents duplicate concurrent calls for the same key
// and supports bulk cancellation at shutdown.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*flight
}

// NewRegistry creates an empty in-flight request registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*flight),
	}
}

// Begin registers a new in-flight call for key, cancelling any still
// outstanding predecessor under the same key first. It returns a context
// derived from parent and a settle function the caller must invoke when the
// call settles, success or failure.
func (r *Registry) Begin(parent context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	f := &flight{cancel: cancel}

	r.mu.Lock()
	if prev, ok := r.entries[key]; ok {
		prev.cancel()
	}
	r.entries[key] = f
	r.mu.Unlock()

	settle := func() {
		r.mu.Lock()
		// A newer flight may have replaced this one; only the current
		// occupant may remove the registry entry.
		if r.entries[key] == f {
			delete(r.entries, key)
		}
		r.mu.Unlock()
		cancel()
	}
	return ctx, settle
}

// Cancel aborts the outstanding call for key, if any.
func (r *Registry) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.entries[key]
	if !ok {
		return false
	}
	f.cancel()
	delete(r.entries, key)
	return true
}

// CancelAll aborts every outstanding call and returns how many were cancelled.
func (r *Registry) CancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.entries)
	for key, f := range r.entries {
		f.cancel()
		delete(r.entries, key)
	}
	return n
}

// Len returns the number of currently outstanding calls.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
