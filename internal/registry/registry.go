// Package registry implements the four independent plugin registries the
// pipeline driver consults: document extractors, OCR backends,
// post-processors, and validators. Each registry is a process-wide object
// guarded by a readers-writer lock: reads (select, list, get) never block
// one another, writes (register, unregister, shutdown_all) are exclusive.
package registry

import (
	"strings"
	"sync"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
)

// Plugin is the capability set every registered entry extends.
type Plugin interface {
	Name() string
	Version() string
	Initialize() error
	Shutdown() error
}

// MimeAware is implemented by entries that participate in SelectFor
// priority lookup (document extractors, OCR backends).
type MimeAware interface {
	Plugin
	SupportedMimeTypes() []string
	Priority() int
}

// Registry is a name-keyed store of plugins of type T, with optional
// priority-based MIME selection when T also satisfies MimeAware.
type Registry[T Plugin] struct {
	mu      sync.RWMutex
	entries map[string]T
	order   []string // registration order, for SelectFor tie-breaking
}

// New creates an empty registry.
func New[T Plugin]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]T)}
}

// Register inserts entry by entry.Name(). It rejects an empty or
// whitespace-containing name, rejects re-registering a different entry
// under a name already in use, calls entry.Initialize() before insertion,
// and rolls back the insertion if Initialize fails.
func (r *Registry[T]) Register(entry T) error {
	name := entry.Name()
	if name == "" || strings.ContainsAny(name, " \t\n\r") {
		return kerrors.NewValidationError("", "plugin name must be non-empty and whitespace-free")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return kerrors.NewValidationError("", "plugin already registered: "+name)
	}

	if err := entry.Initialize(); err != nil {
		return kerrors.NewPluginFailureError("", name, "initialize failed", err)
	}

	r.entries[name] = entry
	r.order = append(r.order, name)
	return nil
}

// Unregister removes the entry and invokes Shutdown(). It is idempotent:
// unregistering a missing name never fails.
func (r *Registry[T]) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[name]
	if !exists {
		return nil
	}

	delete(r.entries, name)
	r.order = removeName(r.order, name)

	return entry.Shutdown()
}

// List returns every registered name, in registration order.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the entry registered under name, if any.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	return entry, ok
}

// ShutdownAll invokes every entry's Shutdown() hook, then drains the registry.
func (r *Registry[T]) ShutdownAll() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, name := range r.order {
		if err := r.entries[name].Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	r.entries = make(map[string]T)
	r.order = nil
	return errs
}

// SelectFor returns the highest-priority entry accepting mime, breaking
// ties by registration order. T must satisfy MimeAware; callers that
// instantiate Registry[T] with a non-MimeAware T should not call this.
func SelectFor[T MimeAware](r *Registry[T], mime string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best      T
		bestFound bool
		bestPrio  int
	)
	for _, name := range r.order {
		entry := r.entries[name]
		if !acceptsMime(entry.SupportedMimeTypes(), mime) {
			continue
		}
		if !bestFound || entry.Priority() > bestPrio {
			best = entry
			bestPrio = entry.Priority()
			bestFound = true
		}
	}
	return best, bestFound
}

func acceptsMime(supported []string, mime string) bool {
	for _, m := range supported {
		if m == mime {
			return true
		}
	}
	return false
}

func removeName(names []string, target string) []string {
	for i, n := range names {
		if n == target {
			return append(names[:i], names[i+1:]...)
		}
	}
	return names
}
