package transform

import (
	"cmp"
	"slices"
	"sync"
)

// Registry holds the known passes.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Pass
}

// NewRegistry creates an empty pass registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Pass),
	}
}

// DefaultRegistry is the global registry for built-in passes.
//
//nolint:gochecknoglobals // Populated once by the passes package init.
var DefaultRegistry = NewRegistry()

// Register adds a pass. A pass with the same name is replaced.
func (r *Registry) Register(pass Pass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[pass.Name()] = pass
}

// Get retrieves a pass by name.
func (r *Registry) Get(name string) (Pass, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pass, ok := r.byName[name]
	return pass, ok
}

// Passes returns all registered passes in run order: block passes first,
// then inline passes, each sorted by Order and then name.
func (r *Registry) Passes() []Pass {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Pass, 0, len(r.byName))
	for _, pass := range r.byName {
		result = append(result, pass)
	}

	slices.SortFunc(result, comparePasses)
	return result
}

// Names returns the registered pass names in run order.
func (r *Registry) Names() []string {
	passes := r.Passes()
	names := make([]string, len(passes))
	for i, pass := range passes {
		names[i] = pass.Name()
	}
	return names
}

// Len returns the number of registered passes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

func comparePasses(a, b Pass) int {
	return cmp.Or(
		cmp.Compare(a.Stage(), b.Stage()),
		cmp.Compare(a.Order(), b.Order()),
		cmp.Compare(a.Name(), b.Name()),
	)
}
