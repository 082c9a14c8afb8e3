package registry

import (
	"reflect"
	"sort"
	"sync"
)

type bindingKey struct {
	capability reflect.Type
	qualifier  string
}

// Binding is a read-only view of one registered implementation.
type Binding struct {
	Capability     reflect.Type
	Qualifier      string
	Implementation reflect.Type
}

// Registry holds capability bindings and the singleton instance table.
// Both tables only grow; nothing is replaced once stored.
type Registry struct {
	mu       sync.RWMutex
	bindings map[bindingKey]reflect.Type

	singletonsMu sync.RWMutex
	singletons   map[reflect.Type]any
}

func New() *Registry {
	return &Registry{
		bindings:   map[bindingKey]reflect.Type{},
		singletons: map[reflect.Type]any{},
	}
}

// ─── bindings ───────────────────────────────────────────────

func (r *Registry) RegisterImplementation(capability reflect.Type, qualifier string, impl reflect.Type) error {
	key := bindingKey{capability, qualifier}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.bindings[key]; ok {
		return &DuplicateBindingError{
			Capability: capability.String(),
			Qualifier:  qualifier,
			Existing:   existing.String(),
			Rejected:   impl.String(),
		}
	}
	r.bindings[key] = impl
	return nil
}

func (r *Registry) ResolveImplementation(capability reflect.Type, qualifier string) (reflect.Type, error) {
	r.mu.RLock()
	impl, ok := r.bindings[bindingKey{capability, qualifier}]
	r.mu.RUnlock()

	if !ok {
		return nil, &BindingNotFoundError{Capability: capability.String(), Qualifier: qualifier}
	}
	return impl, nil
}

// Bindings lists every binding ordered by capability then qualifier.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	out := make([]Binding, 0, len(r.bindings))
	for k, impl := range r.bindings {
		out = append(out, Binding{Capability: k.capability, Qualifier: k.qualifier, Implementation: impl})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if a, b := out[i].Capability.String(), out[j].Capability.String(); a != b {
			return a < b
		}
		return out[i].Qualifier < out[j].Qualifier
	})
	return out
}

// ─── singletons ─────────────────────────────────────────────

// PutSingleton publishes instance for t unless one is already published.
// It returns the instance that is actually stored and whether it was this one.
func (r *Registry) PutSingleton(t reflect.Type, instance any) (any, bool) {
	r.singletonsMu.Lock()
	defer r.singletonsMu.Unlock()

	if existing, ok := r.singletons[t]; ok {
		return existing, false
	}
	r.singletons[t] = instance
	return instance, true
}

// RemoveSingleton unpublishes t, but only while instance is still the one
// stored for it.
func (r *Registry) RemoveSingleton(t reflect.Type, instance any) bool {
	r.singletonsMu.Lock()
	defer r.singletonsMu.Unlock()

	if existing, ok := r.singletons[t]; !ok || existing != instance {
		return false
	}
	delete(r.singletons, t)
	return true
}

func (r *Registry) GetSingleton(t reflect.Type) (any, bool) {
	r.singletonsMu.RLock()
	defer r.singletonsMu.RUnlock()

	instance, ok := r.singletons[t]
	return instance, ok
}

func (r *Registry) HasSingleton(t reflect.Type) bool {
	_, ok := r.GetSingleton(t)
	return ok
}

func (r *Registry) Singletons() int {
	r.singletonsMu.RLock()
	defer r.singletonsMu.RUnlock()
	return len(r.singletons)
}

// Reset drops all bindings and singletons. Intended for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.bindings = map[bindingKey]reflect.Type{}
	r.mu.Unlock()

	r.singletonsMu.Lock()
	r.singletons = map[reflect.Type]any{}
	r.singletonsMu.Unlock()
}
