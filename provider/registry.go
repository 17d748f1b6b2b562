package provider

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownProvider is returned by Create for a name with no factory.
var ErrUnknownProvider = errors.New("unknown provider")

// Registry maps backend names to factories. Names are case-insensitive.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: map[string]Factory[T]{}}
}

// RegisterFactory adds or replaces the factory for name.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	r.factories[strings.ToLower(name)] = factory
	r.mu.Unlock()
}

// Create builds the backend registered as name. A nil opts is treated as
// empty.
func (r *Registry[T]) Create(name string, opts Options) (T, error) {
	var zero T

	r.mu.RLock()
	factory := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()
	if factory == nil {
		return zero, fmt.Errorf("%w %q (registered: %s)", ErrUnknownProvider, name, strings.Join(r.List(), ", "))
	}

	if opts == nil {
		opts = Options{}
	}
	p, err := factory(opts)
	if err != nil {
		return zero, fmt.Errorf("create provider %q: %w", name, err)
	}
	return p, nil
}

func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factories[strings.ToLower(name)] != nil
}

// List returns the registered names in sorted order.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}
