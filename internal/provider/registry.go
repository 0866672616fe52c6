package provider

import (
	"sort"
	"sync"

	"github.com/affistats/insights-manager/internal/dependency"
	"github.com/affistats/insights-manager/internal/entity"
)

// Constructor builds an unconfigured provider instance.
type Constructor func() dependency.DataProvider

// Registry maps provider type tags to constructors. It is built explicitly
// and injected into the factory; there is no package-level instance.
type Registry struct {
	mu           sync.RWMutex
	constructors map[entity.ProviderType]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[entity.ProviderType]Constructor)}
}

// Register binds a constructor to a type tag. Re-registering overwrites.
func (r *Registry) Register(p entity.ProviderType, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[p] = ctor
}

func (r *Registry) Unregister(p entity.ProviderType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.constructors, p)
}

func (r *Registry) IsRegistered(p entity.ProviderType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[p]
	return ok
}

// Registered returns the registered type tags in stable order.
func (r *Registry) Registered() []entity.ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]entity.ProviderType, 0, len(r.constructors))
	for p := range r.constructors {
		types = append(types, p)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (r *Registry) constructor(p entity.ProviderType) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.constructors[p]
	return ctor, ok
}
