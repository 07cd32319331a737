package llm

import (
	"sync"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
)

// Registry keys Providers by name, grounded on the teacher's
// pkg/registry.BaseRegistry[T] (a generic, mutex-guarded map) and
// pkg/llms.LLMRegistry, which wraps that base registry for LLM providers
// specifically.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds p under its own Name(). Registering a name twice is an
// InvalidRequest error.
func (r *Registry) Register(p Provider) error {
	if p == nil || p.Name() == "" {
		return mxerrors.New(mxerrors.InvalidRequest, "llm.Registry.Register", "provider must be non-nil and named")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[p.Name()]; exists {
		return mxerrors.New(mxerrors.InvalidRequest, "llm.Registry.Register", "provider already registered: "+p.Name())
	}
	r.providers[p.Name()] = p
	return nil
}

// Get resolves name to its Provider.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, mxerrors.New(mxerrors.NotFound, "llm.Registry.Get", "provider not registered: "+name)
	}
	return p, nil
}

// Names lists every registered provider name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
