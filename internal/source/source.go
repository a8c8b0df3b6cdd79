package source

import (
	"context"
	"fmt"
	"sort"

	"ContentRanker/internal/domain"
)

// Request carries everything a loader needs to read one configured source.
type Request struct {
	Name     string
	Loader   string
	Location string
	Options  map[string]string
}

// Loader reads content records from one kind of backend (file, portal pages, database).
type Loader interface {
	Name() string
	Load(ctx context.Context, req Request) ([]domain.ContentRecord, error)
}

// Registry keeps a mapping from loader names to their implementations.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: map[string]Loader{}}
}

// Register adds or replaces a loader implementation.
func (r *Registry) Register(loader Loader) {
	if r.loaders == nil {
		r.loaders = map[string]Loader{}
	}
	r.loaders[loader.Name()] = loader
}

// Resolve returns a loader by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Loader, error) {
	if loader, ok := r.loaders[name]; ok {
		return loader, nil
	}
	return nil, fmt.Errorf("loader %s is not registered", name)
}

// Names lists registered loaders in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
