package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/foolclub/boleta-api/internal/domain"
)

// CollectionSource loads the export view of one collection kind.
type CollectionSource interface {
	// Kind returns the kind label this source serves.
	Kind() domain.CollectionKind

	// CollectionByUUID loads a collection with hydrated album data,
	// ready for batch export.
	CollectionByUUID(ctx context.Context, uuid string) (*domain.Collection, error)
}

// KindRegistry maps collection-kind labels to their sources.
// It is safe for concurrent use.
type KindRegistry struct {
	mu      sync.RWMutex
	sources map[domain.CollectionKind]CollectionSource
}

// NewKindRegistry creates an empty registry.
func NewKindRegistry() *KindRegistry {
	return &KindRegistry{
		sources: make(map[domain.CollectionKind]CollectionSource),
	}
}

// Register adds a source to the registry, keyed by its Kind().
func (r *KindRegistry) Register(source CollectionSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.Kind()] = source
}

// Get returns the source for the given kind, or an error if not found.
func (r *KindRegistry) Get(kind domain.CollectionKind) (CollectionSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[kind]
	if !ok {
		return nil, fmt.Errorf("unknown collection kind: %s", kind)
	}
	return source, nil
}

// Available returns the labels of all registered kinds.
func (r *KindRegistry) Available() []domain.CollectionKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.CollectionKind, 0, len(r.sources))
	for kind := range r.sources {
		kinds = append(kinds, kind)
	}
	return kinds
}
