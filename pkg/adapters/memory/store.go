package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/vessel/pkg/domain"
)

// Store implements ports.ArtifactStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Artifact
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Artifact),
	}
}

// Save keeps a copy of the artifact in memory.
func (s *Store) Save(ctx context.Context, artifact *domain.Artifact) error {
	if artifact == nil || artifact.Key == "" {
		return fmt.Errorf("artifact key cannot be empty")
	}

	copied := clone(artifact)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[artifact.Key] = copied
	return nil
}

// Load retrieves a copy of the artifact so callers cannot mutate the stored bytes.
func (s *Store) Load(ctx context.Context, key string) (*domain.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artifact, ok := s.data[key]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return clone(artifact), nil
}

// Delete removes the artifact.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func clone(a *domain.Artifact) *domain.Artifact {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	c.Warnings = append([]string(nil), a.Warnings...)
	return &c
}
