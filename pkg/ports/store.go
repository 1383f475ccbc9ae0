package ports

import (
	"context"

	"github.com/aretw0/vessel/pkg/domain"
)

// ArtifactStore defines the interface for keeping exported models.
// This lets the build service answer repeated requests without rebuilding.
type ArtifactStore interface {
	// Save persists the artifact under artifact.Key, replacing any previous value.
	Save(ctx context.Context, artifact *domain.Artifact) error

	// Load retrieves an artifact by key.
	// Returns domain.ErrArtifactNotFound if the key does not exist.
	Load(ctx context.Context, key string) (*domain.Artifact, error)

	// Delete removes an artifact. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys of all stored artifacts.
	List(ctx context.Context) ([]string, error)
}
