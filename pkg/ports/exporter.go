package ports

import (
	"context"
	"io"

	"github.com/aretw0/vessel/pkg/domain"
)

// Exporter writes a finished model to a stream.
type Exporter interface {
	// Export serialises the model and returns the number of triangles written.
	Export(ctx context.Context, model *domain.VesselModel, w io.Writer) (int, error)

	// Extension returns the conventional file extension, including the dot.
	Extension() string
}
