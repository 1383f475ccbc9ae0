// Package stl writes vessel models as STL meshes.
package stl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
	"github.com/hschendel/stl"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultResolution is the lattice spacing used when none is configured.
const DefaultResolution = 0.75

// Exporter tessellates a model and encodes it as STL.
type Exporter struct {
	tessellator ports.Tessellator
	resolution  float64
	ascii       bool
}

var _ ports.Exporter = (*Exporter)(nil)

// Option configures an Exporter.
type Option func(*Exporter)

// WithResolution sets the tessellation lattice spacing in model units.
func WithResolution(r float64) Option {
	return func(e *Exporter) {
		if r > 0 {
			e.resolution = r
		}
	}
}

// WithASCII selects the text encoding instead of binary.
func WithASCII(ascii bool) Option {
	return func(e *Exporter) {
		e.ascii = ascii
	}
}

// New creates an exporter backed by t.
func New(t ports.Tessellator, opts ...Option) *Exporter {
	e := &Exporter{tessellator: t, resolution: DefaultResolution}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extension implements ports.Exporter.
func (e *Exporter) Extension() string { return ".stl" }

// Export tessellates model.Solid and writes it to w.
func (e *Exporter) Export(ctx context.Context, model *domain.VesselModel, w io.Writer) (int, error) {
	if model == nil || model.Solid == nil {
		return 0, fmt.Errorf("stl: nothing to export")
	}
	mesh, err := e.tessellator.Tessellate(ctx, model.Solid, e.resolution)
	if err != nil {
		return 0, fmt.Errorf("stl: tessellate: %w", err)
	}
	solid := Encode(model.Name, mesh)
	solid.IsAscii = e.ascii
	if err := solid.WriteAll(w); err != nil {
		return 0, fmt.Errorf("stl: write: %w", err)
	}
	return len(solid.Triangles), nil
}

// Encode converts a mesh to an STL solid with per-facet unit normals.
func Encode(name string, mesh *domain.Mesh) *stl.Solid {
	solid := &stl.Solid{
		Name:      name,
		Triangles: make([]stl.Triangle, len(mesh.Triangles)),
	}
	for i := range mesh.Triangles {
		t := mesh.Triangle(i)
		n := t.Normal()
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		solid.Triangles[i] = stl.Triangle{
			Normal:   vec(n),
			Vertices: [3]stl.Vec3{vec(t[0]), vec(t[1]), vec(t[2])},
		}
	}
	return solid
}

func vec(v r3.Vec) stl.Vec3 {
	return stl.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// WriteFile exports model to path. The file is written to a temporary
// sibling first and renamed into place, so a failed export leaves no partial file.
func WriteFile(ctx context.Context, exp ports.Exporter, model *domain.VesselModel, path string) (int, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output folder: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := exp.Export(ctx, model, tmp)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("move export into place: %w", err)
	}
	return n, nil
}
