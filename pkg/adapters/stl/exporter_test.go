package stl_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/vessel/pkg/adapters/sdf"
	vstl "github.com/aretw0/vessel/pkg/adapters/stl"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
	"github.com/hschendel/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func tube(t *testing.T, k *sdf.Kernel) *domain.VesselModel {
	t.Helper()
	outer, err := k.Cylinder(ports.CylinderParams{Frame: domain.WorldFrame, Radius: 5, Start: 0, End: 10})
	require.NoError(t, err)
	lumen, err := k.Cylinder(ports.CylinderParams{Frame: domain.WorldFrame, Radius: 3, Start: -1, End: 11})
	require.NoError(t, err)
	hollow, err := k.Subtract(outer, lumen)
	require.NoError(t, err)
	return &domain.VesselModel{Name: "tube", Solid: hollow}
}

func TestExporter_Binary(t *testing.T) {
	k := sdf.New()
	exp := vstl.New(k, vstl.WithResolution(0.5))
	assert.Equal(t, ".stl", exp.Extension())

	var buf bytes.Buffer
	n, err := exp.Export(context.Background(), tube(t, k), &buf)
	require.NoError(t, err)
	require.Positive(t, n)
	assert.Equal(t, 84+50*n, buf.Len(), "binary header, count and 50 bytes per facet")

	solid, err := stl.ReadAll(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, solid.Triangles, n)
	assert.False(t, solid.IsAscii)
}

func TestExporter_ASCII(t *testing.T) {
	k := sdf.New()
	exp := vstl.New(k, vstl.WithResolution(0.5), vstl.WithASCII(true))

	var buf bytes.Buffer
	n, err := exp.Export(context.Background(), tube(t, k), &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "solid tube"))
	assert.Equal(t, n, strings.Count(buf.String(), "endfacet"))
}

func TestEncode_Normals(t *testing.T) {
	mesh := &domain.Mesh{
		Vertices:  []r3.Vec{{}, {X: 2}, {Y: 2}},
		Triangles: [][3]int{{0, 1, 2}},
	}
	solid := vstl.Encode("facet", mesh)
	require.Len(t, solid.Triangles, 1)
	assert.Equal(t, stl.Vec3{0, 0, 1}, solid.Triangles[0].Normal)
	assert.Equal(t, stl.Vec3{2, 0, 0}, solid.Triangles[0].Vertices[1])
	assert.Equal(t, "facet", solid.Name)
}

func TestWriteFile(t *testing.T) {
	k := sdf.New()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tube.stl")

	n, err := vstl.WriteFile(context.Background(), vstl.New(k), tube(t, k), path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(84+50*n), info.Size())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is gone")
}

func TestWriteFile_NoPartialOutput(t *testing.T) {
	k := sdf.New()
	path := filepath.Join(t.TempDir(), "tube.stl")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := vstl.WriteFile(ctx, vstl.New(k), tube(t, k), path)
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_RejectsEmptyModel(t *testing.T) {
	_, err := vstl.New(sdf.New()).Export(context.Background(), &domain.VesselModel{}, &bytes.Buffer{})
	assert.Error(t, err)
}
