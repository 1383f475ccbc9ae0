package config_test

import (
	"errors"
	"testing"

	"github.com/aretw0/vessel/internal/testutils"
	"github.com/aretw0/vessel/pkg/config"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ReferenceTree(t *testing.T) {
	cfg := config.Default()
	tree, warnings, err := cfg.Tree()
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Len(t, tree.Primaries, 6)
	assert.Equal(t, 19, tree.BranchCount())
	assert.Nil(t, tree.Adapter)
	assert.Equal(t, "p2.s1", tree.Primaries[2].Secondaries[1].Name)
	assert.Equal(t, 9.0, tree.Primaries[2].Secondaries[1].Diameter, "primary 2 owns secondary entries 4 and 5")
	assert.Equal(t, 2.0, tree.Primaries[0].Branch.WallThickness)
	assert.Equal(t, 60.0, tree.Primaries[0].Branch.Divergence)
}

func TestParse_EmptyDocumentIsDefault(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := config.Parse([]byte(`
main_branch: {length: 200}
primary_branches:
  angles: [45]
  relative_positions: [0.5]
  diameters: [8]
add_secondary_branches: false
mesh: {resolution: 1}
`))
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.MainBranch.Diameter, "unspecified keys keep defaults")
	assert.Equal(t, 200.0, cfg.MainBranch.Length)
	assert.Equal(t, []float64{45}, cfg.PrimaryBranches.Angles, "lists replace defaults")
	assert.Equal(t, 80.0, cfg.PrimaryBranches.Length)
	assert.Equal(t, config.FormatBinary, cfg.Mesh.Format)

	tree, _, err := cfg.Tree()
	require.NoError(t, err)
	require.Len(t, tree.Primaries, 1)
	assert.Nil(t, tree.Primaries[0].Secondaries)
}

func TestParse_PrimaryOverrideDropsDefaultSecondaries(t *testing.T) {
	doc := `
primary_branches:
  angles: [45]
  relative_positions: [0.5]
  diameters: [6]
`
	cfg, err := config.Parse([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, cfg.SecondaryBranches.Angles)
	assert.Equal(t, 50.0, cfg.SecondaryBranches.Length)

	_, _, err = cfg.Tree()
	var shape *domain.ConfigurationShapeError
	require.True(t, errors.As(err, &shape), "default secondaries wider than the primary must not be attached")
	assert.Equal(t, "secondary_branches.angles", shape.Field)
	assert.Equal(t, 2, shape.Want)
	assert.Zero(t, shape.Got)
	assert.Contains(t, shape.Reason, "add_secondary_branches")

	cfg, err = config.Parse([]byte(doc + "add_secondary_branches: false\n"))
	require.NoError(t, err)
	tree, warnings, err := cfg.Tree()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Nil(t, tree.Primaries[0].Secondaries)

	cfg, err = config.Parse([]byte(doc + "secondary_branches: {angles: [20, -20], relative_positions: [0.5, 0.9], diameters: [4, 4]}\n"))
	require.NoError(t, err)
	tree, warnings, err = cfg.Tree()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 4.0, tree.Primaries[0].Secondaries[1].Diameter)
}

func TestParse_JSON(t *testing.T) {
	cfg, err := config.Parse([]byte(`{"wall_thickness": 1.5, "rounding": {"external_seam": 0.5}}`))
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.WallThickness)
	assert.Equal(t, domain.RoundingSpec{ExternalSeam: 0.5}, cfg.RoundingSpec())
}

func TestParse_SchemaErrors(t *testing.T) {
	_, err := config.Parse([]byte(`
main_branch: {diameter: -20, colour: red}
mesh: {format: obj}
wall_thickness: thick
`))
	require.Error(t, err)
	assert.ElementsMatch(t, []string{
		"main_branch.diameter",
		"main_branch.colour",
		"mesh.format",
		"wall_thickness",
	}, schema.Keys(err))
}

func TestParse_Malformed(t *testing.T) {
	_, err := config.Parse([]byte("main_branch: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := testutils.WriteConfig(t, "tree.yaml", "add_adapter: true\nadapter: {end: end}\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)

	tree, _, err := cfg.Tree()
	require.NoError(t, err)
	require.NotNil(t, tree.Adapter)
	assert.Equal(t, domain.AdapterAtEnd, tree.Adapter.End)
	assert.Equal(t, 16.0, tree.Adapter.InternalDiameter)

	_, err = config.Load(path + ".missing")
	assert.Error(t, err)
}

func TestTree_AdapterDisabledMatchesAbsent(t *testing.T) {
	absent, err := config.Parse([]byte("add_secondary_branches: false"))
	require.NoError(t, err)
	disabled, err := config.Parse([]byte(`
add_secondary_branches: false
add_adapter: false
adapter: {internal_diameter: 10, external_diameter: 30, length: 5}
`))
	require.NoError(t, err)

	a, _, err := absent.Tree()
	require.NoError(t, err)
	d, _, err := disabled.Tree()
	require.NoError(t, err)
	assert.Equal(t, a, d)
}

func TestTree_ShapeErrors(t *testing.T) {
	t.Run("Primary Mismatch", func(t *testing.T) {
		cfg := config.Default()
		cfg.PrimaryBranches.Diameters = cfg.PrimaryBranches.Diameters[:5]

		_, _, err := cfg.Tree()
		var shape *domain.ConfigurationShapeError
		require.True(t, errors.As(err, &shape))
		assert.Equal(t, "primary_branches.diameters", shape.Field)
		assert.Equal(t, 6, shape.Want)
		assert.Equal(t, 5, shape.Got)
		assert.True(t, domain.IsFatal(err))
	})

	t.Run("Secondaries Exactly Two Per Primary", func(t *testing.T) {
		cfg := config.Default()
		require.Len(t, cfg.SecondaryBranches.Angles, 12)
		_, warnings, err := cfg.Tree()
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("Secondaries One Short", func(t *testing.T) {
		cfg := config.Default()
		cfg.SecondaryBranches.Angles = cfg.SecondaryBranches.Angles[:11]

		_, _, err := cfg.Tree()
		var shape *domain.ConfigurationShapeError
		require.True(t, errors.As(err, &shape))
		assert.Equal(t, "secondary_branches.angles", shape.Field)
		assert.Equal(t, 12, shape.Want)
		assert.Equal(t, 11, shape.Got)
	})

	t.Run("Secondaries Ignored When Disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.AddSecondaryBranches = false
		cfg.SecondaryBranches.Angles = nil

		_, _, err := cfg.Tree()
		assert.NoError(t, err)
	})

	t.Run("Surplus Secondaries Warn", func(t *testing.T) {
		cfg := config.Default()
		cfg.SecondaryBranches.Diameters = append(cfg.SecondaryBranches.Diameters, 5, 5)

		tree, warnings, err := cfg.Tree()
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0].Error(), "secondary_branches.diameters")
		assert.Equal(t, 19, tree.BranchCount())
	})
}

func TestMarshal_RoundTripsDefault(t *testing.T) {
	data, err := config.Marshal(config.Default())
	require.NoError(t, err)
	assert.Contains(t, string(data), "main_branch:")

	cfg, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDigest(t *testing.T) {
	a, err := config.Parse([]byte("wall_thickness: 2"))
	require.NoError(t, err)
	b, err := config.Parse([]byte("{}"))
	require.NoError(t, err)
	c, err := config.Parse([]byte("wall_thickness: 1"))
	require.NoError(t, err)

	da, err := a.Digest()
	require.NoError(t, err)
	db, err := b.Digest()
	require.NoError(t, err)
	dc, err := c.Digest()
	require.NoError(t, err)

	assert.Equal(t, da, db, "defaults spelled out share a digest")
	assert.NotEqual(t, da, dc)
	assert.Len(t, da, 64)
}

func TestOutputPath(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "out/vascular_tree.stl", cfg.OutputPath())
}
