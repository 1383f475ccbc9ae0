// Package config loads the declarative vessel description and turns it into
// a validated domain.TreeSpec.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Config is the complete user-facing configuration document.
// Every field has a default; a document only needs the keys it changes.
type Config struct {
	MainBranch           MainBranch `mapstructure:"main_branch" yaml:"main_branch" json:"main_branch"`
	PrimaryBranches      BranchSet  `mapstructure:"primary_branches" yaml:"primary_branches" json:"primary_branches"`
	AddSecondaryBranches bool       `mapstructure:"add_secondary_branches" yaml:"add_secondary_branches" json:"add_secondary_branches"`
	SecondaryBranches    BranchSet  `mapstructure:"secondary_branches" yaml:"secondary_branches" json:"secondary_branches"`
	WallThickness        float64    `mapstructure:"wall_thickness" yaml:"wall_thickness" json:"wall_thickness"`
	DivergenceAngle      float64    `mapstructure:"divergence_angle" yaml:"divergence_angle" json:"divergence_angle"`
	AddAdapter           bool       `mapstructure:"add_adapter" yaml:"add_adapter" json:"add_adapter"`
	Adapter              Adapter    `mapstructure:"adapter" yaml:"adapter" json:"adapter"`
	Rounding             Rounding   `mapstructure:"rounding" yaml:"rounding" json:"rounding"`
	Mesh                 Mesh       `mapstructure:"mesh" yaml:"mesh" json:"mesh"`
	Output               Output     `mapstructure:"output" yaml:"output" json:"output"`
}

// MainBranch sizes the root vessel.
type MainBranch struct {
	Diameter float64 `mapstructure:"diameter" yaml:"diameter" json:"diameter"`
	Length   float64 `mapstructure:"length" yaml:"length" json:"length"`
}

// BranchSet holds the parallel arrays describing one level of branches.
// Entry i of every array belongs to the same branch.
type BranchSet struct {
	Length            float64   `mapstructure:"length" yaml:"length" json:"length"`
	Angles            []float64 `mapstructure:"angles" yaml:"angles,flow" json:"angles"`
	RelativePositions []float64 `mapstructure:"relative_positions" yaml:"relative_positions,flow" json:"relative_positions"`
	Diameters         []float64 `mapstructure:"diameters" yaml:"diameters,flow" json:"diameters"`
}

// Adapter sizes the optional connector tube.
type Adapter struct {
	InternalDiameter float64 `mapstructure:"internal_diameter" yaml:"internal_diameter" json:"internal_diameter"`
	ExternalDiameter float64 `mapstructure:"external_diameter" yaml:"external_diameter" json:"external_diameter"`
	Length           float64 `mapstructure:"length" yaml:"length" json:"length"`
	End              string  `mapstructure:"end" yaml:"end" json:"end"`
}

// Rounding holds the four fillet radii; zero disables a category.
type Rounding struct {
	ExternalSeam  float64 `mapstructure:"external_seam" yaml:"external_seam" json:"external_seam"`
	InternalSeam  float64 `mapstructure:"internal_seam" yaml:"internal_seam" json:"internal_seam"`
	ExternalMicro float64 `mapstructure:"external_micro" yaml:"external_micro" json:"external_micro"`
	InternalMicro float64 `mapstructure:"internal_micro" yaml:"internal_micro" json:"internal_micro"`
}

// Mesh controls tessellation of the final solid.
type Mesh struct {
	Resolution float64 `mapstructure:"resolution" yaml:"resolution" json:"resolution"`
	Format     string  `mapstructure:"format" yaml:"format" json:"format"`
}

// Output names the exported file.
type Output struct {
	Folder   string `mapstructure:"folder" yaml:"folder" json:"folder"`
	Filename string `mapstructure:"filename" yaml:"filename" json:"filename"`
}

// Mesh formats.
const (
	FormatBinary = "binary"
	FormatASCII  = "ascii"
)

// Default returns the reference tree: a 20x210 main branch with six primaries
// and, when enabled, twelve secondaries.
func Default() *Config {
	return &Config{
		MainBranch: MainBranch{Diameter: 20, Length: 210},
		PrimaryBranches: BranchSet{
			Length:            80,
			Angles:            []float64{120, -140, 80, -70, 30, -40},
			RelativePositions: []float64{0.25, 0.35, 0.45, 0.55, 0.65, 0.75},
			Diameters:         []float64{10, 12, 13, 11, 15, 11},
		},
		AddSecondaryBranches: true,
		SecondaryBranches: BranchSet{
			Length:            50,
			Angles:            []float64{30, -30, 30, -30, 30, -30, 30, -30, 30, -30, 30, -30},
			RelativePositions: []float64{0.4, 0.8, 0.8, 0.4, 0.8, 0.4, 0.8, 0.4, 0.8, 0.4, 0.4, 0.8},
			Diameters:         []float64{8, 7, 7, 8, 10, 9, 7, 9, 8, 9, 10, 7},
		},
		WallThickness:   2,
		DivergenceAngle: 60,
		AddAdapter:      false,
		Adapter: Adapter{
			InternalDiameter: 16,
			ExternalDiameter: 24,
			Length:           20,
			End:              "start",
		},
		Mesh:   Mesh{Resolution: 0.75, Format: FormatBinary},
		Output: Output{Folder: "out", Filename: "vascular_tree.stl"},
	}
}

// Digest returns a stable SHA-256 of the normalized configuration, used as a cache key.
// Documents that differ only in formatting or in keys left at their default share a digest.
func (c *Config) Digest() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("digest config: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
