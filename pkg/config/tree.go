package config

import (
	"fmt"
	"path/filepath"

	"github.com/aretw0/vessel/pkg/domain"
)

// Tree builds the branch hierarchy from the parallel arrays.
//
// The primary arrays must have equal length n. With secondaries enabled,
// every secondary array needs at least 2n entries: primary i owns entries
// 2i and 2i+1. Surplus secondary entries are ignored and reported as warnings.
func (c *Config) Tree() (domain.TreeSpec, []error, error) {
	var warnings []error

	p := c.PrimaryBranches
	n := len(p.Angles)
	for _, f := range []struct {
		name string
		got  int
	}{
		{"primary_branches.relative_positions", len(p.RelativePositions)},
		{"primary_branches.diameters", len(p.Diameters)},
	} {
		if f.got != n {
			return domain.TreeSpec{}, nil, &domain.ConfigurationShapeError{
				Field: f.name, Want: n, Got: f.got,
				Reason: "must match primary_branches.angles",
			}
		}
	}

	s := c.SecondaryBranches
	if c.AddSecondaryBranches {
		for _, f := range []struct {
			name string
			got  int
		}{
			{"secondary_branches.angles", len(s.Angles)},
			{"secondary_branches.relative_positions", len(s.RelativePositions)},
			{"secondary_branches.diameters", len(s.Diameters)},
		} {
			switch {
			case f.got == 0 && n > 0:
				return domain.TreeSpec{}, nil, &domain.ConfigurationShapeError{
					Field: f.name, Want: 2 * n, Got: 0,
					Reason: "list two secondary branches per primary or set add_secondary_branches: false",
				}
			case f.got < 2*n:
				return domain.TreeSpec{}, nil, &domain.ConfigurationShapeError{
					Field: f.name, Want: 2 * n, Got: f.got,
					Reason: "two secondary branches per primary",
				}
			case f.got > 2*n:
				warnings = append(warnings, fmt.Errorf("%s has %d entries, only the first %d are used", f.name, f.got, 2*n))
			}
		}
	}

	tree := domain.TreeSpec{
		Main: domain.BranchSpec{
			Name:          domain.MainBranchName,
			Level:         domain.LevelMain,
			Diameter:      c.MainBranch.Diameter,
			Length:        c.MainBranch.Length,
			WallThickness: c.WallThickness,
		},
		Primaries: make([]domain.PrimarySpec, n),
	}
	for i := range n {
		primary := domain.PrimarySpec{Branch: c.branch(fmt.Sprintf("p%d", i), domain.LevelPrimary, p, i)}
		if c.AddSecondaryBranches {
			primary.Secondaries = &[2]domain.BranchSpec{
				c.branch(fmt.Sprintf("p%d.s0", i), domain.LevelSecondary, s, 2*i),
				c.branch(fmt.Sprintf("p%d.s1", i), domain.LevelSecondary, s, 2*i+1),
			}
		}
		tree.Primaries[i] = primary
	}

	if c.AddAdapter {
		tree.Adapter = &domain.AdapterSpec{
			InternalDiameter: c.Adapter.InternalDiameter,
			ExternalDiameter: c.Adapter.ExternalDiameter,
			Length:           c.Adapter.Length,
			End:              domain.AdapterEnd(c.Adapter.End),
		}
		if tree.Adapter.End == "" {
			tree.Adapter.End = domain.AdapterAtStart
		}
	}
	return tree, warnings, nil
}

func (c *Config) branch(name string, level domain.Level, set BranchSet, i int) domain.BranchSpec {
	return domain.BranchSpec{
		Name:             name,
		Level:            level,
		Diameter:         set.Diameters[i],
		Length:           set.Length,
		WallThickness:    c.WallThickness,
		RelativePosition: set.RelativePositions[i],
		Angle:            set.Angles[i],
		Divergence:       c.DivergenceAngle,
	}
}

// RoundingSpec returns the fillet radii as a domain value.
func (c *Config) RoundingSpec() domain.RoundingSpec {
	return domain.RoundingSpec{
		ExternalSeam:  c.Rounding.ExternalSeam,
		InternalSeam:  c.Rounding.InternalSeam,
		ExternalMicro: c.Rounding.ExternalMicro,
		InternalMicro: c.Rounding.InternalMicro,
	}
}

// OutputPath joins the output folder and file name.
func (c *Config) OutputPath() string {
	return filepath.Join(c.Output.Folder, c.Output.Filename)
}
