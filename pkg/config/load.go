package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/aretw0/vessel/pkg/schema"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Schema describes every key a configuration document may contain.
// All keys are optional; missing ones keep their default.
func Schema() schema.Schema {
	o, f := schema.Optional, schema.Float
	branchSet := o(schema.Object(schema.Schema{
		"length":             o(schema.Positive()),
		"angles":             o(schema.Slice(f())),
		"relative_positions": o(schema.Slice(f())),
		"diameters":          o(schema.Slice(schema.Positive())),
	}))
	return schema.Schema{
		"main_branch": o(schema.Object(schema.Schema{
			"diameter": o(schema.Positive()),
			"length":   o(schema.Positive()),
		})),
		"primary_branches":       branchSet,
		"add_secondary_branches": o(schema.Bool()),
		"secondary_branches":     branchSet,
		"wall_thickness":         o(schema.NonNegative()),
		"divergence_angle":       o(schema.Positive()),
		"add_adapter":            o(schema.Bool()),
		"adapter": o(schema.Object(schema.Schema{
			"internal_diameter": o(schema.Positive()),
			"external_diameter": o(schema.Positive()),
			"length":            o(schema.Positive()),
			"end":               o(schema.Enum("start", "end")),
		})),
		"rounding": o(schema.Object(schema.Schema{
			"external_seam":  o(schema.NonNegative()),
			"internal_seam":  o(schema.NonNegative()),
			"external_micro": o(schema.NonNegative()),
			"internal_micro": o(schema.NonNegative()),
		})),
		"mesh": o(schema.Object(schema.Schema{
			"resolution": o(schema.Positive()),
			"format":     o(schema.Enum(FormatBinary, FormatASCII)),
		})),
		"output": o(schema.Object(schema.Schema{
			"folder":   o(schema.String()),
			"filename": o(schema.String()),
		})),
	}
}

// Load reads and parses a YAML or JSON configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML or JSON document over Default.
// Schema violations are reported together as a *schema.AggregateError.
//
// The default secondary arrays describe the default primaries only. A document
// that sets any primary array without setting a secondary one starts from empty
// secondary arrays, so it must either list its secondaries or disable them.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := schema.Validate(Schema(), raw); err != nil {
		return nil, err
	}

	cfg := Default()
	if setsBranchArrays(raw, "primary_branches") && !setsBranchArrays(raw, "secondary_branches") {
		cfg.SecondaryBranches.Angles = nil
		cfg.SecondaryBranches.RelativePositions = nil
		cfg.SecondaryBranches.Diameters = nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      cfg,
		ErrorUnused: true,
		// lists replace the defaults instead of overwriting them element by element
		ZeroFields: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if cfg.Output.Filename == "" {
		return nil, &schema.ValidationError{Key: "output.filename", Reason: "must not be empty"}
	}
	return cfg, nil
}

func setsBranchArrays(raw map[string]any, key string) bool {
	set, ok := raw[key].(map[string]any)
	if !ok {
		return false
	}
	for _, k := range []string{"angles", "relative_positions", "diameters"} {
		if _, ok := set[k]; ok {
			return true
		}
	}
	return false
}

// Marshal renders cfg as a YAML document.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
