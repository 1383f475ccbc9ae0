/*
Package vessel generates printable hollow vascular-tree solids from a declarative description.

A tree is a straight main branch, a ring of primary branches attached along it, and
optionally two secondary branches per primary. Every branch is a hollow tube: an outer
cylinder with a coaxial lumen. All tubes are fused into one watertight solid whose
channels connect, optionally with an adapter tube on one end of the main branch, and the
junction seams can be rounded. The result is exported as STL.

# Pipeline

Construction runs in fixed stages, each observable through domain.LifecycleHooks:

  - Validate: array shapes and dimensions are checked before any geometry exists.
  - Assemble: each branch is placed on its parent and turned into outer and lumen primitives.
  - Composite: all outer bodies are unioned, all lumens are unioned, and the voids are subtracted once.
  - Round: seam and micro fillets are applied in order; radii the geometry cannot carry become warnings.
  - Export: the solid is tessellated and written as STL.

# Usage

	cfg, err := config.Load("tree.yaml")
	if err != nil {
		log.Fatal(err)
	}

	eng := vessel.New(vessel.WithLogger(logger))
	model, err := eng.Build(ctx, cfg)
	if err != nil {
		log.Fatal(err) // *domain.ConfigurationShapeError, *domain.DegenerateGeometryError, ...
	}
	for _, w := range model.Warnings {
		log.Println("warning:", w)
	}

	path, triangles, err := eng.WriteFile(ctx, model, cfg)

The geometric kernel sits behind ports.Kernel. The default is a signed-distance kernel
(pkg/adapters/sdf); WithKernel swaps it for another implementation.

Engine.Artifact keeps exported models in a ports.ArtifactStore keyed by the configuration
digest, which is what the HTTP and MCP surfaces of cmd/vessel build on.
*/
package vessel
