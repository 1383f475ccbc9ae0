package vessel_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/vessel"
	"github.com/aretw0/vessel/pkg/config"
)

// ExampleEngine_Build builds a main branch with a single side branch.
func ExampleEngine_Build() {
	cfg, err := config.Parse([]byte(`
main_branch: {diameter: 20, length: 200}
primary_branches:
  angles: [45]
  relative_positions: [0.5]
  diameters: [8]
add_secondary_branches: false
`))
	if err != nil {
		log.Fatal(err)
	}

	model, err := vessel.New().Build(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("branches:", model.Stats.Branches)
	fmt.Println("lumens:", model.Stats.LumenSolids)
	fmt.Println("warnings:", len(model.Warnings))
	// Output:
	// branches: 2
	// lumens: 2
	// warnings: 0
}
