package main

import (
	"fmt"

	"github.com/aretw0/vessel"
	"github.com/aretw0/vessel/internal/presentation/graph"
	"github.com/aretw0/vessel/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Check a configuration without building geometry",
	Long: `Parses the configuration, checks array shapes, dimensions and rounding radii,
and prints the branch hierarchy. No geometry kernel is involved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}

		warnings, err := vessel.New().Validate(cfg)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		tree, _, err := cfg.Tree()
		if err != nil {
			return err
		}

		if asGraph, _ := cmd.Flags().GetBool("graph"); asGraph {
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tree))
			return nil
		}
		return tui.Print(cmd.OutOrStdout(), tui.ValidationReport(tree, warnings))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("graph", false, "Print only the Mermaid diagram of the branch hierarchy")
}
