package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aretw0/vessel"
	"github.com/aretw0/vessel/internal/presentation/tui"
	"github.com/aretw0/vessel/pkg/config"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [config]",
	Short: "Build the hollow tree and export it as STL",
	Long: `Builds the model described by the configuration (or the reference tree when
none is given) and writes it to the configured output path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			cfg.Output.Folder, cfg.Output.Filename = filepath.Dir(out), filepath.Base(out)
		}
		if ascii, _ := cmd.Flags().GetBool("ascii"); ascii {
			cfg.Mesh.Format = config.FormatASCII
		}
		if cmd.Flags().Changed("resolution") {
			cfg.Mesh.Resolution, _ = cmd.Flags().GetFloat64("resolution")
			if cfg.Mesh.Resolution <= 0 {
				return fmt.Errorf("--resolution must be positive")
			}
		}
		sequential, _ := cmd.Flags().GetBool("sequential")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng := vessel.New(
			vessel.WithLogger(logger),
			vessel.WithParallelPrimitives(!sequential),
		)

		out := cmd.OutOrStdout()
		if tui.IsTerminal(out) {
			tui.PrintBanner(out)
		}

		model, err := eng.Build(ctx, cfg)
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		path, n, err := eng.WriteFile(ctx, model, cfg)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		return tui.Print(out, tui.BuildReport(model, path, n))
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("output", "o", "", "Output file path (overrides output.folder and output.filename)")
	buildCmd.Flags().Bool("ascii", false, "Write ASCII STL instead of binary")
	buildCmd.Flags().Float64("resolution", 0, "Mesh cell size (overrides mesh.resolution)")
	buildCmd.Flags().Bool("sequential", false, "Build primary branches one at a time")
}
