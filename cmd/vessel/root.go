package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/vessel/internal/logging"
	"github.com/aretw0/vessel/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vessel",
	Short: "Vessel generates hollow vascular tree models",
	Long: `Vessel builds a branching tube network (main branch, primary and secondary
branches, optional adapter) as a single watertight hollow solid and exports it as STL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
}

// newLogger builds the stderr logger from the persistent flags.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	name, _ := cmd.Flags().GetString("log-level")
	asJSON, _ := cmd.Flags().GetBool("log-json")
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level, asJSON), nil
}

// loadConfig reads the document named by the first argument, or returns the defaults.
func loadConfig(args []string) (*config.Config, error) {
	if len(args) == 0 {
		return config.Default(), nil
	}
	return config.Load(args[0])
}
