package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/vessel"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vessel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vessel version %s\n", strings.TrimSpace(vessel.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
