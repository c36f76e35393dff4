package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden via -ldflags for release builds.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the octosourcer version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s %s\n", app, version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
