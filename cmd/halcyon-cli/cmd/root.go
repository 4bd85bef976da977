// Package cmd implements the halcyon-cli commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "halcyon-cli",
	Short: "Halcyon site developer tool",
	Long: `halcyon-cli is the developer companion for the Halcyon site.

Available commands:
  topics     Inspect the pub/sub topics the application registers
  content    Validate and inspect the site content document

Use "halcyon-cli [command] --help" for more information about a command.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
