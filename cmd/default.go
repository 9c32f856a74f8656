package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	// Without a subcommand, show the mod list
	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return listCmd.RunE(cmd, nil)
	}
}
