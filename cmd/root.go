package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// configPath is the directory searched for the .env file.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "modfinder",
	Short: "Install and manage UMM mods",
	Long: `modfinder downloads, installs, updates and removes Unity Mod Manager mods.
Previously installed versions are kept in a local cache so that reinstalls and
rollbacks work offline.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing the .env file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
