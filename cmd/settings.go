package cmd

import (
	"fmt"

	"modfinder/config"
	"modfinder/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the game paths",
	Long: `Shows the stored settings. Pass --game-path or --auto-game-path to change them;
the settings file is written immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
		}

		settings, err := config.LoadSettings(cfg.SettingsPath)
		if err != nil {
			logger.Log.Errorw("Failed to load settings", zap.Error(err))
			return err
		}

		changed := false
		if cmd.Flags().Changed("game-path") {
			settings.GamePath, _ = cmd.Flags().GetString("game-path")
			changed = true
		}
		if cmd.Flags().Changed("auto-game-path") {
			settings.AutoGamePath, _ = cmd.Flags().GetString("auto-game-path")
			changed = true
		}

		if changed {
			if err := settings.Save(); err != nil {
				logger.Log.Errorw("Failed to save settings", zap.String("path", settings.Path()), zap.Error(err))
				return err
			}
			logger.Log.Infow("Settings saved", zap.String("path", settings.Path()))
		}

		printSettings(settings)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.Flags().String("game-path", "", "Game installation directory")
	settingsCmd.Flags().String("auto-game-path", "", "Detected game installation directory, used when --game-path is empty")
}

func printSettings(s *config.Settings) {
	orNone := func(v string) string {
		if v == "" {
			return "(not set)"
		}
		return v
	}
	fmt.Printf("Settings file:  %s\n", s.Path())
	fmt.Printf("Game path:      %s\n", orNone(s.GamePath))
	fmt.Printf("Auto game path: %s\n", orNone(s.AutoGamePath))
	if root, err := s.ModInstallRoot(); err == nil {
		fmt.Printf("Mods directory: %s\n", root)
	}
}
