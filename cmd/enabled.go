package cmd

import (
	"fmt"

	"modfinder/config"
	"modfinder/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var enableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable an Owlcat modification in the game",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setEnabled(args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable an Owlcat modification in the game",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setEnabled(args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(enableCmd, disableCmd)
}

// setEnabled adds or removes id from the game's enabled modifications.
func setEnabled(id string, enable bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	enabled, err := config.LoadEnabledMods(cfg.EnabledModsPath)
	if err != nil {
		logger.Log.Errorw("Failed to load enabled modifications", zap.String("path", cfg.EnabledModsPath), zap.Error(err))
		return err
	}

	return toggleEnabled(enabled, id, enable)
}

func toggleEnabled(enabled *config.EnabledMods, id string, enable bool) error {
	log := logger.Log.With(zap.String("mod", id), zap.Bool("enable", enable))

	var (
		changed bool
		err     error
	)
	if enable {
		changed, err = enabled.Add(id)
	} else {
		changed, err = enabled.Remove(id)
	}
	if err != nil {
		log.Errorw("Failed to save enabled modifications", zap.Error(err))
		return err
	}

	state := "disabled"
	if enable {
		state = "enabled"
	}
	if !changed {
		fmt.Printf("%s is already %s\n", id, state)
		return nil
	}
	log.Infow("Updated enabled modifications")
	fmt.Printf("%s %s\n", id, state)
	return nil
}
