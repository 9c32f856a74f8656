package cmd

import (
	"fmt"

	"modfinder/logger"
	"modfinder/mod"
	"modfinder/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback <id>",
	Short: "Rollback a mod to its cached version",
	Long: `Rollback a mod to the version kept in the local cache.
The cache holds the files that were installed before the last update or
uninstall of the mod.

Example: modfinder rollback BubbleBuffs`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := bootstrap(cmd.Context(), configPath)
		rec, err := a.findRecord(args[0])
		if err != nil {
			return err
		}
		if err := a.rollback(rec); err != nil {
			return err
		}
		fmt.Printf("Successfully rolled back %s to version %s\n", rec.Name(), rec.InstalledString())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rollbackCmd)
}

// rollback replaces the installed files of rec with its cached snapshot.
func (a *app) rollback(rec *mod.Record) error {
	log := logger.Log.With(zap.String("mod", rec.ID().String()))

	root, err := a.settings.ModInstallRoot()
	if err != nil {
		return err
	}

	cached, ok := a.cache.Lookup(rec.ID())
	if !ok {
		return fmt.Errorf("no cached version of %s", rec.Name())
	}
	log.Infow("Attempting rollback", zap.String("from", rec.InstalledString()), zap.String("to", versionText(cached.Version)))

	snap, ok := a.cache.TryRestore(rec.ID(), root)
	if !ok {
		return fmt.Errorf("failed to restore cached version of %s", rec.Name())
	}

	if snap.Version != nil {
		rec.Installed = snap.Version
	}
	rec.InstallDir = snap.InstallDir
	rec.State = mod.Installed
	if err := persistRecord(a.db, rec); err != nil {
		log.Warnw("Failed to update database record", zap.Error(err))
	}

	log.Infow(ui.Colorize("Rollback successful", ui.Status(rec)), zap.String("version", rec.InstalledString()))
	return nil
}
