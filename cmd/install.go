package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"modfinder/installer"
	"modfinder/logger"
	"modfinder/mod"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var installCmd = &cobra.Command{
	Use:   "install <id>",
	Short: "Install the latest version of a mod",
	Long: `Installs a mod from the catalog. A previously uninstalled version is restored
from the local cache when available, otherwise the latest release is downloaded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		a := bootstrap(cmd.Context(), configPath)

		rec, err := a.findRecord(args[0])
		if err != nil {
			return err
		}
		if rec.State == mod.Installed && !force {
			fmt.Printf("%s %s is already installed\n", rec.Name(), rec.InstalledString())
			return nil
		}

		inst, err := a.newInstaller()
		if err != nil {
			return err
		}
		if err := a.runInstall(cmd.Context(), inst, rec, rec.State == mod.Installed); err != nil {
			return err
		}
		fmt.Printf("Installed %s %s\n", rec.Name(), rec.InstalledString())
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update one mod, or every installed mod with a newer release",
	Long: `Updates a mod to its latest release. The installed files are cached first so
the update can be rolled back. Without an argument every installed mod with an
available update is updated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		a := bootstrap(cmd.Context(), configPath)

		inst, err := a.newInstaller()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			rec, err := a.findRecord(args[0])
			if err != nil {
				return err
			}
			if rec.State != mod.Installed {
				return fmt.Errorf("%s is not installed", rec.Name())
			}
			if !rec.HasUpdate() && !force {
				fmt.Printf("%s is up to date (%s)\n", rec.Name(), rec.InstalledString())
				return nil
			}
			if err := a.runInstall(cmd.Context(), inst, rec, true); err != nil {
				return err
			}
			fmt.Printf("Updated %s to %s\n", rec.Name(), rec.InstalledString())
			return nil
		}

		pending := pendingUpdates(a.registry.All(), force)
		if len(pending) == 0 {
			fmt.Println("All mods are up to date")
			return nil
		}

		var errs []error
		for _, rec := range pending {
			if err := a.runInstall(cmd.Context(), inst, rec, true); err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Printf("Updated %s to %s\n", rec.Name(), rec.InstalledString())
		}
		fmt.Printf("Updated %d/%d mods\n", len(pending)-len(errs), len(pending))
		return errors.Join(errs...)
	},
}

// pendingUpdates returns the installed records that should be updated.
func pendingUpdates(records []*mod.Record, force bool) []*mod.Record {
	var pending []*mod.Record
	for _, rec := range records {
		if rec.State != mod.Installed || rec.ID().Type != mod.TypeUMM {
			continue
		}
		if rec.HasUpdate() || (force && rec.CanInstall()) {
			pending = append(pending, rec)
		}
	}
	return pending
}

var installFileCmd = &cobra.Command{
	Use:   "install-file <zip>",
	Short: "Install a mod from a local zip archive",
	Long: `Installs a mod from a zip archive on disk. The archive must contain exactly
one Info.json manifest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := bootstrap(cmd.Context(), configPath)
		inst, err := a.newInstaller()
		if err != nil {
			return err
		}

		rec, err := a.installFile(inst, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Installed %s %s\n", rec.Name(), rec.InstalledString())
		return nil
	},
}

// installFile installs the archive at archivePath and records the result.
func (a *app) installFile(inst *installer.Installer, archivePath string) (*mod.Record, error) {
	archivePath, err := filepath.Abs(archivePath)
	if err != nil {
		return nil, err
	}

	res := inst.InstallFromArchive(archivePath, nil, false)
	if installer.IsManifestError(res.Err) {
		logger.Log.Warnw("Archive is not a UMM mod", zap.String("archive", archivePath), zap.Error(res.Err))
		fmt.Printf("%s does not look like a UMM mod: %s\n", filepath.Base(archivePath), res.Message())
	}
	if err := a.finishInstall(filepath.Base(archivePath), res); err != nil {
		return nil, err
	}
	return res.Record, nil
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <id>",
	Short: "Remove an installed mod",
	Long: `Removes the files of an installed mod. The files are cached first so the mod
can be reinstalled without downloading it again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := bootstrap(cmd.Context(), configPath)
		rec, err := a.findRecord(args[0])
		if err != nil {
			return err
		}
		inst, err := a.newInstaller()
		if err != nil {
			return err
		}

		if err := inst.Uninstall(rec); err != nil {
			logger.Log.Errorw("Uninstall failed", zap.String("mod", rec.ID().String()), zap.Error(err))
			return err
		}
		if err := persistRecord(a.db, rec); err != nil {
			logger.Log.Warnw("Failed to remove mod from database", zap.String("mod", rec.ID().String()), zap.Error(err))
		}
		fmt.Printf("Uninstalled %s\n", rec.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd, updateCmd, installFileCmd, uninstallCmd)

	installCmd.Flags().BoolP("force", "f", false, "Reinstall even if the mod is already installed")
	updateCmd.Flags().BoolP("force", "f", false, "Redownload mods regardless of version")
}
