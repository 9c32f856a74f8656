package cmd

import (
	"modfinder/db"
	"modfinder/installer"
	"modfinder/logger"
	"modfinder/mod"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// importInstalledMods scans the mods directory and adds unknown mods to the database.
// It returns the number of mods imported.
func importInstalledMods(gdb *gorm.DB, root string) (int, error) {
	logger.Log.Info("Scanning for existing mods...")

	found, err := installer.ScanInstalled(root, logger.Log)
	if err != nil {
		return 0, err
	}

	known, err := db.InstalledMods(gdb)
	if err != nil {
		return 0, err
	}
	tracked := make(map[mod.ID]bool, len(known))
	for _, row := range known {
		tracked[mod.ID{ID: row.ModID, Type: mod.Type(row.Type)}] = true
	}

	imported := 0
	for _, rec := range found {
		if tracked[rec.ID()] {
			continue
		}
		if err := persistRecord(gdb, rec); err != nil {
			logger.Log.Errorw("Failed to save imported mod to DB", zap.String("mod", rec.ID().String()), zap.Error(err))
			continue
		}
		logger.Log.Infow("Imported existing mod", zap.String("mod", rec.ID().String()), zap.String("version", rec.InstalledString()))
		imported++
	}
	return imported, nil
}
