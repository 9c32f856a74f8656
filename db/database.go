package db

import (
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Open opens the SQLite database at dbPath and migrates the models.
func Open(dbPath string) (*gorm.DB, error) {
	newLogger := gormlogger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      false,
			Colorful:                  true,
		},
	)

	gdb, err := gorm.Open(gormlite.Open(dbPath), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := gdb.AutoMigrate(&Mod{}, &CachedMod{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return gdb, nil
}

// SaveMod inserts m or updates the row with the same mod ID and type.
func SaveMod(gdb *gorm.DB, m *Mod) error {
	return gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mod_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "version", "install_dir", "updated_at"}),
	}).Create(m).Error
}

// DeleteMod removes the installed mod row for the given mod ID and type.
func DeleteMod(gdb *gorm.DB, modID, modType string) error {
	return gdb.Unscoped().Where("mod_id = ? AND type = ?", modID, modType).Delete(&Mod{}).Error
}

// InstalledMods returns every installed mod.
func InstalledMods(gdb *gorm.DB) ([]Mod, error) {
	var mods []Mod
	if err := gdb.Order("mod_id").Find(&mods).Error; err != nil {
		return nil, err
	}
	return mods, nil
}

// SaveCachedMod inserts c or replaces the snapshot row for the same mod ID and type.
func SaveCachedMod(gdb *gorm.DB, c *CachedMod) error {
	return gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mod_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "version", "archive_path", "install_dir", "updated_at"}),
	}).Create(c).Error
}

// FindCachedMod returns the snapshot row for the given mod ID and type.
func FindCachedMod(gdb *gorm.DB, modID, modType string) (*CachedMod, error) {
	var c CachedMod
	if err := gdb.Where("mod_id = ? AND type = ?", modID, modType).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
