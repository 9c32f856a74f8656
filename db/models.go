package db

import (
	"gorm.io/gorm"
)

// Mod represents an installed mod in the database
type Mod struct {
	gorm.Model
	ModID      string `gorm:"uniqueIndex:idx_mod_id_type"` // Identifier from Info.json
	Type       string `gorm:"uniqueIndex:idx_mod_id_type"` // UMM or Owlcat
	Name       string
	Version    string // Installed version
	InstallDir string // Directory the archive was extracted to
}

// CachedMod represents the snapshot of a previously installed version of a mod
type CachedMod struct {
	gorm.Model
	ModID       string `gorm:"uniqueIndex:idx_cached_mod_id_type"`
	Type        string `gorm:"uniqueIndex:idx_cached_mod_id_type"`
	Name        string
	Version     string // Version contained in the snapshot
	ArchivePath string // Zip holding the snapshot
	InstallDir  string // Directory the snapshot was taken from
}
