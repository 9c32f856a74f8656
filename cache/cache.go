// Package cache keeps a zipped snapshot of the last installed version of each
// mod so it can be put back without downloading it again.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modfinder/db"
	"modfinder/mod"

	"github.com/Masterminds/semver/v3"
	archiver "github.com/mholt/archiver/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store is a helper to cache/restore installed mods locally
type Store struct {
	db  *gorm.DB
	dir string
	log *zap.SugaredLogger
}

// New returns a Store keeping its snapshots under dir.
func New(gdb *gorm.DB, dir string, log *zap.SugaredLogger) *Store {
	return &Store{db: gdb, dir: dir, log: log}
}

func (s *Store) archivePath(id mod.ID) string {
	return filepath.Join(s.dir, string(id.Type), id.ID+".zip")
}

// Cache snapshots the installed files of rec, replacing any previous snapshot.
// A record without install directory on disk has nothing to snapshot.
func (s *Store) Cache(rec *mod.Record) error {
	if rec.InstallDir == "" {
		return nil
	}
	if _, err := os.Stat(rec.InstallDir); os.IsNotExist(err) {
		s.log.Debugw("Nothing to cache, install directory is missing", zap.String("mod", rec.ID().String()), zap.String("dir", rec.InstallDir))
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to check install directory '%s': %w", rec.InstallDir, err)
	}

	dest := s.archivePath(rec.ID())
	z := archiver.NewZip()
	z.OverwriteExisting = true
	z.MkdirAll = true
	if err := z.Archive([]string{rec.InstallDir}, dest); err != nil {
		return fmt.Errorf("failed to snapshot '%s': %w", rec.InstallDir, err)
	}

	row := db.CachedMod{
		ModID:       rec.ID().ID,
		Type:        string(rec.ID().Type),
		Name:        rec.Name(),
		Version:     rec.InstalledString(),
		ArchivePath: dest,
		InstallDir:  rec.InstallDir,
	}
	if err := db.SaveCachedMod(s.db, &row); err != nil {
		return fmt.Errorf("failed to record snapshot of %s: %w", rec.ID(), err)
	}

	s.log.Infow("Cached mod", zap.String("mod", rec.ID().String()), zap.String("version", row.Version), zap.String("archive", dest))
	return nil
}

// Lookup returns the snapshot recorded for id.
func (s *Store) Lookup(id mod.ID) (mod.Snapshot, bool) {
	row, err := db.FindCachedMod(s.db, id.ID, string(id.Type))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warnw("Failed to query cache", zap.String("mod", id.String()), zap.Error(err))
		}
		return mod.Snapshot{}, false
	}
	return snapshotFromRow(id, row), true
}

// TryRestore puts the snapshot of id back in place of whatever is installed.
// It reports whether a snapshot existed and was restored. Snapshots whose
// install directory is not inside root are never restored.
func (s *Store) TryRestore(id mod.ID, root string) (mod.Snapshot, bool) {
	row, err := db.FindCachedMod(s.db, id.ID, string(id.Type))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warnw("Failed to query cache", zap.String("mod", id.String()), zap.Error(err))
		}
		return mod.Snapshot{}, false
	}

	log := s.log.With(zap.String("mod", id.String()), zap.String("archive", row.ArchivePath))

	if err := mod.CheckInstallDir(root, row.InstallDir); err != nil {
		log.Warnw("Refusing to restore snapshot", zap.Error(err))
		return mod.Snapshot{}, false
	}

	if _, err := os.Stat(row.ArchivePath); err != nil {
		log.Warnw("Cached archive is not readable", zap.Error(err))
		return mod.Snapshot{}, false
	}

	if err := os.RemoveAll(row.InstallDir); err != nil {
		log.Warnw("Failed to remove current install", zap.String("dir", row.InstallDir), zap.Error(err))
		return mod.Snapshot{}, false
	}

	z := archiver.NewZip()
	z.OverwriteExisting = true
	z.MkdirAll = true
	if err := z.Unarchive(row.ArchivePath, filepath.Dir(row.InstallDir)); err != nil {
		log.Errorw("Failed to restore cached mod", zap.Error(err))
		return mod.Snapshot{}, false
	}

	if err := db.SaveMod(s.db, &db.Mod{
		ModID:      row.ModID,
		Type:       row.Type,
		Name:       row.Name,
		Version:    row.Version,
		InstallDir: row.InstallDir,
	}); err != nil {
		log.Warnw("Failed to update database record", zap.Error(err))
	}

	log.Infow("Restored mod from cache", zap.String("version", row.Version))
	return snapshotFromRow(id, row), true
}

func snapshotFromRow(id mod.ID, row *db.CachedMod) mod.Snapshot {
	snap := mod.Snapshot{ID: id, InstallDir: row.InstallDir}
	if v, err := semver.NewVersion(row.Version); err == nil {
		snap.Version = v
	}
	return snap
}
