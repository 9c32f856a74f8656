package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modfinder/mod"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

// ScanInstalled looks for UMM mods already present below root, one per
// directory holding an Info.json. Directories without a usable manifest are
// skipped and logged. A missing root yields no mods.
func ScanInstalled(root string, log *zap.SugaredLogger) ([]*mod.Record, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read mods directory '%s': %w", root, err)
	}

	var found []*mod.Record
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		rec, err := scanModDir(dir)
		if err != nil {
			log.Debugw("Skipping directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		found = append(found, rec)
	}
	return found, nil
}

func scanModDir(dir string) (*mod.Record, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		if f.IsDir() || !strings.EqualFold(f.Name(), manifestFileName) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, err
		}
		info, err := decodeManifest(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", f.Name(), err)
		}
		if !validModID(info.ID) {
			return nil, fmt.Errorf("invalid mod id %q", info.ID)
		}
		version, err := semver.NewVersion(info.Version)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", info.Version, err)
		}

		rec := mod.NewRecord(localManifest(info))
		rec.Installed = version
		rec.State = mod.Installed
		rec.InstallDir = dir
		return rec, nil
	}
	return nil, ErrManifestNotFound
}
