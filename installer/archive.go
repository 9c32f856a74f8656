package installer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"modfinder/mod"

	"github.com/Masterminds/semver/v3"
	"github.com/klauspost/compress/zip"
	archiver "github.com/mholt/archiver/v3"
	"go.uber.org/zap"
)

const manifestFileName = "Info.json"

var utf8BOM = []byte("\xef\xbb\xbf")

// ArchiveManifest is the Info.json shipped inside a UMM mod archive.
type ArchiveManifest struct {
	ID          string `json:"Id"`
	Version     string `json:"Version"`
	DisplayName string `json:"DisplayName"`
	Author      string `json:"Author"`
}

// manifestEntry is the manifest found in an archive together with its path in the archive.
type manifestEntry struct {
	name     string // Slash separated path inside the archive
	manifest ArchiveManifest
}

// atRoot reports whether the manifest sits at the top level of the archive.
func (e manifestEntry) atRoot() bool {
	return !strings.Contains(e.name, "/")
}

// topDir returns the first directory of the manifest path.
func (e manifestEntry) topDir() string {
	return strings.SplitN(e.name, "/", 2)[0]
}

// readManifest locates and decodes the single manifest of the zip at archivePath.
func readManifest(archivePath string) (manifestEntry, error) {
	var (
		entry     manifestEntry
		found     int
		decodeErr error
	)

	err := archiver.NewZip().Walk(archivePath, func(f archiver.File) error {
		if f.IsDir() || !strings.EqualFold(f.Name(), manifestFileName) {
			return nil
		}
		found++
		if found > 1 {
			return archiver.ErrStopWalk
		}

		header, ok := f.Header.(zip.FileHeader)
		if !ok {
			decodeErr = fmt.Errorf("unexpected header type %T", f.Header)
			return archiver.ErrStopWalk
		}
		name, err := entryName(header.Name)
		if err != nil {
			decodeErr = err
			return archiver.ErrStopWalk
		}
		entry.name = name

		data, err := io.ReadAll(f)
		if err != nil {
			decodeErr = fmt.Errorf("failed to read %s: %w", header.Name, err)
			return archiver.ErrStopWalk
		}
		if entry.manifest, err = decodeManifest(data); err != nil {
			decodeErr = fmt.Errorf("failed to decode %s: %w", header.Name, err)
			return archiver.ErrStopWalk
		}
		return nil
	})
	if err != nil {
		return manifestEntry{}, fmt.Errorf("failed to read archive '%s': %w", archivePath, err)
	}

	switch {
	case found == 0:
		return manifestEntry{}, ErrManifestNotFound
	case found > 1:
		return manifestEntry{}, ErrMultipleManifests
	case decodeErr != nil:
		return manifestEntry{}, decodeErr
	}
	return entry, nil
}

// decodeManifest parses Info.json content, tolerating a UTF-8 byte order mark.
func decodeManifest(data []byte) (ArchiveManifest, error) {
	var m ArchiveManifest
	err := json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), &m)
	return m, err
}

// entryName normalizes the path of an archive entry to a relative slash
// separated path. Entries that climb out of the archive are rejected.
func entryName(name string) (string, error) {
	cleaned := path.Clean(strings.TrimLeft(strings.ReplaceAll(name, `\`, "/"), "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("illegal path %q in archive", name)
	}
	return cleaned, nil
}

// validModID rejects identifiers that would escape the install root when used as a directory.
func validModID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

// InstallFromArchive installs the mod in the zip at archivePath.
// rec is the mod the archive is expected to contain and may be nil for local archives.
func (i *Installer) InstallFromArchive(archivePath string, rec *mod.Record, isUpdate bool) Result {
	entry, err := readManifest(archivePath)
	if err != nil {
		return failed(err)
	}
	info := entry.manifest

	if !validModID(info.ID) {
		return failed(fmt.Errorf("invalid mod id %q in %s", info.ID, manifestFileName))
	}
	if rec != nil && rec.ID().ID != info.ID {
		return failed(fmt.Errorf("%w: found %q in archive but expected %q", ErrManifestIDMismatch, info.ID, rec.ID().ID))
	}

	version, err := semver.NewVersion(info.Version)
	if err != nil {
		return failed(fmt.Errorf("invalid version %q in %s: %w", info.Version, manifestFileName, err))
	}

	destination := i.root
	installDir := filepath.Join(i.root, filepath.FromSlash(entry.topDir()))
	if entry.atRoot() {
		i.log.Debugw("Creating mod directory", zap.String("mod", info.ID))
		destination = filepath.Join(i.root, info.ID)
		installDir = destination
	}
	if err := mod.CheckInstallDir(i.root, installDir); err != nil {
		return failed(err)
	}

	// Snapshot the current files before they get overwritten
	if isUpdate && rec != nil {
		if err := i.cache.Cache(rec); err != nil {
			return failed(fmt.Errorf("failed to cache current version of %s: %w", info.ID, err))
		}
	}

	z := archiver.NewZip()
	z.OverwriteExisting = true
	z.MkdirAll = true
	if err := z.Unarchive(archivePath, destination); err != nil {
		return failed(fmt.Errorf("failed to extract to '%s': %w", destination, err))
	}

	if rec == nil {
		rec = mod.NewRecord(localManifest(info))
	}
	target := i.registry.GetOrAdd(rec)
	for _, r := range uniqueRecords(rec, target) {
		r.Installed = version
		r.State = mod.Installed
		r.InstallDir = installDir
	}

	i.log.Infow("Successfully installed mod", zap.String("mod", target.Name()), zap.String("version", version.String()), zap.String("dir", installDir))
	return installed(target)
}

// localManifest builds the manifest of a mod only known from its archive.
func localManifest(info ArchiveManifest) mod.Manifest {
	return mod.Manifest{
		ID:     mod.ID{ID: info.ID, Type: mod.TypeUMM},
		Name:   info.DisplayName,
		Author: info.Author,
	}
}

// IsManifestError reports whether err means the archive itself is not a valid mod.
func IsManifestError(err error) bool {
	return errors.Is(err, ErrManifestNotFound) || errors.Is(err, ErrMultipleManifests) || errors.Is(err, ErrManifestIDMismatch)
}
