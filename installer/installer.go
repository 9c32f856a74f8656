// Package installer installs, updates and uninstalls UMM mods.
//
// Every failure of an install is reported through Result; nothing panics past
// Install or InstallFromArchive. Installs of the same mod must not run
// concurrently.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"modfinder/mod"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedType    = errors.New("mod type is not supported")
	ErrUnknownSource      = errors.New("unknown mod source")
	ErrManifestNotFound   = errors.New("unable to find manifest")
	ErrMultipleManifests  = errors.New("archive contains more than one manifest")
	ErrManifestIDMismatch = errors.New("mod id mismatch")
)

// Result is the outcome of an install.
type Result struct {
	State  mod.InstallState
	Err    error
	Record *mod.Record // The registry record, set on success
}

// OK reports whether the install succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Message returns the error text, empty on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func failed(err error) Result {
	return Result{State: mod.Failed, Err: err}
}

func installed(rec *mod.Record) Result {
	return Result{State: mod.Installed, Record: rec}
}

// Cache keeps snapshots of installed mods.
type Cache interface {
	// TryRestore puts the snapshot of id back in place below root and reports whether it did.
	TryRestore(id mod.ID, root string) (mod.Snapshot, bool)
	// Cache snapshots the currently installed files of rec.
	Cache(rec *mod.Record) error
}

// Downloader fetches a remote file.
type Downloader interface {
	DownloadFile(ctx context.Context, log *zap.SugaredLogger, destinationPath, downloadURL string) error
}

// Installer installs mods into root and keeps registry up to date.
type Installer struct {
	root       string
	registry   *mod.Registry
	cache      Cache
	downloader Downloader
	log        *zap.SugaredLogger

	tempDir string // Where downloads are stored, empty for the OS default
}

// New returns an Installer extracting mods into root.
func New(root string, registry *mod.Registry, cache Cache, downloader Downloader, log *zap.SugaredLogger) *Installer {
	return &Installer{
		root:       root,
		registry:   registry,
		cache:      cache,
		downloader: downloader,
		log:        log,
	}
}

// Root returns the directory mods are installed into.
func (i *Installer) Root() string {
	return i.root
}

// Install installs the latest version of rec, or updates it when isUpdate is set.
// Fresh installs are restored from the cache when a snapshot exists.
func (i *Installer) Install(ctx context.Context, rec *mod.Record, isUpdate bool) Result {
	if rec.ID().Type != mod.TypeUMM {
		return failed(fmt.Errorf("%w: %s mods cannot be installed yet", ErrUnsupportedType, rec.ID().Type))
	}

	if !isUpdate {
		if snap, ok := i.cache.TryRestore(rec.ID(), i.root); ok {
			target := i.registry.GetOrAdd(rec)
			for _, r := range uniqueRecords(rec, target) {
				if snap.Version != nil {
					r.Installed = snap.Version
				}
				r.InstallDir = snap.InstallDir
				r.State = mod.Installed
			}
			i.log.Infow("Restored mod from cache", zap.String("mod", rec.ID().String()), zap.String("version", target.InstalledString()))
			return installed(target)
		}
	}

	if rec.CanInstall() {
		return i.installFromRemote(ctx, rec, isUpdate)
	}

	return failed(ErrUnknownSource)
}

func (i *Installer) installFromRemote(ctx context.Context, rec *mod.Record, isUpdate bool) Result {
	url, err := DownloadURL(rec.Manifest)
	if err != nil {
		return failed(err)
	}

	tmp, err := os.CreateTemp(i.tempDir, "modfinder-*.zip")
	if err != nil {
		return failed(fmt.Errorf("failed to create temporary file: %w", err))
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	log := i.log.With(zap.String("mod", rec.ID().String()))
	log.Infow("Fetching zip", zap.String("url", url))

	if err := i.downloader.DownloadFile(ctx, log, tmpPath, url); err != nil {
		return failed(fmt.Errorf("failed to download %s: %w", url, err))
	}

	return i.InstallFromArchive(tmpPath, rec, isUpdate)
}

// DownloadURL returns the archive URL of the latest release in m.
// Nexus mods are fetched from their GitHub release mirror, everything else from the release URL.
func DownloadURL(m mod.Manifest) (string, error) {
	if m.Service.IsNexus() && m.Service.Nexus.DownloadMirror != "" && m.Latest.Number != nil {
		mirror := strings.TrimSuffix(m.Service.Nexus.DownloadMirror, "/")
		version := m.Latest.Number.Original()
		// e.g. https://github.com/Org/ModsMirror/releases/download/BubbleBuffs%2F5.0.0/BubbleBuffs-5.0.0.zip
		return fmt.Sprintf("%s/releases/download/%s%%2F%s/%s-%s.zip", mirror, m.ID.ID, version, m.ID.ID, version), nil
	}
	if m.Latest.URL != "" {
		return m.Latest.URL, nil
	}
	return "", ErrUnknownSource
}

// Uninstall snapshots rec into the cache and removes its files.
func (i *Installer) Uninstall(rec *mod.Record) error {
	if rec.State != mod.Installed || rec.InstallDir == "" {
		return fmt.Errorf("%s is not installed", rec.Name())
	}
	if err := mod.CheckInstallDir(i.root, rec.InstallDir); err != nil {
		return fmt.Errorf("refusing to uninstall %s: %w", rec.Name(), err)
	}

	if err := i.cache.Cache(rec); err != nil {
		return fmt.Errorf("failed to cache %s before removal: %w", rec.Name(), err)
	}
	if err := os.RemoveAll(rec.InstallDir); err != nil {
		return fmt.Errorf("failed to remove '%s': %w", rec.InstallDir, err)
	}

	i.log.Infow("Uninstalled mod", zap.String("mod", rec.ID().String()), zap.String("dir", rec.InstallDir))
	rec.State = mod.NotInstalled
	rec.Installed = nil
	rec.InstallDir = ""
	return nil
}

func uniqueRecords(a, b *mod.Record) []*mod.Record {
	if a == b {
		return []*mod.Record{a}
	}
	return []*mod.Record{a, b}
}
