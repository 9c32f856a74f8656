package mod

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Type is the mod loader a mod is built for.
type Type string

const (
	TypeUMM    Type = "UMM"
	TypeOwlcat Type = "Owlcat"
)

// ID identifies a mod of a given type.
type ID struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`
}

func (id ID) String() string {
	return fmt.Sprintf("%s:%s", id.Type, id.ID)
}

// NexusService holds the Nexus specific download information.
type NexusService struct {
	DownloadMirror string `json:"downloadMirror"`
}

// Service describes where a mod is hosted.
type Service struct {
	Nexus *NexusService `json:"nexus,omitempty"`
}

// IsNexus reports whether the mod is hosted on Nexus.
func (s Service) IsNexus() bool {
	return s.Nexus != nil
}

// Version is a released version of a mod with an optional direct download URL.
type Version struct {
	Number *semver.Version `json:"version"`
	URL    string          `json:"url,omitempty"`
}

func (v Version) String() string {
	if v.Number == nil {
		return ""
	}
	return v.Number.String()
}

// NewerThan reports whether v is a newer release than other.
// A version without a number is never newer; any version is newer than nil.
func (v Version) NewerThan(other *semver.Version) bool {
	if v.Number == nil {
		return false
	}
	if other == nil {
		return true
	}
	return v.Number.GreaterThan(other)
}

// Manifest is the catalog entry of a mod.
type Manifest struct {
	ID      ID      `json:"id"`
	Name    string  `json:"name"`
	Author  string  `json:"author,omitempty"`
	Service Service `json:"service"`
	Latest  Version `json:"latest"`
}

// InstallState is the install state of a mod.
type InstallState int

const (
	NotInstalled InstallState = iota
	Installed
	Failed
)

func (s InstallState) String() string {
	switch s {
	case NotInstalled:
		return "not-installed"
	case Installed:
		return "installed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record is the runtime state of a mod.
type Record struct {
	Manifest  Manifest
	Installed *semver.Version
	State     InstallState
	// InstallDir is the directory the mod was extracted to, empty when unknown.
	InstallDir string
	Enabled    bool
}

// NewRecord creates a not installed record for the given manifest.
func NewRecord(m Manifest) *Record {
	return &Record{Manifest: m, State: NotInstalled}
}

func (r *Record) ID() ID {
	return r.Manifest.ID
}

func (r *Record) Name() string {
	if r.Manifest.Name != "" {
		return r.Manifest.Name
	}
	return r.Manifest.ID.ID
}

// Latest returns the newest known release.
func (r *Record) Latest() Version {
	return r.Manifest.Latest
}

// CanInstall reports whether there is a known download source for the mod.
func (r *Record) CanInstall() bool {
	if r.Manifest.Latest.Number == nil {
		return r.Manifest.Latest.URL != ""
	}
	if r.Manifest.Service.IsNexus() && r.Manifest.Service.Nexus.DownloadMirror != "" {
		return true
	}
	return r.Manifest.Latest.URL != ""
}

// HasUpdate reports whether an installed mod has a newer release available.
func (r *Record) HasUpdate() bool {
	return r.State == Installed && r.Manifest.Latest.NewerThan(r.Installed)
}

// InstalledString returns the installed version or an empty string.
func (r *Record) InstalledString() string {
	if r.Installed == nil {
		return ""
	}
	return r.Installed.String()
}

// Snapshot describes a cached install of a mod.
type Snapshot struct {
	ID         ID
	Version    *semver.Version
	InstallDir string
}
