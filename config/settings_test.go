package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettingsMissingFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Settings.json")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.GamePath != "" || s.AutoGamePath != "" {
		t.Errorf("Expected empty settings, got %+v", s)
	}
	if _, err := s.ModInstallRoot(); err == nil {
		t.Error("Expected error when no game path is set")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "Settings.json")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	s.GamePath = "/games/Wrath"
	s.AutoGamePath = "/steam/Wrath"
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings after save failed: %v", err)
	}
	if loaded.GamePath != s.GamePath || loaded.AutoGamePath != s.AutoGamePath {
		t.Errorf("Round trip mismatch: saved %+v, loaded %+v", s, loaded)
	}
}

func TestSettingsModInstallRoot(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		expected string
	}{
		{"explicit path", Settings{GamePath: "/a", AutoGamePath: "/b"}, filepath.Join("/a", "Mods")},
		{"detected path", Settings{AutoGamePath: "/b"}, filepath.Join("/b", "Mods")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.settings.ModInstallRoot()
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ModInstallRoot() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestSettingsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Error("Expected error for malformed settings")
	}
}
