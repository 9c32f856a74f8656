package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings holds the user configurable paths. It is loaded once at startup
// and saved after every change.
type Settings struct {
	GamePath     string `mapstructure:"game_path"`
	AutoGamePath string `mapstructure:"auto_game_path"` // Detected, used when GamePath is empty

	path string
}

// LoadSettings reads the settings document at path. A missing file yields empty settings.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to check settings file '%s': %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings file '%s': %w", path, err)
	}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to decode settings file '%s': %w", path, err)
	}
	return s, nil
}

// Save writes the settings back to the file they were loaded from.
func (s *Settings) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("game_path", s.GamePath)
	v.Set("auto_game_path", s.AutoGamePath)
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write settings file '%s': %w", s.path, err)
	}
	return nil
}

// Path returns the file the settings are persisted to.
func (s *Settings) Path() string {
	return s.path
}

// EffectiveGamePath returns the configured game path, falling back to the detected one.
func (s *Settings) EffectiveGamePath() string {
	if s.GamePath != "" {
		return s.GamePath
	}
	return s.AutoGamePath
}

// ModInstallRoot returns the directory UMM mods are extracted to.
func (s *Settings) ModInstallRoot() (string, error) {
	gamePath := s.EffectiveGamePath()
	if gamePath == "" {
		return "", fmt.Errorf("game path is not set, run 'modfinder settings --game-path <dir>'")
	}
	return filepath.Join(gamePath, "Mods"), nil
}
