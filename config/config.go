package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

const (
	settingsFileName    = "Settings.json"
	enabledModsFileName = "OwlcatModificationManangerSettings.json"
	databaseFileName    = "modfinder.db"
	cacheDirName        = "cache"
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	DataDir     string `mapstructure:"MODFINDER_DATA_DIR"`
	GameDataDir string `mapstructure:"GAME_DATA_DIR"` // Where the game keeps its own settings
	CatalogURL  string `mapstructure:"CATALOG_URL"`
	UserAgent   string `mapstructure:"USERAGENT"`

	// Derived from DataDir and GameDataDir
	DatabasePath    string `mapstructure:"-"`
	SettingsPath    string `mapstructure:"-"`
	EnabledModsPath string `mapstructure:"-"`
	CacheDir        string `mapstructure:"-"`
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	viper.AutomaticEnv()

	for _, key := range []string{"MODFINDER_DATA_DIR", "GAME_DATA_DIR", "CATALOG_URL", "USERAGENT"} {
		if err := viper.BindEnv(key); err != nil {
			slog.Warn("Unable to bind env var", "key", key, "error", err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", err)
	}

	processConfigDefaults(&config)

	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}

	return config, nil
}

// processConfigDefaults fills in everything that was not configured.
func processConfigDefaults(config *Config) {
	if config.UserAgent == "" {
		config.UserAgent = "modfinder/dev (unknown-user)"
		slog.Warn("USERAGENT not set in config or environment, using default.")
	}

	if config.DataDir == "" {
		config.DataDir = defaultDataDir()
	}
	if config.GameDataDir == "" {
		config.GameDataDir = defaultGameDataDir()
	}

	config.DatabasePath = filepath.Join(config.DataDir, databaseFileName)
	config.SettingsPath = filepath.Join(config.DataDir, settingsFileName)
	config.CacheDir = filepath.Join(config.DataDir, cacheDirName)
	config.EnabledModsPath = filepath.Join(config.GameDataDir, enabledModsFileName)
}

// validateAndEnsureDirectories creates the data and cache directories.
// The game data directory belongs to the game and is only created on first save.
func validateAndEnsureDirectories(config *Config) error {
	if config.DataDir == "" {
		slog.Error("MODFINDER_DATA_DIR is not set and no default could be determined")
		return fmt.Errorf("MODFINDER_DATA_DIR is required")
	}

	for _, dir := range []string{config.DataDir, config.CacheDir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			slog.Info("Directory does not exist, creating it", "path", dir)
			if err := os.MkdirAll(dir, 0755); err != nil {
				slog.Error("Failed to create directory", "path", dir, "error", err)
				return err
			}
		} else if err != nil {
			slog.Error("Failed to check directory", "path", dir, "error", err)
			return err
		}
	}
	return nil
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "modfinder")
}

func defaultGameDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "LocalLow", "Owlcat Games", "Pathfinder Wrath Of The Righteous")
	}
	return filepath.Join(home, ".config", "unity3d", "Owlcat Games", "Pathfinder Wrath Of The Righteous")
}
