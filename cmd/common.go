package cmd

import (
	"context"
	"fmt"

	"modfinder/cache"
	"modfinder/config"
	"modfinder/db"
	"modfinder/installer"
	"modfinder/logger"
	"modfinder/mod"
	"modfinder/remote"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds everything a command needs. It is built once per invocation.
type app struct {
	cfg      config.Config
	settings *config.Settings
	enabled  *config.EnabledMods
	db       *gorm.DB
	registry *mod.Registry
	client   *remote.Client
	cache    *cache.Store
}

// bootstrap handles shared initialization logic for commands.
func bootstrap(ctx context.Context, path string) *app {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		logger.Log.Fatalw("Failed to load settings", zap.Error(err))
	}

	enabled, err := config.LoadEnabledMods(cfg.EnabledModsPath)
	if err != nil {
		logger.Log.Fatalw("Failed to load enabled modifications", zap.Error(err))
	}

	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log.Fatalw("Failed to open database", zap.Error(err))
	}
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	client, err := remote.NewClient(cfg)
	if err != nil {
		logger.Log.Fatalw("Failed to create client", zap.Error(err))
	}

	if root, err := settings.ModInstallRoot(); err == nil {
		if _, err := importInstalledMods(gdb, root); err != nil {
			logger.Log.Warnw("Failed to import installed mods", zap.Error(err))
		}
	}

	a := &app{
		cfg:      cfg,
		settings: settings,
		enabled:  enabled,
		db:       gdb,
		client:   client,
		cache:    cache.New(gdb, cfg.CacheDir, logger.Log),
	}
	a.registry = a.loadRegistry(ctx)
	return a
}

// loadRegistry combines the catalog with the installed mods recorded in the database.
func (a *app) loadRegistry(ctx context.Context) *mod.Registry {
	var manifests []mod.Manifest
	if a.cfg.CatalogURL == "" {
		logger.Log.Info("CATALOG_URL not set, only installed mods are known")
	} else {
		var err error
		manifests, err = a.client.GetCatalog(ctx)
		if err != nil {
			logger.Log.Warnw("Failed to fetch catalog", zap.Error(err))
		}
	}

	installed, err := db.InstalledMods(a.db)
	if err != nil {
		logger.Log.Warnw("Failed to read installed mods", zap.Error(err))
	}

	return buildRegistry(manifests, installed, a.enabled)
}

// buildRegistry creates one record per catalog manifest and installed mod.
func buildRegistry(manifests []mod.Manifest, installed []db.Mod, enabled *config.EnabledMods) *mod.Registry {
	registry := mod.NewRegistry()
	for _, m := range manifests {
		registry.GetOrAdd(mod.NewRecord(m))
	}

	for _, row := range installed {
		id := mod.ID{ID: row.ModID, Type: mod.Type(row.Type)}
		rec := registry.GetOrAdd(mod.NewRecord(mod.Manifest{ID: id, Name: row.Name}))
		rec.State = mod.Installed
		rec.InstallDir = row.InstallDir
		if v, err := semver.NewVersion(row.Version); err == nil {
			rec.Installed = v
		} else {
			logger.Log.Warnw("Invalid installed version", zap.String("mod", id.String()), zap.String("version", row.Version))
		}
	}

	if enabled != nil {
		for _, rec := range registry.All() {
			rec.Enabled = enabled.Contains(rec.ID().ID)
		}
	}
	return registry
}

// newInstaller returns an installer targeting the configured game.
func (a *app) newInstaller() (*installer.Installer, error) {
	root, err := a.settings.ModInstallRoot()
	if err != nil {
		return nil, err
	}
	return installer.New(root, a.registry, a.cache, a.client, logger.Log), nil
}

// persistRecord stores the install state of rec in the database.
func persistRecord(gdb *gorm.DB, rec *mod.Record) error {
	if rec.State != mod.Installed {
		return db.DeleteMod(gdb, rec.ID().ID, string(rec.ID().Type))
	}
	return db.SaveMod(gdb, &db.Mod{
		ModID:      rec.ID().ID,
		Type:       string(rec.ID().Type),
		Name:       rec.Name(),
		Version:    rec.InstalledString(),
		InstallDir: rec.InstallDir,
	})
}

// findRecord looks up a mod by its identifier.
func (a *app) findRecord(name string) (*mod.Record, error) {
	rec, ok := a.registry.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("mod %q not found in catalog or installed mods", name)
	}
	return rec, nil
}

// runInstall installs or updates rec and records the outcome.
func (a *app) runInstall(ctx context.Context, inst *installer.Installer, rec *mod.Record, isUpdate bool) error {
	res := inst.Install(ctx, rec, isUpdate)
	return a.finishInstall(rec.Name(), res)
}

// finishInstall saves a successful install and turns a failed one into an error.
func (a *app) finishInstall(name string, res installer.Result) error {
	log := logger.Log.With(zap.String("mod", name))
	if !res.OK() {
		log.Errorw("Install failed", zap.Error(res.Err))
		return fmt.Errorf("installing %s: %w", name, res.Err)
	}
	if err := persistRecord(a.db, res.Record); err != nil {
		log.Warnw("Failed to save mod to database", zap.Error(err))
	}
	return nil
}

// versionText formats v for output, "-" when unknown.
func versionText(v *semver.Version) string {
	if v == nil {
		return "-"
	}
	return v.String()
}
