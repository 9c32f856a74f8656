package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// enabledModsFile is the on-disk layout. The game reads this file too, so the
// key keeps the game's casing.
type enabledModsFile struct {
	EnabledModifications []string `json:"EnabledModifications"`
}

// EnabledMods is the set of modifications the game loads.
// Every change is written to disk immediately.
type EnabledMods struct {
	path string
	ids  []string
}

// LoadEnabledMods reads the enabled modifications at path. A missing file yields an empty set.
func LoadEnabledMods(path string) (*EnabledMods, error) {
	e := &EnabledMods{path: path}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return e, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to open enabled mods file '%s': %w", path, err)
	}
	defer f.Close()

	var data enabledModsFile
	if err := json.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode enabled mods file '%s': %w", path, err)
	}
	for _, id := range data.EnabledModifications {
		if !slices.Contains(e.ids, id) {
			e.ids = append(e.ids, id)
		}
	}
	return e, nil
}

// Contains reports whether id is enabled.
func (e *EnabledMods) Contains(id string) bool {
	return slices.Contains(e.ids, id)
}

// IDs returns the enabled identifiers in persisted order.
func (e *EnabledMods) IDs() []string {
	return slices.Clone(e.ids)
}

// Add enables id. It reports whether anything changed; nothing is written when id was already enabled.
func (e *EnabledMods) Add(id string) (bool, error) {
	if e.Contains(id) {
		return false, nil
	}
	e.ids = append(e.ids, id)
	return true, e.save()
}

// Remove disables id. It reports whether anything changed; nothing is written when id was not enabled.
func (e *EnabledMods) Remove(id string) (bool, error) {
	idx := slices.Index(e.ids, id)
	if idx < 0 {
		return false, nil
	}
	e.ids = slices.Delete(e.ids, idx, idx+1)
	return true, e.save()
}

func (e *EnabledMods) save() error {
	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", e.path, err)
	}

	data, err := json.MarshalIndent(enabledModsFile{EnabledModifications: e.ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode enabled mods: %w", err)
	}
	if err := os.WriteFile(e.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write enabled mods file '%s': %w", e.path, err)
	}
	return nil
}
