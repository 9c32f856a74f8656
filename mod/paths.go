package mod

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CheckInstallDir returns an error unless dir lies strictly inside root.
// Install directories are removed and replaced wholesale, so one that equals
// or escapes root would take other mods with it.
func CheckInstallDir(root, dir string) error {
	if root == "" || dir == "" {
		return fmt.Errorf("install directory %q is not inside mods directory %q", dir, root)
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(dir))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("install directory %q is not inside mods directory %q", dir, root)
	}
	return nil
}
