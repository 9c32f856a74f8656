package cache

import (
	"os"
	"path/filepath"
	"testing"

	"modfinder/db"
	"modfinder/mod"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.Open failed: %v", err)
	}
	return New(gdb, filepath.Join(t.TempDir(), "cache"), zap.NewNop().Sugar())
}

func installedRecord(t *testing.T, root string) *mod.Record {
	t.Helper()
	dir := filepath.Join(root, "BubbleBuffs")
	if err := os.MkdirAll(filepath.Join(dir, "Assets"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Info.json"), []byte(`{"Id":"BubbleBuffs","Version":"1.0.0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Assets", "data.bin"), []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := mod.NewRecord(mod.Manifest{ID: mod.ID{ID: "BubbleBuffs", Type: mod.TypeUMM}, Name: "Bubble Buffs"})
	rec.Installed = semver.MustParse("1.0.0")
	rec.State = mod.Installed
	rec.InstallDir = dir
	return rec
}

func TestCacheAndRestore(t *testing.T) {
	store := newTestStore(t)
	root := t.TempDir()
	rec := installedRecord(t, root)

	if err := store.Cache(rec); err != nil {
		t.Fatalf("Cache failed: %v", err)
	}

	// Simulate an update overwriting the files.
	dataPath := filepath.Join(rec.InstallDir, "Assets", "data.bin")
	if err := os.WriteFile(dataPath, []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rec.InstallDir, "new.txt"), []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}

	snap, ok := store.TryRestore(rec.ID(), root)
	if !ok {
		t.Fatal("TryRestore returned false")
	}
	if snap.Version == nil || snap.Version.String() != "1.0.0" {
		t.Errorf("restored version = %v, want 1.0.0", snap.Version)
	}
	if snap.InstallDir != rec.InstallDir {
		t.Errorf("restored dir = %s, want %s", snap.InstallDir, rec.InstallDir)
	}

	data, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("restored file missing: %v", err)
	}
	if string(data) != "v1" {
		t.Errorf("restored content = %q, want v1", data)
	}
	if _, err := os.Stat(filepath.Join(rec.InstallDir, "new.txt")); !os.IsNotExist(err) {
		t.Error("files added after the snapshot should be gone")
	}

	mods, err := db.InstalledMods(store.db)
	if err != nil {
		t.Fatalf("InstalledMods failed: %v", err)
	}
	if len(mods) != 1 || mods[0].Version != "1.0.0" {
		t.Errorf("installed rows = %+v", mods)
	}
}

func TestTryRestoreWithoutSnapshot(t *testing.T) {
	store := newTestStore(t)
	if _, ok := store.TryRestore(mod.ID{ID: "missing", Type: mod.TypeUMM}, t.TempDir()); ok {
		t.Fatal("TryRestore should fail without a snapshot")
	}
	if _, ok := store.Lookup(mod.ID{ID: "missing", Type: mod.TypeUMM}); ok {
		t.Fatal("Lookup should fail without a snapshot")
	}
}

func TestTryRestoreMissingArchive(t *testing.T) {
	store := newTestStore(t)
	root := t.TempDir()
	rec := installedRecord(t, root)
	if err := store.Cache(rec); err != nil {
		t.Fatalf("Cache failed: %v", err)
	}
	if err := os.Remove(store.archivePath(rec.ID())); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.TryRestore(rec.ID(), root); ok {
		t.Fatal("TryRestore should fail when the archive is gone")
	}
	if _, err := os.Stat(rec.InstallDir); err != nil {
		t.Error("current install should be left alone when the archive is gone")
	}
}

func TestCacheWithoutInstallDir(t *testing.T) {
	store := newTestStore(t)
	rec := mod.NewRecord(mod.Manifest{ID: mod.ID{ID: "a", Type: mod.TypeUMM}})

	if err := store.Cache(rec); err != nil {
		t.Fatalf("Cache failed: %v", err)
	}
	if _, ok := store.Lookup(rec.ID()); ok {
		t.Fatal("nothing should have been cached")
	}

	rec.InstallDir = filepath.Join(t.TempDir(), "gone")
	if err := store.Cache(rec); err != nil {
		t.Fatalf("Cache with missing dir failed: %v", err)
	}
	if _, ok := store.Lookup(rec.ID()); ok {
		t.Fatal("nothing should have been cached for a missing dir")
	}
}

func TestTryRestoreRefusesDirOutsideRoot(t *testing.T) {
	store := newTestStore(t)
	root := t.TempDir()
	rec := installedRecord(t, root)
	other := filepath.Join(root, "OtherMod", "Other.dll")
	if err := os.MkdirAll(filepath.Dir(other), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(other, []byte("other"), 0644); err != nil {
		t.Fatal(err)
	}

	// A snapshot recorded for the whole mods directory
	rec.InstallDir = root
	if err := store.Cache(rec); err != nil {
		t.Fatalf("Cache failed: %v", err)
	}

	if _, ok := store.TryRestore(rec.ID(), root); ok {
		t.Fatal("a snapshot of the mods directory itself must not be restored")
	}
	if _, ok := store.TryRestore(rec.ID(), filepath.Join(root, "BubbleBuffs")); ok {
		t.Fatal("a snapshot outside the mods directory must not be restored")
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("other mods should be left alone: %v", err)
	}
}

func TestCacheArchiveLayout(t *testing.T) {
	store := newTestStore(t)
	rec := installedRecord(t, t.TempDir())

	if err := store.Cache(rec); err != nil {
		t.Fatalf("Cache failed: %v", err)
	}

	want := filepath.Join(store.dir, "UMM", "BubbleBuffs.zip")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("snapshot not at %s: %v", want, err)
	}
	snap, ok := store.Lookup(rec.ID())
	if !ok || snap.InstallDir != rec.InstallDir {
		t.Errorf("Lookup = %+v, %v", snap, ok)
	}
}
