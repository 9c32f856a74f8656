package cmd

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"modfinder/config"
	"modfinder/mod"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"Hello World", 5, "He..."},
		{"Hi", 5, "Hi"},
		{"Test", 4, "Test"},
		{"LongString", 7, "Long..."},
		{"Überlänge", 7, "Über..."},
		{"魔法の剣と盾", 5, "魔法..."},
		{"Ärger", 5, "Ärger"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := truncate(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
			}
			if !utf8.ValidString(result) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.input, tt.maxLen)
			}
		})
	}
}

func testModel(t *testing.T, names ...string) Model {
	t.Helper()
	enabled, err := config.LoadEnabledMods(filepath.Join(t.TempDir(), "enabled.json"))
	if err != nil {
		t.Fatal(err)
	}
	a := &app{registry: mod.NewRegistry(), enabled: enabled}
	for _, name := range names {
		a.registry.GetOrAdd(mod.NewRecord(nexusManifest(name, "1.0.0")))
	}
	m := newModel(t.Context(), a, nil)
	m.records = a.registry.All()
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelNavigation(t *testing.T) {
	m := testModel(t, "A", "B", "C")

	next, _ := m.Update(key("j"))
	next, _ = next.Update(key("j"))
	next, _ = next.Update(key("j"))
	if got := next.(Model).selectedIndex; got != 2 {
		t.Errorf("selectedIndex = %d, want 2", got)
	}

	next, _ = next.Update(key("k"))
	if got := next.(Model).selectedIndex; got != 1 {
		t.Errorf("selectedIndex = %d, want 1", got)
	}
}

func TestModelIgnoresKeysWhileBusy(t *testing.T) {
	m := testModel(t, "A", "B")
	m.busy = "Installing A..."

	next, cmd := m.Update(key("j"))
	if next.(Model).selectedIndex != 0 || cmd != nil {
		t.Error("navigation should be ignored while an action runs")
	}
	if !strings.Contains(next.View(), "Installing A...") {
		t.Error("busy view should describe the running action")
	}
}

func TestModelToggleEnabled(t *testing.T) {
	m := testModel(t, "BubbleBuffs")

	next, cmd := m.Update(key("e"))
	if cmd == nil {
		t.Fatal("toggling should start an action")
	}
	if next.(Model).busy == "" {
		t.Error("model should be busy while saving")
	}

	msg := cmd()
	if done, ok := msg.(actionDoneMsg); !ok || done.err != "" {
		t.Fatalf("msg = %#v", msg)
	}
	if !m.records[0].Enabled || !m.app.enabled.Contains("BubbleBuffs") {
		t.Error("mod should be enabled")
	}

	next, _ = next.Update(msg)
	if next.(Model).busy != "" {
		t.Error("model should be idle after the action finished")
	}
}

func TestModelInstallWithoutGamePath(t *testing.T) {
	m := testModel(t, "BubbleBuffs")

	_, cmd := m.Update(key("i"))
	if cmd == nil {
		t.Fatal("install should start an action")
	}
	done, ok := cmd().(actionDoneMsg)
	if !ok || !strings.Contains(done.err, "game path") {
		t.Errorf("msg = %#v, want a game path error", done)
	}
}

func TestModelView(t *testing.T) {
	m := testModel(t, "BubbleBuffs")
	view := m.View()
	for _, want := range []string{"Mod Name", "BubbleBuffs", "not-installed", "q: quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := testModel(t)
	if !strings.Contains(empty.View(), "No mods found") {
		t.Error("empty view should explain that no mods are known")
	}
}
