package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inercia/autorun/internal/appdir"
)

func boolPtr(b bool) *bool { return &b }

func TestSettingsFallback_Defaults(t *testing.T) {
	cfg := (&Settings{}).Fallback()

	if cfg.Layout != LayoutSplit {
		t.Errorf("Layout = %q, want %q", cfg.Layout, LayoutSplit)
	}
	if cfg.Terminals == nil || len(cfg.Terminals) != 0 {
		t.Errorf("Terminals = %#v, want empty non-nil slice", cfg.Terminals)
	}
	if !cfg.CloseExisting {
		t.Error("CloseExisting should default to true")
	}
	if !cfg.LaunchOnStart {
		t.Error("LaunchOnStart should default to true")
	}
	if cfg.Source != SourceSettings {
		t.Errorf("Source = %q, want %q", cfg.Source, SourceSettings)
	}
}

func TestSettingsFallback_Values(t *testing.T) {
	s := &Settings{
		Layout:        LayoutTabs,
		Terminals:     []TerminalSpec{{Name: "web", Command: "npm start"}},
		CloseExisting: boolPtr(false),
		LaunchOnStart: boolPtr(false),
	}
	cfg := s.Fallback()

	if cfg.Layout != LayoutTabs {
		t.Errorf("Layout = %q, want %q", cfg.Layout, LayoutTabs)
	}
	if len(cfg.Terminals) != 1 || cfg.Terminals[0].Name != "web" {
		t.Errorf("Terminals = %#v", cfg.Terminals)
	}
	if cfg.CloseExisting || cfg.LaunchOnStart {
		t.Errorf("booleans not taken from settings: %+v", cfg)
	}

	// The fallback must not alias the settings slice.
	cfg.Terminals[0].Name = "changed"
	if s.Terminals[0].Name != "web" {
		t.Error("Fallback() shares the terminals slice with settings")
	}
}

func TestSettings_Accessors(t *testing.T) {
	s := &Settings{}
	if got := s.WorkspaceConfigPath(); got != DefaultConfigPath {
		t.Errorf("WorkspaceConfigPath() = %q, want %q", got, DefaultConfigPath)
	}
	if got := s.TmuxCommand(); got != DefaultTmuxCommand {
		t.Errorf("TmuxCommand() = %q, want %q", got, DefaultTmuxCommand)
	}
	if got := s.TmuxSession(); got != "" {
		t.Errorf("TmuxSession() = %q, want empty", got)
	}

	s = &Settings{ConfigPath: ".autorun.yaml", Tmux: &TmuxSettings{Command: "tmux -L work", Session: " dev "}}
	if got := s.WorkspaceConfigPath(); got != ".autorun.yaml" {
		t.Errorf("WorkspaceConfigPath() = %q", got)
	}
	if got := s.TmuxCommand(); got != "tmux -L work" {
		t.Errorf("TmuxCommand() = %q", got)
	}
	if got := s.TmuxSession(); got != "dev" {
		t.Errorf("TmuxSession() = %q", got)
	}
}

func TestSettingsStore_LoadMissing(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"))

	s, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.Layout != "" || s.Terminals != nil || s.CloseExisting != nil {
		t.Errorf("expected empty settings, got %+v", s)
	}
}

func TestSettingsStore_LoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed JSON", `{"layout": `, "failed to read settings file"},
		{"bad layout", `{"layout": "grid"}`, "invalid layout"},
		{"wrong type", `{"closeExisting": "yes"}`, "failed to read settings file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := NewSettingsStore(path).Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSettingsStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewSettingsStore(path)

	want := &Settings{
		Layout:    LayoutTabs,
		Terminals: []TerminalSpec{{Name: "api", Command: "go run ./cmd/api"}},
		Tmux:      &TmuxSettings{Session: "dev"},
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got.Layout != LayoutTabs || len(got.Terminals) != 1 || got.TmuxSession() != "dev" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// A second save keeps a backup of the first.
	if err := store.Save(&Settings{}); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("expected backup file: %v", err)
	}
}

func TestSettingsStore_SaveRejectsInvalid(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	if err := store.Save(&Settings{Layout: "grid"}); err == nil {
		t.Error("expected error saving invalid layout")
	}
}

func TestSettingsStore_DefaultLocation(t *testing.T) {
	appdir.ResetCache()
	t.Cleanup(appdir.ResetCache)
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv(appdir.AutorunDirEnv, dir)

	store := NewSettingsStore("")
	if err := store.Save(&Settings{Layout: LayoutSplit}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, appdir.SettingsFileName)); err != nil {
		t.Errorf("settings not written to data dir: %v", err)
	}
}

func TestSettingsStore_ToggleLaunchOnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewSettingsStore(path)

	// Default is true, so the first toggle disables.
	enabled, err := store.ToggleLaunchOnStart()
	if err != nil {
		t.Fatalf("ToggleLaunchOnStart() failed: %v", err)
	}
	if enabled {
		t.Error("first toggle should disable launch on start")
	}

	s, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if s.LaunchOnStart == nil || *s.LaunchOnStart {
		t.Errorf("persisted LaunchOnStart = %v, want false", s.LaunchOnStart)
	}

	enabled, err = store.ToggleLaunchOnStart()
	if err != nil {
		t.Fatalf("ToggleLaunchOnStart() failed: %v", err)
	}
	if !enabled {
		t.Error("second toggle should enable launch on start")
	}
}

func TestResolveWorkspacePath(t *testing.T) {
	root := t.TempDir()

	got, err := ResolveWorkspacePath(root, "autorun.config.json")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(root, "autorun.config.json") {
		t.Errorf("relative path resolved to %q", got)
	}

	abs := filepath.Join(t.TempDir(), "elsewhere.json")
	got, err = ResolveWorkspacePath(root, abs)
	if err != nil {
		t.Fatal(err)
	}
	if got != abs {
		t.Errorf("absolute path resolved to %q, want %q", got, abs)
	}
}
