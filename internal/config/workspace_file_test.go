package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseWorkspaceFile_JSON(t *testing.T) {
	data := `{
  "layout": "tabs",
  "terminals": [
    {"name": "web", "command": "npm run dev"},
    {"name": "api", "command": "go run ./cmd/api"}
  ],
  "closeExisting": false
}`
	wf, err := ParseWorkspaceFile("autorun.config.json", []byte(data))
	if err != nil {
		t.Fatalf("ParseWorkspaceFile failed: %v", err)
	}

	if wf.Layout == nil || *wf.Layout != LayoutTabs {
		t.Errorf("Layout = %v, want tabs", wf.Layout)
	}
	if len(wf.Terminals) != 2 {
		t.Fatalf("Terminals count = %d, want 2", len(wf.Terminals))
	}
	if wf.Terminals[1] != (TerminalSpec{Name: "api", Command: "go run ./cmd/api"}) {
		t.Errorf("second terminal = %+v", wf.Terminals[1])
	}
	if wf.CloseExisting == nil || *wf.CloseExisting {
		t.Errorf("CloseExisting = %v, want false", wf.CloseExisting)
	}
	if wf.LaunchOnStart != nil {
		t.Errorf("LaunchOnStart = %v, want nil when omitted", *wf.LaunchOnStart)
	}
}

func TestParseWorkspaceFile_YAML(t *testing.T) {
	data := `
layout: split
launchOnStart: false
terminals:
  - name: db
    command: docker compose up db
`
	wf, err := ParseWorkspaceFile("autorun.yaml", []byte(data))
	if err != nil {
		t.Fatalf("ParseWorkspaceFile failed: %v", err)
	}
	if wf.Layout == nil || *wf.Layout != LayoutSplit {
		t.Errorf("Layout = %v, want split", wf.Layout)
	}
	if len(wf.Terminals) != 1 || wf.Terminals[0].Command != "docker compose up db" {
		t.Errorf("Terminals = %+v", wf.Terminals)
	}
	if wf.LaunchOnStart == nil || *wf.LaunchOnStart {
		t.Errorf("LaunchOnStart = %v, want false", wf.LaunchOnStart)
	}
}

func TestParseWorkspaceFile_YAMLValidation(t *testing.T) {
	// A YAML boolean written as a string must fail the same way as in JSON.
	data := "terminals: []\ncloseExisting: \"yes\"\n"
	_, err := ParseWorkspaceFile("autorun.yml", []byte(data))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestParseWorkspaceFile_InvalidJSON(t *testing.T) {
	_, err := ParseWorkspaceFile("autorun.config.json", []byte(`{"terminals": [`))
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("error %T is not a *FileError", err)
	}
	if fe.Path != "autorun.config.json" {
		t.Errorf("FileError.Path = %q", fe.Path)
	}
	if errors.Is(err, ErrInvalidConfig) {
		t.Error("parse failures should not be reported as validation failures")
	}
}

func TestParseWorkspaceFile_Invalid(t *testing.T) {
	_, err := ParseWorkspaceFile("autorun.config.json", []byte(`{"layout": "grid", "terminals": []}`))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadWorkspaceFile_Missing(t *testing.T) {
	wf, err := LoadWorkspaceFile(filepath.Join(t.TempDir(), "autorun.config.json"))
	if err != nil {
		t.Fatalf("LoadWorkspaceFile failed: %v", err)
	}
	if wf != nil {
		t.Errorf("expected nil for missing file, got %+v", wf)
	}
}

func TestLoadWorkspaceFile_SetsModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autorun.config.json")
	if err := os.WriteFile(path, []byte(`{"terminals": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	wf, err := LoadWorkspaceFile(path)
	if err != nil {
		t.Fatalf("LoadWorkspaceFile failed: %v", err)
	}
	if wf == nil {
		t.Fatal("expected workspace file, got nil")
	}
	if wf.ModTime.IsZero() {
		t.Error("ModTime should be set")
	}
	if wf.Path != path {
		t.Errorf("Path = %q, want %q", wf.Path, path)
	}
}

func TestWorkspaceFileApply(t *testing.T) {
	fallback := AutorunConfig{
		Layout:        LayoutTabs,
		Terminals:     []TerminalSpec{{Name: "from-settings", Command: "true"}},
		CloseExisting: false,
		LaunchOnStart: false,
		Source:        SourceSettings,
	}

	layout := LayoutSplit
	wf := &WorkspaceFile{
		Path:          "/ws/autorun.config.json",
		Layout:        &layout,
		Terminals:     []TerminalSpec{},
		CloseExisting: boolPtr(true),
	}
	cfg := wf.Apply(fallback)

	if cfg.Layout != LayoutSplit {
		t.Errorf("Layout = %q, want split from file", cfg.Layout)
	}
	if !cfg.CloseExisting {
		t.Error("CloseExisting should come from the file")
	}
	if cfg.LaunchOnStart {
		t.Error("LaunchOnStart should fall back to settings")
	}
	if len(cfg.Terminals) != 0 {
		t.Errorf("Terminals = %+v, want the file's empty list", cfg.Terminals)
	}
	if cfg.Source != SourceWorkspaceFile || cfg.SourcePath != "/ws/autorun.config.json" {
		t.Errorf("provenance = %q %q", cfg.Source, cfg.SourcePath)
	}
}
