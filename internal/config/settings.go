package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/inercia/autorun/internal/appdir"
	"github.com/inercia/autorun/internal/fileutil"
)

// DefaultTmuxCommand is the tmux invocation used when settings do not name one.
const DefaultTmuxCommand = "tmux"

// Settings represents the persisted host settings in JSON format.
// It is stored in the Autorun data directory as settings.json.
// Absent keys take their documented defaults.
type Settings struct {
	// Layout is the layout used when the workspace file does not set one.
	// Default: "split"
	Layout Layout `json:"layout,omitempty"`
	// Terminals is the list of terminals to launch. Default: none.
	Terminals []TerminalSpec `json:"terminals,omitempty"`
	// CloseExisting disposes existing terminal sessions before launching.
	// Default: true
	CloseExisting *bool `json:"closeExisting,omitempty"`
	// LaunchOnStart enables launching from the startup event.
	// Default: true
	LaunchOnStart *bool `json:"launchOnStart,omitempty"`
	// ConfigPath is the workspace file path, relative to the first workspace root.
	// Default: "autorun.config.json"
	ConfigPath string `json:"configPath,omitempty"`
	// Tmux configures the tmux host binding.
	Tmux *TmuxSettings `json:"tmux,omitempty"`
}

// TmuxSettings configures how Autorun talks to tmux.
type TmuxSettings struct {
	// Command is the tmux invocation, split with shell quoting rules
	// (for example "tmux -L work"). Default: "tmux"
	Command string `json:"command,omitempty"`
	// Session is the tmux session Autorun manages when not running inside tmux.
	// Default: "autorun-<workspace basename>"
	Session string `json:"session,omitempty"`
}

// Validate checks the settings values that have a restricted domain.
func (s *Settings) Validate() error {
	if s.Layout == "" {
		return nil
	}
	if _, err := ParseLayout(string(s.Layout)); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

// Fallback returns the configuration derived from settings alone,
// with defaults substituted for absent keys.
func (s *Settings) Fallback() AutorunConfig {
	cfg := AutorunConfig{
		Layout:        LayoutSplit,
		Terminals:     cloneTerminals(s.Terminals),
		CloseExisting: true,
		LaunchOnStart: true,
		Source:        SourceSettings,
	}
	if s.Layout != "" {
		cfg.Layout = s.Layout
	}
	if s.CloseExisting != nil {
		cfg.CloseExisting = *s.CloseExisting
	}
	if s.LaunchOnStart != nil {
		cfg.LaunchOnStart = *s.LaunchOnStart
	}
	return cfg
}

// WorkspaceConfigPath returns the configured workspace file path.
func (s *Settings) WorkspaceConfigPath() string {
	if strings.TrimSpace(s.ConfigPath) == "" {
		return DefaultConfigPath
	}
	return s.ConfigPath
}

// TmuxCommand returns the configured tmux invocation.
func (s *Settings) TmuxCommand() string {
	if s.Tmux == nil || strings.TrimSpace(s.Tmux.Command) == "" {
		return DefaultTmuxCommand
	}
	return s.Tmux.Command
}

// TmuxSession returns the configured tmux session name, or "" for the default.
func (s *Settings) TmuxSession() string {
	if s.Tmux == nil {
		return ""
	}
	return strings.TrimSpace(s.Tmux.Session)
}

// SettingsSource provides host settings to the resolver.
type SettingsSource interface {
	Load() (*Settings, error)
}

// SettingsStore reads and writes settings.json.
type SettingsStore struct {
	// Path is the settings file location. Empty means the default
	// location inside the Autorun data directory.
	Path string
}

// NewSettingsStore returns a store for path, or for the default location
// when path is empty.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{Path: path}
}

// Location returns the settings file path.
func (s *SettingsStore) Location() (string, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	return appdir.SettingsPath()
}

// Load reads the settings file. A missing file yields empty settings, so
// every key takes its default.
func (s *SettingsStore) Load() (*Settings, error) {
	path, err := s.Location()
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := fileutil.ReadJSON(path, &settings); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", path, err)
	}
	return &settings, nil
}

// Save writes the settings file atomically.
// Before writing, the existing file (if any) is copied to settings.json.bak.
// Only one backup is maintained at a time.
func (s *SettingsStore) Save(settings *Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	path, err := s.Location()
	if err != nil {
		return err
	}
	if s.Path == "" {
		if err := appdir.EnsureDir(); err != nil {
			return err
		}
	}
	if err := fileutil.Backup(path); err != nil {
		return err
	}
	return fileutil.WriteJSONAtomic(path, settings, 0644)
}

// ToggleLaunchOnStart flips the launchOnStart setting, persists it and
// returns the new value.
func (s *SettingsStore) ToggleLaunchOnStart() (bool, error) {
	settings, err := s.Load()
	if err != nil {
		return false, err
	}
	enabled := !settings.Fallback().LaunchOnStart
	settings.LaunchOnStart = &enabled
	if err := s.Save(settings); err != nil {
		return false, fmt.Errorf("failed to save settings: %w", err)
	}
	return enabled, nil
}

// ResolveWorkspacePath returns the absolute location of configPath for the
// given workspace root. Absolute paths are returned unchanged.
func ResolveWorkspacePath(root, configPath string) (string, error) {
	if filepath.IsAbs(configPath) {
		return filepath.Clean(configPath), nil
	}
	abs, err := filepath.Abs(filepath.Join(root, configPath))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q against %q: %w", configPath, root, err)
	}
	return abs, nil
}
