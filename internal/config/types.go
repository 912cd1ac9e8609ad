// Package config resolves the Autorun configuration from host settings and
// an optional workspace configuration file.
package config

import (
	"fmt"
	"strings"
)

// DefaultConfigPath is the workspace-relative path of the workspace file
// when settings do not name one.
const DefaultConfigPath = "autorun.config.json"

// Layout is the spatial arrangement of launched terminal sessions.
type Layout string

const (
	// LayoutSplit launches terminals as a single row of split panes.
	LayoutSplit Layout = "split"
	// LayoutTabs launches each terminal in its own tab (tmux window).
	LayoutTabs Layout = "tabs"
)

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool {
	return l == LayoutSplit || l == LayoutTabs
}

// ParseLayout converts a user-supplied string into a Layout.
// Matching is exact, as in configuration files.
func ParseLayout(s string) (Layout, error) {
	l := Layout(s)
	if !l.Valid() {
		return "", fmt.Errorf("invalid layout %q: must be %q or %q", s, LayoutSplit, LayoutTabs)
	}
	return l, nil
}

// TerminalSpec describes one terminal session to launch.
type TerminalSpec struct {
	// Name is the title given to the terminal session.
	Name string `json:"name" yaml:"name"`
	// Command is typed into the terminal once it is ready.
	Command string `json:"command" yaml:"command"`
}

// ConfigSource indicates where a resolved configuration came from.
type ConfigSource string

const (
	// SourceSettings indicates the configuration came from host settings.
	SourceSettings ConfigSource = "settings"
	// SourceWorkspaceFile indicates the configuration came from the workspace file.
	SourceWorkspaceFile ConfigSource = "workspace-file"
)

// AutorunConfig is the normalized configuration consumed by the launcher.
// A new value is produced by every resolution; it is never mutated in place.
type AutorunConfig struct {
	Layout        Layout         `json:"layout" yaml:"layout"`
	Terminals     []TerminalSpec `json:"terminals" yaml:"terminals"`
	CloseExisting bool           `json:"closeExisting" yaml:"closeExisting"`
	LaunchOnStart bool           `json:"launchOnStart" yaml:"launchOnStart"`

	// Source and SourcePath record provenance. They do not affect launching.
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"sourcePath,omitempty" yaml:"sourcePath,omitempty"`
}

// TerminalNames returns the names of the configured terminals, in order.
func (c AutorunConfig) TerminalNames() []string {
	names := make([]string, len(c.Terminals))
	for i, t := range c.Terminals {
		names[i] = t.Name
	}
	return names
}

// String returns a one-line summary suitable for logs.
func (c AutorunConfig) String() string {
	return fmt.Sprintf("layout=%s terminals=[%s] closeExisting=%t launchOnStart=%t source=%s",
		c.Layout, strings.Join(c.TerminalNames(), ","), c.CloseExisting, c.LaunchOnStart, c.Source)
}

func cloneTerminals(in []TerminalSpec) []TerminalSpec {
	out := make([]TerminalSpec, len(in))
	copy(out, in)
	return out
}
