package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/inercia/autorun/internal/notify"
)

// Resolver produces the authoritative AutorunConfig from host settings and
// the workspace file.
//
// Precedence is strict: a workspace file that exists and validates replaces
// settings entirely; there is no field-by-field merge between the two
// sources. Inside the file, omitted layout, closeExisting and launchOnStart
// fall back to the settings-derived values.
type Resolver struct {
	settings SettingsSource
	roots    []string
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewResolver creates a resolver. roots are the open workspace roots, in
// order; only the first one is consulted. A nil notifier discards warnings
// and a nil logger disables logging.
func NewResolver(settings SettingsSource, roots []string, notifier notify.Notifier, logger *slog.Logger) *Resolver {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Resolver{
		settings: settings,
		roots:    append([]string(nil), roots...),
		notifier: notifier,
		logger:   logger,
	}
}

// Resolve computes a fresh configuration. The only error it returns is a
// failure to read host settings; workspace file problems are reported as a
// warning and resolution falls back to settings.
func (r *Resolver) Resolve() (AutorunConfig, error) {
	settings, err := r.settings.Load()
	if err != nil {
		return AutorunConfig{}, err
	}
	fallback := settings.Fallback()

	path, err := r.workspaceFilePath(settings)
	if err != nil {
		return AutorunConfig{}, err
	}
	if path == "" {
		r.debug("No workspace open, using settings")
		return fallback, nil
	}

	wf, err := LoadWorkspaceFile(path)
	if err != nil {
		reason := err
		var fe *FileError
		if errors.As(err, &fe) {
			reason = fe.Err
		}
		configPath := settings.WorkspaceConfigPath()
		r.notifier.Warn(fmt.Sprintf("Invalid configuration in %s (%v); using settings instead", configPath, reason))
		if r.logger != nil {
			r.logger.Warn("Ignoring workspace configuration file",
				"path", path,
				"error", reason)
		}
		return fallback, nil
	}
	if wf == nil {
		r.debug("No workspace configuration file, using settings", "path", path)
		return fallback, nil
	}

	cfg := wf.Apply(fallback)
	r.debug("Using workspace configuration file",
		"path", path,
		"modified", wf.ModTime,
		"config", cfg.String())
	return cfg, nil
}

// WorkspaceFilePath returns the absolute workspace file location, or "" when
// no workspace root is open.
func (r *Resolver) WorkspaceFilePath() (string, error) {
	settings, err := r.settings.Load()
	if err != nil {
		return "", err
	}
	return r.workspaceFilePath(settings)
}

func (r *Resolver) workspaceFilePath(settings *Settings) (string, error) {
	if len(r.roots) == 0 {
		return "", nil
	}
	return ResolveWorkspacePath(r.roots[0], settings.WorkspaceConfigPath())
}

func (r *Resolver) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
