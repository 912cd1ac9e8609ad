// Package launch realizes an Autorun configuration as running terminal
// sessions by driving a host terminal API.
package launch

import "context"

// SessionID is an opaque handle to a terminal session owned by the host.
type SessionID string

// Host is the terminal capability surface consumed by the orchestrator.
// The host owns every session; the orchestrator only appends to the
// registry or clears it.
type Host interface {
	// Sessions lists the currently open terminal sessions.
	Sessions(ctx context.Context) ([]SessionID, error)
	// Dispose closes a terminal session.
	Dispose(ctx context.Context, id SessionID) error
	// Create opens a new terminal session with the given name.
	Create(ctx context.Context, name string) (SessionID, error)
	// Show brings a session to the foreground and gives it focus.
	Show(ctx context.Context, id SessionID) error
	// Focused returns the session that currently has focus.
	Focused(ctx context.Context) (SessionID, error)
	// SendText types text into a session and submits it.
	SendText(ctx context.Context, id SessionID, text string) error
	// SplitActive splits the focused session. Focus moves to the new pane.
	SplitActive(ctx context.Context) error
	// RenameActive renames the focused session.
	RenameActive(ctx context.Context, name string) error
}

// Indicator displays whether launch-on-start is enabled, like a status bar
// item. It is a handle owned by whoever creates it and passed to the
// commands that update it.
type Indicator interface {
	SetLaunchOnStart(ctx context.Context, enabled bool) error
}
